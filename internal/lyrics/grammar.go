package lyrics

import (
	"regexp"
	"strings"
)

// chordRegex matches a single chord token: root note, optional accidental,
// any number of known quality/extension suffixes and optional slash bass.
var chordRegex = regexp.MustCompile(`(?i)^[A-H][b#]?(` +
	`2|5|6|7|9|11|13|\+[2-9]|\+1[1-3]|6/9|7[-#]5|7[-#]9|7\+[35]|7\+9|7b[59]|` +
	`7sus[24]|sus4|add[2469]|aug|dim|dim7|m/maj7|m[67]|m7b5|m(?:9|11|13)|` +
	`maj[79]?|maj1[1-3]|mb5|m|sus[24]?|m7add11|add11|b5|-5|4` +
	`)*(/[A-H][b#]*)*$`)

// chordSymbols are chord sheet punctuation. A token containing any of them
// counts as part of a chord line.
var chordSymbols = []string{"|", "/", "(", ")", "-", "x2", "x3", "x4", "x5", "x6", "NC"}

// sectionLabels holds lower-cased section label prefixes with the trailing
// ":" or "|" delimiter already stripped.
var sectionLabels = buildSectionLabels()

var rawSectionLabels = []string{
	"Вступление:", "Интро:", "Куплет:", "Припев:", "Переход:", "Реп:",
	"Мост:", "Мостик:", "Вставка:", "Речитатив:", "Бридж:", "Инструментал:",
	"Проигрыш:", "Запев:", "Концовка:", "Окончание:", "В конце:", "Кода:", "Тэг:",
	"Intro:", "Verse:", "Chorus:", "Pre chorus:", "Pre-chorus:", "Bridge:",
	"Instrumental:", "Ending:", "Outro:", "Interlude:", "Rap:", "Spontaneous:",
	"Refrain:", "Tag:", "Coda:", "Vamp:", "Channel:", "Breakdown:", "Hook:",
	"Вступ:", "Приспів:", "Брідж:", "Заспів:", "Міст:", "Програш:",
	"Перехід:", "Інтро:", "Повтор:", "Кінець:", "Тег:",
}

func buildSectionLabels() []string {
	labels := make([]string, 0, len(rawSectionLabels)+10)
	// numbered markers like "1:" or "2|"
	for d := '0'; d <= '9'; d++ {
		labels = append(labels, string(d))
	}
	for _, label := range rawSectionLabels {
		labels = append(labels, strings.TrimRight(strings.ToLower(label), ":|"))
	}
	return labels
}

// numberedSectionRegex matches "2 verse", "1куплет", "3 Bridge ..." at line start.
var numberedSectionRegex = regexp.MustCompile(`(?i)^(\d+)\s*(куплет|бридж|verse|bridge)`)

// htmlEntityRegex matches leftovers like &nbsp; or &#39;.
var htmlEntityRegex = regexp.MustCompile(`&[\p{L}\p{N}_#]+;`)

// IsChordToken reports whether a whitespace-free token looks like a chord
// or chord sheet punctuation.
func IsChordToken(token string) bool {
	if chordRegex.MatchString(token) {
		return true
	}
	for _, sym := range chordSymbols {
		if strings.Contains(token, sym) {
			return true
		}
	}
	return false
}

// IsChordLine reports whether every token of the line is a chord token.
// Blank lines are not chord lines.
func IsChordLine(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !IsChordToken(t) {
			return false
		}
	}
	return true
}

// IsSectionLabel reports whether the line starts with a known section label.
func IsSectionLabel(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, label := range sectionLabels {
		if strings.HasPrefix(lower, label) {
			return true
		}
	}
	return false
}
