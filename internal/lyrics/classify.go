package lyrics

import (
	"strings"
)

// Kind is the classification of a single lyrics line.
type Kind int

const (
	KindBlank Kind = iota
	KindChord
	KindNumberedSection
	KindLabeledSection
	KindPlain
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindChord:
		return "chord"
	case KindNumberedSection:
		return "numbered_section"
	case KindLabeledSection:
		return "labeled_section"
	case KindPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// SectionType is the kind of a numbered section.
type SectionType string

const (
	SectionVerse  SectionType = "Verse"
	SectionBridge SectionType = "Bridge"
)

// Line is a classified lyrics line.
type Line struct {
	Kind Kind
	// Text is the trimmed source line.
	Text string
	// Number and Section are set for KindNumberedSection only.
	Number  string
	Section SectionType
}

// Classify assigns exactly one Kind to the line. The checks run in
// precedence order: blank, chord, numbered section, labeled section, plain.
// For a line starting with a section label the chord check ignores one
// trailing ":" or "|", so "Chorus|" stays a label while "2/4 Am G" is
// still dropped.
func Classify(raw string) Line {
	text := strings.TrimSpace(raw)
	label := IsSectionLabel(text)
	switch {
	case text == "":
		return Line{Kind: KindBlank}
	case label && IsChordLine(trimLabelDelimiter(text)):
		return Line{Kind: KindChord, Text: text}
	case !label && IsChordLine(text):
		return Line{Kind: KindChord, Text: text}
	}

	if m := numberedSectionRegex.FindStringSubmatch(text); m != nil {
		return Line{
			Kind:    KindNumberedSection,
			Text:    text,
			Number:  m[1],
			Section: sectionTypeOf(m[2]),
		}
	}

	if label {
		return Line{Kind: KindLabeledSection, Text: text}
	}

	return Line{Kind: KindPlain, Text: text}
}

// trimLabelDelimiter removes one trailing ":" or "|".
func trimLabelDelimiter(text string) string {
	if strings.HasSuffix(text, ":") || strings.HasSuffix(text, "|") {
		return text[:len(text)-1]
	}
	return text
}

func sectionTypeOf(word string) SectionType {
	switch strings.ToLower(word) {
	case "бридж", "bridge":
		return SectionBridge
	default:
		return SectionVerse
	}
}

// Render returns the display form of the line. The second value is false
// when the line is dropped from the output.
func (l Line) Render() (string, bool) {
	switch l.Kind {
	case KindBlank, KindChord:
		return "", false
	case KindNumberedSection:
		return string(l.Section) + " " + l.Number + ":", true
	case KindLabeledSection:
		return trimLabelDelimiter(l.Text) + ":", true
	default:
		return l.Text, true
	}
}
