// Package lyrics turns raw song texts from the catalog into clean lyrics:
// chord lines go away, section headers get a canonical form.
package lyrics

import (
	"strings"
)

const (
	headerMarker  = "##("
	dividerMarker = "//"
)

// Normalize converts raw lyrics into the canonical display form. It never
// fails: degenerate input yields an empty string.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	text := stripEntities(raw)

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if out, ok := Classify(line).Render(); ok {
			kept = append(kept, out)
		}
	}

	return strings.TrimSpace(strings.Join(spaceHeaders(kept), "\n"))
}

// stripEntities removes HTML entities until none are left, so entities
// that only appear after an inner one is removed go away too.
func stripEntities(text string) string {
	for {
		stripped := htmlEntityRegex.ReplaceAllString(text, "")
		if stripped == text {
			return text
		}
		text = stripped
	}
}

// spaceHeaders separates "##(" header blocks with a single blank line and
// drops "//" divider lines.
func spaceHeaders(lines []string) []string {
	result := make([]string, 0, len(lines))
	foundHeader := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, headerMarker) {
			if foundHeader && len(result) > 0 && result[len(result)-1] != "" {
				result = append(result, "")
			}
			foundHeader = true
		}
		if line != dividerMarker {
			result = append(result, line)
		}
	}
	return result
}
