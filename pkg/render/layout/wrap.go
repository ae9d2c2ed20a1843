package layout

import "strings"

// Wrap greedily breaks text into lines no wider than maxWidth at face.
//
// Words are separated by whitespace and never broken: a single word wider
// than maxWidth is placed on its own line and is the only line allowed to
// exceed the width. Empty or blank text yields no lines.
func Wrap(text string, face Face, maxWidth int) []string {
	var lines []string
	current := ""

	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if face.Width(candidate) <= float64(maxWidth) {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
