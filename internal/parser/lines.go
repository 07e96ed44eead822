package parser

import (
	"strings"
)

// Line is one non-blank line of a bookmark file
type Line struct {
	Index int    // 0-based position in the original text
	Text  string // trimmed content
}

// SplitLines splits raw file content on newlines, trims every line and
// drops the blank ones. Indices keep their original positions so gaps are
// expected.
func SplitLines(content string) []Line {
	raw := strings.Split(content, "\n")
	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Index: i, Text: text})
	}
	return lines
}
