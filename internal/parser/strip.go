package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes all markup from a line and returns its visible text.
// Entities are kept as written and whitespace is not trimmed.
func StripTags(line string) string {
	z := html.NewTokenizer(strings.NewReader(line))
	var buf strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			// <title>, <textarea> and the like would swallow the rest of
			// the line as raw text, closing tags included
			z.NextIsNotRawText()
		case html.TextToken:
			buf.Write(z.Raw())
		}
	}
}
