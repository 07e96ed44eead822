package parser

import (
	"fmt"
	"strings"
)

// LineKind classifies a single line of a bookmark export file
type LineKind int

const (
	KindUnknown LineKind = iota
	KindDoctype
	KindComment // reserved, never produced by Classify
	KindCommentStart
	KindCommentEnd
	KindMeta
	KindTitle
	KindHeading
	KindListStart
	KindListHeading
	KindListItem
	KindListEnd
)

func (k LineKind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindDoctype:
		return "Doctype"
	case KindComment:
		return "Comment"
	case KindCommentStart:
		return "CommentStart"
	case KindCommentEnd:
		return "CommentEnd"
	case KindMeta:
		return "Meta"
	case KindTitle:
		return "Title"
	case KindHeading:
		return "Heading"
	case KindListStart:
		return "ListStart"
	case KindListHeading:
		return "ListHeading"
	case KindListItem:
		return "ListItem"
	case KindListEnd:
		return "ListEnd"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Ignored reports whether lines of this kind never affect a parse result
func (k LineKind) Ignored() bool {
	switch k {
	case KindUnknown, KindCommentStart, KindCommentEnd, KindComment:
		return true
	}
	return false
}

// linePrefixes is evaluated in order, first match wins.
var linePrefixes = []struct {
	prefix string
	kind   LineKind
}{
	{"<!doctype ", KindDoctype},
	{"<meta ", KindMeta},
	{"<title>", KindTitle},
	{"<h1>", KindHeading},
	{"<dl><p>", KindListStart},
	{"</dl><p>", KindListEnd},
	{"<dt><h3", KindListHeading},
	{"<dt><a ", KindListItem},
}

// Classify returns the kind of a bookmark file line. Matching is
// case-insensitive and ignores surrounding whitespace.
func Classify(text string) LineKind {
	line := strings.ToLower(strings.TrimSpace(text))

	for _, p := range linePrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return p.kind
		}
	}
	if strings.Contains(line, "<!-- ") {
		return KindCommentStart
	}
	if strings.Contains(line, " -->") {
		return KindCommentEnd
	}
	return KindUnknown
}
