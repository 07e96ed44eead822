package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"<!DOCTYPE NETSCAPE-Bookmark-file-1>", KindDoctype},
		{"<!doctype html>", KindDoctype},
		{`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">`, KindMeta},
		{"<TITLE>Bookmarks</TITLE>", KindTitle},
		{"<H1>Bookmarks</H1>", KindHeading},
		{"<DL><p>", KindListStart},
		{"</DL><p>", KindListEnd},
		{`<DT><H3 ADD_DATE="1">Folder</H3>`, KindListHeading},
		{"<DT><H3>Folder</H3>", KindListHeading},
		{`<DT><A HREF="http://x">Link</A>`, KindListItem},
		{"<!-- This is an automatically generated file.", KindCommentStart},
		{"It will be read and overwritten. -->", KindCommentEnd},
		{"<DD>a description", KindUnknown},
		{"<DT><A>no attributes</A>", KindUnknown},
		{"", KindUnknown},
		{"   <dl><P>   ", KindListStart},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	// prefix rules win over comment markers found later in the line
	assert.Equal(t, KindListItem, Classify(`<DT><A HREF="x">a <!-- b --></A>`))
	// comment start wins over comment end on the same line
	assert.Equal(t, KindCommentStart, Classify("<!-- single line comment -->"))
}

func TestLineKindIgnored(t *testing.T) {
	ignored := map[LineKind]bool{
		KindUnknown:      true,
		KindComment:      true,
		KindCommentStart: true,
		KindCommentEnd:   true,
	}
	for k := KindUnknown; k <= KindListEnd; k++ {
		assert.Equal(t, ignored[k], k.Ignored(), "kind %s", k)
	}
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "ListHeading", KindListHeading.String())
	assert.Equal(t, "LineKind(99)", LineKind(99).String())
}
