package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	content := "<!DOCTYPE NETSCAPE-Bookmark-file-1>\r\n\n   \t\n  <TITLE>x</TITLE>  \n\n<DL><p>"
	got := SplitLines(content)
	assert.Equal(t, []Line{
		{0, "<!DOCTYPE NETSCAPE-Bookmark-file-1>"},
		{3, "<TITLE>x</TITLE>"},
		{5, "<DL><p>"},
	}, got)
}

func TestSplitLinesEmpty(t *testing.T) {
	assert.Empty(t, SplitLines(""))
	assert.Empty(t, SplitLines("\n \n\t"))
}

func TestSplitLinesKeepsZero(t *testing.T) {
	assert.Equal(t, []Line{{1, "0"}}, SplitLines("\n0\n"))
}
