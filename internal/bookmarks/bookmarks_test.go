package bookmarks

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progeja/nsbookmarks/internal/parser"
)

const export = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>

<DL><p>
    <DT><H3 ADD_DATE="1">Folder</H3>
    <DL><p>
        <DT><A HREF="http://x">Link</A>
    </DL><p>
</DL><p>
`

func memLoader(t *testing.T, files map[string]string, opts ...parser.Option) *Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return NewLoader(opts...).WithFs(fs)
}

func TestReadLines(t *testing.T) {
	l := memLoader(t, map[string]string{"/b.html": export})
	lines, err := l.ReadLines("/b.html")
	require.NoError(t, err)
	require.Len(t, lines, 9)
	assert.Equal(t, parser.Line{Index: 4, Text: "<DL><p>"}, lines[3])
}

func TestFileToDocument(t *testing.T) {
	l := memLoader(t, map[string]string{"/b.html": export})

	doc, err := l.FileToDocument("/b.html", false)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7}, doc.List.IDs())
	assert.Equal(t, 5, doc.List[1].Parent)

	tree, err := l.FileToDocument("/b.html", true)
	require.NoError(t, err)
	require.Len(t, tree.List, 1)
	assert.Equal(t, []int{7}, tree.List[0].Children.IDs())
}

func TestFileToJSON(t *testing.T) {
	l := memLoader(t, map[string]string{"/b.html": export})
	data, err := l.FileToJSON("/b.html", true)
	require.NoError(t, err)

	var got struct {
		Title string `json:"title"`
		List  map[string]struct {
			Children map[string]struct {
				Text string `json:"text"`
			} `json:"children"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Bookmarks", got.Title)
	assert.Equal(t, "Link", got.List["5"].Children["7"].Text)
}

func TestFileToYAML(t *testing.T) {
	l := memLoader(t, map[string]string{"/b.html": export})
	data, err := l.FileToYAML("/b.html", false)
	require.NoError(t, err)
	assert.Contains(t, string(data), "text: Link")
}

func TestUnreadableSource(t *testing.T) {
	l := memLoader(t, nil)
	_, err := l.FileToDocument("/missing.html", false)
	assert.ErrorIs(t, err, ErrUnreadableSource)
	assert.Contains(t, err.Error(), "/missing.html")

	_, err = l.FileToJSON("/missing.html", false)
	assert.ErrorIs(t, err, ErrUnreadableSource)
}

func TestInvalidFormatFromFile(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/empty.html": "\n \n",
		"/html.html":  "<!DOCTYPE HTML>\n<TITLE>x</TITLE>\n",
	})
	for _, name := range []string{"/empty.html", "/html.html"} {
		doc, err := l.FileToDocument(name, false)
		assert.ErrorIs(t, err, parser.ErrInvalidFormat, name)
		assert.Nil(t, doc)
	}
}

func TestStrictLoader(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/bad.html": "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n</DL><p>\n",
	}, parser.WithStrict(true))
	_, err := l.FileToDocument("/bad.html", false)
	assert.ErrorIs(t, err, parser.ErrUnbalanced)
}
