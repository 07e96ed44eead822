package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progeja/nsbookmarks/internal/parser"
)

const export = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
<DT><H3 ADD_DATE="1" LAST_MODIFIED="2">Folder</H3>
<DL><p>
<DT><A HREF="http://a" ADD_DATE="3" ICON="data:x">A</A>
<DT><H3>Inner</H3>
<DL><p>
<DT><A HREF="http://b">B</A>
</DL><p>
</DL><p>
<DT><A HREF="http://c">C</A>
</DL><p>
`

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func parse(t *testing.T, asTree bool) *parser.Document {
	t.Helper()
	doc, err := parser.NewParser().ParseString(export, asTree)
	require.NoError(t, err)
	return doc
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	doc := parse(t, false)

	id, err := s.SaveDocument(ctx, "bookmarks.html", doc)
	require.NoError(t, err)

	got, err := s.LoadDocument(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, []string{"HREF", "ADD_DATE", "ICON"}, got.List[1].Attributes.Names())
	assert.Equal(t, []string{"HTTP-EQUIV", "CONTENT"}, got.Meta[0].Names())
}

func TestSaveAndLoadEmptyMeta(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	content := strings.Replace(export, "<TITLE>", "<META NAME>\n<META CONTENT=\"x\">\n<TITLE>", 1)
	doc, err := parser.NewParser().ParseString(content, false)
	require.NoError(t, err)
	require.Len(t, doc.Meta, 3)

	id, err := s.SaveDocument(ctx, "x.html", doc)
	require.NoError(t, err)

	got, err := s.LoadDocument(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, doc.Meta, got.Meta)
	assert.Empty(t, got.Meta[1])
	assert.Equal(t, parser.Attributes{{Name: "CONTENT", Value: "x"}}, got.Meta[2])
}

func TestLoadAsTree(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	id, err := s.SaveDocument(ctx, "bookmarks.html", parse(t, false))
	require.NoError(t, err)

	got, err := s.LoadDocument(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, parse(t, true), got)
}

func TestSaveTreeStoresFlat(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	id, err := s.SaveDocument(ctx, "tree.html", parse(t, true))
	require.NoError(t, err)

	got, err := s.LoadDocument(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, parse(t, false).List, got.List)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = s.SaveDocument(ctx, "one.html", parse(t, false))
	require.NoError(t, err)
	empty, err := parser.NewParser().ParseString(parser.Doctype, false)
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, "two.html", empty)
	require.NoError(t, err)

	docs, err = s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "one.html", docs[0].Source)
	assert.Equal(t, "Bookmarks", docs[0].Title)
	assert.Equal(t, 2, docs[0].Folders)
	assert.Equal(t, 3, docs[0].Links)
	assert.False(t, docs[0].ImportedAt.IsZero())
	assert.Equal(t, 0, docs[1].Folders)
	assert.Equal(t, 0, docs[1].Links)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.LoadDocument(ctx, 42, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteDocument(ctx, 42), ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	id, err := s.SaveDocument(ctx, "x.html", parse(t, false))
	require.NoError(t, err)
	require.NoError(t, s.DeleteDocument(ctx, id))

	for _, table := range []string{"node_attributes", "meta", "meta_entries"} {
		var n int
		require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}
	_, err = s.LoadDocument(ctx, id, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookmarks.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveDocument(ctx, "x.html", parse(t, false))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.LoadDocument(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, "Bookmarks", got.Title)
}

func TestOpenFileNameWithURIChars(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "my bookmarks?v=1#x%41.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err, "database must be created under its literal name")

	var fk int
	require.NoError(t, s.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	var mode string
	require.NoError(t, s.db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
