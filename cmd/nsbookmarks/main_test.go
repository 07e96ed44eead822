package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
<DT><H3>Folder</H3>
<DL><p>
<DT><A HREF="http://x">Link</A>
</DL><p>
</DL><p>
`

// execute runs the root command with args in an isolated home and working
// directory and returns what it wrote to stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	bindFlags()
	resetFlags(rootCmd)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags puts every flag back to its default, flag values otherwise
// survive between Execute calls
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.html")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeExport(t)
	out, err := execute(t, "parse", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"list":{"4":{"id":4,"parent":0,"kind":"head","text":"Folder"`)
	assert.Contains(t, out, `"6":{"id":6,"parent":4,"kind":"item","text":"Link","attributes":{"HREF":"http://x"}}`)
}

func TestParseCommandOutFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	outputFs = fs
	t.Cleanup(func() { outputFs = afero.NewOsFs() })

	out, err := execute(t, "parse", writeExport(t), "--format", "yaml", "--out", "/out.yaml")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := afero.ReadFile(fs, "/out.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Bookmarks")
}

func TestParseCommandErrors(t *testing.T) {
	_, err := execute(t, "parse", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = execute(t, "parse", writeExport(t), "--format", "xml")
	assert.Error(t, err)
}

func TestImportAndList(t *testing.T) {
	path := writeExport(t)
	db := filepath.Join(t.TempDir(), "data", "bookmarks.db")

	_, err := execute(t, "import", path, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarks")
	assert.Contains(t, out, path)
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-1", "x"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
