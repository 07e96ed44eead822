// Package bookmarks reads Netscape bookmark export files from disk and hands
// them to the parser and encoders.
package bookmarks

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/progeja/nsbookmarks/internal/encode"
	"github.com/progeja/nsbookmarks/internal/parser"
)

// ErrUnreadableSource means the bookmark file could not be read
var ErrUnreadableSource = errors.New("cannot read bookmarks file")

// Loader reads bookmark files through an afero filesystem
type Loader struct {
	fs     afero.Fs
	parser *parser.Parser
}

// NewLoader creates a loader on the OS filesystem
func NewLoader(opts ...parser.Option) *Loader {
	return &Loader{
		fs:     afero.NewOsFs(),
		parser: parser.NewParser(opts...),
	}
}

// WithFs swaps the filesystem (useful for testing)
func (l *Loader) WithFs(fs afero.Fs) *Loader {
	l.fs = fs
	return l
}

// ReadLines reads a file and returns its non-blank lines with their
// original indices
func (l *Loader) ReadLines(path string) ([]parser.Line, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrUnreadableSource, path, err)
	}
	return parser.SplitLines(string(data)), nil
}

// FileToDocument reads and parses a bookmark file
func (l *Loader) FileToDocument(path string, asTree bool) (*parser.Document, error) {
	lines, err := l.ReadLines(path)
	if err != nil {
		return nil, err
	}
	doc, err := l.parser.Parse(lines, asTree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// FileToJSON reads, parses and encodes a bookmark file as compact JSON
func (l *Loader) FileToJSON(path string, asTree bool) ([]byte, error) {
	return l.fileTo(path, asTree, encode.JSON)
}

// FileToYAML reads, parses and encodes a bookmark file as YAML
func (l *Loader) FileToYAML(path string, asTree bool) ([]byte, error) {
	return l.fileTo(path, asTree, encode.YAML)
}

func (l *Loader) fileTo(path string, asTree bool, format encode.Format) ([]byte, error) {
	doc, err := l.FileToDocument(path, asTree)
	if err != nil {
		return nil, err
	}
	return encode.Marshal(doc, format, false)
}

// FileToDocument reads and parses a bookmark file from the OS filesystem
func FileToDocument(path string, asTree bool) (*parser.Document, error) {
	return NewLoader().FileToDocument(path, asTree)
}

// FileToJSON reads a bookmark file from the OS filesystem and encodes it as JSON
func FileToJSON(path string, asTree bool) ([]byte, error) {
	return NewLoader().FileToJSON(path, asTree)
}
