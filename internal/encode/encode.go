// Package encode serializes parsed bookmark documents. Both formats refuse
// documents holding invalid UTF-8 instead of silently replacing bytes.
package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/progeja/nsbookmarks/internal/parser"
)

// Format selects the output encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrInvalidEncoding means a document string is not valid UTF-8
var ErrInvalidEncoding = errors.New("invalid UTF-8 in document")

// ParseFormat converts a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: json, yaml)", name)
	}
}

// Marshal encodes doc in the given format. indent only affects JSON, YAML
// is always block style.
func Marshal(doc *parser.Document, format Format, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes doc to w in the given format
func Encode(w io.Writer, doc *parser.Document, format Format, indent bool) error {
	if doc == nil {
		return errors.New("encode: nil document")
	}
	if err := Check(doc); err != nil {
		return err
	}

	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if indent {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Check reports the first string in doc that is not valid UTF-8
func Check(doc *parser.Document) error {
	fields := []struct {
		name, value string
	}{
		{"doctype", doc.Doctype},
		{"title", doc.Title},
		{"heading", doc.Heading},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s", ErrInvalidEncoding, f.name)
		}
	}
	for i, attrs := range doc.Meta {
		if err := checkAttributes(attrs); err != nil {
			return fmt.Errorf("%w: meta %d %s", ErrInvalidEncoding, i, err)
		}
	}
	return checkNodes(doc.List)
}

func checkNodes(nodes parser.Nodes) error {
	for _, n := range nodes {
		if !utf8.ValidString(n.Text) {
			return fmt.Errorf("%w: node %d text", ErrInvalidEncoding, n.ID)
		}
		if err := checkAttributes(n.Attributes); err != nil {
			return fmt.Errorf("%w: node %d %s", ErrInvalidEncoding, n.ID, err)
		}
		if err := checkNodes(n.Children); err != nil {
			return err
		}
	}
	return nil
}

func checkAttributes(attrs parser.Attributes) error {
	for _, a := range attrs {
		if !utf8.ValidString(a.Name) || !utf8.ValidString(a.Value) {
			return fmt.Errorf("attribute %q", a.Name)
		}
	}
	return nil
}
