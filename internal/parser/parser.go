package parser

import (
	"io"
	"log/slog"
	"sort"
)

// Doctype is the first line every bookmark export must carry
const Doctype = "<!DOCTYPE NETSCAPE-Bookmark-file-1>"

// Option configures a Parser
type Option func(*Parser)

// WithStrict makes Parse fail on unbalanced folder lists and dangling
// parent references instead of tolerating them
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithLogger sets the logger used for debug output about tolerated problems
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// Parser turns bookmark file lines into a Document. It only holds
// configuration: every Parse call starts from a fresh folder stack, so one
// Parser can be reused and shared between goroutines.
type Parser struct {
	strict bool
	log    *slog.Logger
}

// NewParser creates a new parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses lines with a default parser
func Parse(lines []Line, asTree bool) (*Document, error) {
	return NewParser().Parse(lines, asTree)
}

// ParseString splits content into lines and parses them
func (p *Parser) ParseString(content string, asTree bool) (*Document, error) {
	return p.Parse(SplitLines(content), asTree)
}

// Parse builds a Document from lines. The first line must be the Netscape
// doctype or ErrInvalidFormat is returned. With asTree the flat list is
// grouped into folders.
func (p *Parser) Parse(lines []Line, asTree bool) (*Document, error) {
	if len(lines) == 0 {
		return nil, ErrInvalidFormat
	}
	if !sort.SliceIsSorted(lines, func(i, j int) bool { return lines[i].Index < lines[j].Index }) {
		sorted := make([]Line, len(lines))
		copy(sorted, lines)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
		lines = sorted
	}
	if !equalFoldASCII(lines[0].Text, Doctype) {
		return nil, ErrInvalidFormat
	}

	doc := &Document{List: Nodes{}}
	stack := newParentStack()

	// lists counts open <DL> blocks; it only feeds the balance checks, the
	// parent stack alone decides nesting
	lists, lastList := 0, 0

	for _, line := range lines {
		kind := Classify(line.Text)
		if kind.Ignored() {
			continue
		}

		switch kind {
		case KindDoctype:
			doc.Doctype = line.Text
		case KindTitle:
			doc.Title = StripTags(line.Text)
		case KindMeta:
			doc.Meta = append(doc.Meta, ExtractAttributes(line.Text, "meta"))
		case KindHeading:
			doc.Heading = StripTags(line.Text)
		case KindListHeading:
			parent := stack.peek()
			stack.push(line.Index)
			doc.List = append(doc.List, &Node{
				ID:         line.Index,
				Parent:     parent,
				Kind:       NodeHead,
				Text:       StripTags(line.Text),
				Attributes: ExtractAttributes(line.Text, "h3"),
			})
		case KindListItem:
			doc.List = append(doc.List, &Node{
				ID:         line.Index,
				Parent:     stack.peek(),
				Kind:       NodeItem,
				Text:       StripTags(line.Text),
				Attributes: ExtractAttributes(line.Text, "a"),
			})
		case KindListEnd:
			stack.pop()
			if lists == 0 {
				if p.strict {
					return nil, &LineError{Line: line.Index, Kind: kind, Err: ErrUnbalanced}
				}
				p.log.Debug("list end without open list", "line", line.Index+1)
				continue
			}
			lists--
		case KindListStart:
			lists++
			lastList = line.Index
		}
	}

	if lists > 0 || stack.depth() > 0 {
		if p.strict {
			if stack.depth() > 0 {
				return nil, &LineError{Line: stack.peek(), Kind: KindListHeading, Err: ErrUnbalanced}
			}
			return nil, &LineError{Line: lastList, Kind: KindListStart, Err: ErrUnbalanced}
		}
		p.log.Debug("structure left open at end of input", "lists", lists, "folders", stack.depth())
	}
	if p.strict {
		if err := Validate(doc.List); err != nil {
			return nil, err
		}
	}

	if asTree {
		doc.List = ToTree(doc.List, 0)
		doc.Tree = true
	}
	return doc, nil
}

// equalFoldASCII compares case-insensitively over ASCII letters only, so
// Unicode fold equivalents such as the Kelvin sign never match a 'k'
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
