package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat means the input is empty or does not start with the
	// Netscape bookmark doctype.
	ErrInvalidFormat = errors.New("not a valid bookmarks file")

	// ErrUnbalanced is returned in strict mode for a list end without an open
	// folder, or folders still open at the end of the input.
	ErrUnbalanced = errors.New("unbalanced folder structure")

	// ErrDanglingParent means a node refers to a parent that is not an
	// earlier folder.
	ErrDanglingParent = errors.New("dangling parent reference")
)

// LineError ties an error to the line it was found on
type LineError struct {
	Line int      // original 0-based line index
	Kind LineKind // kind of the offending line
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line+1, e.Kind, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
