package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when no backend can read a file's content.
var ErrUnsupported = errors.New("content extraction not supported")

// ExtractionError reports a backend failure. Classification proceeds without text.
type ExtractionError struct {
	Path    string // File being read
	Backend string // Backend name ("text", "markdown", "pdf")
	Err     error  // Underlying error
}

// Error implements the error interface for ExtractionError.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.Path, e.Backend, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
