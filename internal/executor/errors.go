package executor

import (
	"fmt"
	"strings"
)

// MoveError describes a failed move. Partial is set when a cross-device copy
// reached the destination but the source could not be removed.
type MoveError struct {
	Source      string // Original file path
	Destination string // Intended destination path
	Partial     bool   // Copy landed, source remains
	Err         error  // Underlying error
}

// Error implements the error interface for MoveError.
func (e *MoveError) Error() string {
	if e.Partial {
		return fmt.Sprintf("copied to %s but could not remove source: %v", e.Destination, e.Err)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("move %s to %s", e.Source, e.Destination))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// DeleteError describes a failed delete.
type DeleteError struct {
	Path string
	Err  error
}

// Error implements the error interface for DeleteError.
func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *DeleteError) Unwrap() error {
	return e.Err
}
