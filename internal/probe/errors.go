package probe

import (
	"errors"
	"fmt"
)

// ErrNotRegular is returned for directories, devices and other non-regular entries.
var ErrNotRegular = errors.New("not a regular file")

// ProbeError reports a path that vanished or became unreadable between
// discovery and probing. Callers skip such paths silently.
type ProbeError struct {
	Path string // Path being probed
	Op   string // Failed operation ("stat", "open")
	Err  error  // Underlying error
}

// Error implements the error interface for ProbeError.
func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure is expected to clear on its own.
// Every probe failure is treated as transient: the file is retried on the next run.
func (e *ProbeError) IsTransient() bool {
	return true
}

// IsSkippable returns true if err means the path should be skipped without noise.
func IsSkippable(err error) bool {
	if errors.Is(err, ErrNotRegular) {
		return true
	}
	var probeErr *ProbeError
	return errors.As(err, &probeErr) && probeErr.IsTransient()
}
