package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ConfigError reports a malformed or invalid configuration.
// It is always fatal at startup, before any file is touched.
type ConfigError struct {
	Path  string // Config file path (empty for flag or default values)
	Field string // Offending key, dotted (optional)
	Err   error  // Underlying error
}

func newConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("config")
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf(" %s", e.Path))
	}
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(": %s", e.Field))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func validateGlob(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("empty glob pattern")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return nil
}
