package fileutil

import (
	"path/filepath"
	"strings"

	"github.com/harrison/tidyspace/internal/config"
)

// IgnoreRules decides whether a path is skipped before probing.
// Matching is done on the base name only.
type IgnoreRules struct {
	names  map[string]bool
	globs  []string
	hidden bool
}

// NewIgnoreRules compiles the ignore configuration.
// Globs are expected to be validated by config.Validate; invalid ones never match.
func NewIgnoreRules(cfg config.IgnoreConfig) *IgnoreRules {
	names := make(map[string]bool, len(cfg.Names))
	for _, name := range cfg.Names {
		names[name] = true
	}
	return &IgnoreRules{
		names:  names,
		globs:  append([]string(nil), cfg.Globs...),
		hidden: cfg.Hidden,
	}
}

// Match returns true if path should be ignored
func (r *IgnoreRules) Match(path string) bool {
	if r == nil {
		return false
	}
	return r.MatchName(filepath.Base(path))
}

// MatchName returns true if a base name should be ignored
func (r *IgnoreRules) MatchName(name string) bool {
	if r == nil {
		return false
	}
	if r.names[name] {
		return true
	}
	if r.hidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, glob := range r.globs {
		if ok, err := filepath.Match(glob, name); err == nil && ok {
			return true
		}
	}
	return false
}
