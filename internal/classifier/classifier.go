// Package classifier turns file descriptors into decisions.
//
// Two policies share the Classifier interface: CategoryPolicy sorts files into
// category folders, AgePolicy archives or deletes files by category and age.
// Both are pure: the same descriptor and now always give the same decision.
package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/models"
)

// Classifier decides what to do with a single file.
type Classifier interface {
	Name() string
	Classify(d *models.FileDescriptor, now time.Time) models.Decision
}

// New returns the policy selected by cfg.Mode.
func New(cfg *config.Config) (Classifier, error) {
	switch cfg.Mode {
	case config.ModeOrganize:
		return NewCategoryPolicy(cfg.Organize), nil
	case config.ModeCleanup:
		return NewAgePolicy(cfg.Cleanup), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// lowerAll returns lower-cased copies of patterns, dropping empty entries.
func lowerAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.ToLower(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// firstContained returns the first pattern that s contains, or "".
func firstContained(s string, patterns []string) string {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return p
		}
	}
	return ""
}

// lookupExtension tries the full (possibly compound) extension, then its last component.
func lookupExtension(table map[string]string, ext string) (string, bool) {
	if ext == "" {
		return "", false
	}
	if cat, ok := table[ext]; ok {
		return cat, true
	}
	if i := strings.LastIndexByte(ext, '.'); i > 0 {
		cat, ok := table[ext[i:]]
		return cat, ok
	}
	return "", false
}
