// Package resolver turns destination tokens into collision-free file paths.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/fileutil"
)

// maxAttempts bounds the disambiguation counter.
const maxAttempts = 100000

// ErrExhausted is returned when no free name exists within maxAttempts.
var ErrExhausted = errors.New("no free destination name")

// Resolver expands destination tokens relative to a session root and hands
// out paths that neither exist on disk nor were handed out before.
type Resolver struct {
	root  string
	style config.DisambiguatorStyle

	mu       sync.Mutex
	reserved map[string]bool
}

// New creates a Resolver for the session rooted at root.
func New(root string, style config.DisambiguatorStyle) *Resolver {
	return &Resolver{
		root:     root,
		style:    style,
		reserved: make(map[string]bool),
	}
}

// ExpandToken expands ~, $VARS, {year} and {month} in token.
// Relative results are joined onto the session root.
func (r *Resolver) ExpandToken(token string, now time.Time) (string, error) {
	expanded := strings.NewReplacer(
		"{year}", fmt.Sprintf("%04d", now.Year()),
		"{month}", fmt.Sprintf("%02d", int(now.Month())),
	).Replace(token)
	expanded = os.ExpandEnv(expanded)

	if expanded == "~" || strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
		return config.ExpandPath(expanded)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.root, expanded)
	}
	return filepath.Clean(expanded), nil
}

// Resolve returns a free path for fileName under the directory named by token
// and reserves it for the rest of the session.
func (r *Resolver) Resolve(token, fileName string, now time.Time) (string, error) {
	dir, err := r.ExpandToken(token, now)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := filepath.Join(dir, fileName)
	if r.free(candidate) {
		r.reserved[candidate] = true
		return candidate, nil
	}

	stem, ext := fileutil.SplitExt(fileName)
	for n := 1; n <= maxAttempts; n++ {
		candidate = filepath.Join(dir, r.numbered(stem, ext, n))
		if r.free(candidate) {
			r.reserved[candidate] = true
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %s in %s", ErrExhausted, fileName, dir)
}

func (r *Resolver) numbered(stem, ext string, n int) string {
	if r.style == config.DisambiguatorPlain {
		return fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	return fmt.Sprintf("%s_%03d%s", stem, n, ext)
}

// free reports whether path is unreserved and absent. Unreadable paths count as taken.
func (r *Resolver) free(path string) bool {
	if r.reserved[path] {
		return false
	}
	_, err := os.Lstat(path)
	return errors.Is(err, os.ErrNotExist)
}
