// Package extract reads short text excerpts from files for content-based rules.
//
// Backends are chosen by MIME type first, then by extension. Every backend
// caps its output; failures never block classification.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/harrison/tidyspace/internal/models"
)

// Extractor reads a text excerpt of at most maxChars characters from path.
type Extractor interface {
	Name() string
	Extract(path string, maxChars int) (string, error)
}

// Registry maps MIME types and extensions to backends.
type Registry struct {
	maxChars int
	byMIME   map[string]Extractor
	byExt    map[string]Extractor
}

// textExtensions are read as plain text regardless of the sniffed MIME type.
var textExtensions = []string{
	".txt", ".json", ".xml", ".yaml", ".yml", ".csv", ".log", ".py", ".js",
	".html", ".css", ".sh", ".bash", ".zsh", ".conf", ".cfg", ".ini",
}

// NewRegistry returns a registry with the built-in backends.
func NewRegistry(maxChars int) *Registry {
	r := &Registry{
		maxChars: maxChars,
		byMIME:   make(map[string]Extractor),
		byExt:    make(map[string]Extractor),
	}

	text := TextExtractor{}
	for _, mime := range []string{
		"text/plain", "text/html", "text/css", "text/javascript", "text/csv",
		"application/json", "application/xml", "text/xml",
	} {
		r.RegisterMIME(mime, text)
	}
	for _, ext := range textExtensions {
		r.RegisterExtension(ext, text)
	}

	md := NewMarkdownExtractor()
	r.RegisterMIME("text/markdown", md)
	r.RegisterExtension(".md", md)
	r.RegisterExtension(".markdown", md)

	pdf := PDFExtractor{}
	r.RegisterMIME("application/pdf", pdf)
	r.RegisterExtension(".pdf", pdf)

	img := ImageExtractor{}
	for _, mime := range []string{"image/png", "image/jpeg", "image/webp", "image/gif"} {
		r.RegisterMIME(mime, img)
	}

	return r
}

// RegisterMIME binds a backend to a MIME type, replacing any previous one.
func (r *Registry) RegisterMIME(mime string, e Extractor) {
	r.byMIME[mime] = e
}

// RegisterExtension binds a backend to a lower-cased extension.
func (r *Registry) RegisterExtension(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Lookup returns the backend for a descriptor, or nil.
// The extension wins over a generic text/plain sniff so Markdown keeps its backend.
func (r *Registry) Lookup(d *models.FileDescriptor) Extractor {
	if e, ok := r.byExt[d.Extension]; ok && (d.MIMEType == "text/plain" || d.MIMEType == models.MIMEUnknown) {
		return e
	}
	if e, ok := r.byMIME[d.MIMEType]; ok {
		return e
	}
	return r.byExt[d.Extension]
}

// Extract returns the text excerpt for d.
// Files without a backend return ErrUnsupported.
func (r *Registry) Extract(d *models.FileDescriptor) (string, error) {
	e := r.Lookup(d)
	if e == nil {
		return "", ErrUnsupported
	}
	text, err := e.Extract(d.Path, r.maxChars)
	if err != nil {
		return "", err
	}
	return text, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
