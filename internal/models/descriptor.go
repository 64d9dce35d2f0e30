package models

import (
	"path/filepath"
	"time"
)

// MIMEUnknown is reported when the content type cannot be determined.
const MIMEUnknown = "application/octet-stream"

// FileDescriptor is an immutable snapshot of one filesystem entry at evaluation time.
// Path and Size are always set; every other field is best-effort.
type FileDescriptor struct {
	Path          string    `json:"path"`
	Size          int64     `json:"size"`
	MIMEType      string    `json:"mime_type"`
	Extension     string    `json:"extension"` // lower-cased, compound forms like ".tar.gz" kept whole
	Created       time.Time `json:"created"`
	Modified      time.Time `json:"modified"`
	Fingerprint   string    `json:"fingerprint"`
	ExtractedText string    `json:"-"`
	AgeDays       *float64  `json:"age_days,omitempty"`
}

// Name returns the base name of the file.
func (d *FileDescriptor) Name() string {
	return filepath.Base(d.Path)
}

// ParentName returns the name of the directory directly containing the file.
func (d *FileDescriptor) ParentName() string {
	return filepath.Base(filepath.Dir(d.Path))
}

// HasAge returns true when an age was derived for the descriptor.
func (d *FileDescriptor) HasAge() bool {
	return d.AgeDays != nil
}

// WithText returns a copy of the descriptor carrying extracted text.
func (d *FileDescriptor) WithText(text string) *FileDescriptor {
	c := *d
	c.ExtractedText = text
	return &c
}

// AgeAt computes the fractional age in days of modified relative to now.
func AgeAt(modified, now time.Time) float64 {
	return now.Sub(modified).Hours() / 24
}
