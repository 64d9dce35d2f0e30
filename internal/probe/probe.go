// Package probe builds FileDescriptor snapshots from filesystem entries.
package probe

import (
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"

	"github.com/harrison/tidyspace/internal/fileutil"
	"github.com/harrison/tidyspace/internal/models"
)

const (
	// SampleSize is the number of bytes hashed from each end of the file
	SampleSize = 8 * 1024
	// DigestSize is the fingerprint length in bytes
	DigestSize = 16
)

// Prober collects metadata for a single path.
// A Prober holds no state and is safe for concurrent use.
type Prober struct{}

// New creates a Prober.
func New() *Prober {
	return &Prober{}
}

// Probe stats path and returns its descriptor with age computed against now.
// Vanished or unreadable paths return a *ProbeError; non-regular entries
// return ErrNotRegular.
func (p *Prober) Probe(path string, now time.Time) (*models.FileDescriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ProbeError{Path: path, Op: "resolve", Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &ProbeError{Path: abs, Op: "stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotRegular
	}

	ext := Extension(info.Name())
	modified := info.ModTime()
	age := models.AgeAt(modified, now)

	return &models.FileDescriptor{
		Path:        abs,
		Size:        info.Size(),
		MIMEType:    detectMIME(abs, ext),
		Extension:   ext,
		Created:     createdTime(info),
		Modified:    modified,
		Fingerprint: Fingerprint(abs, info.Size()),
		AgeDays:     &age,
	}, nil
}

// Extension returns the lower-cased extension of name, compound forms kept whole.
func Extension(name string) string {
	_, ext := fileutil.SplitExt(name)
	return strings.ToLower(ext)
}

// Fingerprint hashes the first SampleSize bytes and, for files larger than
// two samples, the last SampleSize bytes. Unreadable files hash their name.
func Fingerprint(path string, size int64) string {
	h, _ := blake2b.New(DigestSize, nil)

	f, err := os.Open(path)
	if err != nil {
		h.Write([]byte(filepath.Base(path)))
		return hex.EncodeToString(h.Sum(nil))
	}
	defer f.Close()

	if _, err := io.CopyN(h, f, SampleSize); err != nil && err != io.EOF {
		h.Reset()
		h.Write([]byte(filepath.Base(path)))
		return hex.EncodeToString(h.Sum(nil))
	}

	if size > 2*SampleSize {
		if _, err := f.Seek(size-SampleSize, io.SeekStart); err == nil {
			io.CopyN(h, f, SampleSize)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// detectMIME sniffs the content type and falls back to the extension.
func detectMIME(path, ext string) string {
	if m, err := mimetype.DetectFile(path); err == nil && m.String() != models.MIMEUnknown {
		return baseType(m.String())
	}
	if ext != "" {
		// Compound extensions resolve by their last component
		if byExt := mime.TypeByExtension(filepath.Ext(ext)); byExt != "" {
			return baseType(byExt)
		}
	}
	return models.MIMEUnknown
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
