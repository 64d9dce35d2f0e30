package extract

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// PDFExtractor scrapes literal strings ("(...)" runs) from a PDF.
// Compressed content streams yield nothing; results are best-effort.
// The file is streamed and scanning stops once maxChars characters are collected.
type PDFExtractor struct{}

func (PDFExtractor) Name() string { return "pdf" }

func (p PDFExtractor) Extract(path string, maxChars int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Backend: p.Name(), Err: err}
	}
	defer f.Close()

	var (
		out   strings.Builder
		run   []byte
		inRun bool
		count int
	)
	r := bufio.NewReader(f)
	for maxChars <= 0 || count < maxChars {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &ExtractionError{Path: path, Backend: p.Name(), Err: err}
		}

		switch {
		case !inRun:
			if c == '(' {
				inRun = true
				run = run[:0]
			}
		case c == ')':
			inRun = false
			if len(run) == 0 {
				continue
			}
			if count > 0 {
				out.WriteByte(' ')
				count++
			}
			out.WriteString(latin1(run))
			count += len(run)
		case maxChars <= 0 || len(run) < maxChars:
			run = append(run, c)
		}
	}

	return truncate(out.String(), maxChars), nil
}

// latin1 decodes ISO-8859-1 bytes, the encoding of unescaped PDF literal strings.
func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
