package extract

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// TextExtractor reads the beginning of a text file. Invalid UTF-8 is dropped.
type TextExtractor struct{}

func (TextExtractor) Name() string { return "text" }

func (t TextExtractor) Extract(path string, maxChars int) (string, error) {
	data, err := readHead(path, maxChars)
	if err != nil {
		return "", &ExtractionError{Path: path, Backend: t.Name(), Err: err}
	}
	return truncate(strings.ToValidUTF8(string(data), ""), maxChars), nil
}

// readHead reads enough bytes to hold maxChars runes.
func readHead(path string, maxChars int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if maxChars <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, int64(maxChars)*utf8.UTFMax))
}
