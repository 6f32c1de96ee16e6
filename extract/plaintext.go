package extract

import (
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotText is returned when a file registered as plain text sniffs as binary.
var ErrNotText = errors.New("content is not text")

// PlainText reads a file verbatim after checking it sniffs as text.
type PlainText struct{}

// Extract implements Extractor.
func (PlainText) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if !IsText(data) {
		return "", ErrNotText
	}
	return string(data), nil
}

// IsText reports whether data sniffs as text/plain or one of its descendants
// (JSON, XML, HTML, CSV and so on).
func IsText(data []byte) bool {
	for mime := mimetype.Detect(data); mime != nil; mime = mime.Parent() {
		if mime.Is("text/plain") {
			return true
		}
	}
	return false
}
