// Package extract turns files into plain text for the content store.
// Extractors are chosen by file extension through a Registry.
package extract

import (
	"fmt"

	"github.com/lexandro/filesearch-mcp/index"
)

// Extractor returns the textual content of one file.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (string, error)

// Extract calls f(path).
func (f ExtractorFunc) Extract(path string) (string, error) {
	return f(path)
}

// Registry maps lowercase extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// DefaultRegistry registers the plain-text extractor for textExtensions plus
// the PDF and spreadsheet extractors.
func DefaultRegistry(textExtensions []string) *Registry {
	r := NewRegistry()
	plain := PlainText{}
	for ext := range NewExtensionSet(textExtensions) {
		r.Register(ext, plain)
	}
	for _, ext := range PDFExtensions {
		r.Register(ext, PDF{})
	}
	for _, ext := range SpreadsheetExtensions {
		r.Register(ext, Spreadsheet{})
	}
	return r
}

// Register binds ext (e.g. ".md") to an extractor, replacing any previous binding.
func (r *Registry) Register(ext string, extractor Extractor) {
	for normalized := range NewExtensionSet([]string{ext}) {
		r.byExt[normalized] = extractor
	}
}

// For returns the extractor for a file, if its extension is content-bearing.
func (r *Registry) For(path string) (Extractor, bool) {
	extractor, ok := r.byExt[Ext(path)]
	return extractor, ok
}

// Extract runs the matching extractor. Failures, including an unsupported
// extension, wrap index.ErrExtraction.
func (r *Registry) Extract(path string) (string, error) {
	extractor, ok := r.For(path)
	if !ok {
		return "", fmt.Errorf("%w: no extractor for %q", index.ErrExtraction, Ext(path))
	}
	text, err := extractor.Extract(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", index.ErrExtraction, path, err)
	}
	return text, nil
}
