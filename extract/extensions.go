package extract

import (
	"path/filepath"
	"strings"
)

// DefaultContentExtensions returns the plain-text extensions whose content an
// index build stores. PDF and spreadsheet extensions are registered separately.
func DefaultContentExtensions() []string {
	return []string{
		".txt", ".java", ".py", ".js", ".html", ".css",
		".md", ".json", ".xml", ".csv",
	}
}

// DefaultLiveTextExtensions returns the extensions a live content search treats as text.
// Files without any extension are also treated as text.
func DefaultLiveTextExtensions() []string {
	return []string{
		".txt", ".md", ".java", ".py", ".js", ".html", ".css", ".xml",
		".json", ".csv", ".log", ".properties", ".yml", ".yaml",
	}
}

// PDF and spreadsheet extensions handled by the binary extractors.
var (
	PDFExtensions         = []string{".pdf"}
	SpreadsheetExtensions = []string{".xlsx", ".xls"}
)

// Ext returns the lowercased extension of a path including the dot, or "".
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ExtensionSet is a case-insensitive set of file extensions.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set, normalizing entries to lowercase with a leading dot.
func NewExtensionSet(extensions []string) ExtensionSet {
	set := make(ExtensionSet, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Has reports whether the file name's extension is in the set.
func (s ExtensionSet) Has(fileName string) bool {
	_, ok := s[Ext(fileName)]
	return ok
}

// IsTextLikely reports whether a file should be scanned line by line:
// its extension is a known text extension, or its name has no dot at all.
func (s ExtensionSet) IsTextLikely(fileName string) bool {
	if !strings.Contains(fileName, ".") {
		return true
	}
	return s.Has(fileName)
}
