package index

import (
	"sort"
	"strings"
	"sync"
)

// ContentStore keeps extracted text keyed by absolute path.
// Only content-eligible files have an entry; absence is not an error.
type ContentStore struct {
	mu sync.RWMutex
	// fileContents holds the full extracted text; there is no inverted index.
	fileContents map[string]string // key: absolute path, value: extracted text
}

// NewContentStore creates an empty content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		fileContents: make(map[string]string),
	}
}

// Put stores the extracted text for a file, replacing any previous value.
func (cs *ContentStore) Put(absolutePath string, content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.fileContents[absolutePath] = content
}

// Get returns the stored text of a file and whether it was content-indexed.
func (cs *ContentStore) Get(absolutePath string) (string, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	content, ok := cs.fileContents[absolutePath]
	return content, ok
}

// Len returns the number of content-indexed files.
func (cs *ContentStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.fileContents)
}

// Search returns the paths whose text contains term, ignoring case, sorted by path.
// Every stored entry is scanned, so the cost is proportional to the total stored text.
func (cs *ContentStore) Search(term string) []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	termLower := strings.ToLower(term)
	var paths []string
	for path, content := range cs.fileContents {
		if strings.Contains(strings.ToLower(content), termLower) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// LineMatch represents a single line match within a file.
type LineMatch struct {
	LineNumber int
	LineText   string
	// Context lines before and after the match
	ContextBefore []string
	ContextAfter  []string
}

// MatchingLines returns the lines of a stored file that contain term (case-insensitive),
// each with up to contextLines lines of context. Returns nil if the file has no stored text.
func (cs *ContentStore) MatchingLines(absolutePath string, term string, contextLines int) []LineMatch {
	content, ok := cs.Get(absolutePath)
	if !ok {
		return nil
	}
	return findMatchingLines(content, term, contextLines)
}

// findMatchingLines searches content line by line for the term.
func findMatchingLines(content string, term string, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")
	termLower := strings.ToLower(term)

	var matches []LineMatch
	for lineIdx, line := range lines {
		if !strings.Contains(strings.ToLower(line), termLower) {
			continue
		}

		match := LineMatch{
			LineNumber: lineIdx + 1, // 1-based
			LineText:   line,
		}

		if contextLines > 0 {
			startCtx := max(lineIdx-contextLines, 0)
			match.ContextBefore = append(match.ContextBefore, lines[startCtx:lineIdx]...)

			endCtx := min(lineIdx+contextLines+1, len(lines))
			match.ContextAfter = append(match.ContextAfter, lines[lineIdx+1:endCtx]...)
		}

		matches = append(matches, match)
	}

	return matches
}
