package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/filesearch-mcp/index"
)

// MatchKind records whether a result matched on its name or its content.
type MatchKind int

const (
	KindName MatchKind = iota
	KindContent
)

func (k MatchKind) String() string {
	if k == KindContent {
		return "content"
	}
	return "name"
}

// Mode selects which query a search runs.
type Mode int

const (
	ModeName Mode = iota
	ModePrefix
	ModeContent
	ModeAll
)

var modeNames = map[Mode]string{
	ModeName:    "name",
	ModePrefix:  "prefix",
	ModeContent: "content",
	ModeAll:     "all",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "name", "prefix", "content" or "all". Empty means name.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeName, nil
	}
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return ModeName, fmt.Errorf("%w: unknown search mode %q", index.ErrInvalidArgument, s)
}

// SearchResult is one hit. Results are rebuilt per query and never persisted.
type SearchResult struct {
	Path      string
	Name      string
	SizeBytes int64
	ModTime   time.Time
	Kind      MatchKind
}

// LastModifiedMillis returns the modification time in Unix milliseconds.
func (r SearchResult) LastModifiedMillis() int64 {
	return r.ModTime.UnixMilli()
}

func resultFromRecord(record *index.FileRecord, kind MatchKind) SearchResult {
	return SearchResult{
		Path:      record.Path,
		Name:      record.Name,
		SizeBytes: record.SizeBytes,
		ModTime:   record.ModTime,
		Kind:      kind,
	}
}

func resultKey(r SearchResult) (string, string) {
	return r.Name, r.Path
}
