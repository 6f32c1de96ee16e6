// Package search answers name, prefix, content and combined queries, either
// against a built index snapshot or by walking the filesystem at query time.
package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lexandro/filesearch-mcp/index"
	"github.com/lexandro/filesearch-mcp/indexer"
)

// Index status strings reported by Statistics.
const (
	StatusNotBuilt = "Index not built yet"
	StatusReady    = "Index ready"
)

// Statistics summarizes the current snapshot.
type Statistics struct {
	TotalFiles     int
	TextFiles      int // files with a content entry
	TotalSizeBytes int64
	RootDir        string
	Status         string
	Snapshot       *index.Snapshot // nil until the first successful build
}

// IndexedEngine serves queries from the most recently built snapshot.
// Builds are serialized; a new snapshot replaces the old one only after it is
// complete, so readers never observe a partial index.
type IndexedEngine struct {
	indexer *indexer.Indexer
	logger  *slog.Logger

	buildMu sync.Mutex

	mu       sync.RWMutex
	snapshot *index.Snapshot
}

// NewIndexedEngine creates an engine with no snapshot.
func NewIndexedEngine(ix *indexer.Indexer, logger *slog.Logger) *IndexedEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexedEngine{indexer: ix, logger: logger}
}

// Build runs a full build of root and publishes the result. On failure the
// previous snapshot, if any, stays in service.
func (e *IndexedEngine) Build(ctx context.Context, root string) (*index.Snapshot, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	snapshot, err := e.indexer.Build(ctx, root)
	if err != nil {
		e.logger.Error("index build failed", "root", root, "error", err)
		return nil, err
	}

	e.mu.Lock()
	e.snapshot = snapshot
	e.mu.Unlock()
	return snapshot, nil
}

// Snapshot returns the published snapshot, or nil before the first build.
func (e *IndexedEngine) Snapshot() *index.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Ready reports whether a build has succeeded.
func (e *IndexedEngine) Ready() bool {
	return e.Snapshot() != nil
}

// current returns the snapshot for a query, warning when there is none.
func (e *IndexedEngine) current(query string) *index.Snapshot {
	snapshot := e.Snapshot()
	if snapshot == nil {
		e.logger.Warn("query before index build", "query", query)
	}
	return snapshot
}

// SearchByName returns files whose name equals term, case-insensitively.
func (e *IndexedEngine) SearchByName(term string) []*index.FileRecord {
	snapshot := e.current("name")
	if snapshot == nil {
		return nil
	}
	return snapshot.Catalog.Hydrate(snapshot.Names.SearchExact(term))
}

// SearchByNamePrefix returns files whose name starts with term, case-insensitively.
func (e *IndexedEngine) SearchByNamePrefix(term string) []*index.FileRecord {
	snapshot := e.current("prefix")
	if snapshot == nil {
		return nil
	}
	return snapshot.Catalog.Hydrate(snapshot.Names.SearchByPrefix(term))
}

// SearchByContent returns content-indexed files containing term, ordered by path.
// Every stored text is scanned.
func (e *IndexedEngine) SearchByContent(term string) []*index.FileRecord {
	snapshot := e.current("content")
	if snapshot == nil {
		return nil
	}
	return snapshot.Catalog.Hydrate(snapshot.Content.Search(term))
}

// SearchByNameAndContent returns the de-duplicated union of the name, prefix
// and content results, ranked exact name first, then name prefix, then the rest.
func (e *IndexedEngine) SearchByNameAndContent(term string) []*index.FileRecord {
	matches := e.searchAll(term)
	out := make([]*index.FileRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.record)
	}
	return out
}

type match struct {
	record *index.FileRecord
	kind   MatchKind
}

func (e *IndexedEngine) searchAll(term string) []match {
	snapshot := e.current("all")
	if snapshot == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var matches []match
	add := func(paths []string, kind MatchKind) {
		for _, record := range snapshot.Catalog.Hydrate(paths) {
			if _, ok := seen[record.Path]; ok {
				continue
			}
			seen[record.Path] = struct{}{}
			matches = append(matches, match{record: record, kind: kind})
		}
	}
	add(snapshot.Names.SearchExact(term), KindName)
	add(snapshot.Names.SearchByPrefix(term), KindName)
	add(snapshot.Content.Search(term), KindContent)

	rankByName(matches, term, func(m match) (string, string) {
		return m.record.Name, m.record.Path
	})
	return matches
}

// Search dispatches an indexed query by mode.
func (e *IndexedEngine) Search(term string, mode Mode) []SearchResult {
	switch mode {
	case ModePrefix:
		return toResults(e.SearchByNamePrefix(term), KindName)
	case ModeContent:
		return toResults(e.SearchByContent(term), KindContent)
	case ModeAll:
		matches := e.searchAll(term)
		out := make([]SearchResult, 0, len(matches))
		for _, m := range matches {
			out = append(out, resultFromRecord(m.record, m.kind))
		}
		return out
	default:
		return toResults(e.SearchByName(term), KindName)
	}
}

// SearchByGlob matches root-relative paths against a doublestar pattern.
func (e *IndexedEngine) SearchByGlob(pattern string, maxResults int) ([]*index.FileRecord, error) {
	snapshot := e.current("glob")
	if snapshot == nil {
		return nil, index.ErrNotBuilt
	}
	return snapshot.Catalog.SearchByGlob(pattern, maxResults)
}

// Content returns the stored text of a content-indexed file.
func (e *IndexedEngine) Content(path string) (string, bool) {
	snapshot := e.Snapshot()
	if snapshot == nil {
		return "", false
	}
	return snapshot.Content.Get(path)
}

// Statistics describes the current snapshot.
func (e *IndexedEngine) Statistics() Statistics {
	snapshot := e.Snapshot()
	if snapshot == nil {
		return Statistics{Status: StatusNotBuilt}
	}
	return Statistics{
		TotalFiles:     snapshot.Catalog.Len(),
		TextFiles:      snapshot.Content.Len(),
		TotalSizeBytes: snapshot.Catalog.TotalSizeBytes(),
		RootDir:        snapshot.Root,
		Status:         StatusReady,
		Snapshot:       snapshot,
	}
}

func toResults(records []*index.FileRecord, kind MatchKind) []SearchResult {
	out := make([]SearchResult, 0, len(records))
	for _, record := range records {
		out = append(out, resultFromRecord(record, kind))
	}
	return out
}
