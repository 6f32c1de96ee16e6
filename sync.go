package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/index"
	"github.com/lexandro/filesearch-mcp/search"
)

// DriftResult holds the outcome of a single consistency check.
type DriftResult struct {
	MissingFiles  int // files on disk but not in the snapshot
	StaleFiles    int // files in the snapshot but not on disk
	ModifiedFiles int // files whose size or ModTime differs
	Duration      time.Duration
}

// Drifted reports whether the snapshot no longer matches the disk.
func (r DriftResult) Drifted() bool {
	return r.MissingFiles+r.StaleFiles+r.ModifiedFiles > 0
}

// runPeriodicSync compares the index with the disk at the given interval and
// rebuilds it when they differ. It runs until ctx is done.
func runPeriodicSync(ctx context.Context, interval time.Duration, engine *search.IndexedEngine, options filter.Options, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			performSync(ctx, engine, options, logger)
		}
	}
}

// performSync runs one drift check and, if needed, a full rebuild.
func performSync(ctx context.Context, engine *search.IndexedEngine, options filter.Options, logger *slog.Logger) {
	snapshot := engine.Snapshot()
	if snapshot == nil {
		return
	}

	result := checkDrift(snapshot, options)
	if !result.Drifted() {
		logger.Debug("sync verification complete, index is in sync", "duration", result.Duration)
		return
	}

	logger.Info("index drifted from disk, rebuilding",
		"missing", result.MissingFiles,
		"stale", result.StaleFiles,
		"modified", result.ModifiedFiles,
		"duration", result.Duration,
	)
	if _, err := engine.Build(ctx, snapshot.Root); err != nil {
		logger.Error("sync rebuild failed", "error", err)
	}
}

// checkDrift walks the snapshot root with the indexing rules and compares
// the files found with the snapshot catalog.
func checkDrift(snapshot *index.Snapshot, options filter.Options) DriftResult {
	start := time.Now()
	var result DriftResult

	matcher := filter.NewMatcher(options.WithRoot(snapshot.Root))
	onDisk := make(map[string]fs.FileInfo)

	filepath.WalkDir(snapshot.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != snapshot.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if matcher.ShouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if matcher.ShouldIgnoreFile(path) {
			return nil
		}
		onDisk[path] = info
		return nil
	})

	indexed := snapshot.Catalog.All()
	indexedSet := make(map[string]*index.FileRecord, len(indexed))
	for _, record := range indexed {
		indexedSet[record.Path] = record
		if _, ok := onDisk[record.Path]; !ok {
			result.StaleFiles++
		}
	}

	for path, info := range onDisk {
		record, ok := indexedSet[path]
		switch {
		case !ok:
			result.MissingFiles++
		case !info.ModTime().Equal(record.ModTime) || info.Size() != record.SizeBytes:
			result.ModifiedFiles++
		}
	}

	result.Duration = time.Since(start)
	return result
}
