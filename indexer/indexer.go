// Package indexer performs one full depth-first build pass over a directory
// tree and produces an immutable index.Snapshot.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/filesearch-mcp/extract"
	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/index"
)

// progressInterval is how many cataloged files pass between progress log lines.
const progressInterval = 100

// Options configures an Indexer.
type Options struct {
	Filter     filter.Options
	Extractors *extract.Registry
}

// Indexer builds snapshots. It holds no per-build state, so one Indexer can
// serve consecutive builds; concurrent builds are serialized by the caller.
type Indexer struct {
	options Options
	logger  *slog.Logger
}

// New creates an indexer. A nil registry means extract.DefaultRegistry with
// the default content extensions.
func New(options Options, logger *slog.Logger) *Indexer {
	if options.Extractors == nil {
		options.Extractors = extract.DefaultRegistry(extract.DefaultContentExtensions())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{options: options, logger: logger}
}

// Build walks root and returns a fresh snapshot. Only a missing or non-directory
// root fails the build; unreadable subtrees and files, the root included, are
// skipped and counted. A symlinked root is resolved first and the snapshot
// records the resolved path. Files over the size ceiling are cataloged by
// name but get no content entry.
func (ix *Indexer) Build(ctx context.Context, root string) (*index.Snapshot, error) {
	start := time.Now()

	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: root %s", index.ErrNotFound, absRoot)
	}
	// Any other stat error resurfaces in the walk and skips the root.
	if err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%w: root %s is not a directory", index.ErrInvalidArgument, absRoot)
	}

	matcher := filter.NewMatcher(ix.options.Filter.WithRoot(absRoot))
	snapshot := index.NewSnapshot(absRoot)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// d is non-nil for a directory that could not be read; its subtree is lost.
			if path == absRoot || (d != nil && d.IsDir()) {
				snapshot.SkippedDirs++
				ix.logger.Warn("skipped directory", "path", path, "error", fmt.Errorf("%w: %v", classify(err), err))
				return filepath.SkipDir
			}
			snapshot.SkippedFiles++
			ix.logger.Debug("skipped file", "path", path, "error", fmt.Errorf("%w: %v", classify(err), err))
			return nil
		}

		if d.IsDir() {
			if matcher.ShouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := fileInfo(path, d)
		if err != nil {
			snapshot.SkippedFiles++
			ix.logger.Debug("skipped file", "path", path, "error", err)
			return nil
		}
		if info == nil {
			return nil
		}
		if matcher.ShouldIgnoreFile(path) {
			snapshot.SkippedFiles++
			return nil
		}

		ix.indexFile(snapshot, path, info, !matcher.IsFileTooLarge(info.Size()))

		if n := snapshot.Catalog.Len(); n%progressInterval == 0 {
			ix.logger.Debug("indexing progress", "files", n, "current", path)
		}
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("build cancelled: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: walking root %s: %v", classify(walkErr), absRoot, walkErr)
	}

	snapshot.BuiltAt = time.Now()
	snapshot.Duration = time.Since(start)

	ix.logger.Info("index built",
		"root", absRoot,
		"files", snapshot.Catalog.Len(),
		"contentFiles", snapshot.Content.Len(),
		"skippedDirs", snapshot.SkippedDirs,
		"skippedFiles", snapshot.SkippedFiles,
		"oversizeFiles", snapshot.OversizeFiles,
		"extractionFailures", snapshot.ExtractionFailures,
		"duration", snapshot.Duration,
	)
	return snapshot, nil
}

// indexFile catalogs one file and, for content-bearing extensions within the
// size ceiling, stores its text. An extraction failure only costs the content entry.
func (ix *Indexer) indexFile(snapshot *index.Snapshot, path string, info fs.FileInfo, contentEligible bool) {
	relPath, err := filepath.Rel(snapshot.Root, path)
	if err != nil {
		relPath = path
	}
	snapshot.Add(&index.FileRecord{
		Name:         filepath.Base(path),
		Path:         path,
		RelativePath: filepath.ToSlash(relPath),
		SizeBytes:    info.Size(),
		ModTime:      info.ModTime(),
	})

	if _, ok := ix.options.Extractors.For(path); !ok {
		return
	}
	if !contentEligible {
		snapshot.OversizeFiles++
		ix.logger.Debug("content skipped, file too large", "path", path, "size", info.Size())
		return
	}
	text, err := ix.options.Extractors.Extract(path)
	if err != nil {
		snapshot.ExtractionFailures++
		ix.logger.Warn("content extraction failed", "path", path, "error", err)
		return
	}
	snapshot.Content.Put(path, text)
}

// resolveRoot returns the absolute root with symlinks evaluated. A root that
// exists but cannot be resolved is returned as an absolute path so the walk
// can report what it cannot read.
func resolveRoot(root string) (string, error) {
	resolved, err := filter.ResolveRoot(root)
	if err == nil {
		return resolved, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: root %s", index.ErrNotFound, root)
	}
	absRoot, absErr := filepath.Abs(root)
	if absErr != nil {
		return "", fmt.Errorf("%w: resolving root %q: %v", index.ErrInvalidArgument, root, absErr)
	}
	return absRoot, nil
}

// fileInfo stats a walk entry. Symlinks are followed and kept only when they
// resolve to a regular file; other non-regular entries return a nil info.
func fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", classify(err), err)
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	info, err := d.Info()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", classify(err), err)
	}
	return info, nil
}

// classify maps an OS error onto the index error kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return index.ErrAccessDenied
	case errors.Is(err, fs.ErrNotExist):
		return index.ErrNotFound
	default:
		return index.ErrIO
	}
}
