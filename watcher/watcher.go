// Package watcher watches a directory tree and turns bursts of changes into
// full index rebuilds.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes triggers a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// PathFilter decides which directories are watched and which file events count.
type PathFilter interface {
	ShouldSkipDir(absolutePath string) bool
	ShouldIgnoreFile(absolutePath string) bool
}

// RebuildFunc rebuilds the whole index. It is called once per debounced batch.
type RebuildFunc func(ctx context.Context) error

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	filter    PathFilter
	rootDir   string
	logger    *slog.Logger
}

// New creates a recursive watcher on rootDir. Every directory the filter does
// not skip is registered.
func New(rootDir string, filter PathFilter, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(debounce),
		filter:    filter,
		rootDir:   rootDir,
		logger:    logger,
	}

	if err := w.addTree(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers dir and every non-skipped directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip entries that can't be read
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.rootDir && w.filter.ShouldSkipDir(path) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
}

// Events returns the channel that receives debounced batches.
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Start forwards file system events to the debouncer. Call this in a goroutine.
// It runs until the watcher is closed.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Run calls rebuild once for every debounced batch until ctx is done.
// A failed rebuild is logged; the previous index stays in service.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-w.Events():
			w.logger.Info("changes detected, rebuilding index", "changes", len(batch), "first", batch[0].Path)
			if err := rebuild(ctx); err != nil {
				w.logger.Warn("rebuild after changes failed", "error", err)
			}
		}
	}
}

// handleEvent converts one fsnotify event into a debounced event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories are watched too; moved-in trees may already hold files.
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if w.filter.ShouldSkipDir(path) {
				return
			}
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			w.debouncer.Add(path, OpCreate)
			return
		}
	}

	if w.filter.ShouldIgnoreFile(path) {
		return
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.debouncer.Close()
	return w.fsWatcher.Close()
}
