package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// FileRecord is the metadata kept for every indexed file.
// Records are never mutated after a build; a rebuild replaces them wholesale.
type FileRecord struct {
	Name         string    // Base name, original case
	Path         string    // Absolute file path (unique key)
	RelativePath string    // Path relative to the build root (forward slashes)
	SizeBytes    int64     // File size in bytes
	ModTime      time.Time // Last modification time
}

// LastModifiedMillis returns the modification time as Unix milliseconds.
func (r *FileRecord) LastModifiedMillis() int64 {
	return r.ModTime.UnixMilli()
}

// Catalog maps absolute paths to file records.
type Catalog struct {
	mu    sync.RWMutex
	files map[string]*FileRecord // key: absolute path
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		files: make(map[string]*FileRecord),
	}
}

// Add adds or replaces a record, keyed by its absolute path.
func (c *Catalog) Add(record *FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[record.Path] = record
}

// Get returns the record for an absolute path, or nil if the path is not cataloged.
func (c *Catalog) Get(absolutePath string) *FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[absolutePath]
}

// Hydrate resolves paths to records in the given order, dropping any path without a record.
func (c *Catalog) Hydrate(paths []string) []*FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]*FileRecord, 0, len(paths))
	for _, path := range paths {
		if record, ok := c.files[path]; ok {
			records = append(records, record)
		}
	}
	return records
}

// Len returns the number of cataloged files.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// TotalSizeBytes returns the summed size of all cataloged files.
func (c *Catalog) TotalSizeBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalSize int64
	for _, record := range c.files {
		totalSize += record.SizeBytes
	}
	return totalSize
}

// All returns every record sorted by absolute path. Use with caution on large catalogs.
func (c *Catalog) All() []*FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]*FileRecord, 0, len(c.files))
	for _, record := range c.files {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records
}

// SearchByGlob returns records whose relative path matches a doublestar glob pattern,
// in path order. A malformed pattern fails with ErrPattern.
func (c *Catalog) SearchByGlob(pattern string, maxResults int) ([]*FileRecord, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	// Normalize pattern to forward slashes
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: glob %q", ErrPattern, pattern)
	}

	var results []*FileRecord
	for _, record := range c.All() {
		if len(results) >= maxResults {
			break
		}
		matched, err := doublestar.Match(pattern, record.RelativePath)
		if err != nil || !matched {
			continue
		}
		results = append(results, record)
	}
	return results, nil
}
