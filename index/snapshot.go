package index

import "time"

// Snapshot is the result of one full build pass: the name trie, the catalog and
// the content store, plus counters describing the pass.
// A snapshot is published only after the build finishes and is read-only from then on.
type Snapshot struct {
	Root    string
	Names   *Trie
	Catalog *Catalog
	Content *ContentStore

	BuiltAt            time.Time
	Duration           time.Duration
	SkippedDirs        int // subtrees skipped because of access or read errors
	SkippedFiles       int // files skipped because of stat errors or exclude patterns
	OversizeFiles      int // content-bearing files cataloged by name only because of the size ceiling
	ExtractionFailures int // files cataloged without content because extraction failed
}

// NewSnapshot creates an empty snapshot for root.
func NewSnapshot(root string) *Snapshot {
	return &Snapshot{
		Root:    root,
		Names:   NewTrie(),
		Catalog: NewCatalog(),
		Content: NewContentStore(),
	}
}

// Add records a file in the trie and the catalog.
func (s *Snapshot) Add(record *FileRecord) {
	s.Catalog.Add(record)
	s.Names.Insert(record.Name, record.Path)
}
