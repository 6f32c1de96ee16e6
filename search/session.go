package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/lexandro/filesearch-mcp/index"
)

// ErrDeleteDeclined is returned when the confirmer refuses a deletion.
var ErrDeleteDeclined = errors.New("delete declined")

// Opener opens a file with whatever the host considers its default application.
type Opener interface {
	Open(path string) error
}

// Confirmer approves a destructive operation on a result.
type Confirmer interface {
	Confirm(result SearchResult) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(result SearchResult) bool

// Confirm calls f(result).
func (f ConfirmFunc) Confirm(result SearchResult) bool {
	return f(result)
}

// Query describes one session search.
type Query struct {
	Term  string
	Mode  Mode
	Live  bool
	Regex bool   // live only
	Fuzzy bool   // live name search only
	Root  string // live only; empty means the session root
}

// Session is the caller-facing layer: it runs searches on either engine and
// keeps the most recent result list for follow-up open and delete by number.
type Session struct {
	indexed *IndexedEngine
	live    *LiveEngine

	mu       sync.Mutex
	root     string
	last     []SearchResult
	lastLive bool
}

// NewSession creates a session rooted at root.
func NewSession(indexed *IndexedEngine, live *LiveEngine, root string) *Session {
	return &Session{indexed: indexed, live: live, root: root}
}

// Root returns the directory searches and builds default to.
func (s *Session) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// SetRoot changes the default directory. It must exist.
func (s *Session) SetRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", index.ErrNotFound, root)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", index.ErrInvalidArgument, root)
	}
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()
	return nil
}

// Indexed returns the indexed engine.
func (s *Session) Indexed() *IndexedEngine {
	return s.indexed
}

// Build rebuilds the index of the session root.
func (s *Session) Build(ctx context.Context) (*index.Snapshot, error) {
	return s.indexed.Build(ctx, s.Root())
}

// Search runs a query and retains its results. A failed query leaves the
// previous results in place. Regex and fuzzy are rejected for indexed queries.
func (s *Session) Search(q Query) ([]SearchResult, error) {
	var found []SearchResult
	if q.Live {
		root := q.Root
		if root == "" {
			root = s.Root()
		}
		var err error
		found, err = s.live.Search(root, q.Term, q.Mode, q.Regex, q.Fuzzy)
		if err != nil {
			return nil, err
		}
	} else {
		if q.Regex || q.Fuzzy {
			return nil, fmt.Errorf("%w: regex and fuzzy matching require a live search", index.ErrInvalidArgument)
		}
		if !s.indexed.Ready() {
			return nil, index.ErrNotBuilt
		}
		found = s.indexed.Search(q.Term, q.Mode)
	}

	s.mu.Lock()
	s.last = found
	s.lastLive = q.Live
	s.mu.Unlock()
	return slices.Clone(found), nil
}

// Results returns a copy of the retained result list.
func (s *Session) Results() []SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.last)
}

// Result returns result n (1-based) of the last search.
func (s *Session) Result(n int) (SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked(n)
}

func (s *Session) resultLocked(n int) (SearchResult, error) {
	if n < 1 || n > len(s.last) {
		return SearchResult{}, fmt.Errorf("%w: result %d out of range 1..%d", index.ErrInvalidArgument, n, len(s.last))
	}
	return s.last[n-1], nil
}

// Open hands result n to the opener.
func (s *Session) Open(n int, opener Opener) error {
	result, err := s.Result(n)
	if err != nil {
		return err
	}
	if err := opener.Open(result.Path); err != nil {
		return fmt.Errorf("opening %s: %w", result.Path, err)
	}
	return nil
}

// Delete removes the file behind result n of the last live search once the
// confirmer approves. On success the entry leaves the list and the remaining
// entries keep their order; on any failure the list is unchanged.
func (s *Session) Delete(n int, confirmer Confirmer) (SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastLive {
		return SearchResult{}, fmt.Errorf("%w: delete is only available for live search results", index.ErrInvalidArgument)
	}
	result, err := s.resultLocked(n)
	if err != nil {
		return SearchResult{}, err
	}
	if confirmer == nil || !confirmer.Confirm(result) {
		return SearchResult{}, ErrDeleteDeclined
	}
	if err := os.Remove(result.Path); err != nil {
		return SearchResult{}, fmt.Errorf("%w: deleting %s: %v", classifyRemove(err), result.Path, err)
	}
	s.last = slices.Delete(s.last, n-1, n)
	return result, nil
}

func classifyRemove(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return index.ErrNotFound
	case errors.Is(err, os.ErrPermission):
		return index.ErrAccessDenied
	default:
		return index.ErrIO
	}
}
