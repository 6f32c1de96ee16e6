package index

import (
	"errors"
	"fmt"
)

// Error kinds shared by the indexer, both query engines and the session layer.
// Callers test with errors.Is; producers wrap with fmt.Errorf("...: %w", Err...).
var (
	// ErrNotFound is returned when a search root does not exist. Fatal to a build call.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied marks a subtree or file skipped for lack of permission.
	ErrAccessDenied = errors.New("access denied")
	// ErrIO marks a single file or directory skipped because of a read/stat failure.
	ErrIO = errors.New("i/o error")
	// ErrExtraction marks a file whose text could not be extracted. Name indexing still proceeds.
	ErrExtraction = errors.New("content extraction failed")
	// ErrPattern is returned for a malformed regex or glob. No partial results are produced.
	ErrPattern = errors.New("invalid pattern")
	// ErrInvalidArgument covers out-of-range result numbers and similar caller mistakes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotBuilt is returned when an indexed query is issued before a successful build.
	ErrNotBuilt = fmt.Errorf("%w: index not built yet", ErrInvalidArgument)
)
