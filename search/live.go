package search

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lexandro/filesearch-mcp/extract"
	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/index"
)

// maxLineBytes is the longest line the content scanner accepts. A file with a
// longer line is treated as unreadable from that line on.
const maxLineBytes = 1024 * 1024

// LiveOptions configures a LiveEngine.
type LiveOptions struct {
	Filter         filter.Options
	TextExtensions []string
	Workers        int // parallel line scanners; 0 means runtime.NumCPU()
}

// LiveEngine searches by walking the filesystem on every call. It keeps no state
// between calls. The walk is sequential; content scans of the walked files run
// on a bounded worker group and are merged back in walk order.
type LiveEngine struct {
	options  LiveOptions
	textExts extract.ExtensionSet
	workers  int
	logger   *slog.Logger
}

// NewLiveEngine creates a live engine.
func NewLiveEngine(options LiveOptions, logger *slog.Logger) *LiveEngine {
	if options.Filter.MaxFileSizeBytes <= 0 {
		options.Filter.MaxFileSizeBytes = filter.DefaultLiveMaxFileSize
	}
	if options.TextExtensions == nil {
		options.TextExtensions = extract.DefaultLiveTextExtensions()
	}
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveEngine{
		options:  options,
		textExts: extract.NewExtensionSet(options.TextExtensions),
		workers:  workers,
		logger:   logger,
	}
}

// SearchByName returns files under root whose name contains term
// (case-insensitive) or, with useRegex, matches term as a case-insensitive
// regular expression anywhere in the name. A malformed pattern fails before
// any walking.
func (e *LiveEngine) SearchByName(root string, term string, useRegex bool) ([]SearchResult, error) {
	var matches func(name string) bool
	if useRegex {
		re, err := compilePattern(term)
		if err != nil {
			return nil, err
		}
		matches = re.MatchString
	} else {
		lowerTerm := strings.ToLower(term)
		matches = func(name string) bool {
			return strings.Contains(strings.ToLower(name), lowerTerm)
		}
	}

	found, err := e.collectNames(root, matches)
	if err != nil {
		return nil, err
	}
	rankByName(found, term, resultKey)
	return found, nil
}

// SearchByNamePrefix returns files under root whose name starts with term, case-insensitively.
func (e *LiveEngine) SearchByNamePrefix(root string, term string) ([]SearchResult, error) {
	lowerTerm := strings.ToLower(term)
	found, err := e.collectNames(root, func(name string) bool {
		return strings.HasPrefix(strings.ToLower(name), lowerTerm)
	})
	if err != nil {
		return nil, err
	}
	rankByName(found, term, resultKey)
	return found, nil
}

// SearchByNameFuzzy splits query on whitespace and returns files whose
// lowercased name contains every term. An empty query matches nothing.
func (e *LiveEngine) SearchByNameFuzzy(root string, query string) ([]SearchResult, error) {
	terms := fuzzyTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	found, err := e.collectNames(root, func(name string) bool {
		return matchesAllTerms(strings.ToLower(name), terms)
	})
	if err != nil {
		return nil, err
	}
	rankFuzzy(found, terms, resultKey)
	return found, nil
}

// SearchByContent returns text-likely files under the size ceiling that have at
// least one line containing term (case-insensitive) or, with useRegex, matching it.
// Results are ordered smallest file first.
func (e *LiveEngine) SearchByContent(root string, term string, useRegex bool) ([]SearchResult, error) {
	var matchLine func(line string) bool
	if useRegex {
		re, err := compilePattern(term)
		if err != nil {
			return nil, err
		}
		matchLine = re.MatchString
	} else {
		lowerTerm := strings.ToLower(term)
		matchLine = func(line string) bool {
			return strings.Contains(strings.ToLower(line), lowerTerm)
		}
	}

	var candidates []SearchResult
	err := e.walk(root, func(path string, info fs.FileInfo, matcher *filter.Matcher) {
		if !e.textExts.IsTextLikely(info.Name()) || matcher.IsFileTooLarge(info.Size()) {
			return
		}
		candidates = append(candidates, resultFromInfo(path, info, KindContent))
	})
	if err != nil {
		return nil, err
	}

	hits := make([]bool, len(candidates))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range candidates {
		g.Go(func() error {
			hits[i] = e.scanFile(candidates[i].Path, matchLine)
			return nil
		})
	}
	g.Wait()

	var found []SearchResult
	for i, hit := range hits {
		if hit {
			found = append(found, candidates[i])
		}
	}
	rankBySize(found)
	return found, nil
}

// Search dispatches a live query. useFuzzy applies to name mode only and wins
// over useRegex; ModeAll returns name matches followed by content-only matches.
func (e *LiveEngine) Search(root string, term string, mode Mode, useRegex bool, useFuzzy bool) ([]SearchResult, error) {
	switch mode {
	case ModePrefix:
		return e.SearchByNamePrefix(root, term)
	case ModeContent:
		return e.SearchByContent(root, term, useRegex)
	case ModeAll:
		names, err := e.searchNames(root, term, useRegex, useFuzzy)
		if err != nil {
			return nil, err
		}
		contents, err := e.SearchByContent(root, term, useRegex)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(names))
		for _, r := range names {
			seen[r.Path] = struct{}{}
		}
		for _, r := range contents {
			if _, ok := seen[r.Path]; !ok {
				names = append(names, r)
			}
		}
		return names, nil
	default:
		return e.searchNames(root, term, useRegex, useFuzzy)
	}
}

func (e *LiveEngine) searchNames(root string, term string, useRegex bool, useFuzzy bool) ([]SearchResult, error) {
	if useFuzzy {
		return e.SearchByNameFuzzy(root, term)
	}
	return e.SearchByName(root, term, useRegex)
}

func (e *LiveEngine) collectNames(root string, matches func(name string) bool) ([]SearchResult, error) {
	var found []SearchResult
	err := e.walk(root, func(path string, info fs.FileInfo, _ *filter.Matcher) {
		if matches(info.Name()) {
			found = append(found, resultFromInfo(path, info, KindName))
		}
	})
	return found, err
}

// walk visits every regular file under root that survives the live filter.
// A symlinked root is resolved before walking. Unreadable directories and
// files are skipped.
func (e *LiveEngine) walk(root string, visit func(path string, info fs.FileInfo, matcher *filter.Matcher)) error {
	absRoot, err := filter.ResolveRoot(root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: root %s", index.ErrNotFound, root)
	}
	if err != nil {
		return fmt.Errorf("%w: resolving root %q: %v", index.ErrIO, root, err)
	}
	rootInfo, err := os.Stat(absRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: root %s", index.ErrNotFound, absRoot)
	}
	if err != nil {
		return fmt.Errorf("%w: root %s: %v", index.ErrIO, absRoot, err)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("%w: root %s is not a directory", index.ErrInvalidArgument, absRoot)
	}

	matcher := filter.NewMatcher(e.options.Filter.WithRoot(absRoot))
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logger.Debug("live search skipped path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != absRoot {
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
		if !d.Type().IsRegular() || matcher.ShouldIgnoreFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			e.logger.Debug("live search skipped file", "path", path, "error", err)
			return nil
		}
		visit(path, info, matcher)
		return nil
	})
}

// scanFile reports whether any line of the file satisfies matchLine.
// Read errors, including an over-long line, end the scan without a match.
func (e *LiveEngine) scanFile(path string, matchLine func(line string) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Debug("live search cannot open file", "path", path, "error", err)
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if matchLine(scanner.Text()) {
			return true
		}
	}
	if err := scanner.Err(); err != nil {
		e.logger.Debug("live search stopped reading file", "path", path, "error", err)
	}
	return false
}

// compilePattern compiles a case-insensitive, unanchored pattern.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrPattern, err)
	}
	return re, nil
}

func resultFromInfo(path string, info fs.FileInfo, kind MatchKind) SearchResult {
	return SearchResult{
		Path:      path,
		Name:      info.Name(),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		Kind:      kind,
	}
}
