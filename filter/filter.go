// Package filter decides which directories a walk descends into and which
// files are eligible for indexing or content scanning.
package filter

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Options configures a Matcher. SkipDirs is copied at construction, so one
// Options value can seed any number of matchers.
type Options struct {
	RootDir          string
	SkipDirs         []string
	HiddenPrefix     string   // "" disables hidden-directory pruning
	ExcludePatterns  []string // doublestar globs against the root-relative path or base name
	RespectGitignore bool
	MaxFileSizeBytes int64
}

// WithRoot returns a copy of the options bound to rootDir.
func (o Options) WithRoot(rootDir string) Options {
	o.RootDir = rootDir
	return o
}

// Matcher is the path filter for one walk root.
// Thread-safe: Reload() acquires a write lock, the Should* methods acquire a read lock.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	skipDirs         map[string]struct{} // lowercased names
	hiddenPrefix     string
	excludePatterns  []string
	respectGitignore bool
	gitIgnore        gitignore.GitIgnore
	maxFileSizeBytes int64
}

// NewMatcher creates a matcher from options. A non-positive size ceiling falls
// back to DefaultIndexedMaxFileSize.
func NewMatcher(options Options) *Matcher {
	matcher := &Matcher{
		rootDir:          options.RootDir,
		skipDirs:         make(map[string]struct{}, len(options.SkipDirs)),
		hiddenPrefix:     options.HiddenPrefix,
		excludePatterns:  normalizePatterns(options.ExcludePatterns),
		respectGitignore: options.RespectGitignore,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	for _, name := range options.SkipDirs {
		matcher.skipDirs[strings.ToLower(name)] = struct{}{}
	}
	if matcher.maxFileSizeBytes <= 0 {
		matcher.maxFileSizeBytes = DefaultIndexedMaxFileSize
	}
	if matcher.respectGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	}
	return matcher
}

// RootDir returns the walk root the matcher is bound to.
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// SkipDirName reports whether a directory with this base name is pruned:
// it is in the skip set (case-insensitive) or starts with the hidden prefix.
func (m *Matcher) SkipDirName(name string) bool {
	if _, ok := m.skipDirs[strings.ToLower(name)]; ok {
		return true
	}
	return m.hiddenPrefix != "" && strings.HasPrefix(name, m.hiddenPrefix)
}

// ShouldSkipDir reports whether the walk should not descend into absolutePath.
// The root itself is never skipped.
func (m *Matcher) ShouldSkipDir(absolutePath string) bool {
	if filepath.Clean(absolutePath) == filepath.Clean(m.rootDir) {
		return false
	}
	if m.SkipDirName(filepath.Base(absolutePath)) {
		return true
	}
	return m.excluded(absolutePath, true)
}

// ShouldIgnoreFile reports whether a file is excluded by custom patterns or .gitignore.
func (m *Matcher) ShouldIgnoreFile(absolutePath string) bool {
	return m.excluded(absolutePath, false)
}

// IsFileTooLarge returns true if the file exceeds the size ceiling.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return fileSize > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured size ceiling.
func (m *Matcher) MaxFileSizeBytes() int64 {
	return m.maxFileSizeBytes
}

func (m *Matcher) excluded(absolutePath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	// Normalize to forward slashes for consistent matching
	relativePath = filepath.ToSlash(relativePath)

	if m.matchesExcludePatterns(relativePath) {
		return true
	}

	// Relative() doesn't require the file to exist on disk
	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// matchesExcludePatterns checks the relative path and its base name against the custom patterns.
func (m *Matcher) matchesExcludePatterns(relativePath string) bool {
	baseName := relativePath
	if idx := strings.LastIndex(relativePath, "/"); idx >= 0 {
		baseName = relativePath[idx+1:]
	}
	for _, pattern := range m.excludePatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Reload re-reads .gitignore from the root. No-op unless gitignore support is enabled.
func (m *Matcher) Reload() {
	if !m.respectGitignore {
		return
	}
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
}

// normalizePatterns converts backslashes and drops patterns doublestar cannot parse.
func normalizePatterns(patterns []string) []string {
	valid := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			continue
		}
		valid = append(valid, pattern)
	}
	return valid
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
