package filter

// Default size ceilings. The indexed and live modes carry separate thresholds
// and are tuned independently through configuration.
const (
	DefaultIndexedMaxFileSize int64 = 50 * 1024 * 1024 // 50MB
	DefaultLiveMaxFileSize    int64 = 10 * 1024 * 1024 // 10MB
)

// DefaultHiddenPrefix marks directories that are never descended into.
const DefaultHiddenPrefix = "."

// DefaultIndexedSkipDirs returns the directory names pruned by an index build.
// A fresh slice is returned on every call so callers may modify it.
func DefaultIndexedSkipDirs() []string {
	return []string{
		// Version control
		".git",
		// Dependencies / build output
		"node_modules",
		"target",
		"build",
		// IDE / Editor
		".idea",
		".vscode",
		// OS / system
		"library",
		"system",
		"cache",
		"logs",
	}
}

// DefaultLiveSkipDirs returns the directory names pruned by a live search walk.
func DefaultLiveSkipDirs() []string {
	return []string{
		// Version control
		".git",
		".svn",
		".hg",
		// Dependencies
		"node_modules",
		// Build output
		"target",
		"build",
		"bin",
		"obj",
		// OS / system
		"Library",
		"System",
		"Applications",
		"private",
		"var",
		"tmp",
		"usr",
	}
}
