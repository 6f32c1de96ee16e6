package filter

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func newIndexedMatcher(rootDir string) *Matcher {
	return NewMatcher(Options{
		RootDir:      rootDir,
		SkipDirs:     DefaultIndexedSkipDirs(),
		HiddenPrefix: DefaultHiddenPrefix,
	})
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func Test_Matcher_ShouldSkipDir_DefaultSet(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := newIndexedMatcher(tmpDir)

	tests := []struct {
		dirName string
		skipped bool
	}{
		{".git", true},
		{"node_modules", true},
		{"target", true},
		{"Build", true}, // case-insensitive
		{"Library", true},
		{".hidden", true},
		{"src", false},
		{"lib", false},
		{"docs", false},
	}

	for _, tt := range tests {
		if got := matcher.ShouldSkipDir(filepath.Join(tmpDir, tt.dirName)); got != tt.skipped {
			t.Errorf("ShouldSkipDir(%s) = %v, want %v", tt.dirName, got, tt.skipped)
		}
	}
}

func Test_Matcher_ShouldSkipDir_NeverSkipsRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".config")
	matcher := newIndexedMatcher(root)

	if matcher.ShouldSkipDir(root) {
		t.Error("expected the root itself never to be skipped")
	}
	if !matcher.ShouldSkipDir(filepath.Join(root, ".cache")) {
		t.Error("expected hidden directories below the root to be skipped")
	}
}

func Test_Matcher_HiddenPrefixDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(Options{RootDir: tmpDir, SkipDirs: []string{"vendor"}})

	if matcher.ShouldSkipDir(filepath.Join(tmpDir, ".github")) {
		t.Error("expected .github to be walked without a hidden prefix")
	}
	if !matcher.ShouldSkipDir(filepath.Join(tmpDir, "vendor")) {
		t.Error("expected vendor to be skipped")
	}
}

func Test_Matcher_SkipSetsAreIndependent(t *testing.T) {
	indexed := DefaultIndexedSkipDirs()
	live := DefaultLiveSkipDirs()

	if !slices.Contains(live, "bin") {
		t.Error("expected bin in the live skip set")
	}
	if slices.Contains(indexed, "bin") {
		t.Error("expected bin not in the indexed skip set")
	}

	indexed[0] = "mutated"
	if got := DefaultIndexedSkipDirs()[0]; got != ".git" {
		t.Errorf("defaults mutated through a returned slice: first entry = %s", got)
	}
}

func Test_Matcher_ExcludePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(Options{
		RootDir:         tmpDir,
		ExcludePatterns: []string{"*.custom", "generated/**", "[broken"},
	})

	if !matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "deep", "data.custom")) {
		t.Error("expected *.custom to match by base name")
	}
	if !matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "generated", "a", "b.go")) {
		t.Error("expected generated/** to match files")
	}
	if !matcher.ShouldSkipDir(filepath.Join(tmpDir, "generated", "a")) {
		t.Error("expected generated/** to prune directories")
	}
	if matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "main.go")) {
		t.Error("expected main.go to pass")
	}
}

func Test_Matcher_GitignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), "*.generated.go\nsecret/\n")

	matcher := NewMatcher(Options{RootDir: tmpDir, RespectGitignore: true})

	if !matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "models.generated.go")) {
		t.Error("expected .gitignore file pattern to apply")
	}
	if !matcher.ShouldSkipDir(filepath.Join(tmpDir, "secret")) {
		t.Error("expected .gitignore directory pattern to apply")
	}
	if matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "main.go")) {
		t.Error("expected main.go to pass")
	}
}

func Test_Matcher_GitignoreOffByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), "*.log\n")

	matcher := NewMatcher(Options{RootDir: tmpDir})

	if matcher.ShouldIgnoreFile(filepath.Join(tmpDir, "app.log")) {
		t.Error("expected .gitignore to be ignored unless enabled")
	}
}

func Test_Matcher_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(Options{RootDir: tmpDir, RespectGitignore: true})
	target := filepath.Join(tmpDir, "notes.tmp")
	if matcher.ShouldIgnoreFile(target) {
		t.Fatal("expected notes.tmp to pass before .gitignore exists")
	}

	writeFile(t, filepath.Join(tmpDir, ".gitignore"), "*.tmp\n")
	matcher.Reload()

	if !matcher.ShouldIgnoreFile(target) {
		t.Error("expected reloaded .gitignore to apply")
	}
}

func Test_Matcher_FileSizeLimit(t *testing.T) {
	matcher := NewMatcher(Options{
		RootDir:          t.TempDir(),
		MaxFileSizeBytes: 1024,
	})

	if !matcher.IsFileTooLarge(2048) {
		t.Error("expected 2048 bytes to be too large")
	}
	if matcher.IsFileTooLarge(1024) {
		t.Error("expected 1024 bytes (the limit) to be allowed")
	}
	if matcher.IsFileTooLarge(512) {
		t.Error("expected 512 bytes to be allowed")
	}
}

func Test_Matcher_DefaultMaxFileSize(t *testing.T) {
	matcher := NewMatcher(Options{RootDir: t.TempDir()})
	if got := matcher.MaxFileSizeBytes(); got != DefaultIndexedMaxFileSize {
		t.Errorf("MaxFileSizeBytes() = %d, want %d", got, DefaultIndexedMaxFileSize)
	}
}

func Test_Options_WithRoot(t *testing.T) {
	base := Options{SkipDirs: []string{"x"}, MaxFileSizeBytes: DefaultLiveMaxFileSize}
	bound := base.WithRoot("/data")

	if bound.RootDir != "/data" {
		t.Errorf("bound root = %q, want /data", bound.RootDir)
	}
	if base.RootDir != "" {
		t.Errorf("base options modified: root = %q", base.RootDir)
	}
	if bound.MaxFileSizeBytes != DefaultLiveMaxFileSize {
		t.Errorf("bound size ceiling = %d, want %d", bound.MaxFileSizeBytes, DefaultLiveMaxFileSize)
	}
}

func Test_ResolveRoot_FollowsSymlink(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "real")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(parent, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := ResolveRoot(link)
	if err != nil {
		t.Fatalf("ResolveRoot() error: %v", err)
	}
	want, err := filepath.EvalSymlinks(target)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("ResolveRoot(link) = %q, want %q", got, want)
	}
}

func Test_ResolveRoot_Missing(t *testing.T) {
	_, err := ResolveRoot(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ResolveRoot(missing) error = %v, want os.ErrNotExist", err)
	}
}
