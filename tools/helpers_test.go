package tools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/lexandro/filesearch-mcp/search"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tempDir returns a temp dir with symlinks resolved, matching the paths walks record.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	return dir
}

// newTestSession returns a session over a fresh temp dir, with the given
// files written below it. Nothing is built yet.
func newTestSession(t *testing.T, files map[string]string) (*search.Session, string) {
	t.Helper()
	root := tempDir(t)
	for relPath, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", relPath, err)
		}
	}

	indexed := search.NewIndexedEngine(indexer.New(indexer.Options{
		Filter: filter.Options{
			SkipDirs:         filter.DefaultIndexedSkipDirs(),
			HiddenPrefix:     filter.DefaultHiddenPrefix,
			MaxFileSizeBytes: filter.DefaultIndexedMaxFileSize,
		},
	}, discardLogger()), discardLogger())
	live := search.NewLiveEngine(search.LiveOptions{
		Filter: filter.Options{
			SkipDirs:         filter.DefaultLiveSkipDirs(),
			HiddenPrefix:     filter.DefaultHiddenPrefix,
			MaxFileSizeBytes: filter.DefaultLiveMaxFileSize,
		},
		Workers: 2,
	}, discardLogger())

	return search.NewSession(indexed, live, root), root
}

// newBuiltSession is newTestSession followed by an index build.
func newBuiltSession(t *testing.T, files map[string]string) (*search.Session, string) {
	t.Helper()
	session, root := newTestSession(t, files)
	if _, err := session.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	return session, root
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *mcp.TextContent, got %T", result.Content[0])
	}
	return text.Text
}
