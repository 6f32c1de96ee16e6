package tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func newTestReadHandler(t *testing.T, files map[string]string) (*ReadHandler, string) {
	t.Helper()
	session, root := newBuiltSession(t, files)
	return &ReadHandler{Engine: session.Indexed(), Logger: discardLogger()}, root
}

func Test_ReadHandler_EmptyPath(t *testing.T) {
	h, _ := newTestReadHandler(t, nil)

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}
}

func Test_ReadHandler_RelativePath(t *testing.T) {
	h, _ := newTestReadHandler(t, map[string]string{"notes/todo.txt": "first\nsecond"})

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "notes/todo.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "── notes/todo.txt (2 lines) ──") {
		t.Errorf("expected header, got:\n%s", text)
	}
	if !strings.Contains(text, "2│ second") {
		t.Errorf("expected numbered content, got:\n%s", text)
	}
}

func Test_ReadHandler_AbsolutePath(t *testing.T) {
	h, root := newTestReadHandler(t, map[string]string{"a.md": "# title"})
	path := filepath.Join(root, "a.md")

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "1│ # title") {
		t.Errorf("expected content, got:\n%s", text)
	}
}

func Test_ReadHandler_NotContentIndexed(t *testing.T) {
	h, _ := newTestReadHandler(t, map[string]string{"image.png": "binary"})

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "image.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for a file without stored text")
	}
	if text := resultText(t, result); !strings.Contains(text, "File not content-indexed: image.png") {
		t.Errorf("expected not-indexed message, got: %s", text)
	}
}
