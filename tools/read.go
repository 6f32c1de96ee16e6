package tools

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/search"
)

// ReadArgs defines the input parameters for the filesearch_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Path of a content-indexed file, absolute or relative to the index root"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Engine *search.IndexedEngine
	Logger *slog.Logger
}

// Handle processes a filesearch_read request. It serves the extracted text,
// so PDFs and spreadsheets come back as plain text.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("filesearch_read called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	path := args.FilePath
	if !filepath.IsAbs(path) {
		if snapshot := h.Engine.Snapshot(); snapshot != nil {
			path = filepath.Join(snapshot.Root, filepath.FromSlash(path))
		}
	}

	content, ok := h.Engine.Content(path)
	if !ok {
		h.Logger.Info("filesearch_read file not content-indexed", "filePath", args.FilePath)
		return errorResult("File not content-indexed: %s", args.FilePath), nil, nil
	}

	h.Logger.Info("filesearch_read", "filePath", args.FilePath, "elapsed", time.Since(start))

	return textResult(FormatFileContent(args.FilePath, content)), nil, nil
}
