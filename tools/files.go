package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/search"
)

// FilesArgs defines the input parameters for the filesearch_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern matched against root-relative paths (e.g. **/*.pdf or docs/**/*.md)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Engine *search.IndexedEngine
	Logger *slog.Logger
}

// Handle processes a filesearch_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("filesearch_files called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	records, err := h.Engine.SearchByGlob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("filesearch_files failed", "pattern", args.Pattern, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("filesearch_files",
		"pattern", args.Pattern,
		"results", len(records),
		"elapsed", time.Since(start),
	)

	return textResult(FormatFileResults(records, args.NameOnly)), nil, nil
}
