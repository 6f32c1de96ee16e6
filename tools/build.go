package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/search"
)

// BuildArgs defines the input parameters for the filesearch_build tool.
type BuildArgs struct {
	Root string `json:"root,omitempty" jsonschema:"Directory to index; becomes the new server root (default the current root)"`
}

// BuildHandler holds the dependencies for the build tool.
type BuildHandler struct {
	Session *search.Session
	Logger  *slog.Logger
}

// Handle processes a filesearch_build request. The previous index keeps
// serving queries until the new one is complete.
func (h *BuildHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args BuildArgs) (*mcp.CallToolResult, any, error) {
	if args.Root != "" {
		if err := h.Session.SetRoot(args.Root); err != nil {
			h.Logger.Error("filesearch_build invalid root", "root", args.Root, "error", err)
			return errorResult("Build error: %v", err), nil, nil
		}
	}

	h.Logger.Info("filesearch_build started", "root", h.Session.Root())

	snapshot, err := h.Session.Build(ctx)
	if err != nil {
		h.Logger.Error("filesearch_build failed", "error", err)
		return errorResult("Build error: %v", err), nil, nil
	}

	output := fmt.Sprintf("indexed: %d files (%s), %d with content, in %s",
		snapshot.Catalog.Len(),
		formatFileSize(snapshot.Catalog.TotalSizeBytes()),
		snapshot.Content.Len(),
		snapshot.Duration.Round(time.Millisecond),
	)
	if skipped := snapshot.SkippedDirs + snapshot.SkippedFiles + snapshot.ExtractionFailures + snapshot.OversizeFiles; skipped > 0 {
		output += fmt.Sprintf("\nskipped: %d directories, %d files; %d extraction failures; %d too large for content",
			snapshot.SkippedDirs, snapshot.SkippedFiles, snapshot.ExtractionFailures, snapshot.OversizeFiles)
	}

	return textResult(output), nil, nil
}
