package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/search"
)

// DeleteArgs defines the input parameters for the filesearch_delete tool.
type DeleteArgs struct {
	Number  int  `json:"number" jsonschema:"1-based number of the file in the last live search result list"`
	Confirm bool `json:"confirm" jsonschema:"Must be true; the file is removed from disk and cannot be restored"`
}

// DeleteHandler holds the dependencies for the delete tool.
type DeleteHandler struct {
	Session *search.Session
	Logger  *slog.Logger
}

// Handle processes a filesearch_delete request. The confirm flag is the
// explicit confirmation step; without it nothing is touched.
func (h *DeleteHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args DeleteArgs) (*mcp.CallToolResult, any, error) {
	confirmer := search.ConfirmFunc(func(search.SearchResult) bool {
		return args.Confirm
	})

	deleted, err := h.Session.Delete(args.Number, confirmer)
	if errors.Is(err, search.ErrDeleteDeclined) {
		h.Logger.Info("filesearch_delete not confirmed", "number", args.Number)
		if result, lookupErr := h.Session.Result(args.Number); lookupErr == nil {
			return errorResult("Not deleted: set confirm to true to delete %s", result.Path), nil, nil
		}
		return errorResult("Not deleted: set confirm to true"), nil, nil
	}
	if err != nil {
		h.Logger.Error("filesearch_delete failed", "number", args.Number, "error", err)
		return errorResult("Delete error: %v", err), nil, nil
	}

	h.Logger.Info("filesearch_delete", "number", args.Number, "path", deleted.Path)
	return textResult("Deleted: " + deleted.Path), nil, nil
}
