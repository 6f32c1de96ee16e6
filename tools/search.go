package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/index"
	"github.com/lexandro/filesearch-mcp/search"
)

// SearchArgs defines the input parameters for the filesearch_search tool.
type SearchArgs struct {
	Query        string `json:"query" jsonschema:"Search term. A file name, name prefix or text to look for depending on mode"`
	Mode         string `json:"mode,omitempty" jsonschema:"One of name, prefix, content, all (default name)"`
	Live         bool   `json:"live,omitempty" jsonschema:"Walk the filesystem now instead of using the built index. Name mode then matches substrings"`
	Regex        bool   `json:"regex,omitempty" jsonschema:"Live only: treat query as a case-insensitive regular expression"`
	Fuzzy        bool   `json:"fuzzy,omitempty" jsonschema:"Live name mode only: split query on whitespace and require every term in the name"`
	Root         string `json:"root,omitempty" jsonschema:"Live only: directory to search (default the server root)"`
	MaxResults   int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to show (default 50)"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"Indexed content results: context lines around each matching line (default 0, -1 hides lines)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Session    *search.Session
	MaxResults int
	Logger     *slog.Logger
}

// Handle processes a filesearch_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("filesearch_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	mode, err := search.ParseMode(args.Mode)
	if err != nil {
		return errorResult("Error: %v", err), nil, nil
	}

	found, err := h.Session.Search(search.Query{
		Term:  args.Query,
		Mode:  mode,
		Live:  args.Live,
		Regex: args.Regex,
		Fuzzy: args.Fuzzy,
		Root:  args.Root,
	})
	if err != nil {
		h.Logger.Error("filesearch_search failed", "query", args.Query, "mode", mode, "live", args.Live, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("filesearch_search",
		"query", args.Query,
		"mode", mode,
		"live", args.Live,
		"regex", args.Regex,
		"fuzzy", args.Fuzzy,
		"results", len(found),
		"elapsed", time.Since(start),
	)

	limit := args.MaxResults
	if limit <= 0 {
		limit = h.MaxResults
	}

	var lines MatchLookup
	if !args.Live && args.ContextLines >= 0 {
		if snapshot := h.Session.Indexed().Snapshot(); snapshot != nil {
			lines = func(path string) []index.LineMatch {
				return snapshot.Content.MatchingLines(path, args.Query, args.ContextLines)
			}
		}
	}

	root := args.Root
	if root == "" {
		root = h.Session.Root()
	}
	return textResult(FormatResults(found, root, searchLabel(args, mode), limit, lines)), nil, nil
}

func searchLabel(args SearchArgs, mode search.Mode) string {
	label := "indexed " + mode.String()
	if args.Live {
		label = "live " + mode.String()
		switch {
		case args.Fuzzy && mode == search.ModeName:
			label += ", fuzzy"
		case args.Regex:
			label += ", regex"
		}
	}
	return label + " search"
}
