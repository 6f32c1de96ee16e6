package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/tools"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Handlers bundles the tool handlers registered on the server.
type Handlers struct {
	Build  *tools.BuildHandler
	Search *tools.SearchHandler
	Files  *tools.FilesHandler
	Read   *tools.ReadHandler
	Stats  *tools.StatsHandler
	Delete *tools.DeleteHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "filesearch-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server finds files on the local filesystem, by name or by content, including text extracted from PDF and Excel documents.

Two search modes:
- Indexed (default): queries an in-memory index built by filesearch_build. Fast, but only as fresh as the last build (the watcher rebuilds it when files change, if enabled).
- Live (live: true): walks the filesystem on every call. Slower, always current, supports regex and fuzzy name matching.

Results are numbered. The numbers stay valid until the next search and are used by filesearch_delete.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_build",
		Description: "Build (or rebuild) the in-memory index of the root directory. Pass root to index a different directory; it becomes the new default root. Queries keep using the previous index until the build completes.",
	}, handlers.Build.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filesearch_search",
		Description: `Search files by name or content.

Modes:
  - name: indexed = exact file name, live = name contains the query (case-insensitive)
  - prefix: file name starts with the query
  - content: file text contains the query (PDF and Excel text included in indexed mode)
  - all: name and content matches together, exact names first

Live options:
  - regex: query is a case-insensitive regular expression
  - fuzzy: every whitespace-separated term must appear in the name (name mode)
  - root: search a directory other than the default root`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filesearch_files",
		Description: `Find indexed files by glob pattern over root-relative paths.

Pattern examples:
  - "**/*.pdf" - all PDF documents
  - "reports/**/*.xlsx" - spreadsheets under reports/
  - "*.txt" - text files in the root only`,
	}, handlers.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_read",
		Description: `Read the text stored for a content-indexed file. For PDFs and spreadsheets this is the extracted text. Returns numbered lines.`,
	}, handlers.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_stats",
		Description: "Show index status: root, file counts, total size, last build, skipped entries, memory usage and uptime.",
	}, handlers.Stats.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_delete",
		Description: "Delete a file from disk by its number in the last live search result list. Requires confirm: true. The file is not moved to a trash folder.",
	}, handlers.Delete.Handle)

	return mcpServer
}
