package tools

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/index"
	"github.com/lexandro/filesearch-mcp/search"
)

// MatchLookup returns the matching lines of a content-indexed file, or nil.
type MatchLookup func(path string) []index.LineMatch

// FormatResults formats a numbered result list. Numbers are 1-based and stable
// until the next search, so callers can refer to them in a delete request.
// Paths under root are shown relative to it.
func FormatResults(results []search.SearchResult, root string, label string, limit int, lines MatchLookup) string {
	if len(results) == 0 {
		return "No files found."
	}

	var builder strings.Builder
	shown := len(results)
	if limit > 0 && shown > limit {
		shown = limit
	}
	builder.WriteString(fmt.Sprintf("Found %s files (%s)", humanize.Comma(int64(len(results))), label))
	if shown < len(results) {
		builder.WriteString(fmt.Sprintf(", showing first %d", shown))
	}
	builder.WriteString(":\n\n")

	width := len(fmt.Sprintf("%d", shown))
	for i, result := range results[:shown] {
		builder.WriteString(fmt.Sprintf("%*d. %s  (%s, %s, %s, modified %s)\n",
			width, i+1,
			result.Name,
			displayPath(root, result.Path),
			formatFileSize(result.SizeBytes),
			result.Kind,
			result.ModTime.Format("2006-01-02 15:04"),
		))
		if lines == nil || result.Kind != search.KindContent {
			continue
		}
		for _, match := range lines(result.Path) {
			for _, ctxLine := range match.ContextBefore {
				builder.WriteString(fmt.Sprintf("     %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("     %d: %s\n", match.LineNumber, match.LineText))
			for _, ctxLine := range match.ContextAfter {
				builder.WriteString(fmt.Sprintf("     %s\n", ctxLine))
			}
		}
	}

	return builder.String()
}

// FormatFileResults formats glob search results as human-readable text.
func FormatFileResults(records []*index.FileRecord, nameOnly bool) string {
	if len(records) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(records)))

	for _, record := range records {
		if nameOnly {
			builder.WriteString(record.RelativePath)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, modified %s)\n",
				record.RelativePath,
				formatFileSize(record.SizeBytes),
				humanize.Time(record.ModTime),
			))
		}
	}

	return builder.String()
}

// FormatFileContent formats stored text with line numbers.
// Output format: header line with path and line count, followed by numbered lines.
func FormatFileContent(filePath string, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))

	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}

	return builder.String()
}

// displayPath shows path relative to root when it lies below it.
func displayPath(root string, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// formatFileSize converts bytes to a human-readable IEC string.
func formatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
