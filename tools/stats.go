package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/filesearch-mcp/search"
)

// StatsArgs defines the input parameters for the filesearch_stats tool (none required).
type StatsArgs struct{}

// StatsHandler holds the dependencies for the stats tool.
type StatsHandler struct {
	Session   *search.Session
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a filesearch_stats request.
func (h *StatsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, any, error) {
	stats := h.Session.Indexed().Statistics()
	if stats.RootDir == "" {
		stats.RootDir = h.Session.Root()
	}
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("filesearch_stats",
		"status", stats.Status,
		"files", stats.TotalFiles,
		"totalSize", stats.TotalSizeBytes,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	return textResult(FormatStatistics(stats, uptime, memStats.HeapAlloc)), nil, nil
}

// FormatStatistics renders index statistics as text.
func FormatStatistics(stats search.Statistics, uptime time.Duration, heapBytes uint64) string {
	var builder strings.Builder

	builder.WriteString("=== filesearch Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Status: %s\n", stats.Status))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s\n", formatFileSize(int64(heapBytes))))
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", stats.RootDir))
	if stats.Snapshot == nil {
		return builder.String()
	}

	snapshot := stats.Snapshot
	builder.WriteString(fmt.Sprintf("Total files: %d\n", stats.TotalFiles))
	builder.WriteString(fmt.Sprintf("Text files: %d\n", stats.TextFiles))
	builder.WriteString(fmt.Sprintf("Total size: %s\n", formatFileSize(stats.TotalSizeBytes)))
	builder.WriteString(fmt.Sprintf("Last build: %s (took %s)\n",
		snapshot.BuiltAt.Format(time.RFC3339), snapshot.Duration.Round(time.Millisecond)))
	builder.WriteString(fmt.Sprintf("Skipped: %d directories, %d files\n", snapshot.SkippedDirs, snapshot.SkippedFiles))
	builder.WriteString(fmt.Sprintf("Content skipped: %d extraction failures, %d too large\n",
		snapshot.ExtractionFailures, snapshot.OversizeFiles))

	return builder.String()
}
