package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lexandro/filesearch-mcp/config"
	"github.com/lexandro/filesearch-mcp/extract"
	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/lexandro/filesearch-mcp/search"
	"github.com/lexandro/filesearch-mcp/server"
	"github.com/lexandro/filesearch-mcp/tools"
	"github.com/lexandro/filesearch-mcp/watcher"
)

// app holds the engines and handlers wired from one resolved config.
type app struct {
	cfg       *config.Config
	root      string
	logger    *slog.Logger
	startTime time.Time

	indexed *search.IndexedEngine
	live    *search.LiveEngine
	session *search.Session
}

// loadConfig resolves the root directory, reads the config file and applies
// flags that were set explicitly on the command line.
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, string, error) {
	rootDir := flags.root
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting working directory: %w", err)
		}
		rootDir = wd
	}

	cfg, err := config.Load(flags.configPath, rootDir)
	if err != nil {
		return nil, "", err
	}

	changed := cmd.Flags().Changed
	if flags.root == "" && cfg.Root != "" {
		rootDir = cfg.Root
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if changed("watch") {
		cfg.Watch = &flags.watch
	}
	if changed("sync-interval") {
		cfg.SyncIntervalSeconds = &flags.syncInterval
	}
	if changed("max-results") {
		cfg.MaxResults = &flags.maxResults
	}
	cfg.Exclude = append(cfg.Exclude, flags.excludes...)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid flags: %w", err)
	}

	rootDir, err = filepath.Abs(rootDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving root %s: %w", rootDir, err)
	}
	cfg.Root = rootDir
	return cfg, rootDir, nil
}

// newApp builds both engines and the session from cfg.
func newApp(cfg *config.Config, rootDir string, logger *slog.Logger) *app {
	ix := indexer.New(indexer.Options{
		Filter:     cfg.IndexedFilter(),
		Extractors: extract.DefaultRegistry(cfg.ContentExtensions()),
	}, logger)
	indexed := search.NewIndexedEngine(ix, logger)
	live := search.NewLiveEngine(search.LiveOptions{
		Filter:         cfg.LiveFilter(),
		TextExtensions: cfg.TextExtensions(),
		Workers:        cfg.LiveWorkers(),
	}, logger)

	return &app{
		cfg:       cfg,
		root:      rootDir,
		logger:    logger,
		startTime: time.Now(),
		indexed:   indexed,
		live:      live,
		session:   search.NewSession(indexed, live, rootDir),
	}
}

func (a *app) handlers() server.Handlers {
	return server.Handlers{
		Build:  &tools.BuildHandler{Session: a.session, Logger: a.logger},
		Search: &tools.SearchHandler{Session: a.session, MaxResults: a.cfg.ResultLimit(), Logger: a.logger},
		Files:  &tools.FilesHandler{Engine: a.indexed, Logger: a.logger},
		Read:   &tools.ReadHandler{Engine: a.indexed, Logger: a.logger},
		Stats:  &tools.StatsHandler{Session: a.session, StartTime: a.startTime, Logger: a.logger},
		Delete: &tools.DeleteHandler{Session: a.session, Logger: a.logger},
	}
}

// runServe builds the index in the background and serves MCP on stdio
// until the client disconnects or the process is signalled.
func runServe(cmd *cobra.Command, flags *cliFlags) error {
	cfg, rootDir, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	// Never log to stdout: it carries the MCP stdio transport.
	logger, closeLog := setupLogger(cfg.Level(), cfg.LogFile)
	defer closeLog()

	logger.Info("starting filesearch-mcp",
		"version", server.Version,
		"root", rootDir,
		"config", cfg.Path(),
		"watch", cfg.WatchEnabled(),
		"syncInterval", cfg.SyncInterval(),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a := newApp(cfg, rootDir, logger)

	go func() {
		if _, err := a.session.Build(ctx); err != nil {
			logger.Error("initial index build failed", "root", rootDir, "error", err)
		}
	}()

	if cfg.WatchEnabled() {
		if err := a.startWatcher(ctx); err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		}
	}

	if interval := cfg.SyncInterval(); interval > 0 {
		go runPeriodicSync(ctx, time.Duration(interval)*time.Second, a.indexed, cfg.IndexedFilter(), logger)
	}

	mcpServer := server.Setup(a.handlers())

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("MCP server error", "error", err)
		return err
	}
	return nil
}

// startWatcher rebuilds the index of the session root after each debounced
// batch of changes under the startup root. The watch starts from the resolved
// root so it covers the same tree the indexer walks.
func (a *app) startWatcher(ctx context.Context) error {
	watchRoot, err := filter.ResolveRoot(a.root)
	if err != nil {
		return fmt.Errorf("resolving watch root %s: %w", a.root, err)
	}
	matcher := filter.NewMatcher(a.cfg.IndexedFilter().WithRoot(watchRoot))
	fileWatcher, err := watcher.New(watchRoot, matcher, watcher.DefaultDebounce, a.logger)
	if err != nil {
		return err
	}

	go fileWatcher.Start()
	go fileWatcher.Run(ctx, func(ctx context.Context) error {
		matcher.Reload()
		_, err := a.session.Build(ctx)
		return err
	})
	go func() {
		<-ctx.Done()
		fileWatcher.Close()
	}()
	return nil
}

// runSearch handles the one-shot search subcommand.
func runSearch(cmd *cobra.Command, flags *cliFlags, args tools.SearchArgs) error {
	a, closeLog, err := newCLIApp(cmd, flags)
	if err != nil {
		return err
	}
	defer closeLog()

	if !args.Live {
		if _, err := a.session.Build(cmd.Context()); err != nil {
			return err
		}
	}

	handler := &tools.SearchHandler{Session: a.session, MaxResults: a.cfg.ResultLimit(), Logger: a.logger}
	result, _, err := handler.Handle(cmd.Context(), nil, args)
	return printResult(cmd.OutOrStdout(), result, err)
}

// runStats handles the one-shot stats subcommand.
func runStats(cmd *cobra.Command, flags *cliFlags) error {
	a, closeLog, err := newCLIApp(cmd, flags)
	if err != nil {
		return err
	}
	defer closeLog()

	if _, err := a.session.Build(cmd.Context()); err != nil {
		return err
	}

	handler := &tools.StatsHandler{Session: a.session, StartTime: a.startTime, Logger: a.logger}
	result, _, err := handler.Handle(cmd.Context(), nil, tools.StatsArgs{})
	return printResult(cmd.OutOrStdout(), result, err)
}

func newCLIApp(cmd *cobra.Command, flags *cliFlags) (*app, func(), error) {
	cfg, rootDir, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, nil, err
	}
	// One-shot commands print results on stdout; keep the log quiet unless asked.
	level := cfg.Level()
	if cfg.LogLevel == "" {
		level = "warn"
	}
	logger, closeLog := setupLogger(level, cfg.LogFile)
	return newApp(cfg, rootDir, logger), closeLog, nil
}

// printResult writes a tool result as CLI output. Tool-level errors become command errors.
func printResult(w io.Writer, result *mcp.CallToolResult, err error) error {
	if err != nil {
		return err
	}
	var text strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			text.WriteString(tc.Text)
		}
	}
	if result.IsError {
		return errors.New(text.String())
	}
	fmt.Fprintln(w, strings.TrimRight(text.String(), "\n"))
	return nil
}

// setupLogger creates an slog.Logger writing to stderr or a file.
// The returned func closes the log file, if one was opened.
func setupLogger(level string, logFile string) (*slog.Logger, func()) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer io.Writer = os.Stderr
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
			closeFn = func() { f.Close() }
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler), closeFn
}
