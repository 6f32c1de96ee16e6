package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexandro/filesearch-mcp/config"
	"github.com/lexandro/filesearch-mcp/register"
	"github.com/lexandro/filesearch-mcp/server"
	"github.com/lexandro/filesearch-mcp/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds the persistent flags shared by all subcommands.
type cliFlags struct {
	root         string
	configPath   string
	logLevel     string
	logFile      string
	watch        bool
	excludes     []string
	syncInterval int
	maxResults   int
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "filesearch-mcp",
		Short:         "Filesystem name and content search over MCP",
		Long:          `Indexes a directory tree in memory (file names plus the text of plain-text, PDF and Excel files) and serves indexed and live searches over the Model Context Protocol on stdio.`,
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.root, "root", "", "Directory to index and search (default: current working directory)")
	pf.StringVar(&flags.configPath, "config", "", "Config file (default: <root>/"+config.FileName+" if present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug|info|warn|error (default: info)")
	pf.StringVar(&flags.logFile, "log-file", "", "Log file path (default: stderr)")
	pf.BoolVar(&flags.watch, "watch", false, "Rebuild the index when files under the root change")
	pf.StringArrayVar(&flags.excludes, "exclude", nil, "Extra exclude pattern (repeatable)")
	pf.IntVar(&flags.syncInterval, "sync-interval", 0, "Seconds between index consistency checks (0 disables)")
	pf.IntVar(&flags.maxResults, "max-results", 0, "Default max results shown (default: 50)")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newSearchCmd(flags),
		newStatsCmd(flags),
		newRegisterCmd(),
	)
	return rootCmd
}

func newServeCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

func newSearchCmd(flags *cliFlags) *cobra.Command {
	var args tools.SearchArgs

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print the numbered results",
		Long: `Run one search and print the numbered results.

Indexed searches build the index first; use --live to walk the filesystem instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			args.Query = positional[0]
			return runSearch(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&args.Mode, "mode", "name", "Search mode: name|prefix|content|all")
	f.BoolVar(&args.Live, "live", false, "Walk the filesystem instead of building an index")
	f.BoolVar(&args.Regex, "regex", false, "Live only: treat the query as a case-insensitive regular expression")
	f.BoolVar(&args.Fuzzy, "fuzzy", false, "Live name mode only: every whitespace-separated term must appear in the name")
	f.IntVar(&args.ContextLines, "context", 0, "Indexed content results: context lines around each match (-1 hides lines)")
	return cmd
}

func newStatsCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Build the index and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, flags)
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <project|user> [directory] [-- server args...]",
		Short: "Add this server to an MCP client configuration",
		Long: `Add this server to an MCP client configuration.

  project [directory]  writes <directory>/.mcp.json (default: .)
  user                 writes ~/.claude.json

Arguments after -- are passed to the server on launch, e.g.
  filesearch-mcp register user -- --root /data --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, serverArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, serverArgs = args[:dash], args[dash:]
			}
			if len(positional) == 0 || len(positional) > 2 {
				return fmt.Errorf("expected <project|user> [directory], got %v", positional)
			}

			scope, err := register.ParseScope(positional[0])
			if err != nil {
				return err
			}
			opts := register.Options{Scope: scope, ServerName: name, ServerArgs: serverArgs}
			if len(positional) == 2 {
				if scope != register.ScopeProject {
					return fmt.Errorf("a directory is only accepted for the project scope")
				}
				opts.Directory = positional[1]
			}

			configPath, err := register.Register(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered in %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Server name in the client config (default: derived from the binary name)")
	return cmd
}
