// Package cmd contains the CLI commands of the cosinnus explorer
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/config"
)

var (
	cfgFile   string
	startURL  string
	overrides config.Overrides
	cfg       config.Config
	logger    *slog.Logger
	logOutput io.Closer
)

// rootCmd runs the explorer when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "cosinnus",
	Short: "Terminal explorer for cosinnus portal search",
	Long: `cosinnus searches a portal's map endpoint and keeps the results, the map
markers and the browser-style history in sync while you type.

Example usage:
  cosinnus                              # Explore the configured portal
  cosinnus --url '?q=garden&events=false'
  cosinnus search berlin                # One-shot search
  cosinnus serve --latency 300ms        # Local development endpoint`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
	RunE: runExplore,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// assigned here rather than in the literal to break the
	// rootCmd -> initConfig -> openLog -> rootCmd initialization cycle
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	flags.StringVar(&overrides.BaseURL, "base-url", "", "portal base URL")
	flags.StringVar(&overrides.FilterGroup, "filter-group", "", "restrict results to one group slug")
	flags.StringVar(&overrides.LogFile, "log-file", "", "log file (default cosinnus.log)")
	flags.BoolVarP(&overrides.Verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVar(&startURL, "url", "", "start from a search URL or query string")
	rootCmd.Flags().BoolVar(&overrides.InfiniteScroll, "infinite", false, "load further pages when scrolling to the end")
}

// initConfig loads the configuration and sets up the logger
func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(config.LoadOptions{
		Path:      cfgFile,
		Required:  cfgFile != "",
		Overrides: overrides,
	})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Log.Verbose {
		level = slog.LevelDebug
	}
	out, err := openLog(cmd)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	logger.Debug("configuration loaded",
		"base_url", cfg.Server.BaseURL,
		"filter_group", cfg.Server.FilterGroup,
		"infinite_scroll", cfg.Search.InfiniteScroll,
	)
	return nil
}

// openLog opens the log file. The explorer owns the terminal, so it always
// logs to a file; the other commands fall back to stderr.
func openLog(cmd *cobra.Command) (io.Writer, error) {
	closeLog()
	if cfg.Log.File == "" {
		if cmd == rootCmd {
			return io.Discard, nil
		}
		return cmd.ErrOrStderr(), nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logOutput = f
	return f, nil
}

func closeLog() {
	if logOutput != nil {
		_ = logOutput.Close()
		logOutput = nil
	}
}

// parseStartURL accepts a full URL, a path with query or a bare query string
func parseStartURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "?") && !strings.Contains(raw, "/") {
		raw = "?" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid start url: %w", err)
	}
	if u.Path == "" {
		u.Path = cfg.Server.SearchPath
	}
	return &url.URL{Path: u.Path, RawQuery: u.RawQuery}, nil
}
