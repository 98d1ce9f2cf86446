package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development search endpoint",
	Long: `Serve the map search and quicksearch endpoints from a fixture set.

Examples:
  cosinnus serve                         # Embedded fixtures on 127.0.0.1:8000
  cosinnus serve --latency 800ms         # Slow responses
  cosinnus serve --fixtures results.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&overrides.Addr, "addr", "", "listen address (default 127.0.0.1:8000)")
	serveCmd.Flags().Duration("latency", 0, "artificial delay before every response")
	serveCmd.Flags().String("fixtures", "", "fixture file (default is the embedded set)")
}

func runServe(cmd *cobra.Command, args []string) error {
	latency := cfg.Latency()
	if cmd.Flags().Changed("latency") {
		latency, _ = cmd.Flags().GetDuration("latency")
	}
	path := cfg.Dev.Fixtures
	if cmd.Flags().Changed("fixtures") {
		path, _ = cmd.Flags().GetString("fixtures")
	}

	var fixtures []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading fixtures: %w", err)
		}
		fixtures = data
	}

	srv, err := devserver.NewServer(devserver.Options{
		Addr:       cfg.Dev.Addr,
		SearchPath: cfg.Server.SearchPath,
		QuickPath:  cfg.Server.QuickPath,
		Latency:    latency,
		Fixtures:   fixtures,
		Logger:     logger.With("component", "devserver"),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
