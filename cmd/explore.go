package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/coordinator"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Run the interactive explorer (default)",
	Long: `Open the explorer: a result list and a map of markers, searched as you type.

Examples:
  cosinnus explore
  cosinnus explore --url '/maps/search/berlin-gardeners/?q=seeds'`,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().StringVar(&startURL, "url", "", "start from a search URL or query string")
	exploreCmd.Flags().BoolVar(&overrides.InfiniteScroll, "infinite", false, "load further pages when scrolling to the end")
}

func runExplore(cmd *cobra.Command, args []string) error {
	start, err := parseStartURL(startURL)
	if err != nil {
		return err
	}

	client := searchapi.NewClient(cfg.Server.BaseURL, cfg.Server.SearchPath, cfg.RequestTimeout(),
		searchapi.WithLogger(logger.With("component", "searchapi")))

	coord := coordinator.NewCoordinator(coordinator.Options{
		Config:   cfg,
		Searcher: client,
		Logger:   logger,
		StartURL: start,
	})
	defer coord.Close()

	model := ui.NewModel(coord, logger)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	logger.Info("starting explorer", "url", coord.URL())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	logger.Info("explorer exited", "url", coord.URL())
	return nil
}
