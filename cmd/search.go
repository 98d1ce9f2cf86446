package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/views"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one search and print the results",
	Long: `Search the portal once without the explorer.

Examples:
  cosinnus search garden
  cosinnus search --types events,projects --topics 1,4 climate
  cosinnus search --quick berl              # Quicksearch endpoint`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Bool("quick", false, "use the quicksearch endpoint")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default page size)")
	searchCmd.Flags().StringSlice("types", nil, "only these result types, e.g. events,projects")
	searchCmd.Flags().String("topics", "", "topic ids, e.g. 1,2")
	searchCmd.Flags().String("sdgs", "", "SDG ids")
	searchCmd.Flags().String("tags", "", "managed tag ids")
}

func runSearch(cmd *cobra.Command, args []string) error {
	state, err := searchState(cmd, args)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Search.PageSize
	}
	params := router.EncodeState(state)
	params.Set(router.ParamLimit, strconv.Itoa(limit))

	path := cfg.Server.SearchPath
	if quick, _ := cmd.Flags().GetBool("quick"); quick {
		path = cfg.Server.QuickPath
		state.FilterGroup = ""
	}
	client := searchapi.NewClient(cfg.Server.BaseURL, path, cfg.RequestTimeout(),
		searchapi.WithLogger(logger.With("component", "searchapi")))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	resp, err := client.Search(ctx, searchapi.Request{Params: params, FilterGroup: state.FilterGroup})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}
	printResults(cmd.OutOrStdout(), resp)
	return nil
}

// searchState builds the state for one search from the arguments and flags
func searchState(cmd *cobra.Command, args []string) (domain.SearchState, error) {
	state := domain.DefaultSearchState()
	state.FilterGroup = cfg.Server.FilterGroup
	if len(args) > 0 {
		state.Query = strings.TrimSpace(args[0])
	}

	if names, _ := cmd.Flags().GetStringSlice("types"); len(names) > 0 {
		for _, t := range domain.FilterTypes {
			state.Types[t] = false
		}
		for _, name := range names {
			t := domain.ParseResultType(strings.TrimSpace(name))
			if t == domain.TypeError {
				return state, &domain.ValidationError{Field: "types", Value: name, Err: errUnknownType}
			}
			state.Types[t] = true
		}
	}

	for _, f := range []struct {
		flag string
		dst  *[]int
	}{
		{"topics", &state.Topics},
		{"sdgs", &state.SDGs},
		{"tags", &state.ManagedTags},
	} {
		raw, _ := cmd.Flags().GetString(f.flag)
		ids, err := router.DecodeIntList(raw)
		if err != nil {
			return state, &domain.ValidationError{Field: f.flag, Value: raw, Err: err}
		}
		*f.dst = ids
	}
	return state, nil
}

var errUnknownType = errors.New("unknown result type")

var (
	countStyle = lipgloss.NewStyle().Bold(true)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printResults(w io.Writer, resp *searchapi.Response) {
	if resp.Empty() {
		fmt.Fprintln(w, "no results")
		return
	}
	fmt.Fprintln(w, countStyle.Render(fmt.Sprintf("%d of %d results", len(resp.Items), resp.Count)))
	for _, r := range resp.Items {
		label := typeStyle.Render(fmt.Sprintf("%-12s", views.TypeLabel(r.Type)))
		fmt.Fprintf(w, "%s %s %s\n", cfg.Icon(r.Type), label, r.Title)
		if r.Address != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(r.Address))
		}
		if r.URL != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(r.URL))
		}
	}
	if resp.HasMore {
		fmt.Fprintln(w, dimStyle.Render("more results available, raise --limit"))
	}
}
