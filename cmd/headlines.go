package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/trendly/internal/config"
	"github.com/matheuskafuri/trendly/internal/logging"
	"github.com/matheuskafuri/trendly/internal/pager"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentCategories = 4

var (
	flagCategories string
	flagLimit      int
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Print the latest headlines and exit",
	Long:  "Load the first page of each category concurrently and print the top headlines, grouped by category.",
	RunE:  runHeadlines,
}

func init() {
	headlinesCmd.Flags().StringVar(&flagCategories, "category", "", "comma-separated categories (default: the configured query)")
	headlinesCmd.Flags().IntVar(&flagLimit, "limit", 10, "headlines per category")
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"})
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
)

func runHeadlines(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagLimit < 1 {
		return fmt.Errorf("invalid --limit %d: must be at least 1", flagLimit)
	}

	filters, err := sessionFilters(cfg, flagQuery, flagSort, flagLanguage)
	if err != nil {
		return err
	}

	logger := logging.New(logLevel(cfg), os.Stderr)
	client := newClient(cfg, logger)
	categories := parseCategories(flagCategories, filters.Query)

	results := make([]pager.Snapshot, len(categories))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentCategories)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			f := filters
			f.Query = category
			ctrl := pager.New(client, f, pager.WithLogger(logger.With("category", category)))
			ctrl.LoadNext(ctx, true)
			results[i] = ctrl.Snapshot()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printHeadlines(cmd.OutOrStdout(), categories, results, flagLimit)
	return nil
}

// parseCategories splits a comma-separated list, dropping blanks and
// repeats. An empty list falls back to def.
func parseCategories(raw, def string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return []string{def}
	}
	return out
}

func printHeadlines(w io.Writer, categories []string, results []pager.Snapshot, limit int) {
	for i, category := range categories {
		i, category := i, category
		if i > 0 {
			fmt.Fprintln(w)
		}
		snap := results[i]
		fmt.Fprintln(w, headingStyle.Render(category))

		switch {
		case snap.Err != nil:
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  (failed: %v)", snap.Err)))
			continue
		case len(snap.Articles) == 0:
			fmt.Fprintln(w, dimStyle.Render("  (no articles)"))
			continue
		}

		articles := snap.Articles
		if len(articles) > limit {
			articles = articles[:limit]
		}
		for _, a := range articles {
			source := a.Source.Name
			if source == "" {
				source = "unknown source"
			}
			fmt.Fprintf(w, "  • %s %s\n", a.Title, sourceStyle.Render("· "+source))
			fmt.Fprintf(w, "    %s\n", dimStyle.Render(a.URL))
		}
	}
}
