package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/joho/godotenv"
	"github.com/matheuskafuri/trendly/internal/config"
	"github.com/matheuskafuri/trendly/internal/newsapi"
	"github.com/matheuskafuri/trendly/internal/pager"
	"github.com/matheuskafuri/trendly/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig      string
	flagQuery       string
	flagSort        string
	flagLanguage    string
	flagLogLevel    string
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "trendly",
	Short: "Terminal news browser",
	Long:  "trendly browses recent news by category or search term, loading more as you scroll.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
	RunE:         runTUI,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagQuery, "query", "", "initial category or search term")
	rootCmd.PersistentFlags().StringVar(&flagSort, "sort", "", "sort order (publishedAt, relevancy, popularity)")
	rootCmd.PersistentFlags().StringVar(&flagLanguage, "language", "", "two-letter language code")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headlinesCmd)
}

var flagCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "trendly %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheckUpdate {
			return nil
		}
		res, err := update.NewChecker().Check(cmd.Context(), version)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if res == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "up to date")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "trendly %s is available: %s\n", res.LatestVersion, res.URL)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func logLevel(cfg *config.Config) string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return cfg.LogLevel
}

// sessionFilters starts from the configured defaults and applies the
// --query, --sort and --language overrides.
func sessionFilters(cfg *config.Config, query, sortBy, language string) (pager.Filters, error) {
	f := pager.Filters{
		Query:    cfg.Defaults.Query,
		SortBy:   cfg.Defaults.SortBy,
		Language: cfg.Defaults.Language,
	}
	if query != "" {
		f.Query = query
	}
	if sortBy != "" {
		if !slices.Contains(cfg.SortOptions, sortBy) {
			return f, fmt.Errorf("invalid --sort %q: want one of %v", sortBy, cfg.SortOptions)
		}
		f.SortBy = sortBy
	}
	if language != "" {
		if len(language) != 2 {
			return f, fmt.Errorf("invalid --language %q: want a two-letter code", language)
		}
		f.Language = language
	}
	return f, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) *newsapi.Client {
	return newsapi.NewClient(cfg.API.BaseURL,
		newsapi.WithTimeout(cfg.TimeoutDuration()),
		newsapi.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		newsapi.WithWindow(cfg.WindowDuration()),
		newsapi.WithLogger(logger),
	)
}
