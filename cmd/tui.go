package cmd

import (
	"context"
	"fmt"

	"github.com/matheuskafuri/trendly/internal/config"
	"github.com/matheuskafuri/trendly/internal/logging"
	"github.com/matheuskafuri/trendly/internal/metrics"
	"github.com/matheuskafuri/trendly/internal/pager"
	"github.com/matheuskafuri/trendly/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	filters, err := sessionFilters(cfg, flagQuery, flagSort, flagLanguage)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(logLevel(cfg), cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rec := metrics.NewRecorder()
	if flagMetricsAddr != "" {
		go func() {
			if err := rec.Serve(ctx, flagMetricsAddr, logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	ctrl := pager.New(newClient(cfg, logger), filters,
		pager.WithLogger(logger),
		pager.WithObserver(rec),
	)

	logger.Info("session started",
		"query", filters.Query,
		"sort_by", filters.SortBy,
		"language", filters.Language,
		"api", cfg.API.BaseURL,
	)

	return tui.Run(tui.RunOpts{
		Ctx:        ctx,
		Cfg:        cfg,
		Controller: ctrl,
		Logger:     logger,
	})
}
