// Package cli implements the fxnctl command line interface for operating the
// FX normalization service from a terminal or a cron job.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/shawqlabs/fxn_backend/internal/adapters/providers"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/core/services"
	"github.com/shawqlabs/fxn_backend/internal/platform/config"
	"github.com/shawqlabs/fxn_backend/internal/repositories/database/pgsql"
	"github.com/shawqlabs/fxn_backend/pkg/database"
)

// appDeps holds the wired dependencies shared by all subcommands.
type appDeps struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	usage    *services.UsageLogger
	services *portssvc.ServiceContainer
}

var deps *appDeps

var rootCmd = &cobra.Command{
	Use:   "fxnctl",
	Short: "Operate the FX rate normalization service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if deps != nil || cmd.Name() == "version" {
			return nil
		}
		d, err := buildDeps(cmd.Context())
		if err != nil {
			return err
		}
		deps = d
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if deps != nil {
			deps.close()
			deps = nil
		}
	},
}

func buildDeps(ctx context.Context) (*appDeps, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	repos := pgsql.NewRepositoryProvider(pool)
	usageLogger := services.NewUsageLogger(repos.UsageRepo, logger)
	fetchers := providers.NewFetchers(cfg, usageLogger)

	return &appDeps{
		cfg:      cfg,
		pool:     pool,
		usage:    usageLogger,
		services: services.NewServiceContainer(cfg, repos, fetchers),
	}, nil
}

func (d *appDeps) close() {
	d.usage.Close()
	database.ClosePgxPool(d.pool)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(versionCmd)
}
