package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"perfreview/internal/platform/config"
	"perfreview/internal/platform/db"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "perfreview",
		Short:         "Performance review lifecycle and scoring service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newFinalScoresCmd(),
		newTokenCmd(),
		newAuditCmd(),
	)
	return cmd
}

// loadConfig reads the environment and installs the JSON slog handler at the
// configured level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func connectDB(ctx context.Context) (config.Config, *pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, pool, nil
}
