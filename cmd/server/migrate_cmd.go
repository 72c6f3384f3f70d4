package main

import (
	"github.com/spf13/cobra"

	"perfreview/internal/platform/db"
)

func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := db.Migrate(cmd.Context(), pool, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			if seed {
				if err := db.Seed(cmd.Context(), pool); err != nil {
					return err
				}
			}
			if applied == nil {
				applied = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"applied": applied, "seeded": seed})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Insert the demo manager, reports and cycle")
	return cmd
}
