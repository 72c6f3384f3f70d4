package main

import (
	"github.com/spf13/cobra"

	"perfreview/internal/domain/audit"
)

func newAuditCmd() *cobra.Command {
	var (
		filter  audit.Filter
		details bool
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recorded review mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := audit.New(pool)
			total, err := svc.Count(cmd.Context(), filter)
			if err != nil {
				return err
			}
			events, err := svc.List(cmd.Context(), filter, details, limit, offset)
			if err != nil {
				return err
			}
			if events == nil {
				events = []audit.Event{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"total": total, "events": events})
		},
	}
	cmd.Flags().StringVar(&filter.Action, "action", "", "Filter by action, e.g. manager_evaluation.calibrated")
	cmd.Flags().StringVar(&filter.EntityType, "entity-type", "", "Filter by entity type")
	cmd.Flags().StringVar(&filter.EntityID, "entity-id", "", "Filter by entity id")
	cmd.Flags().StringVar(&filter.ActorUser, "actor", "", "Filter by actor user id")
	cmd.Flags().BoolVar(&details, "details", false, "Include before/after state")
	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	return cmd
}
