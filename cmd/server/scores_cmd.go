package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"perfreview/internal/app/server"
	"perfreview/internal/domain/review"
	"perfreview/internal/platform/jobs"
)

type finalScoresOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
	ReportPath string `json:"report_path,omitempty"`
}

func newFinalScoresCmd() *cobra.Command {
	var (
		cycle  string
		report bool
	)

	cmd := &cobra.Command{
		Use:   "final-scores",
		Short: "Calculate final scores for every submitted evaluation of a cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cycleID, err := review.ParseReviewCycleID(cycle)
			if err != nil {
				return err
			}

			cfg, pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			reviews := server.NewReviewService(cfg, pool)
			runner := jobs.New(jobs.NewPGRunStore(pool), 1)

			start := time.Now()
			result, err := runner.RunNow(cmd.Context(), jobs.JobFinalScoreCalculation, cycleID.String(), func(ctx context.Context) (any, error) {
				return reviews.CalculateFinalScores(ctx, cycleID)
			})
			if err != nil {
				return err
			}

			out := finalScoresOutput{Command: "final-scores", Result: result}
			if report {
				path, err := runner.RunNow(cmd.Context(), jobs.JobFinalScoreReport, cycleID.String(), func(ctx context.Context) (any, error) {
					return reviews.WriteFinalScoreReport(ctx, cycleID)
				})
				if err != nil {
					return err
				}
				out.ReportPath, _ = path.(string)
			}
			out.DurationMS = time.Since(start).Milliseconds()
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&cycle, "cycle", "", "Review cycle UUID (required)")
	cmd.Flags().BoolVar(&report, "report", false, "Also render the PDF report")
	_ = cmd.MarkFlagRequired("cycle")
	return cmd
}
