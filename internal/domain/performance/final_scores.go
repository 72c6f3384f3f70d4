package performance

import (
	"context"

	"perfreview/internal/domain/review"
)

// CalculateFinalScores recomputes the final score of every submitted evaluation
// in the cycle and overwrites whatever was stored before. Drafts are skipped.
func (s *Service) CalculateFinalScores(ctx context.Context, cycleID review.ReviewCycleID) (summary CalculationSummary, err error) {
	defer func() { recordRejection(artifactFinalScore, err) }()

	summary.CycleID = cycleID.String()
	if _, err := s.loadCycle(ctx, cycleID); err != nil {
		return summary, err
	}
	evaluations, err := s.stores.Evaluations.FindByCycle(ctx, cycleID)
	if err != nil {
		return summary, err
	}
	for _, eval := range evaluations {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !eval.IsSubmitted() {
			summary.Skipped++
			recordFinalScoreSkipped()
			continue
		}
		score := s.calculator.Calculate(eval)
		if err := s.stores.FinalScores.Save(ctx, score); err != nil {
			return summary, err
		}
		summary.Calculated++
		recordFinalScore(score.BonusTier())
	}
	return summary, nil
}

func (s *Service) GetFinalScore(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (*review.FinalScore, error) {
	if _, err := s.loadCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	score, err := s.stores.FinalScores.FindByUserAndCycle(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, review.ErrFinalScoreNotFound
	}
	return score, nil
}

func (s *Service) ListFinalScores(ctx context.Context, cycleID review.ReviewCycleID, limit, offset int) ([]*review.FinalScore, error) {
	if _, err := s.loadCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFinalScorePageSize
	}
	if limit > MaxFinalScorePageSize {
		limit = MaxFinalScorePageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.stores.FinalScores.ListByCycle(ctx, cycleID, limit, offset)
}
