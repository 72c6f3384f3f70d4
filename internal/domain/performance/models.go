package performance

import (
	"time"

	"perfreview/internal/domain/review"
)

// SelfReviewUpdate carries the fields an employee chose to change. Nil means untouched.
type SelfReviewUpdate struct {
	Scores    *review.PillarScores
	Narrative *string
}

// ManagerEvaluationUpdate is a partial update; each non-nil field invokes exactly
// one mutator on the evaluation.
type ManagerEvaluationUpdate struct {
	Scores               *review.PillarScores
	ProposedLevel        *review.EngineerLevel
	PerformanceNarrative *string
	GrowthAreas          *string
	Narrative            *string
	Strengths            *string
	DevelopmentPlan      *string
}

func (u ManagerEvaluationUpdate) IsEmpty() bool {
	return u.Scores == nil && u.ProposedLevel == nil && u.PerformanceNarrative == nil &&
		u.GrowthAreas == nil && u.Narrative == nil && u.Strengths == nil && u.DevelopmentPlan == nil
}

// CalibrationRequest either marks a submitted evaluation calibrated (Scores nil)
// or replaces its scores, which requires a justification.
type CalibrationRequest struct {
	Scores        *review.PillarScores
	Justification string
}

type PeerFeedbackInput struct {
	Scores          review.PillarScores
	Strengths       string
	GrowthAreas     string
	GeneralComments string
}

type PeerFeedbackSummary struct {
	RevieweeID review.UserID
	Count      int
	Aggregate  review.PillarScores
	Feedback   []*review.PeerFeedback
}

type CycleInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Deadlines map[review.Phase]time.Time
}

// TeamMemberReview is everything a manager sees for one direct report. Missing
// artifacts stay nil.
type TeamMemberReview struct {
	Employee     *review.User
	SelfReview   *review.SelfReview
	PeerFeedback PeerFeedbackSummary
	Evaluation   *review.ManagerEvaluation
}

type CalculationSummary struct {
	CycleID    string `json:"cycleId"`
	Calculated int    `json:"calculated"`
	Skipped    int    `json:"skipped"`
}
