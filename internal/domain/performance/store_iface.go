package performance

import (
	"context"

	"perfreview/internal/domain/review"
)

// Find* methods return (nil, nil) when the record does not exist.
//
// Create inserts a draft unless the owner already has one for the cycle, and
// returns whichever row is stored. Concurrent first reads converge on one row.

type ReviewCycleStore interface {
	FindByID(ctx context.Context, id review.ReviewCycleID) (*review.ReviewCycle, error)
	Save(ctx context.Context, cycle *review.ReviewCycle) error
}

type UserStore interface {
	FindByID(ctx context.Context, id review.UserID) (*review.User, error)
	FindByManager(ctx context.Context, managerID review.UserID) ([]*review.User, error)
}

type SelfReviewStore interface {
	FindByUserAndCycle(ctx context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.SelfReview, error)
	Create(ctx context.Context, r *review.SelfReview) (*review.SelfReview, error)
	Save(ctx context.Context, r *review.SelfReview) error
}

type PeerFeedbackStore interface {
	FindByRevieweeAndCycle(ctx context.Context, revieweeID review.UserID, cycleID review.ReviewCycleID) ([]*review.PeerFeedback, error)
	Save(ctx context.Context, f *review.PeerFeedback) error
}

type ManagerEvaluationStore interface {
	FindByEmployeeAndCycle(ctx context.Context, employeeID review.UserID, cycleID review.ReviewCycleID) (*review.ManagerEvaluation, error)
	FindByCycle(ctx context.Context, cycleID review.ReviewCycleID) ([]*review.ManagerEvaluation, error)
	Create(ctx context.Context, e *review.ManagerEvaluation) (*review.ManagerEvaluation, error)
	Save(ctx context.Context, e *review.ManagerEvaluation) error
}

// FinalScoreStore.Save upserts on (cycle, user), so recalculation overwrites.
type FinalScoreStore interface {
	FindByUserAndCycle(ctx context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.FinalScore, error)
	ListByCycle(ctx context.Context, cycleID review.ReviewCycleID, limit, offset int) ([]*review.FinalScore, error)
	Save(ctx context.Context, f *review.FinalScore) error
}

// Stores bundles every repository port the use cases depend on.
type Stores struct {
	Cycles      ReviewCycleStore
	Users       UserStore
	SelfReviews SelfReviewStore
	PeerReviews PeerFeedbackStore
	Evaluations ManagerEvaluationStore
	FinalScores FinalScoreStore
}

// Aggregator and Calculator are satisfied by review.PeerFeedbackAggregator and
// review.FinalScoreCalculator.
type Aggregator interface {
	Aggregate(feedback []*review.PeerFeedback) review.PillarScores
}

type Calculator interface {
	Calculate(eval *review.ManagerEvaluation) *review.FinalScore
}
