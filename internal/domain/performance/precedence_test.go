package performance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"perfreview/internal/domain/review"
)

type useCase struct {
	name string
	run  func(h *harness, cycleID review.ReviewCycleID) error
}

func mutatingUseCases() []useCase {
	scores := review.MustPillarScores(3, 3, 3, 3, 3)
	narrative := "updated"
	return []useCase{
		{"update self review", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.UpdateSelfReview(context.Background(), c, h.employee.ID, SelfReviewUpdate{Narrative: &narrative})
			return err
		}},
		{"submit self review", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.SubmitSelfReview(context.Background(), c, h.employee.ID)
			return err
		}},
		{"submit peer feedback", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.SubmitPeerFeedback(context.Background(), c, h.peer.ID, h.employee.ID, PeerFeedbackInput{Scores: scores})
			return err
		}},
		{"update manager evaluation", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.UpdateManagerEvaluation(context.Background(), c, h.manager.ID, h.employee.ID, ManagerEvaluationUpdate{Scores: &scores})
			return err
		}},
		{"submit manager evaluation", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.SubmitManagerEvaluation(context.Background(), c, h.manager.ID, h.employee.ID)
			return err
		}},
		{"calibrate manager evaluation", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.CalibrateManagerEvaluation(context.Background(), c, h.manager.ID, h.employee.ID, CalibrationRequest{})
			return err
		}},
	}
}

// deadlineBoundUseCases are the flows that fail once their phase deadline has
// passed, reads included.
func deadlineBoundUseCases() []useCase {
	return append(mutatingUseCases(),
		useCase{"get self review", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.GetSelfReview(context.Background(), c, h.employee.ID)
			return err
		}},
		useCase{"get manager evaluation", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.GetManagerEvaluation(context.Background(), c, h.manager.ID, h.employee.ID)
			return err
		}},
	)
}

func TestMissingCycleStopsBeforeAnyOtherLookup(t *testing.T) {
	cases := append(deadlineBoundUseCases(),
		useCase{"peer feedback summary", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.GetPeerFeedbackSummary(context.Background(), c, h.manager.ID, h.employee.ID)
			return err
		}},
		useCase{"calculate final scores", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.CalculateFinalScores(context.Background(), c)
			return err
		}},
		useCase{"team reviews", func(h *harness, c review.ReviewCycleID) error {
			_, err := h.svc.GetTeamReviews(context.Background(), c, h.manager.ID)
			return err
		}},
	)

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			err := tc.run(h, review.NewReviewCycleID())

			require.ErrorIs(t, err, review.ErrNotFound)
			require.ErrorIs(t, err, review.ErrCycleNotFound)
			require.Equal(t, 1, h.cycles.count("FindByID"))
			require.Zero(t, h.users.total(), "user repository should not be called")
			require.Zero(t, h.artifactCalls(), "artifact repositories should not be called")
		})
	}
}

func TestPassedDeadlineStopsBeforeUserLookup(t *testing.T) {
	for _, tc := range deadlineBoundUseCases() {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			pinClock(t, afterDeadline)

			err := tc.run(h, h.cycle.ID())
			require.ErrorIs(t, err, review.ErrDeadlinePassed)
			require.Zero(t, h.users.total(), "user repository should not be called")
			require.Zero(t, h.artifactCalls(), "artifact repositories should not be called")
		})
	}
}

func TestMissingEmployeeStopsBeforeManagerLookup(t *testing.T) {
	h := newHarness(t)
	ghost := review.NewUserID()

	_, err := h.svc.SubmitManagerEvaluation(context.Background(), h.cycle.ID(), h.manager.ID, ghost)
	require.ErrorIs(t, err, review.ErrEmployeeNotFound)
	require.Equal(t, 1, h.users.count("FindByID"), "manager should not be looked up")
	require.Zero(t, h.artifactCalls())

	_, err = h.svc.SubmitSelfReview(context.Background(), h.cycle.ID(), ghost)
	require.ErrorIs(t, err, review.ErrNotFound)
	require.Zero(t, h.artifactCalls())
}

func TestManagerChecks(t *testing.T) {
	tests := []struct {
		name      string
		managerID func(h *harness) review.UserID
		wantErr   error
	}{
		{"manager missing", func(*harness) review.UserID { return review.NewUserID() }, review.ErrManagerNotFound},
		{"not the manager", func(h *harness) review.UserID { return h.outsider.ID }, review.ErrNotDirectReport},
		{"peer is not a manager of the employee", func(h *harness) review.UserID { return h.peer.ID }, review.ErrNotDirectReport},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedEvaluation(t, h.employee, review.MustPillarScores(2, 2, 2, 2, 2), false)

			_, err := h.svc.UpdateManagerEvaluation(context.Background(), h.cycle.ID(), tc.managerID(h), h.employee.ID, ManagerEvaluationUpdate{})
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, review.ErrUnauthorized)
			require.Equal(t, "unauthorized", review.Kind(err))
			require.Zero(t, h.artifactCalls(), "evaluation repository should not be called")
		})
	}
}

func TestMissingArtifactIsNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.SubmitSelfReview(context.Background(), h.cycle.ID(), h.employee.ID)
	require.ErrorIs(t, err, review.ErrSelfReviewNotFound)

	_, err = h.svc.SubmitManagerEvaluation(context.Background(), h.cycle.ID(), h.manager.ID, h.employee.ID)
	require.ErrorIs(t, err, review.ErrManagerEvaluationNotFound)

	require.Zero(t, h.selfReviews.count("Save"))
	require.Zero(t, h.evals.count("Save"))
}
