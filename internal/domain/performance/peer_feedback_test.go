package performance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"perfreview/internal/domain/review"
)

func TestSubmitPeerFeedback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	in := PeerFeedbackInput{Scores: review.MustPillarScores(3, 4, 3, 2, 4), Strengths: "clear writer"}

	fb, err := h.svc.SubmitPeerFeedback(ctx, h.cycle.ID(), h.peer.ID, h.employee.ID, in)
	require.NoError(t, err)
	require.True(t, fb.RevieweeID().Equals(h.employee.ID))
	require.Equal(t, "clear writer", fb.Strengths())
	require.Equal(t, 1, h.peers.count("Save"))

	_, err = h.svc.SubmitPeerFeedback(ctx, h.cycle.ID(), h.employee.ID, h.employee.ID, in)
	require.ErrorIs(t, err, review.ErrInvalidInput)

	_, err = h.svc.SubmitPeerFeedback(ctx, h.cycle.ID(), review.NewUserID(), h.employee.ID, in)
	require.ErrorIs(t, err, review.ErrReviewerNotFound)

	_, err = h.svc.SubmitPeerFeedback(ctx, h.cycle.ID(), h.peer.ID, review.NewUserID(), in)
	require.ErrorIs(t, err, review.ErrEmployeeNotFound)

	require.Equal(t, 1, h.peers.count("Save"))
}

func TestPeerFeedbackSummaryWithoutFeedback(t *testing.T) {
	h := newHarness(t)

	summary, err := h.svc.GetPeerFeedbackSummary(context.Background(), h.cycle.ID(), h.manager.ID, h.employee.ID)
	require.NoError(t, err)
	require.Zero(t, summary.Count)
	require.Equal(t, review.ZeroPillarScores(), summary.Aggregate)
	require.Zero(t, h.aggregator.count("Aggregate"), "aggregator should not be called")
}

func TestPeerFeedbackSummaryAveragesPerPillar(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, s := range []review.PillarScores{
		review.MustPillarScores(4, 2, 1, 0, 3),
		review.MustPillarScores(2, 2, 3, 0, 3),
	} {
		_, err := h.svc.SubmitPeerFeedback(ctx, h.cycle.ID(), h.peer.ID, h.employee.ID, PeerFeedbackInput{Scores: s})
		require.NoError(t, err)
	}

	summary, err := h.svc.GetPeerFeedbackSummary(ctx, h.cycle.ID(), h.manager.ID, h.employee.ID)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Count)
	require.Len(t, summary.Feedback, 2)
	require.Equal(t, review.MustPillarScores(3, 2, 2, 0, 3), summary.Aggregate)
	require.Equal(t, 1, h.aggregator.count("Aggregate"))

	_, err = h.svc.GetPeerFeedbackSummary(ctx, h.cycle.ID(), h.outsider.ID, h.employee.ID)
	require.ErrorIs(t, err, review.ErrUnauthorized)
}
