package performance

import (
	"context"

	"perfreview/internal/domain/review"
)

func (s *Service) SubmitPeerFeedback(ctx context.Context, cycleID review.ReviewCycleID, reviewerID, revieweeID review.UserID, in PeerFeedbackInput) (f *review.PeerFeedback, err error) {
	defer func() { recordRejection(artifactPeerFeedback, err) }()

	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckDeadline(cycle, review.PhasePeerFeedback); err != nil {
		return nil, err
	}
	if _, err := s.loadUser(ctx, revieweeID, review.ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	if _, err := s.loadUser(ctx, reviewerID, review.ErrReviewerNotFound); err != nil {
		return nil, err
	}
	f, err = review.NewPeerFeedback(cycleID, revieweeID, reviewerID, in.Scores, in.Strengths, in.GrowthAreas, in.GeneralComments)
	if err != nil {
		return nil, err
	}
	if err := s.stores.PeerReviews.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetPeerFeedbackSummary lets a manager read the peer feedback of a direct report.
func (s *Service) GetPeerFeedbackSummary(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (summary PeerFeedbackSummary, err error) {
	defer func() { recordRejection(artifactPeerFeedback, err) }()

	if _, err := s.loadCycle(ctx, cycleID); err != nil {
		return PeerFeedbackSummary{}, err
	}
	if _, err := s.loadDirectReport(ctx, managerID, employeeID); err != nil {
		return PeerFeedbackSummary{}, err
	}
	return s.peerFeedbackSummary(ctx, cycleID, employeeID)
}

func (s *Service) peerFeedbackSummary(ctx context.Context, cycleID review.ReviewCycleID, employeeID review.UserID) (PeerFeedbackSummary, error) {
	feedback, err := s.stores.PeerReviews.FindByRevieweeAndCycle(ctx, employeeID, cycleID)
	if err != nil {
		return PeerFeedbackSummary{}, err
	}
	summary := PeerFeedbackSummary{
		RevieweeID: employeeID,
		Count:      len(feedback),
		Aggregate:  review.ZeroPillarScores(),
		Feedback:   feedback,
	}
	if len(feedback) > 0 {
		summary.Aggregate = s.aggregator.Aggregate(feedback)
	}
	return summary, nil
}
