package performance

import (
	"context"

	"golang.org/x/sync/errgroup"

	"perfreview/internal/domain/review"
)

// GetTeamReviews loads the review artifacts of every direct report of the manager.
// Reports are loaded concurrently; the result keeps the order the user store
// returned them in. Nothing is created, so reports without artifacts have nil
// entries.
func (s *Service) GetTeamReviews(ctx context.Context, cycleID review.ReviewCycleID, managerID review.UserID) ([]TeamMemberReview, error) {
	if _, err := s.loadCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	if _, err := s.loadUser(ctx, managerID, review.ErrManagerNotFound); err != nil {
		return nil, err
	}
	reports, err := s.stores.Users.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	out := make([]TeamMemberReview, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.teamFanout)
	for i, employee := range reports {
		g.Go(func() error {
			member, err := s.loadTeamMember(gctx, cycleID, employee)
			if err != nil {
				return err
			}
			out[i] = member
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) loadTeamMember(ctx context.Context, cycleID review.ReviewCycleID, employee *review.User) (TeamMemberReview, error) {
	selfReview, err := s.stores.SelfReviews.FindByUserAndCycle(ctx, employee.ID, cycleID)
	if err != nil {
		return TeamMemberReview{}, err
	}
	peers, err := s.peerFeedbackSummary(ctx, cycleID, employee.ID)
	if err != nil {
		return TeamMemberReview{}, err
	}
	eval, err := s.stores.Evaluations.FindByEmployeeAndCycle(ctx, employee.ID, cycleID)
	if err != nil {
		return TeamMemberReview{}, err
	}
	return TeamMemberReview{
		Employee:     employee,
		SelfReview:   selfReview,
		PeerFeedback: peers,
		Evaluation:   eval,
	}, nil
}
