package performance

import (
	"context"

	"perfreview/internal/domain/review"
)

// GetSelfReview returns the employee's self-review, creating an empty draft when
// none exists yet. Once the self-review deadline has passed it fails before any
// lookup past the cycle.
func (s *Service) GetSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (r *review.SelfReview, err error) {
	defer func() { recordRejection(artifactSelfReview, err) }()

	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckDeadline(cycle, review.PhaseSelfReview); err != nil {
		return nil, err
	}
	if _, err := s.loadUser(ctx, userID, review.ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	r, err = s.stores.SelfReviews.FindByUserAndCycle(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}
	if r != nil {
		return r, nil
	}
	draft := review.NewSelfReview(cycleID, userID, review.ZeroPillarScores(), review.NewNarrative(""))
	r, err = s.stores.SelfReviews.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	if r.ID().Equals(draft.ID()) {
		recordTransition(artifactSelfReview, r.Status())
	}
	return r, nil
}

func (s *Service) UpdateSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID, in SelfReviewUpdate) (r *review.SelfReview, err error) {
	defer func() { recordRejection(artifactSelfReview, err) }()

	r, err = s.loadSelfReviewForWrite(ctx, cycleID, userID)
	if err != nil {
		return nil, err
	}
	if in.Scores != nil {
		if err := r.UpdateScores(*in.Scores); err != nil {
			return nil, err
		}
	}
	if in.Narrative != nil {
		if err := r.UpdateNarrative(review.NewNarrative(*in.Narrative)); err != nil {
			return nil, err
		}
	}
	if err := s.stores.SelfReviews.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) SubmitSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (r *review.SelfReview, err error) {
	defer func() { recordRejection(artifactSelfReview, err) }()

	r, err = s.loadSelfReviewForWrite(ctx, cycleID, userID)
	if err != nil {
		return nil, err
	}
	if r.IsSubmitted() {
		return nil, review.ErrSelfReviewAlreadySubmitted
	}
	if r.Narrative().IsBlank() {
		return nil, review.ErrEmptyNarrative
	}
	if err := r.Submit(); err != nil {
		return nil, err
	}
	if err := s.stores.SelfReviews.Save(ctx, r); err != nil {
		return nil, err
	}
	recordTransition(artifactSelfReview, r.Status())
	return r, nil
}

func (s *Service) loadSelfReviewForWrite(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (*review.SelfReview, error) {
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckDeadline(cycle, review.PhaseSelfReview); err != nil {
		return nil, err
	}
	if _, err := s.loadUser(ctx, userID, review.ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	r, err := s.stores.SelfReviews.FindByUserAndCycle(ctx, userID, cycleID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, review.ErrSelfReviewNotFound
	}
	return r, nil
}
