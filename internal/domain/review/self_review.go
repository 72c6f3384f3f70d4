package review

import "time"

// SelfReview is an employee's own assessment for one cycle.
// Scores and narrative are editable only while DRAFT; Submit is irreversible.
type SelfReview struct {
	id          SelfReviewID
	cycleID     ReviewCycleID
	userID      UserID
	scores      PillarScores
	narrative   Narrative
	status      ReviewStatus
	submittedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSelfReview(cycleID ReviewCycleID, userID UserID, scores PillarScores, narrative Narrative) *SelfReview {
	ts := now()
	return &SelfReview{
		id:        NewSelfReviewID(),
		cycleID:   cycleID,
		userID:    userID,
		scores:    scores,
		narrative: narrative,
		status:    StatusDraft,
		createdAt: ts,
		updatedAt: ts,
	}
}

func HydrateSelfReview(
	id SelfReviewID,
	cycleID ReviewCycleID,
	userID UserID,
	scores PillarScores,
	narrative Narrative,
	status ReviewStatus,
	submittedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *SelfReview {
	return &SelfReview{
		id:          id,
		cycleID:     cycleID,
		userID:      userID,
		scores:      scores,
		narrative:   narrative,
		status:      status,
		submittedAt: copyTime(submittedAt),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r *SelfReview) ID() SelfReviewID        { return r.id }
func (r *SelfReview) CycleID() ReviewCycleID  { return r.cycleID }
func (r *SelfReview) UserID() UserID          { return r.userID }
func (r *SelfReview) Scores() PillarScores    { return r.scores }
func (r *SelfReview) Narrative() Narrative    { return r.narrative }
func (r *SelfReview) Status() ReviewStatus    { return r.status }
func (r *SelfReview) SubmittedAt() *time.Time { return copyTime(r.submittedAt) }
func (r *SelfReview) CreatedAt() time.Time    { return r.createdAt }
func (r *SelfReview) UpdatedAt() time.Time    { return r.updatedAt }
func (r *SelfReview) IsSubmitted() bool       { return r.status != StatusDraft }

func (r *SelfReview) UpdateScores(scores PillarScores) error {
	if r.IsSubmitted() {
		return ErrSelfReviewAlreadySubmitted
	}
	r.scores = scores
	r.updatedAt = now()
	return nil
}

func (r *SelfReview) UpdateNarrative(narrative Narrative) error {
	if r.IsSubmitted() {
		return ErrSelfReviewAlreadySubmitted
	}
	r.narrative = narrative
	r.updatedAt = now()
	return nil
}

func (r *SelfReview) Submit() error {
	if r.IsSubmitted() {
		return ErrSelfReviewAlreadySubmitted
	}
	ts := now()
	r.status = StatusSubmitted
	r.submittedAt = &ts
	r.updatedAt = ts
	return nil
}
