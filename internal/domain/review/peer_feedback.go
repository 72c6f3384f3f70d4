package review

import "time"

// PeerFeedback is immutable once created; it only feeds aggregation.
type PeerFeedback struct {
	id              PeerFeedbackID
	cycleID         ReviewCycleID
	revieweeID      UserID
	reviewerID      UserID
	scores          PillarScores
	strengths       string
	growthAreas     string
	generalComments string
	createdAt       time.Time
}

func NewPeerFeedback(cycleID ReviewCycleID, revieweeID, reviewerID UserID, scores PillarScores, strengths, growthAreas, generalComments string) (*PeerFeedback, error) {
	if revieweeID.Equals(reviewerID) {
		return nil, ErrSelfPeerFeedback
	}
	return &PeerFeedback{
		id:              NewPeerFeedbackID(),
		cycleID:         cycleID,
		revieweeID:      revieweeID,
		reviewerID:      reviewerID,
		scores:          scores,
		strengths:       strengths,
		growthAreas:     growthAreas,
		generalComments: generalComments,
		createdAt:       now(),
	}, nil
}

func HydratePeerFeedback(
	id PeerFeedbackID,
	cycleID ReviewCycleID,
	revieweeID UserID,
	reviewerID UserID,
	scores PillarScores,
	strengths string,
	growthAreas string,
	generalComments string,
	createdAt time.Time,
) *PeerFeedback {
	return &PeerFeedback{
		id:              id,
		cycleID:         cycleID,
		revieweeID:      revieweeID,
		reviewerID:      reviewerID,
		scores:          scores,
		strengths:       strengths,
		growthAreas:     growthAreas,
		generalComments: generalComments,
		createdAt:       createdAt,
	}
}

func (f *PeerFeedback) ID() PeerFeedbackID      { return f.id }
func (f *PeerFeedback) CycleID() ReviewCycleID  { return f.cycleID }
func (f *PeerFeedback) RevieweeID() UserID      { return f.revieweeID }
func (f *PeerFeedback) ReviewerID() UserID      { return f.reviewerID }
func (f *PeerFeedback) Scores() PillarScores    { return f.scores }
func (f *PeerFeedback) Strengths() string       { return f.strengths }
func (f *PeerFeedback) GrowthAreas() string     { return f.growthAreas }
func (f *PeerFeedback) GeneralComments() string { return f.generalComments }
func (f *PeerFeedback) CreatedAt() time.Time    { return f.createdAt }
