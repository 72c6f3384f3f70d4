package review

import "github.com/google/uuid"

// Ids are distinct types so a UserID can never be compared to a ReviewCycleID.

type UserID struct{ v uuid.UUID }

func NewUserID() UserID              { return UserID{v: uuid.New()} }
func UserIDFrom(id uuid.UUID) UserID { return UserID{v: id} }
func (id UserID) UUID() uuid.UUID    { return id.v }
func (id UserID) String() string     { return id.v.String() }
func (id UserID) IsZero() bool       { return id.v == uuid.Nil }
func (id UserID) Equals(other UserID) bool {
	return id.v == other.v
}

func ParseUserID(raw string) (UserID, error) {
	v, err := parseID("user id", raw)
	return UserID{v: v}, err
}

type ReviewCycleID struct{ v uuid.UUID }

func NewReviewCycleID() ReviewCycleID              { return ReviewCycleID{v: uuid.New()} }
func ReviewCycleIDFrom(id uuid.UUID) ReviewCycleID { return ReviewCycleID{v: id} }
func (id ReviewCycleID) UUID() uuid.UUID           { return id.v }
func (id ReviewCycleID) String() string            { return id.v.String() }
func (id ReviewCycleID) IsZero() bool              { return id.v == uuid.Nil }
func (id ReviewCycleID) Equals(other ReviewCycleID) bool {
	return id.v == other.v
}

func ParseReviewCycleID(raw string) (ReviewCycleID, error) {
	v, err := parseID("review cycle id", raw)
	return ReviewCycleID{v: v}, err
}

type SelfReviewID struct{ v uuid.UUID }

func NewSelfReviewID() SelfReviewID              { return SelfReviewID{v: uuid.New()} }
func SelfReviewIDFrom(id uuid.UUID) SelfReviewID { return SelfReviewID{v: id} }
func (id SelfReviewID) UUID() uuid.UUID          { return id.v }
func (id SelfReviewID) String() string           { return id.v.String() }
func (id SelfReviewID) IsZero() bool             { return id.v == uuid.Nil }
func (id SelfReviewID) Equals(other SelfReviewID) bool {
	return id.v == other.v
}

type PeerFeedbackID struct{ v uuid.UUID }

func NewPeerFeedbackID() PeerFeedbackID              { return PeerFeedbackID{v: uuid.New()} }
func PeerFeedbackIDFrom(id uuid.UUID) PeerFeedbackID { return PeerFeedbackID{v: id} }
func (id PeerFeedbackID) UUID() uuid.UUID            { return id.v }
func (id PeerFeedbackID) String() string             { return id.v.String() }
func (id PeerFeedbackID) IsZero() bool               { return id.v == uuid.Nil }
func (id PeerFeedbackID) Equals(other PeerFeedbackID) bool {
	return id.v == other.v
}

type ManagerEvaluationID struct{ v uuid.UUID }

func NewManagerEvaluationID() ManagerEvaluationID { return ManagerEvaluationID{v: uuid.New()} }
func ManagerEvaluationIDFrom(id uuid.UUID) ManagerEvaluationID {
	return ManagerEvaluationID{v: id}
}
func (id ManagerEvaluationID) UUID() uuid.UUID { return id.v }
func (id ManagerEvaluationID) String() string  { return id.v.String() }
func (id ManagerEvaluationID) IsZero() bool    { return id.v == uuid.Nil }
func (id ManagerEvaluationID) Equals(other ManagerEvaluationID) bool {
	return id.v == other.v
}

type FinalScoreID struct{ v uuid.UUID }

func NewFinalScoreID() FinalScoreID              { return FinalScoreID{v: uuid.New()} }
func FinalScoreIDFrom(id uuid.UUID) FinalScoreID { return FinalScoreID{v: id} }
func (id FinalScoreID) UUID() uuid.UUID          { return id.v }
func (id FinalScoreID) String() string           { return id.v.String() }
func (id FinalScoreID) IsZero() bool             { return id.v == uuid.Nil }
func (id FinalScoreID) Equals(other FinalScoreID) bool {
	return id.v == other.v
}

func parseID(label, raw string) (uuid.UUID, error) {
	v, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, newError("invalid "+label, ErrInvalidInput)
	}
	return v, nil
}
