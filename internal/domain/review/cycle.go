package review

import (
	"strings"
	"time"
)

type Phase string

const (
	PhaseSelfReview        Phase = "selfReview"
	PhasePeerFeedback      Phase = "peerFeedback"
	PhaseManagerEvaluation Phase = "managerEvaluation"
	PhaseCalibration       Phase = "calibration"
	PhaseFeedbackDelivery  Phase = "feedbackDelivery"
)

// Phases lists cycle phases in the order their deadlines fall.
var Phases = []Phase{
	PhaseSelfReview,
	PhasePeerFeedback,
	PhaseManagerEvaluation,
	PhaseCalibration,
	PhaseFeedbackDelivery,
}

func ParsePhase(raw string) (Phase, error) {
	for _, p := range Phases {
		if strings.EqualFold(string(p), strings.TrimSpace(raw)) {
			return p, nil
		}
	}
	return "", newError("unknown review phase "+raw, ErrInvalidInput)
}

// ReviewCycle is a bounded review period with one deadline per phase.
type ReviewCycle struct {
	id        ReviewCycleID
	name      string
	startDate time.Time
	endDate   time.Time
	deadlines map[Phase]time.Time
	createdAt time.Time
}

// NewReviewCycle validates that start <= end and that the given phase deadlines
// never go backwards in phase order.
func NewReviewCycle(name string, startDate, endDate time.Time, deadlines map[Phase]time.Time) (*ReviewCycle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError("review cycle name is required", ErrInvalidInput)
	}
	if endDate.Before(startDate) {
		return nil, newError("review cycle end date before start date", ErrInvalidInput)
	}
	for p := range deadlines {
		if parsed, err := ParsePhase(string(p)); err != nil || parsed != p {
			return nil, newError("unknown review phase "+string(p), ErrInvalidInput)
		}
	}
	var prev time.Time
	copied := make(map[Phase]time.Time, len(deadlines))
	for _, p := range Phases {
		d, ok := deadlines[p]
		if !ok || d.IsZero() {
			continue
		}
		if !prev.IsZero() && d.Before(prev) {
			return nil, newError(string(p)+" deadline falls before an earlier phase deadline", ErrInvalidInput)
		}
		prev = d
		copied[p] = d
	}
	return &ReviewCycle{
		id:        NewReviewCycleID(),
		name:      name,
		startDate: startDate,
		endDate:   endDate,
		deadlines: copied,
		createdAt: now(),
	}, nil
}

func HydrateReviewCycle(id ReviewCycleID, name string, startDate, endDate time.Time, deadlines map[Phase]time.Time, createdAt time.Time) *ReviewCycle {
	copied := make(map[Phase]time.Time, len(deadlines))
	for p, d := range deadlines {
		if !d.IsZero() {
			copied[p] = d
		}
	}
	return &ReviewCycle{
		id:        id,
		name:      name,
		startDate: startDate,
		endDate:   endDate,
		deadlines: copied,
		createdAt: createdAt,
	}
}

func (c *ReviewCycle) ID() ReviewCycleID    { return c.id }
func (c *ReviewCycle) Name() string         { return c.name }
func (c *ReviewCycle) StartDate() time.Time { return c.startDate }
func (c *ReviewCycle) EndDate() time.Time   { return c.endDate }
func (c *ReviewCycle) CreatedAt() time.Time { return c.createdAt }

// Deadline returns the deadline for phase and whether one is set.
func (c *ReviewCycle) Deadline(phase Phase) (time.Time, bool) {
	d, ok := c.deadlines[phase]
	return d, ok
}

// Deadlines returns a copy of every configured phase deadline.
func (c *ReviewCycle) Deadlines() map[Phase]time.Time {
	out := make(map[Phase]time.Time, len(c.deadlines))
	for p, d := range c.deadlines {
		out[p] = d
	}
	return out
}

// HasDeadlinePassed is true once the clock is strictly after the phase deadline.
// A phase without a deadline never passes.
func (c *ReviewCycle) HasDeadlinePassed(phase Phase) bool {
	d, ok := c.deadlines[phase]
	if !ok {
		return false
	}
	return now().After(d)
}
