package review

import "strings"

type ReviewStatus string

const (
	StatusDraft      ReviewStatus = "DRAFT"
	StatusSubmitted  ReviewStatus = "SUBMITTED"
	StatusCalibrated ReviewStatus = "CALIBRATED"
)

func ParseReviewStatus(raw string) (ReviewStatus, error) {
	switch s := ReviewStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusDraft, StatusSubmitted, StatusCalibrated:
		return s, nil
	}
	return "", newError("unknown review status "+raw, ErrInvalidInput)
}

func (s ReviewStatus) String() string { return string(s) }

func (s ReviewStatus) Equals(other ReviewStatus) bool { return s == other }

// Rank orders statuses along DRAFT -> SUBMITTED -> CALIBRATED; unknown values rank -1.
func (s ReviewStatus) Rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusSubmitted:
		return 1
	case StatusCalibrated:
		return 2
	}
	return -1
}

// CanProgressTo reports whether moving from s to next never regresses.
// CALIBRATED -> CALIBRATED is allowed for repeated calibration adjustments.
func (s ReviewStatus) CanProgressTo(next ReviewStatus) bool {
	if s.Rank() < 0 || next.Rank() < 0 {
		return false
	}
	if s == StatusCalibrated {
		return next == StatusCalibrated
	}
	return next.Rank() > s.Rank()
}
