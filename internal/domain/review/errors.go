package review

import "errors"

// Error kinds. Every error returned by this package and by the use cases
// built on it matches exactly one or more of these through errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAlreadySubmitted       = errors.New("already submitted")
	ErrDeadlinePassed         = errors.New("deadline passed")
	ErrIncompleteSubmission   = errors.New("incomplete submission")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInput           = errors.New("invalid input")
)

var (
	ErrCycleNotFound             = newError("review cycle not found", ErrNotFound)
	ErrEmployeeNotFound          = newError("employee not found", ErrNotFound)
	ErrReviewerNotFound          = newError("reviewer not found", ErrNotFound)
	ErrManagerNotFound           = newError("manager not found", ErrNotFound, ErrUnauthorized)
	ErrNotDirectReport           = newError("employee does not report to this manager", ErrUnauthorized)
	ErrSelfReviewNotFound        = newError("self review not found", ErrNotFound)
	ErrManagerEvaluationNotFound = newError("manager evaluation not found", ErrNotFound)
	ErrFinalScoreNotFound        = newError("final score not found", ErrNotFound)

	ErrSelfReviewAlreadySubmitted        = newError("self review already submitted", ErrAlreadySubmitted)
	ErrManagerEvaluationAlreadySubmitted = newError("manager evaluation already submitted", ErrAlreadySubmitted)

	ErrCalibrateUnsubmitted             = newError("cannot calibrate unsubmitted evaluation", ErrInvalidStateTransition)
	ErrCalibrationAdjustmentUnsubmitted = newError("cannot apply calibration to unsubmitted evaluation", ErrInvalidStateTransition)

	ErrEmptyNarrative                  = newError("narrative is required before submitting", ErrIncompleteSubmission)
	ErrMissingCalibrationJustification = newError("calibration adjustment requires a justification", ErrIncompleteSubmission)

	ErrPillarScoreOutOfRange = newError("pillar scores must be between 0 and 4", ErrInvalidInput)
	ErrSelfPeerFeedback      = newError("reviewer cannot give peer feedback to themselves", ErrInvalidInput)
)

// Error is a named failure that belongs to one or more kinds.
type Error struct {
	msg   string
	kinds []error
}

func newError(msg string, kinds ...error) *Error {
	return &Error{msg: msg, kinds: kinds}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() []error { return e.kinds }

// DeadlinePassedError names the phase whose deadline was missed.
type DeadlinePassedError struct {
	Phase Phase
}

func (e *DeadlinePassedError) Error() string {
	return string(e.Phase) + " deadline has passed"
}

func (e *DeadlinePassedError) Unwrap() error { return ErrDeadlinePassed }

// Kind names the error kind err belongs to. Unauthorized wins over NotFound so a
// missing acting manager reads as an authorization failure. Errors outside the
// taxonomy are "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadySubmitted):
		return "already_submitted"
	case errors.Is(err, ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, ErrDeadlinePassed):
		return "deadline_passed"
	case errors.Is(err, ErrIncompleteSubmission):
		return "incomplete_submission"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}
