package notifications

const (
	TypeSelfReviewSubmitted   = "self_review_submitted"
	TypePeerFeedbackReceived  = "peer_feedback_received"
	TypeEvaluationSubmitted   = "manager_evaluation_submitted"
	TypeEvaluationCalibrated  = "manager_evaluation_calibrated"
	TypeFinalScoresCalculated = "final_scores_calculated"
)
