package performance

const (
	DefaultTeamFanout = 8

	DefaultFinalScorePageSize = 100
	MaxFinalScorePageSize     = 500

	artifactSelfReview        = "self_review"
	artifactPeerFeedback      = "peer_feedback"
	artifactManagerEvaluation = "manager_evaluation"
	artifactFinalScore        = "final_score"
	artifactReviewCycle       = "review_cycle"
)
