package performance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"perfreview/internal/domain/review"
)

var (
	reviewTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perfreview",
		Subsystem: "review",
		Name:      "transitions_total",
		Help:      "Total number of review artifact state changes broken down by artifact and resulting status.",
	}, []string{"artifact", "status"})

	reviewRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perfreview",
		Subsystem: "review",
		Name:      "rejections_total",
		Help:      "Total number of rejected review operations broken down by artifact and error kind.",
	}, []string{"artifact", "kind"})

	finalScoresCalculated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perfreview",
		Subsystem: "final_score",
		Name:      "calculated_total",
		Help:      "Total number of final scores written broken down by bonus tier.",
	}, []string{"tier"})

	finalScoresSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "perfreview",
		Subsystem: "final_score",
		Name:      "skipped_total",
		Help:      "Total number of draft evaluations skipped during final score calculation.",
	})
)

func recordTransition(artifact string, status review.ReviewStatus) {
	reviewTransitions.WithLabelValues(artifact, status.String()).Inc()
}

func recordRejection(artifact string, err error) {
	if err == nil {
		return
	}
	reviewRejections.WithLabelValues(artifact, review.Kind(err)).Inc()
}

func recordFinalScore(tier review.BonusTier) {
	finalScoresCalculated.WithLabelValues(tier.String()).Inc()
}

func recordFinalScoreSkipped() {
	finalScoresSkipped.Inc()
}
