package review

import "github.com/shopspring/decimal"

// PeerFeedbackAggregator averages peer scores per pillar. Callers must not pass an
// empty slice; they short-circuit to ZeroPillarScores themselves.
//
// Each pillar mean is computed exactly and rounded half away from zero to the
// nearest integer, keeping the result a valid PillarScores.
type PeerFeedbackAggregator struct{}

func NewPeerFeedbackAggregator() *PeerFeedbackAggregator {
	return &PeerFeedbackAggregator{}
}

func (a *PeerFeedbackAggregator) Aggregate(feedback []*PeerFeedback) PillarScores {
	means := a.Means(feedback)
	var rounded [5]int
	for i, m := range means {
		rounded[i] = int(m.Round(0).IntPart())
	}
	// means of in-range values are in range, so this cannot fail.
	scores, _ := PillarScoresFromValues(rounded)
	return scores
}

// Means returns the exact per-pillar means in Pillars order.
func (a *PeerFeedbackAggregator) Means(feedback []*PeerFeedback) [5]decimal.Decimal {
	var sums [5]int64
	for _, f := range feedback {
		for i, v := range f.Scores().Values() {
			sums[i] += int64(v)
		}
	}
	var means [5]decimal.Decimal
	n := decimal.NewFromInt(int64(len(feedback)))
	for i, sum := range sums {
		if n.IsZero() {
			means[i] = decimal.Zero
			continue
		}
		means[i] = decimal.NewFromInt(sum).Div(n)
	}
	return means
}
