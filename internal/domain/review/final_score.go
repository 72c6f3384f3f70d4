package review

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const weightedScorePlaces = 2

// WeightedScore is the composite of a pillar vector, held as an exact decimal
// rounded to two places so tier boundaries compare without float drift.
type WeightedScore struct {
	v decimal.Decimal
}

func NewWeightedScore(d decimal.Decimal) WeightedScore {
	return WeightedScore{v: d.Round(weightedScorePlaces)}
}

func WeightedScoreFromFloat(f float64) WeightedScore {
	return NewWeightedScore(decimal.NewFromFloat(f))
}

func ParseWeightedScore(raw string) (WeightedScore, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return WeightedScore{}, newError("invalid weighted score "+raw, ErrInvalidInput)
	}
	return NewWeightedScore(d), nil
}

func (w WeightedScore) Decimal() decimal.Decimal { return w.v }
func (w WeightedScore) String() string           { return w.v.StringFixed(weightedScorePlaces) }
func (w WeightedScore) Equals(other WeightedScore) bool {
	return w.v.Equal(other.v)
}

func (w WeightedScore) Float64() float64 {
	f, _ := w.v.Float64()
	return f
}

type BonusTier string

const (
	BonusTierBelow   BonusTier = "BELOW"
	BonusTierMeets   BonusTier = "MEETS"
	BonusTierExceeds BonusTier = "EXCEEDS"
)

func ParseBonusTier(raw string) (BonusTier, error) {
	switch t := BonusTier(strings.ToUpper(strings.TrimSpace(raw))); t {
	case BonusTierBelow, BonusTierMeets, BonusTierExceeds:
		return t, nil
	}
	return "", newError("unknown bonus tier "+raw, ErrInvalidInput)
}

func (t BonusTier) String() string { return string(t) }

func (t BonusTier) Rank() int {
	switch t {
	case BonusTierBelow:
		return 0
	case BonusTierMeets:
		return 1
	case BonusTierExceeds:
		return 2
	}
	return -1
}

// FinalScore is the calibrated outcome for one employee in one cycle.
type FinalScore struct {
	id            FinalScoreID
	cycleID       ReviewCycleID
	userID        UserID
	evaluationID  ManagerEvaluationID
	scores        PillarScores
	weightedScore WeightedScore
	finalLevel    *EngineerLevel
	bonusTier     BonusTier
	calculatedAt  time.Time
}

func HydrateFinalScore(
	id FinalScoreID,
	cycleID ReviewCycleID,
	userID UserID,
	evaluationID ManagerEvaluationID,
	scores PillarScores,
	weightedScore WeightedScore,
	finalLevel *EngineerLevel,
	bonusTier BonusTier,
	calculatedAt time.Time,
) *FinalScore {
	return &FinalScore{
		id:            id,
		cycleID:       cycleID,
		userID:        userID,
		evaluationID:  evaluationID,
		scores:        scores,
		weightedScore: weightedScore,
		finalLevel:    copyLevel(finalLevel),
		bonusTier:     bonusTier,
		calculatedAt:  calculatedAt,
	}
}

func (f *FinalScore) ID() FinalScoreID                  { return f.id }
func (f *FinalScore) CycleID() ReviewCycleID            { return f.cycleID }
func (f *FinalScore) UserID() UserID                    { return f.userID }
func (f *FinalScore) EvaluationID() ManagerEvaluationID { return f.evaluationID }
func (f *FinalScore) Scores() PillarScores              { return f.scores }
func (f *FinalScore) WeightedScore() WeightedScore      { return f.weightedScore }
func (f *FinalScore) FinalLevel() *EngineerLevel        { return copyLevel(f.finalLevel) }
func (f *FinalScore) BonusTier() BonusTier              { return f.bonusTier }
func (f *FinalScore) CalculatedAt() time.Time           { return f.calculatedAt }
