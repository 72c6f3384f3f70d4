package review

import "github.com/shopspring/decimal"

// PillarWeights are per-pillar coefficients. They must be non-negative and sum to 1
// so the weighted score stays within [0,4].
type PillarWeights map[Pillar]decimal.Decimal

// DefaultPillarWeights favour delivery and technical pillars:
//
//	projectImpact 0.25, direction 0.25, engineeringExcellence 0.25,
//	operationalOwnership 0.15, peopleImpact 0.10
//
// {4,3,4,3,2} scores 3.40.
var DefaultPillarWeights = PillarWeights{
	PillarProjectImpact:         decimal.RequireFromString("0.25"),
	PillarDirection:             decimal.RequireFromString("0.25"),
	PillarEngineeringExcellence: decimal.RequireFromString("0.25"),
	PillarOperationalOwnership:  decimal.RequireFromString("0.15"),
	PillarPeopleImpact:          decimal.RequireFromString("0.10"),
}

func (w PillarWeights) Validate() error {
	sum := decimal.Zero
	for _, p := range Pillars {
		v, ok := w[p]
		if !ok {
			return newError("missing weight for pillar "+string(p), ErrInvalidInput)
		}
		if v.IsNegative() {
			return newError("negative weight for pillar "+string(p), ErrInvalidInput)
		}
		sum = sum.Add(v)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return newError("pillar weights must sum to 1", ErrInvalidInput)
	}
	return nil
}

// ScoringFunc derives a composite in [0,4] from a pillar vector.
type ScoringFunc func(PillarScores) WeightedScore

// WeightedBy returns a ScoringFunc computing sum(weight_p * score_p).
func WeightedBy(weights PillarWeights) ScoringFunc {
	return func(s PillarScores) WeightedScore {
		total := decimal.Zero
		for _, p := range Pillars {
			total = total.Add(weights[p].Mul(decimal.NewFromInt(int64(s.Get(p)))))
		}
		return NewWeightedScore(total)
	}
}

// TierThresholds are inclusive lower bounds: score >= Exceeds is EXCEEDS,
// score >= Meets is MEETS, anything lower is BELOW.
type TierThresholds struct {
	Exceeds decimal.Decimal
	Meets   decimal.Decimal
}

var DefaultTierThresholds = TierThresholds{
	Exceeds: decimal.RequireFromString("3.20"),
	Meets:   decimal.RequireFromString("2.00"),
}

func (t TierThresholds) Classify(score WeightedScore) BonusTier {
	switch {
	case score.Decimal().GreaterThanOrEqual(t.Exceeds):
		return BonusTierExceeds
	case score.Decimal().GreaterThanOrEqual(t.Meets):
		return BonusTierMeets
	default:
		return BonusTierBelow
	}
}

// FinalScoreCalculator turns a manager evaluation into a FinalScore. It is a
// pure function of the evaluation; callers decide which evaluations qualify.
type FinalScoreCalculator struct {
	score ScoringFunc
	tiers TierThresholds
}

type CalculatorOption func(*FinalScoreCalculator)

func WithScoringFunc(fn ScoringFunc) CalculatorOption {
	return func(c *FinalScoreCalculator) {
		if fn != nil {
			c.score = fn
		}
	}
}

func WithTierThresholds(t TierThresholds) CalculatorOption {
	return func(c *FinalScoreCalculator) { c.tiers = t }
}

func NewFinalScoreCalculator(opts ...CalculatorOption) *FinalScoreCalculator {
	c := &FinalScoreCalculator{
		score: WeightedBy(DefaultPillarWeights),
		tiers: DefaultTierThresholds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *FinalScoreCalculator) WeightedScore(scores PillarScores) WeightedScore {
	return c.score(scores)
}

func (c *FinalScoreCalculator) Classify(score WeightedScore) BonusTier {
	return c.tiers.Classify(score)
}

func (c *FinalScoreCalculator) Calculate(eval *ManagerEvaluation) *FinalScore {
	scores := eval.Scores()
	weighted := c.score(scores)
	return &FinalScore{
		id:            NewFinalScoreID(),
		cycleID:       eval.CycleID(),
		userID:        eval.EmployeeID(),
		evaluationID:  eval.ID(),
		scores:        scores,
		weightedScore: weighted,
		finalLevel:    eval.FinalLevel(),
		bonusTier:     c.tiers.Classify(weighted),
		calculatedAt:  now(),
	}
}
