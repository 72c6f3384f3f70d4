package review

const (
	MinPillarScore = 0
	MaxPillarScore = 4
)

type Pillar string

const (
	PillarProjectImpact         Pillar = "projectImpact"
	PillarDirection             Pillar = "direction"
	PillarEngineeringExcellence Pillar = "engineeringExcellence"
	PillarOperationalOwnership  Pillar = "operationalOwnership"
	PillarPeopleImpact          Pillar = "peopleImpact"
)

// Pillars lists the five dimensions in canonical order.
var Pillars = []Pillar{
	PillarProjectImpact,
	PillarDirection,
	PillarEngineeringExcellence,
	PillarOperationalOwnership,
	PillarPeopleImpact,
}

// PillarScores is an immutable score vector. The zero value is the all-zero vector.
type PillarScores struct {
	projectImpact         int
	direction             int
	engineeringExcellence int
	operationalOwnership  int
	peopleImpact          int
}

func NewPillarScores(projectImpact, direction, engineeringExcellence, operationalOwnership, peopleImpact int) (PillarScores, error) {
	for _, v := range []int{projectImpact, direction, engineeringExcellence, operationalOwnership, peopleImpact} {
		if v < MinPillarScore || v > MaxPillarScore {
			return PillarScores{}, ErrPillarScoreOutOfRange
		}
	}
	return PillarScores{
		projectImpact:         projectImpact,
		direction:             direction,
		engineeringExcellence: engineeringExcellence,
		operationalOwnership:  operationalOwnership,
		peopleImpact:          peopleImpact,
	}, nil
}

// MustPillarScores panics on out-of-range input. Intended for fixtures and constants.
func MustPillarScores(projectImpact, direction, engineeringExcellence, operationalOwnership, peopleImpact int) PillarScores {
	s, err := NewPillarScores(projectImpact, direction, engineeringExcellence, operationalOwnership, peopleImpact)
	if err != nil {
		panic(err)
	}
	return s
}

func ZeroPillarScores() PillarScores { return PillarScores{} }

func (s PillarScores) ProjectImpact() int         { return s.projectImpact }
func (s PillarScores) Direction() int             { return s.direction }
func (s PillarScores) EngineeringExcellence() int { return s.engineeringExcellence }
func (s PillarScores) OperationalOwnership() int  { return s.operationalOwnership }
func (s PillarScores) PeopleImpact() int          { return s.peopleImpact }

func (s PillarScores) Equals(other PillarScores) bool { return s == other }

// Values returns the scores in Pillars order.
func (s PillarScores) Values() [5]int {
	return [5]int{s.projectImpact, s.direction, s.engineeringExcellence, s.operationalOwnership, s.peopleImpact}
}

func (s PillarScores) Get(p Pillar) int {
	switch p {
	case PillarProjectImpact:
		return s.projectImpact
	case PillarDirection:
		return s.direction
	case PillarEngineeringExcellence:
		return s.engineeringExcellence
	case PillarOperationalOwnership:
		return s.operationalOwnership
	case PillarPeopleImpact:
		return s.peopleImpact
	}
	return 0
}

func (s PillarScores) Total() int {
	total := 0
	for _, v := range s.Values() {
		total += v
	}
	return total
}

// PillarScoresFromValues builds scores from a vector in Pillars order.
func PillarScoresFromValues(v [5]int) (PillarScores, error) {
	return NewPillarScores(v[0], v[1], v[2], v[3], v[4])
}
