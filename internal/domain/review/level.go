package review

import "strings"

type EngineerLevel string

const (
	LevelJunior  EngineerLevel = "JUNIOR"
	LevelMid     EngineerLevel = "MID"
	LevelSenior  EngineerLevel = "SENIOR"
	LevelLead    EngineerLevel = "LEAD"
	LevelManager EngineerLevel = "MANAGER"
)

var engineerLevels = []EngineerLevel{LevelJunior, LevelMid, LevelSenior, LevelLead, LevelManager}

func ParseEngineerLevel(raw string) (EngineerLevel, error) {
	l := EngineerLevel(strings.ToUpper(strings.TrimSpace(raw)))
	if l.Rank() < 0 {
		return "", newError("unknown engineer level "+raw, ErrInvalidInput)
	}
	return l, nil
}

func (l EngineerLevel) String() string { return string(l) }

func (l EngineerLevel) Equals(other EngineerLevel) bool { return l == other }

func (l EngineerLevel) Rank() int {
	for i, candidate := range engineerLevels {
		if candidate == l {
			return i
		}
	}
	return -1
}

// IsPromotionFrom reports whether l sits strictly above current.
func (l EngineerLevel) IsPromotionFrom(current EngineerLevel) bool {
	return current.Rank() >= 0 && l.Rank() > current.Rank()
}
