package performancehandler

import (
	"time"

	"perfreview/internal/domain/performance"
	"perfreview/internal/domain/review"
	"perfreview/internal/transport/http/shared"
)

type pillarsPayload struct {
	ProjectImpact         *int `json:"projectImpact" validate:"required,gte=0,lte=4"`
	Direction             *int `json:"direction" validate:"required,gte=0,lte=4"`
	EngineeringExcellence *int `json:"engineeringExcellence" validate:"required,gte=0,lte=4"`
	OperationalOwnership  *int `json:"operationalOwnership" validate:"required,gte=0,lte=4"`
	PeopleImpact          *int `json:"peopleImpact" validate:"required,gte=0,lte=4"`
}

// scores assumes the payload already passed validation.
func (p *pillarsPayload) scores() (*review.PillarScores, error) {
	if p == nil {
		return nil, nil
	}
	s, err := review.NewPillarScores(*p.ProjectImpact, *p.Direction, *p.EngineeringExcellence, *p.OperationalOwnership, *p.PeopleImpact)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type createCycleRequest struct {
	Name      string            `json:"name" validate:"required,max=200"`
	StartDate string            `json:"startDate" validate:"required"`
	EndDate   string            `json:"endDate" validate:"required"`
	Deadlines map[string]string `json:"deadlines"`
}

func (req createCycleRequest) toInput(v *shared.Validator) performance.CycleInput {
	in := performance.CycleInput{Name: req.Name, Deadlines: map[review.Phase]time.Time{}}
	if req.StartDate != "" {
		in.StartDate, _ = v.Date("startDate", req.StartDate)
	}
	if req.EndDate != "" {
		in.EndDate, _ = v.Date("endDate", req.EndDate)
	}
	v.DateOrder("startDate", in.StartDate, "endDate", in.EndDate)
	for rawPhase, rawDate := range req.Deadlines {
		phase, err := review.ParsePhase(rawPhase)
		if err != nil {
			v.Add("deadlines."+rawPhase, "is not a review phase")
			continue
		}
		if d, ok := v.Deadline("deadlines."+rawPhase, rawDate); ok {
			in.Deadlines[phase] = d
		}
	}
	return in
}

type updateSelfReviewRequest struct {
	Scores    *pillarsPayload `json:"scores"`
	Narrative *string         `json:"narrative" validate:"omitempty,max=20000"`
}

type peerFeedbackRequest struct {
	RevieweeID      string         `json:"revieweeId" validate:"required,uuid"`
	Scores          pillarsPayload `json:"scores"`
	Strengths       string         `json:"strengths" validate:"max=5000"`
	GrowthAreas     string         `json:"growthAreas" validate:"max=5000"`
	GeneralComments string         `json:"generalComments" validate:"max=5000"`
}

type updateEvaluationRequest struct {
	Scores               *pillarsPayload `json:"scores"`
	ProposedLevel        *string         `json:"proposedLevel"`
	PerformanceNarrative *string         `json:"performanceNarrative" validate:"omitempty,max=20000"`
	GrowthAreas          *string         `json:"growthAreas" validate:"omitempty,max=5000"`
	Narrative            *string         `json:"narrative" validate:"omitempty,max=20000"`
	Strengths            *string         `json:"strengths" validate:"omitempty,max=5000"`
	DevelopmentPlan      *string         `json:"developmentPlan" validate:"omitempty,max=5000"`
}

func (req updateEvaluationRequest) toUpdate(v *shared.Validator) performance.ManagerEvaluationUpdate {
	update := performance.ManagerEvaluationUpdate{
		PerformanceNarrative: req.PerformanceNarrative,
		GrowthAreas:          req.GrowthAreas,
		Narrative:            req.Narrative,
		Strengths:            req.Strengths,
		DevelopmentPlan:      req.DevelopmentPlan,
	}
	if req.ProposedLevel != nil {
		level, err := review.ParseEngineerLevel(*req.ProposedLevel)
		if err != nil {
			v.Add("proposedLevel", "must be one of: JUNIOR MID SENIOR LEAD MANAGER")
		} else {
			update.ProposedLevel = &level
		}
	}
	return update
}

type calibrateRequest struct {
	Scores        *pillarsPayload `json:"scores"`
	Justification string          `json:"justification" validate:"max=5000"`
}

type pillarsView struct {
	ProjectImpact         int `json:"projectImpact"`
	Direction             int `json:"direction"`
	EngineeringExcellence int `json:"engineeringExcellence"`
	OperationalOwnership  int `json:"operationalOwnership"`
	PeopleImpact          int `json:"peopleImpact"`
}

func toPillarsView(s review.PillarScores) pillarsView {
	return pillarsView{
		ProjectImpact:         s.ProjectImpact(),
		Direction:             s.Direction(),
		EngineeringExcellence: s.EngineeringExcellence(),
		OperationalOwnership:  s.OperationalOwnership(),
		PeopleImpact:          s.PeopleImpact(),
	}
}

type cycleView struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Deadlines map[string]time.Time `json:"deadlines"`
	CreatedAt time.Time            `json:"createdAt"`
}

func toCycleView(c *review.ReviewCycle) cycleView {
	deadlines := map[string]time.Time{}
	for phase, d := range c.Deadlines() {
		deadlines[string(phase)] = d
	}
	return cycleView{
		ID:        c.ID().String(),
		Name:      c.Name(),
		StartDate: c.StartDate().Format("2006-01-02"),
		EndDate:   c.EndDate().Format("2006-01-02"),
		Deadlines: deadlines,
		CreatedAt: c.CreatedAt(),
	}
}

type selfReviewView struct {
	ID          string      `json:"id"`
	CycleID     string      `json:"cycleId"`
	UserID      string      `json:"userId"`
	Scores      pillarsView `json:"scores"`
	Narrative   string      `json:"narrative"`
	WordCount   int         `json:"wordCount"`
	Status      string      `json:"status"`
	SubmittedAt *time.Time  `json:"submittedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toSelfReviewView(r *review.SelfReview) *selfReviewView {
	if r == nil {
		return nil
	}
	return &selfReviewView{
		ID:          r.ID().String(),
		CycleID:     r.CycleID().String(),
		UserID:      r.UserID().String(),
		Scores:      toPillarsView(r.Scores()),
		Narrative:   r.Narrative().Text(),
		WordCount:   r.Narrative().WordCount(),
		Status:      r.Status().String(),
		SubmittedAt: r.SubmittedAt(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

type peerFeedbackView struct {
	ID              string      `json:"id"`
	CycleID         string      `json:"cycleId"`
	RevieweeID      string      `json:"revieweeId"`
	ReviewerID      string      `json:"reviewerId"`
	Scores          pillarsView `json:"scores"`
	Strengths       string      `json:"strengths"`
	GrowthAreas     string      `json:"growthAreas"`
	GeneralComments string      `json:"generalComments"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func toPeerFeedbackView(f *review.PeerFeedback) peerFeedbackView {
	return peerFeedbackView{
		ID:              f.ID().String(),
		CycleID:         f.CycleID().String(),
		RevieweeID:      f.RevieweeID().String(),
		ReviewerID:      f.ReviewerID().String(),
		Scores:          toPillarsView(f.Scores()),
		Strengths:       f.Strengths(),
		GrowthAreas:     f.GrowthAreas(),
		GeneralComments: f.GeneralComments(),
		CreatedAt:       f.CreatedAt(),
	}
}

type peerSummaryView struct {
	RevieweeID string             `json:"revieweeId"`
	Count      int                `json:"count"`
	Aggregate  pillarsView        `json:"aggregate"`
	Feedback   []peerFeedbackView `json:"feedback"`
}

func toPeerSummaryView(s performance.PeerFeedbackSummary) peerSummaryView {
	feedback := make([]peerFeedbackView, 0, len(s.Feedback))
	for _, f := range s.Feedback {
		feedback = append(feedback, toPeerFeedbackView(f))
	}
	return peerSummaryView{
		RevieweeID: s.RevieweeID.String(),
		Count:      s.Count,
		Aggregate:  toPillarsView(s.Aggregate),
		Feedback:   feedback,
	}
}

type evaluationView struct {
	ID                       string      `json:"id"`
	CycleID                  string      `json:"cycleId"`
	EmployeeID               string      `json:"employeeId"`
	ManagerID                string      `json:"managerId"`
	Scores                   pillarsView `json:"scores"`
	Narrative                string      `json:"narrative"`
	Strengths                string      `json:"strengths"`
	GrowthAreas              string      `json:"growthAreas"`
	DevelopmentPlan          string      `json:"developmentPlan"`
	Status                   string      `json:"status"`
	EmployeeLevel            *string     `json:"employeeLevel,omitempty"`
	ProposedLevel            *string     `json:"proposedLevel,omitempty"`
	PerformanceNarrative     *string     `json:"performanceNarrative,omitempty"`
	CalibrationJustification *string     `json:"calibrationJustification,omitempty"`
	SubmittedAt              *time.Time  `json:"submittedAt,omitempty"`
	CalibratedAt             *time.Time  `json:"calibratedAt,omitempty"`
	CreatedAt                time.Time   `json:"createdAt"`
	UpdatedAt                time.Time   `json:"updatedAt"`
}

func levelString(l *review.EngineerLevel) *string {
	if l == nil {
		return nil
	}
	s := l.String()
	return &s
}

func toEvaluationView(e *review.ManagerEvaluation) *evaluationView {
	if e == nil {
		return nil
	}
	return &evaluationView{
		ID:                       e.ID().String(),
		CycleID:                  e.CycleID().String(),
		EmployeeID:               e.EmployeeID().String(),
		ManagerID:                e.ManagerID().String(),
		Scores:                   toPillarsView(e.Scores()),
		Narrative:                e.Narrative(),
		Strengths:                e.Strengths(),
		GrowthAreas:              e.GrowthAreas(),
		DevelopmentPlan:          e.DevelopmentPlan(),
		Status:                   e.Status().String(),
		EmployeeLevel:            levelString(e.EmployeeLevel()),
		ProposedLevel:            levelString(e.ProposedLevel()),
		PerformanceNarrative:     e.PerformanceNarrative(),
		CalibrationJustification: e.CalibrationJustification(),
		SubmittedAt:              e.SubmittedAt(),
		CalibratedAt:             e.CalibratedAt(),
		CreatedAt:                e.CreatedAt(),
		UpdatedAt:                e.UpdatedAt(),
	}
}

type finalScoreView struct {
	ID            string      `json:"id"`
	CycleID       string      `json:"cycleId"`
	UserID        string      `json:"userId"`
	EvaluationID  string      `json:"evaluationId"`
	Scores        pillarsView `json:"scores"`
	WeightedScore string      `json:"weightedScore"`
	FinalLevel    *string     `json:"finalLevel,omitempty"`
	BonusTier     string      `json:"bonusTier"`
	CalculatedAt  time.Time   `json:"calculatedAt"`
}

func toFinalScoreView(f *review.FinalScore) finalScoreView {
	return finalScoreView{
		ID:            f.ID().String(),
		CycleID:       f.CycleID().String(),
		UserID:        f.UserID().String(),
		EvaluationID:  f.EvaluationID().String(),
		Scores:        toPillarsView(f.Scores()),
		WeightedScore: f.WeightedScore().String(),
		FinalLevel:    levelString(f.FinalLevel()),
		BonusTier:     f.BonusTier().String(),
		CalculatedAt:  f.CalculatedAt(),
	}
}

type userView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Level      string `json:"level"`
	Department string `json:"department"`
}

type teamMemberView struct {
	Employee     userView        `json:"employee"`
	SelfReview   *selfReviewView `json:"selfReview"`
	PeerFeedback peerSummaryView `json:"peerFeedback"`
	Evaluation   *evaluationView `json:"evaluation"`
}

func toTeamMemberView(m performance.TeamMemberReview) teamMemberView {
	return teamMemberView{
		Employee: userView{
			ID:         m.Employee.ID.String(),
			Name:       m.Employee.Name,
			Email:      m.Employee.Email,
			Level:      m.Employee.Level.String(),
			Department: m.Employee.Department,
		},
		SelfReview:   toSelfReviewView(m.SelfReview),
		PeerFeedback: toPeerSummaryView(m.PeerFeedback),
		Evaluation:   toEvaluationView(m.Evaluation),
	}
}
