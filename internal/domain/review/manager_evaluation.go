package review

import "time"

// ManagerEvaluation is a manager's assessment of a direct report.
//
//	DRAFT --Submit--> SUBMITTED --Calibrate--> CALIBRATED
//	SUBMITTED|CALIBRATED --ApplyCalibrationAdjustment--> CALIBRATED
//
// Field mutators are rejected once the evaluation is submitted. Only
// ApplyCalibrationAdjustment may replace scores after submission.
type ManagerEvaluation struct {
	id                       ManagerEvaluationID
	cycleID                  ReviewCycleID
	employeeID               UserID
	managerID                UserID
	scores                   PillarScores
	narrative                string
	strengths                string
	growthAreas              string
	developmentPlan          string
	status                   ReviewStatus
	employeeLevel            *EngineerLevel
	proposedLevel            *EngineerLevel
	performanceNarrative     *string
	calibrationJustification *string
	submittedAt              *time.Time
	calibratedAt             *time.Time
	createdAt                time.Time
	updatedAt                time.Time
}

func NewManagerEvaluation(cycleID ReviewCycleID, employeeID, managerID UserID, scores PillarScores, employeeLevel *EngineerLevel) *ManagerEvaluation {
	ts := now()
	return &ManagerEvaluation{
		id:            NewManagerEvaluationID(),
		cycleID:       cycleID,
		employeeID:    employeeID,
		managerID:     managerID,
		scores:        scores,
		status:        StatusDraft,
		employeeLevel: copyLevel(employeeLevel),
		createdAt:     ts,
		updatedAt:     ts,
	}
}

// ManagerEvaluationState carries every persisted field for HydrateManagerEvaluation.
type ManagerEvaluationState struct {
	ID                       ManagerEvaluationID
	CycleID                  ReviewCycleID
	EmployeeID               UserID
	ManagerID                UserID
	Scores                   PillarScores
	Narrative                string
	Strengths                string
	GrowthAreas              string
	DevelopmentPlan          string
	Status                   ReviewStatus
	EmployeeLevel            *EngineerLevel
	ProposedLevel            *EngineerLevel
	PerformanceNarrative     *string
	CalibrationJustification *string
	SubmittedAt              *time.Time
	CalibratedAt             *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func HydrateManagerEvaluation(st ManagerEvaluationState) *ManagerEvaluation {
	return &ManagerEvaluation{
		id:                       st.ID,
		cycleID:                  st.CycleID,
		employeeID:               st.EmployeeID,
		managerID:                st.ManagerID,
		scores:                   st.Scores,
		narrative:                st.Narrative,
		strengths:                st.Strengths,
		growthAreas:              st.GrowthAreas,
		developmentPlan:          st.DevelopmentPlan,
		status:                   st.Status,
		employeeLevel:            copyLevel(st.EmployeeLevel),
		proposedLevel:            copyLevel(st.ProposedLevel),
		performanceNarrative:     copyString(st.PerformanceNarrative),
		calibrationJustification: copyString(st.CalibrationJustification),
		submittedAt:              copyTime(st.SubmittedAt),
		calibratedAt:             copyTime(st.CalibratedAt),
		createdAt:                st.CreatedAt,
		updatedAt:                st.UpdatedAt,
	}
}

// State snapshots the evaluation for persistence.
func (e *ManagerEvaluation) State() ManagerEvaluationState {
	return ManagerEvaluationState{
		ID:                       e.id,
		CycleID:                  e.cycleID,
		EmployeeID:               e.employeeID,
		ManagerID:                e.managerID,
		Scores:                   e.scores,
		Narrative:                e.narrative,
		Strengths:                e.strengths,
		GrowthAreas:              e.growthAreas,
		DevelopmentPlan:          e.developmentPlan,
		Status:                   e.status,
		EmployeeLevel:            copyLevel(e.employeeLevel),
		ProposedLevel:            copyLevel(e.proposedLevel),
		PerformanceNarrative:     copyString(e.performanceNarrative),
		CalibrationJustification: copyString(e.calibrationJustification),
		SubmittedAt:              copyTime(e.submittedAt),
		CalibratedAt:             copyTime(e.calibratedAt),
		CreatedAt:                e.createdAt,
		UpdatedAt:                e.updatedAt,
	}
}

func (e *ManagerEvaluation) ID() ManagerEvaluationID { return e.id }
func (e *ManagerEvaluation) CycleID() ReviewCycleID  { return e.cycleID }
func (e *ManagerEvaluation) EmployeeID() UserID      { return e.employeeID }
func (e *ManagerEvaluation) ManagerID() UserID       { return e.managerID }
func (e *ManagerEvaluation) Scores() PillarScores    { return e.scores }
func (e *ManagerEvaluation) Narrative() string       { return e.narrative }
func (e *ManagerEvaluation) Strengths() string       { return e.strengths }
func (e *ManagerEvaluation) GrowthAreas() string     { return e.growthAreas }
func (e *ManagerEvaluation) DevelopmentPlan() string { return e.developmentPlan }
func (e *ManagerEvaluation) Status() ReviewStatus    { return e.status }
func (e *ManagerEvaluation) CreatedAt() time.Time    { return e.createdAt }
func (e *ManagerEvaluation) UpdatedAt() time.Time    { return e.updatedAt }

func (e *ManagerEvaluation) EmployeeLevel() *EngineerLevel { return copyLevel(e.employeeLevel) }
func (e *ManagerEvaluation) ProposedLevel() *EngineerLevel { return copyLevel(e.proposedLevel) }
func (e *ManagerEvaluation) PerformanceNarrative() *string { return copyString(e.performanceNarrative) }
func (e *ManagerEvaluation) CalibrationJustification() *string {
	return copyString(e.calibrationJustification)
}
func (e *ManagerEvaluation) SubmittedAt() *time.Time  { return copyTime(e.submittedAt) }
func (e *ManagerEvaluation) CalibratedAt() *time.Time { return copyTime(e.calibratedAt) }

// IsSubmitted is true for SUBMITTED and CALIBRATED.
func (e *ManagerEvaluation) IsSubmitted() bool {
	return e.status == StatusSubmitted || e.status == StatusCalibrated
}

func (e *ManagerEvaluation) IsCalibrated() bool { return e.status == StatusCalibrated }

// FinalLevel is the proposed level when set, else the employee's current level.
func (e *ManagerEvaluation) FinalLevel() *EngineerLevel {
	if e.proposedLevel != nil {
		return copyLevel(e.proposedLevel)
	}
	return copyLevel(e.employeeLevel)
}

func (e *ManagerEvaluation) UpdateScores(scores PillarScores) error {
	return e.mutate(func() { e.scores = scores })
}

func (e *ManagerEvaluation) UpdateProposedLevel(level EngineerLevel) error {
	return e.mutate(func() { e.proposedLevel = &level })
}

func (e *ManagerEvaluation) UpdatePerformanceNarrative(text string) error {
	return e.mutate(func() { e.performanceNarrative = &text })
}

func (e *ManagerEvaluation) UpdateGrowthAreas(text string) error {
	return e.mutate(func() { e.growthAreas = text })
}

func (e *ManagerEvaluation) UpdateNarrative(text string) error {
	return e.mutate(func() { e.narrative = text })
}

func (e *ManagerEvaluation) UpdateStrengths(text string) error {
	return e.mutate(func() { e.strengths = text })
}

func (e *ManagerEvaluation) UpdateDevelopmentPlan(text string) error {
	return e.mutate(func() { e.developmentPlan = text })
}

func (e *ManagerEvaluation) Submit() error {
	if e.IsSubmitted() {
		return ErrManagerEvaluationAlreadySubmitted
	}
	ts := now()
	e.status = StatusSubmitted
	e.submittedAt = &ts
	e.updatedAt = ts
	return nil
}

func (e *ManagerEvaluation) Calibrate() error {
	if !e.IsSubmitted() {
		return ErrCalibrateUnsubmitted
	}
	ts := now()
	e.status = StatusCalibrated
	e.calibratedAt = &ts
	e.updatedAt = ts
	return nil
}

// ApplyCalibrationAdjustment replaces the whole score vector, even after
// submission, and forces the status to CALIBRATED.
func (e *ManagerEvaluation) ApplyCalibrationAdjustment(scores PillarScores, justification string) error {
	if !e.IsSubmitted() {
		return ErrCalibrationAdjustmentUnsubmitted
	}
	ts := now()
	e.scores = scores
	e.calibrationJustification = &justification
	e.status = StatusCalibrated
	e.calibratedAt = &ts
	e.updatedAt = ts
	return nil
}

func (e *ManagerEvaluation) mutate(apply func()) error {
	if e.IsSubmitted() {
		return ErrManagerEvaluationAlreadySubmitted
	}
	apply()
	e.updatedAt = now()
	return nil
}

func copyLevel(l *EngineerLevel) *EngineerLevel {
	if l == nil {
		return nil
	}
	v := *l
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
