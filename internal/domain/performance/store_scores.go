package performance

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfreview/internal/domain/review"
)

type evaluationStore struct {
	db *pgxpool.Pool
}

const evaluationColumns = `id, cycle_id, employee_id, manager_id,
           project_impact, direction, engineering_excellence, operational_ownership, people_impact,
           narrative, strengths, growth_areas, development_plan, status,
           employee_level, proposed_level, performance_narrative, calibration_justification,
           submitted_at, calibrated_at, created_at, updated_at`

func (s *evaluationStore) FindByEmployeeAndCycle(ctx context.Context, employeeID review.UserID, cycleID review.ReviewCycleID) (*review.ManagerEvaluation, error) {
	e, err := scanEvaluation(s.db.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM manager_evaluations
    WHERE employee_id = $1 AND cycle_id = $2
  `, employeeID.UUID(), cycleID.UUID()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "find manager evaluation")
	}
	return e, nil
}

func (s *evaluationStore) FindByCycle(ctx context.Context, cycleID review.ReviewCycleID) ([]*review.ManagerEvaluation, error) {
	rows, err := s.db.Query(ctx, `
    SELECT `+evaluationColumns+`
    FROM manager_evaluations
    WHERE cycle_id = $1
    ORDER BY created_at, id
  `, cycleID.UUID())
	if err != nil {
		return nil, gerrors.Wrap(err, "list manager evaluations")
	}
	defer rows.Close()

	var out []*review.ManagerEvaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, gerrors.Wrap(err, "scan manager evaluation")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvaluation(row rowScanner) (*review.ManagerEvaluation, error) {
	var (
		id, cycle, employee, manager uuid.UUID
		values                       [5]int
		status                       string
		employeeLevel, proposedLevel *string
		st                           review.ManagerEvaluationState
	)
	dest := []any{&id, &cycle, &employee, &manager}
	dest = append(dest, scanPillars(&values)...)
	dest = append(dest,
		&st.Narrative, &st.Strengths, &st.GrowthAreas, &st.DevelopmentPlan, &status,
		&employeeLevel, &proposedLevel, &st.PerformanceNarrative, &st.CalibrationJustification,
		&st.SubmittedAt, &st.CalibratedAt, &st.CreatedAt, &st.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if st.Scores, err = review.PillarScoresFromValues(values); err != nil {
		return nil, err
	}
	if st.Status, err = review.ParseReviewStatus(status); err != nil {
		return nil, err
	}
	if st.EmployeeLevel, err = parseLevel(employeeLevel); err != nil {
		return nil, err
	}
	if st.ProposedLevel, err = parseLevel(proposedLevel); err != nil {
		return nil, err
	}
	st.ID = review.ManagerEvaluationIDFrom(id)
	st.CycleID = review.ReviewCycleIDFrom(cycle)
	st.EmployeeID = review.UserIDFrom(employee)
	st.ManagerID = review.UserIDFrom(manager)
	return review.HydrateManagerEvaluation(st), nil
}

func (s *evaluationStore) Save(ctx context.Context, e *review.ManagerEvaluation) error {
	st := e.State()
	v := st.Scores.Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO manager_evaluations (id, cycle_id, employee_id, manager_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      narrative, strengths, growth_areas, development_plan, status,
      employee_level, proposed_level, performance_narrative, calibration_justification,
      submitted_at, calibrated_at, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    ON CONFLICT (id) DO UPDATE
    SET project_impact = EXCLUDED.project_impact,
        direction = EXCLUDED.direction,
        engineering_excellence = EXCLUDED.engineering_excellence,
        operational_ownership = EXCLUDED.operational_ownership,
        people_impact = EXCLUDED.people_impact,
        narrative = EXCLUDED.narrative,
        strengths = EXCLUDED.strengths,
        growth_areas = EXCLUDED.growth_areas,
        development_plan = EXCLUDED.development_plan,
        status = EXCLUDED.status,
        employee_level = EXCLUDED.employee_level,
        proposed_level = EXCLUDED.proposed_level,
        performance_narrative = EXCLUDED.performance_narrative,
        calibration_justification = EXCLUDED.calibration_justification,
        submitted_at = EXCLUDED.submitted_at,
        calibrated_at = EXCLUDED.calibrated_at,
        updated_at = EXCLUDED.updated_at
  `, st.ID.UUID(), st.CycleID.UUID(), st.EmployeeID.UUID(), st.ManagerID.UUID(),
		v[0], v[1], v[2], v[3], v[4],
		st.Narrative, st.Strengths, st.GrowthAreas, st.DevelopmentPlan, st.Status.String(),
		levelValue(st.EmployeeLevel), levelValue(st.ProposedLevel), st.PerformanceNarrative, st.CalibrationJustification,
		st.SubmittedAt, st.CalibratedAt, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return gerrors.Wrap(err, "save manager evaluation")
	}
	return nil
}

func (s *evaluationStore) Create(ctx context.Context, e *review.ManagerEvaluation) (*review.ManagerEvaluation, error) {
	st := e.State()
	v := st.Scores.Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO manager_evaluations (id, cycle_id, employee_id, manager_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      narrative, strengths, growth_areas, development_plan, status,
      employee_level, proposed_level, performance_narrative, calibration_justification,
      submitted_at, calibrated_at, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    ON CONFLICT (cycle_id, employee_id) DO NOTHING
  `, st.ID.UUID(), st.CycleID.UUID(), st.EmployeeID.UUID(), st.ManagerID.UUID(),
		v[0], v[1], v[2], v[3], v[4],
		st.Narrative, st.Strengths, st.GrowthAreas, st.DevelopmentPlan, st.Status.String(),
		levelValue(st.EmployeeLevel), levelValue(st.ProposedLevel), st.PerformanceNarrative, st.CalibrationJustification,
		st.SubmittedAt, st.CalibratedAt, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return nil, gerrors.Wrap(err, "create manager evaluation")
	}
	stored, err := s.FindByEmployeeAndCycle(ctx, st.EmployeeID, st.CycleID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gerrors.New("manager evaluation vanished after create")
	}
	return stored, nil
}

type finalScoreStore struct {
	db *pgxpool.Pool
}

const finalScoreColumns = `id, cycle_id, user_id, evaluation_id,
           project_impact, direction, engineering_excellence, operational_ownership, people_impact,
           weighted_score::text, final_level, bonus_tier, calculated_at`

func (s *finalScoreStore) FindByUserAndCycle(ctx context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.FinalScore, error) {
	score, err := scanFinalScore(s.db.QueryRow(ctx, `
    SELECT `+finalScoreColumns+`
    FROM final_scores
    WHERE user_id = $1 AND cycle_id = $2
  `, userID.UUID(), cycleID.UUID()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "find final score")
	}
	return score, nil
}

func (s *finalScoreStore) ListByCycle(ctx context.Context, cycleID review.ReviewCycleID, limit, offset int) ([]*review.FinalScore, error) {
	rows, err := s.db.Query(ctx, `
    SELECT `+finalScoreColumns+`
    FROM final_scores
    WHERE cycle_id = $1
    ORDER BY weighted_score DESC, user_id
    LIMIT $2 OFFSET $3
  `, cycleID.UUID(), limit, offset)
	if err != nil {
		return nil, gerrors.Wrap(err, "list final scores")
	}
	defer rows.Close()

	var out []*review.FinalScore
	for rows.Next() {
		score, err := scanFinalScore(rows)
		if err != nil {
			return nil, gerrors.Wrap(err, "scan final score")
		}
		out = append(out, score)
	}
	return out, rows.Err()
}

func scanFinalScore(row rowScanner) (*review.FinalScore, error) {
	var (
		id, cycle, user, evaluation uuid.UUID
		values                      [5]int
		weighted, tier              string
		finalLevel                  *string
		calculatedAt                time.Time
	)
	dest := []any{&id, &cycle, &user, &evaluation}
	dest = append(dest, scanPillars(&values)...)
	dest = append(dest, &weighted, &finalLevel, &tier, &calculatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	scores, err := review.PillarScoresFromValues(values)
	if err != nil {
		return nil, err
	}
	ws, err := review.ParseWeightedScore(weighted)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(finalLevel)
	if err != nil {
		return nil, err
	}
	bonusTier, err := review.ParseBonusTier(tier)
	if err != nil {
		return nil, err
	}
	return review.HydrateFinalScore(
		review.FinalScoreIDFrom(id),
		review.ReviewCycleIDFrom(cycle),
		review.UserIDFrom(user),
		review.ManagerEvaluationIDFrom(evaluation),
		scores,
		ws,
		level,
		bonusTier,
		calculatedAt,
	), nil
}

// Save upserts on (cycle_id, user_id); a recalculation replaces the previous row
// but keeps its id.
func (s *finalScoreStore) Save(ctx context.Context, f *review.FinalScore) error {
	v := f.Scores().Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO final_scores (id, cycle_id, user_id, evaluation_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      weighted_score, final_level, bonus_tier, calculated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric,$11,$12,$13)
    ON CONFLICT (cycle_id, user_id) DO UPDATE
    SET evaluation_id = EXCLUDED.evaluation_id,
        project_impact = EXCLUDED.project_impact,
        direction = EXCLUDED.direction,
        engineering_excellence = EXCLUDED.engineering_excellence,
        operational_ownership = EXCLUDED.operational_ownership,
        people_impact = EXCLUDED.people_impact,
        weighted_score = EXCLUDED.weighted_score,
        final_level = EXCLUDED.final_level,
        bonus_tier = EXCLUDED.bonus_tier,
        calculated_at = EXCLUDED.calculated_at
  `, f.ID().UUID(), f.CycleID().UUID(), f.UserID().UUID(), f.EvaluationID().UUID(),
		v[0], v[1], v[2], v[3], v[4],
		f.WeightedScore().String(), levelValue(f.FinalLevel()), f.BonusTier().String(), f.CalculatedAt())
	if err != nil {
		return gerrors.Wrap(err, "save final score")
	}
	return nil
}
