package performance

import (
	"context"
	"strings"

	"perfreview/internal/domain/review"
)

// GetManagerEvaluation returns the manager's evaluation of a direct report,
// creating a draft at the employee's current level when none exists yet.
func (s *Service) GetManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (e *review.ManagerEvaluation, err error) {
	defer func() { recordRejection(artifactManagerEvaluation, err) }()

	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckDeadline(cycle, review.PhaseManagerEvaluation); err != nil {
		return nil, err
	}
	employee, err := s.loadDirectReport(ctx, managerID, employeeID)
	if err != nil {
		return nil, err
	}
	e, err = s.stores.Evaluations.FindByEmployeeAndCycle(ctx, employeeID, cycleID)
	if err != nil {
		return nil, err
	}
	if e != nil {
		return e, nil
	}
	level := employee.Level
	draft := review.NewManagerEvaluation(cycleID, employeeID, managerID, review.ZeroPillarScores(), &level)
	e, err = s.stores.Evaluations.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	if e.ID().Equals(draft.ID()) {
		recordTransition(artifactManagerEvaluation, e.Status())
	}
	return e, nil
}

func (s *Service) UpdateManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID, in ManagerEvaluationUpdate) (e *review.ManagerEvaluation, err error) {
	defer func() { recordRejection(artifactManagerEvaluation, err) }()

	e, err = s.loadEvaluationForWrite(ctx, cycleID, review.PhaseManagerEvaluation, managerID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := applyEvaluationUpdate(e, in); err != nil {
		return nil, err
	}
	if err := s.stores.Evaluations.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func applyEvaluationUpdate(e *review.ManagerEvaluation, in ManagerEvaluationUpdate) error {
	if in.Scores != nil {
		if err := e.UpdateScores(*in.Scores); err != nil {
			return err
		}
	}
	if in.ProposedLevel != nil {
		if err := e.UpdateProposedLevel(*in.ProposedLevel); err != nil {
			return err
		}
	}
	if in.PerformanceNarrative != nil {
		if err := e.UpdatePerformanceNarrative(*in.PerformanceNarrative); err != nil {
			return err
		}
	}
	if in.GrowthAreas != nil {
		if err := e.UpdateGrowthAreas(*in.GrowthAreas); err != nil {
			return err
		}
	}
	if in.Narrative != nil {
		if err := e.UpdateNarrative(*in.Narrative); err != nil {
			return err
		}
	}
	if in.Strengths != nil {
		if err := e.UpdateStrengths(*in.Strengths); err != nil {
			return err
		}
	}
	if in.DevelopmentPlan != nil {
		if err := e.UpdateDevelopmentPlan(*in.DevelopmentPlan); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) SubmitManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (e *review.ManagerEvaluation, err error) {
	defer func() { recordRejection(artifactManagerEvaluation, err) }()

	e, err = s.loadEvaluationForWrite(ctx, cycleID, review.PhaseManagerEvaluation, managerID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := e.Submit(); err != nil {
		return nil, err
	}
	if err := s.stores.Evaluations.Save(ctx, e); err != nil {
		return nil, err
	}
	recordTransition(artifactManagerEvaluation, e.Status())
	return e, nil
}

// CalibrateManagerEvaluation marks a submitted evaluation calibrated, or replaces
// its scores when the request carries new ones.
func (s *Service) CalibrateManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID, in CalibrationRequest) (e *review.ManagerEvaluation, err error) {
	defer func() { recordRejection(artifactManagerEvaluation, err) }()

	e, err = s.loadEvaluationForWrite(ctx, cycleID, review.PhaseCalibration, managerID, employeeID)
	if err != nil {
		return nil, err
	}
	if in.Scores != nil {
		justification := strings.TrimSpace(in.Justification)
		if justification == "" {
			return nil, review.ErrMissingCalibrationJustification
		}
		err = e.ApplyCalibrationAdjustment(*in.Scores, justification)
	} else {
		err = e.Calibrate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.stores.Evaluations.Save(ctx, e); err != nil {
		return nil, err
	}
	recordTransition(artifactManagerEvaluation, e.Status())
	return e, nil
}

func (s *Service) loadEvaluationForWrite(ctx context.Context, cycleID review.ReviewCycleID, phase review.Phase, managerID, employeeID review.UserID) (*review.ManagerEvaluation, error) {
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckDeadline(cycle, phase); err != nil {
		return nil, err
	}
	if _, err := s.loadDirectReport(ctx, managerID, employeeID); err != nil {
		return nil, err
	}
	e, err := s.stores.Evaluations.FindByEmployeeAndCycle(ctx, employeeID, cycleID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, review.ErrManagerEvaluationNotFound
	}
	return e, nil
}
