package performancehandler

import (
	"net/http"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/notifications"
	"perfreview/internal/domain/performance"
	"perfreview/internal/domain/review"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/shared"
)

// evaluationTarget resolves the acting manager, cycle and employee of an evaluation route.
func (h *Handler) evaluationTarget(w http.ResponseWriter, r *http.Request) (managerID review.UserID, cycleID review.ReviewCycleID, employeeID review.UserID, ok bool) {
	if managerID, ok = h.actor(w, r); !ok {
		return
	}
	if cycleID, ok = h.cycleID(w, r); !ok {
		return
	}
	employeeID, ok = h.userParam(w, r, "employeeID")
	return
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	managerID, cycleID, employeeID, ok := h.evaluationTarget(w, r)
	if !ok {
		return
	}
	e, err := h.Service.GetManagerEvaluation(r.Context(), cycleID, managerID, employeeID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	api.Success(w, toEvaluationView(e), requestID(r))
}

func (h *Handler) handleUpdateEvaluation(w http.ResponseWriter, r *http.Request) {
	managerID, cycleID, employeeID, ok := h.evaluationTarget(w, r)
	if !ok {
		return
	}

	var payload updateEvaluationRequest
	if !decode(w, r, &payload, false) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	update := payload.toUpdate(v)
	if v.Reject(w, requestID(r)) {
		return
	}
	scores, err := payload.Scores.scores()
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	update.Scores = scores

	e, err := h.Service.UpdateManagerEvaluation(r.Context(), cycleID, managerID, employeeID, update)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toEvaluationView(e)
	h.record(r, managerID, audit.ActionEvaluationUpdated, "manager_evaluation", view.ID, nil, view)
	api.Success(w, view, requestID(r))
}

func (h *Handler) handleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	managerID, cycleID, employeeID, ok := h.evaluationTarget(w, r)
	if !ok {
		return
	}

	e, err := h.Service.SubmitManagerEvaluation(r.Context(), cycleID, managerID, employeeID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toEvaluationView(e)
	h.record(r, managerID, audit.ActionEvaluationSubmitted, "manager_evaluation", view.ID, map[string]string{"status": review.StatusDraft.String()}, view)
	h.notify(r.Context(), employeeID, notifications.TypeEvaluationSubmitted, "Evaluation submitted", "Your manager submitted your evaluation.")
	api.Success(w, view, requestID(r))
}

func (h *Handler) handleCalibrateEvaluation(w http.ResponseWriter, r *http.Request) {
	managerID, cycleID, employeeID, ok := h.evaluationTarget(w, r)
	if !ok {
		return
	}

	var payload calibrateRequest
	if !decode(w, r, &payload, true) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID(r)) {
		return
	}
	scores, err := payload.Scores.scores()
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}

	e, err := h.Service.CalibrateManagerEvaluation(r.Context(), cycleID, managerID, employeeID, performance.CalibrationRequest{
		Scores:        scores,
		Justification: payload.Justification,
	})
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toEvaluationView(e)
	h.record(r, managerID, audit.ActionEvaluationCalibrated, "manager_evaluation", view.ID, nil, view)
	h.notify(r.Context(), employeeID, notifications.TypeEvaluationCalibrated, "Evaluation calibrated", "Your evaluation has been calibrated.")
	api.Success(w, view, requestID(r))
}

func (h *Handler) handleTeamReviews(w http.ResponseWriter, r *http.Request) {
	managerID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	team, err := h.Service.GetTeamReviews(r.Context(), cycleID, managerID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	out := make([]teamMemberView, 0, len(team))
	for _, member := range team {
		out = append(out, toTeamMemberView(member))
	}
	api.Success(w, out, requestID(r))
}
