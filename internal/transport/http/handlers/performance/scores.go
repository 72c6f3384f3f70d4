package performancehandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/notifications"
	"perfreview/internal/domain/performance"
	"perfreview/internal/platform/jobs"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/shared"
)

// handleCalculateFinalScores runs the batch inline with ?sync=true and queues it otherwise.
func (h *Handler) handleCalculateFinalScores(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	if _, err := h.Service.GetCycle(r.Context(), cycleID); err != nil {
		api.FailError(w, err, requestID(r))
		return
	}

	run := func(ctx context.Context) (any, error) {
		summary, err := h.Service.CalculateFinalScores(ctx, cycleID)
		if err != nil {
			return nil, err
		}
		h.notify(ctx, actorID, notifications.TypeFinalScoresCalculated, "Final scores calculated",
			fmt.Sprintf("%d final scores calculated, %d evaluations skipped.", summary.Calculated, summary.Skipped))
		return summary, nil
	}

	if shared.BoolQuery(r, "sync") {
		result, err := h.Jobs.RunNow(r.Context(), jobs.JobFinalScoreCalculation, cycleID.String(), run)
		if err != nil {
			api.FailError(w, err, requestID(r))
			return
		}
		h.record(r, actorID, audit.ActionFinalScoresRequested, "review_cycle", cycleID.String(), nil, result)
		api.Success(w, result, requestID(r))
		return
	}

	jobID, err := h.Jobs.Enqueue(r.Context(), jobs.JobFinalScoreCalculation, cycleID.String(), run)
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is full, retry later", requestID(r))
			return
		}
		api.FailError(w, err, requestID(r))
		return
	}
	h.record(r, actorID, audit.ActionFinalScoresRequested, "review_cycle", cycleID.String(), nil, map[string]string{"jobId": jobID})
	api.Accepted(w, map[string]string{"jobId": jobID}, requestID(r))
}

func (h *Handler) handleListFinalScores(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	v := shared.NewValidator()
	page := v.Page(r, performance.DefaultFinalScorePageSize, performance.MaxFinalScorePageSize)
	if v.Reject(w, requestID(r)) {
		return
	}
	scores, err := h.Service.ListFinalScores(r.Context(), cycleID, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	out := make([]finalScoreView, 0, len(scores))
	for _, s := range scores {
		out = append(out, toFinalScoreView(s))
	}
	api.List(w, out, -1, requestID(r))
}

func (h *Handler) handleGetFinalScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userParam(w, r, "userID")
	if !ok {
		return
	}

	score, err := h.Service.GetFinalScore(r.Context(), cycleID, userID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	api.Success(w, toFinalScoreView(score), requestID(r))
}

func (h *Handler) handleWriteReport(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobFinalScoreReport, cycleID.String(), func(ctx context.Context) (any, error) {
		path, err := h.Service.WriteFinalScoreReport(ctx, cycleID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": path}, nil
	})
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	h.record(r, actorID, audit.ActionFinalScoreReport, "review_cycle", cycleID.String(), nil, result)
	api.Created(w, result, requestID(r))
}

func (h *Handler) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	if _, err := h.Service.GetCycle(r.Context(), cycleID); err != nil {
		api.FailError(w, err, requestID(r))
		return
	}

	path := h.Service.FinalScoreReportPath(cycleID)
	if _, err := os.Stat(path); err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "report has not been generated", requestID(r))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "final-scores-"+cycleID.String()+".pdf"))
	http.ServeFile(w, r, path)
}

