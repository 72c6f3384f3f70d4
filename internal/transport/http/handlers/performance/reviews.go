package performancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/notifications"
	"perfreview/internal/domain/performance"
	"perfreview/internal/domain/review"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/middleware"
	"perfreview/internal/transport/http/shared"
)

const peerFeedbackEndpoint = "peer_feedback.submit"

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	var payload createCycleRequest
	if !decode(w, r, &payload, false) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	in := payload.toInput(v)
	if v.Reject(w, requestID(r)) {
		return
	}

	cycle, err := h.Service.CreateCycle(r.Context(), in)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toCycleView(cycle)
	h.record(r, actorID, audit.ActionCycleCreated, "review_cycle", view.ID, nil, view)
	api.Created(w, view, requestID(r))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	cycle, err := h.Service.GetCycle(r.Context(), cycleID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	api.Success(w, toCycleView(cycle), requestID(r))
}

func (h *Handler) handleGetSelfReview(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	sr, err := h.Service.GetSelfReview(r.Context(), cycleID, actorID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	api.Success(w, toSelfReviewView(sr), requestID(r))
}

func (h *Handler) handleUpdateSelfReview(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	var payload updateSelfReviewRequest
	if !decode(w, r, &payload, false) {
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

	sr, err := h.Service.UpdateSelfReview(r.Context(), cycleID, actorID, performance.SelfReviewUpdate{Scores: scores, Narrative: payload.Narrative})
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toSelfReviewView(sr)
	h.record(r, actorID, audit.ActionSelfReviewUpdated, "self_review", view.ID, nil, view)
	api.Success(w, view, requestID(r))
}

func (h *Handler) handleSubmitSelfReview(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	sr, err := h.Service.SubmitSelfReview(r.Context(), cycleID, actorID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toSelfReviewView(sr)
	h.record(r, actorID, audit.ActionSelfReviewSubmitted, "self_review", view.ID, map[string]string{"status": review.StatusDraft.String()}, view)
	h.notify(r.Context(), actorID, notifications.TypeSelfReviewSubmitted, "Self review submitted", "Your self review has been submitted.")
	api.Success(w, view, requestID(r))
}

func (h *Handler) handleSubmitPeerFeedback(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}

	var payload peerFeedbackRequest
	if !decode(w, r, &payload, false) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID(r)) {
		return
	}

	idemKey, keyed, err := middleware.IdempotencyKeyFrom(r, actorID, peerFeedbackEndpoint)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_idempotency_key", err.Error(), requestID(r))
		return
	}
	var requestHash string
	if keyed && h.Idempotency != nil {
		raw, _ := json.Marshal(payload)
		requestHash = middleware.RequestHash([]byte(cycleID.String()), raw)
		stored, found, err := h.Idempotency.Check(r.Context(), idemKey, requestHash)
		if err != nil {
			if errors.Is(err, middleware.ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID(r))
				return
			}
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Created(w, stored, requestID(r))
			return
		}
	}

	revieweeID, err := review.ParseUserID(payload.RevieweeID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	scores, err := payload.Scores.scores()
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}

	fb, err := h.Service.SubmitPeerFeedback(r.Context(), cycleID, actorID, revieweeID, performance.PeerFeedbackInput{
		Scores:          *scores,
		Strengths:       payload.Strengths,
		GrowthAreas:     payload.GrowthAreas,
		GeneralComments: payload.GeneralComments,
	})
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	view := toPeerFeedbackView(fb)
	h.record(r, actorID, audit.ActionPeerFeedbackSubmitted, "peer_feedback", view.ID, nil, view)
	h.notify(r.Context(), revieweeID, notifications.TypePeerFeedbackReceived, "Peer feedback received", "A colleague submitted feedback for you.")

	if requestHash != "" {
		if raw, err := json.Marshal(view); err == nil {
			if err := h.Idempotency.Save(r.Context(), idemKey, requestHash, raw); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
	api.Created(w, view, requestID(r))
}

func (h *Handler) handlePeerFeedbackSummary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	employeeID, ok := h.userParam(w, r, "employeeID")
	if !ok {
		return
	}

	summary, err := h.Service.GetPeerFeedbackSummary(r.Context(), cycleID, actorID, employeeID)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return
	}
	api.Success(w, toPeerSummaryView(summary), requestID(r))
}
