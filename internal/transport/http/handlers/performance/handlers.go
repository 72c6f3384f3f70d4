package performancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/performance"
	"perfreview/internal/domain/review"
	"perfreview/internal/platform/jobs"
	"perfreview/internal/requestctx"
	"perfreview/internal/transport/http/api"
	"perfreview/internal/transport/http/middleware"
	"perfreview/internal/transport/http/shared"
)

type Service interface {
	CreateCycle(ctx context.Context, in performance.CycleInput) (*review.ReviewCycle, error)
	GetCycle(ctx context.Context, cycleID review.ReviewCycleID) (*review.ReviewCycle, error)
	GetSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (*review.SelfReview, error)
	UpdateSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID, in performance.SelfReviewUpdate) (*review.SelfReview, error)
	SubmitSelfReview(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (*review.SelfReview, error)
	SubmitPeerFeedback(ctx context.Context, cycleID review.ReviewCycleID, reviewerID, revieweeID review.UserID, in performance.PeerFeedbackInput) (*review.PeerFeedback, error)
	GetPeerFeedbackSummary(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (performance.PeerFeedbackSummary, error)
	GetManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (*review.ManagerEvaluation, error)
	UpdateManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID, in performance.ManagerEvaluationUpdate) (*review.ManagerEvaluation, error)
	SubmitManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID) (*review.ManagerEvaluation, error)
	CalibrateManagerEvaluation(ctx context.Context, cycleID review.ReviewCycleID, managerID, employeeID review.UserID, in performance.CalibrationRequest) (*review.ManagerEvaluation, error)
	GetTeamReviews(ctx context.Context, cycleID review.ReviewCycleID, managerID review.UserID) ([]performance.TeamMemberReview, error)
	CalculateFinalScores(ctx context.Context, cycleID review.ReviewCycleID) (performance.CalculationSummary, error)
	GetFinalScore(ctx context.Context, cycleID review.ReviewCycleID, userID review.UserID) (*review.FinalScore, error)
	ListFinalScores(ctx context.Context, cycleID review.ReviewCycleID, limit, offset int) ([]*review.FinalScore, error)
	WriteFinalScoreReport(ctx context.Context, cycleID review.ReviewCycleID) (string, error)
	FinalScoreReportPath(cycleID review.ReviewCycleID) string
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

type Notifier interface {
	Create(ctx context.Context, userID, ntype, title, body string) error
}

type JobRunner interface {
	Enqueue(ctx context.Context, jobType, subjectID string, run jobs.RunFunc) (string, error)
	RunNow(ctx context.Context, jobType, subjectID string, run jobs.RunFunc) (any, error)
}

type Idempotency interface {
	Check(ctx context.Context, key middleware.IdempotencyKey, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, key middleware.IdempotencyKey, requestHash string, response json.RawMessage) error
}

// Handler serves the review lifecycle. Audit, Notify and Idempotency are optional.
type Handler struct {
	Service     Service
	Jobs        JobRunner
	Audit       Auditor
	Notify      Notifier
	Idempotency Idempotency
}

func NewHandler(service Service, runner JobRunner, auditor Auditor, notify Notifier, idem Idempotency) *Handler {
	return &Handler{Service: service, Jobs: runner, Audit: auditor, Notify: notify, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cycles", func(r chi.Router) {
		r.Post("/", h.handleCreateCycle)
		r.Route("/{cycleID}", func(r chi.Router) {
			r.Get("/", h.handleGetCycle)

			r.Get("/self-review", h.handleGetSelfReview)
			r.Patch("/self-review", h.handleUpdateSelfReview)
			r.Post("/self-review/submit", h.handleSubmitSelfReview)

			r.Post("/peer-feedback", h.handleSubmitPeerFeedback)
			r.Get("/team", h.handleTeamReviews)

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Get("/peer-feedback", h.handlePeerFeedbackSummary)
				r.Get("/evaluation", h.handleGetEvaluation)
				r.Patch("/evaluation", h.handleUpdateEvaluation)
				r.Post("/evaluation/submit", h.handleSubmitEvaluation)
				r.Post("/evaluation/calibrate", h.handleCalibrateEvaluation)
			})

			r.Post("/final-scores", h.handleCalculateFinalScores)
			r.Get("/final-scores", h.handleListFinalScores)
			r.Post("/final-scores/report", h.handleWriteReport)
			r.Get("/final-scores/report", h.handleDownloadReport)
			r.Get("/final-scores/{userID}", h.handleGetFinalScore)
		})
	})
}

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (review.UserID, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthenticated", "authentication required", requestID(r))
		return review.UserID{}, false
	}
	return user.UserID, true
}

func (h *Handler) cycleID(w http.ResponseWriter, r *http.Request) (review.ReviewCycleID, bool) {
	id, err := shared.CycleIDParam(r)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return review.ReviewCycleID{}, false
	}
	return id, true
}

func (h *Handler) userParam(w http.ResponseWriter, r *http.Request, name string) (review.UserID, bool) {
	id, err := shared.UserIDParam(r, name)
	if err != nil {
		api.FailError(w, err, requestID(r))
		return review.UserID{}, false
	}
	return id, true
}

// decode reads a JSON body. An empty body leaves dst untouched when allowEmpty is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID(r))
	return false
}

func (h *Handler) record(r *http.Request, actorID review.UserID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	entry := audit.Entry{
		ActorID:    actorID.String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID(r),
		IP:         requestctx.ClientIP(r.Context()),
		Before:     before,
		After:      after,
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notify(ctx context.Context, userID review.UserID, ntype, title, body string) {
	if h.Notify == nil {
		return
	}
	if err := h.Notify.Create(ctx, userID.String(), ntype, title, body); err != nil {
		slog.Warn("notification create failed", "type", ntype, "err", err)
	}
}
