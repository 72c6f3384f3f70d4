package performancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/performance"
	"perfreview/internal/domain/review"
	"perfreview/internal/platform/jobs"
	"perfreview/internal/transport/http/middleware"
)

// stubService implements only what a test touches; other calls panic.
type stubService struct {
	Service

	cycle       *review.ReviewCycle
	cycleInput  performance.CycleInput
	selfReview  *review.SelfReview
	selfUpdate  performance.SelfReviewUpdate
	submitErr   error
	peerCalls   int
	calibration *performance.CalibrationRequest
	evaluation  *review.ManagerEvaluation
	summary     performance.CalculationSummary
	finalScore  *review.FinalScore
	reportPath  string
}

func (s *stubService) CreateCycle(_ context.Context, in performance.CycleInput) (*review.ReviewCycle, error) {
	s.cycleInput = in
	return review.NewReviewCycle(in.Name, in.StartDate, in.EndDate, in.Deadlines)
}

func (s *stubService) GetCycle(context.Context, review.ReviewCycleID) (*review.ReviewCycle, error) {
	if s.cycle == nil {
		return nil, review.ErrCycleNotFound
	}
	return s.cycle, nil
}

func (s *stubService) UpdateSelfReview(_ context.Context, _ review.ReviewCycleID, _ review.UserID, in performance.SelfReviewUpdate) (*review.SelfReview, error) {
	s.selfUpdate = in
	return s.selfReview, nil
}

func (s *stubService) SubmitSelfReview(context.Context, review.ReviewCycleID, review.UserID) (*review.SelfReview, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.selfReview, nil
}

func (s *stubService) SubmitPeerFeedback(_ context.Context, cycleID review.ReviewCycleID, reviewerID, revieweeID review.UserID, in performance.PeerFeedbackInput) (*review.PeerFeedback, error) {
	s.peerCalls++
	return review.NewPeerFeedback(cycleID, revieweeID, reviewerID, in.Scores, in.Strengths, in.GrowthAreas, in.GeneralComments)
}

func (s *stubService) CalibrateManagerEvaluation(_ context.Context, _ review.ReviewCycleID, _, _ review.UserID, in performance.CalibrationRequest) (*review.ManagerEvaluation, error) {
	s.calibration = &in
	return s.evaluation, nil
}

func (s *stubService) CalculateFinalScores(_ context.Context, cycleID review.ReviewCycleID) (performance.CalculationSummary, error) {
	s.summary.CycleID = cycleID.String()
	return s.summary, nil
}

func (s *stubService) GetFinalScore(context.Context, review.ReviewCycleID, review.UserID) (*review.FinalScore, error) {
	if s.finalScore == nil {
		return nil, review.ErrFinalScoreNotFound
	}
	return s.finalScore, nil
}

func (s *stubService) FinalScoreReportPath(review.ReviewCycleID) string { return s.reportPath }

type inlineJobs struct {
	enqueued []string
}

func (j *inlineJobs) Enqueue(ctx context.Context, jobType, _ string, run jobs.RunFunc) (string, error) {
	j.enqueued = append(j.enqueued, jobType)
	_, err := run(ctx)
	return "job-1", err
}

func (j *inlineJobs) RunNow(ctx context.Context, _, _ string, run jobs.RunFunc) (any, error) {
	return run(ctx)
}

type recordingAudit struct {
	entries []audit.Entry
}

func (a *recordingAudit) Record(_ context.Context, e audit.Entry) error {
	a.entries = append(a.entries, e)
	return nil
}

type recordingNotifier struct {
	types []string
	users []string
}

func (n *recordingNotifier) Create(_ context.Context, userID, ntype, _, _ string) error {
	n.users = append(n.users, userID)
	n.types = append(n.types, ntype)
	return nil
}

type storedResponse struct {
	hash     string
	response json.RawMessage
}

type memoryIdempotency struct {
	stored map[middleware.IdempotencyKey]storedResponse
}

func (m *memoryIdempotency) Check(_ context.Context, key middleware.IdempotencyKey, hash string) (json.RawMessage, bool, error) {
	entry, ok := m.stored[key]
	if !ok {
		return nil, false, nil
	}
	if entry.hash != hash {
		return nil, false, middleware.ErrIdempotencyConflict
	}
	return entry.response, true, nil
}

func (m *memoryIdempotency) Save(_ context.Context, key middleware.IdempotencyKey, hash string, response json.RawMessage) error {
	m.stored[key] = storedResponse{hash: hash, response: response}
	return nil
}

type fixture struct {
	svc    *stubService
	jobs   *inlineJobs
	audit  *recordingAudit
	notify *recordingNotifier
	router http.Handler
	actor  review.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cycle, err := review.NewReviewCycle("H1 2025", start, start.AddDate(0, 6, 0), nil)
	require.NoError(t, err)

	f := &fixture{
		svc:    &stubService{cycle: cycle},
		jobs:   &inlineJobs{},
		audit:  &recordingAudit{},
		notify: &recordingNotifier{},
		actor:  review.NewUserID(),
	}
	h := NewHandler(f.svc, f.jobs, f.audit, f.notify, &memoryIdempotency{stored: map[middleware.IdempotencyKey]storedResponse{}})
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.UserContext{UserID: f.actor}))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details struct {
			Fields []struct {
				Field string `json:"field"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func pillars(vals ...int) map[string]int {
	return map[string]int{
		"projectImpact":         vals[0],
		"direction":             vals[1],
		"engineeringExcellence": vals[2],
		"operationalOwnership":  vals[3],
		"peopleImpact":          vals[4],
	}
}

func TestRoutesRequireUser(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/cycles/"+f.svc.cycle.ID().String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/cycles", map[string]any{
		"name":      "H2 2025",
		"startDate": "2025-07-01",
		"endDate":   "2025-12-31",
		"deadlines": map[string]string{"selfReview": "2025-09-30"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "H2 2025", f.svc.cycleInput.Name)
	require.Len(t, f.svc.cycleInput.Deadlines, 1)
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), f.svc.cycleInput.StartDate)
	require.Equal(t,
		time.Date(2025, 9, 30, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
		f.svc.cycleInput.Deadlines[review.PhaseSelfReview],
		"a date-only deadline covers the whole day")
	require.Len(t, f.audit.entries, 1)
	require.Equal(t, audit.ActionCycleCreated, f.audit.entries[0].Action)
	require.Equal(t, f.actor.String(), f.audit.entries[0].ActorID)
}

func TestCreateCycleRejectsInvalidPayload(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/cycles", map[string]any{
		"startDate": "2025-07-01",
		"endDate":   "2025-01-01",
		"deadlines": map[string]string{"retro": "2025-09-30"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "validation_error", env.Error.Code)

	var fields []string
	for _, issue := range env.Error.Details.Fields {
		fields = append(fields, issue.Field)
	}
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "endDate")
	require.Contains(t, fields, "deadlines.retro")
	require.Empty(t, f.audit.entries)
}

func TestGetCycleNotFound(t *testing.T) {
	f := newFixture(t)
	f.svc.cycle = nil

	rec := f.do(t, http.MethodGet, "/cycles/"+review.NewReviewCycleID().String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeEnvelope(t, rec).Error.Code)

	rec = f.do(t, http.MethodGet, "/cycles/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSelfReviewValidatesScoreRange(t *testing.T) {
	f := newFixture(t)
	path := "/cycles/" + f.svc.cycle.ID().String() + "/self-review"

	rec := f.do(t, http.MethodPatch, path, map[string]any{"scores": pillars(5, 0, 0, 0, 0)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "scores.projectImpact", decodeEnvelope(t, rec).Error.Details.Fields[0].Field)

	f.svc.selfReview = review.NewSelfReview(f.svc.cycle.ID(), f.actor, review.ZeroPillarScores(), review.NewNarrative(""))
	rec = f.do(t, http.MethodPatch, path, map[string]any{"narrative": "shipped the thing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Nil(t, f.svc.selfUpdate.Scores)
	require.Equal(t, "shipped the thing", *f.svc.selfUpdate.Narrative)
}

func TestSubmitSelfReviewMapsErrorKinds(t *testing.T) {
	f := newFixture(t)
	path := "/cycles/" + f.svc.cycle.ID().String() + "/self-review/submit"

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{review.ErrSelfReviewAlreadySubmitted, http.StatusConflict, "already_submitted"},
		{review.ErrEmptyNarrative, http.StatusUnprocessableEntity, "incomplete_submission"},
		{&review.DeadlinePassedError{Phase: review.PhaseSelfReview}, http.StatusUnprocessableEntity, "deadline_passed"},
	}
	for _, tc := range tests {
		f.svc.submitErr = tc.err
		rec := f.do(t, http.MethodPost, path, nil)
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, tc.code, decodeEnvelope(t, rec).Error.Code)
	}
	require.Empty(t, f.notify.types)
}

func TestSubmitPeerFeedbackReplaysIdempotentRequest(t *testing.T) {
	f := newFixture(t)
	reviewee := review.NewUserID()
	path := "/cycles/" + f.svc.cycle.ID().String() + "/peer-feedback"
	body := map[string]any{"revieweeId": reviewee.String(), "scores": pillars(3, 3, 2, 4, 1), "strengths": "mentoring"}

	first := f.do(t, http.MethodPost, path, body, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := f.do(t, http.MethodPost, path, body, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusCreated, second.Code)

	require.Equal(t, 1, f.svc.peerCalls)
	require.JSONEq(t, string(decodeEnvelope(t, first).Data), string(decodeEnvelope(t, second).Data))
	require.Equal(t, []string{reviewee.String()}, f.notify.users)

	body["strengths"] = "something else"
	conflict := f.do(t, http.MethodPost, path, body, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusConflict, conflict.Code)
	require.Equal(t, "idempotency_conflict", decodeEnvelope(t, conflict).Error.Code)

	tooLong := f.do(t, http.MethodPost, path, body, "Idempotency-Key", strings.Repeat("k", 201))
	require.Equal(t, http.StatusBadRequest, tooLong.Code)
	require.Equal(t, 1, f.svc.peerCalls)
}

func TestSubmitPeerFeedbackRequiresAllPillars(t *testing.T) {
	f := newFixture(t)
	path := "/cycles/" + f.svc.cycle.ID().String() + "/peer-feedback"
	scores := pillars(3, 3, 2, 4, 1)
	delete(scores, "peopleImpact")

	rec := f.do(t, http.MethodPost, path, map[string]any{"revieweeId": review.NewUserID().String(), "scores": scores})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "scores.peopleImpact", decodeEnvelope(t, rec).Error.Details.Fields[0].Field)
	require.Zero(t, f.svc.peerCalls)
}

func TestCalibrateAcceptsEmptyBody(t *testing.T) {
	f := newFixture(t)
	employee := review.NewUserID()
	level := review.LevelMid
	f.svc.evaluation = review.NewManagerEvaluation(f.svc.cycle.ID(), employee, f.actor, review.MustPillarScores(3, 3, 3, 3, 3), &level)
	path := "/cycles/" + f.svc.cycle.ID().String() + "/employees/" + employee.String() + "/evaluation/calibrate"

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.UserContext{UserID: f.actor}))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, f.svc.calibration)
	require.Nil(t, f.svc.calibration.Scores)
	require.Equal(t, []string{employee.String()}, f.notify.users)

	rec = f.do(t, http.MethodPost, path, map[string]any{"scores": pillars(4, 4, 4, 4, 4), "justification": "cross-team impact"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, review.MustPillarScores(4, 4, 4, 4, 4), *f.svc.calibration.Scores)
	require.Equal(t, "cross-team impact", f.svc.calibration.Justification)
}

func TestCalculateFinalScores(t *testing.T) {
	f := newFixture(t)
	f.svc.summary = performance.CalculationSummary{Calculated: 3, Skipped: 1}
	path := "/cycles/" + f.svc.cycle.ID().String() + "/final-scores"

	rec := f.do(t, http.MethodPost, path+"?sync=true", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary performance.CalculationSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	require.Equal(t, 3, summary.Calculated)
	require.Equal(t, 1, summary.Skipped)
	require.Empty(t, f.jobs.enqueued)

	rec = f.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.JSONEq(t, `{"jobId":"job-1"}`, string(decodeEnvelope(t, rec).Data))
	require.Equal(t, []string{jobs.JobFinalScoreCalculation}, f.jobs.enqueued)

	f.svc.cycle = nil
	rec = f.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, f.jobs.enqueued, 1)
}

func TestGetFinalScoreRendersFixedPrecision(t *testing.T) {
	f := newFixture(t)
	user := review.NewUserID()
	weighted, err := review.ParseWeightedScore("3.4")
	require.NoError(t, err)
	level := review.LevelSenior
	f.svc.finalScore = review.HydrateFinalScore(review.NewFinalScoreID(), f.svc.cycle.ID(), user, review.NewManagerEvaluationID(),
		review.MustPillarScores(4, 3, 4, 3, 2), weighted, &level, review.BonusTierExceeds, time.Now())

	rec := f.do(t, http.MethodGet, "/cycles/"+f.svc.cycle.ID().String()+"/final-scores/"+user.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view finalScoreView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &view))
	require.Equal(t, "3.40", view.WeightedScore)
	require.Equal(t, "EXCEEDS", view.BonusTier)
	require.Equal(t, "SENIOR", *view.FinalLevel)
}

func TestDownloadReportMissing(t *testing.T) {
	f := newFixture(t)
	f.svc.reportPath = t.TempDir() + "/missing.pdf"

	rec := f.do(t, http.MethodGet, "/cycles/"+f.svc.cycle.ID().String()+"/final-scores/report", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
