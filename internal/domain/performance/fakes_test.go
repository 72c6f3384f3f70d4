package performance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"perfreview/internal/domain/review"
)

var (
	clockNow      = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	afterDeadline = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

// counter tracks repository calls by method name.
type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *counter) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[name]++
}

func (c *counter) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

type fakeCycleStore struct {
	counter
	items map[review.ReviewCycleID]*review.ReviewCycle
}

func (f *fakeCycleStore) FindByID(_ context.Context, id review.ReviewCycleID) (*review.ReviewCycle, error) {
	f.hit("FindByID")
	return f.items[id], nil
}

func (f *fakeCycleStore) Save(_ context.Context, cycle *review.ReviewCycle) error {
	f.hit("Save")
	f.items[cycle.ID()] = cycle
	return nil
}

type fakeUserStore struct {
	counter
	items []*review.User
	err   error
}

func (f *fakeUserStore) FindByID(_ context.Context, id review.UserID) (*review.User, error) {
	f.hit("FindByID")
	for _, u := range f.items {
		if u.ID.Equals(id) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByManager(_ context.Context, managerID review.UserID) ([]*review.User, error) {
	f.hit("FindByManager")
	if f.err != nil {
		return nil, f.err
	}
	var out []*review.User
	for _, u := range f.items {
		if u.ReportsTo(managerID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSelfReviewStore struct {
	counter
	mu    sync.Mutex
	items []*review.SelfReview
	// beforeCreate runs ahead of the insert, standing in for a concurrent writer.
	beforeCreate func()
}

func (f *fakeSelfReviewStore) FindByUserAndCycle(_ context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.SelfReview, error) {
	f.hit("FindByUserAndCycle")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.UserID().Equals(userID) && r.CycleID().Equals(cycleID) {
			return r, nil
		}
	}
	return nil, nil
}

// Create keeps the first row per (cycle, user) like the SQL store.
func (f *fakeSelfReviewStore) Create(_ context.Context, r *review.SelfReview) (*review.SelfReview, error) {
	f.hit("Create")
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.UserID().Equals(r.UserID()) && existing.CycleID().Equals(r.CycleID()) {
			return existing, nil
		}
	}
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeSelfReviewStore) Save(_ context.Context, r *review.SelfReview) error {
	f.hit("Save")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID().Equals(r.ID()) {
			f.items[i] = r
			return nil
		}
	}
	f.items = append(f.items, r)
	return nil
}

type fakePeerFeedbackStore struct {
	counter
	mu    sync.Mutex
	items []*review.PeerFeedback
}

func (f *fakePeerFeedbackStore) FindByRevieweeAndCycle(_ context.Context, revieweeID review.UserID, cycleID review.ReviewCycleID) ([]*review.PeerFeedback, error) {
	f.hit("FindByRevieweeAndCycle")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*review.PeerFeedback
	for _, fb := range f.items {
		if fb.RevieweeID().Equals(revieweeID) && fb.CycleID().Equals(cycleID) {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakePeerFeedbackStore) Save(_ context.Context, fb *review.PeerFeedback) error {
	f.hit("Save")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, fb)
	return nil
}

type fakeEvaluationStore struct {
	counter
	mu           sync.Mutex
	items        []*review.ManagerEvaluation
	beforeCreate func()
}

func (f *fakeEvaluationStore) FindByEmployeeAndCycle(_ context.Context, employeeID review.UserID, cycleID review.ReviewCycleID) (*review.ManagerEvaluation, error) {
	f.hit("FindByEmployeeAndCycle")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.EmployeeID().Equals(employeeID) && e.CycleID().Equals(cycleID) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEvaluationStore) FindByCycle(_ context.Context, cycleID review.ReviewCycleID) ([]*review.ManagerEvaluation, error) {
	f.hit("FindByCycle")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*review.ManagerEvaluation
	for _, e := range f.items {
		if e.CycleID().Equals(cycleID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) Create(_ context.Context, e *review.ManagerEvaluation) (*review.ManagerEvaluation, error) {
	f.hit("Create")
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.EmployeeID().Equals(e.EmployeeID()) && existing.CycleID().Equals(e.CycleID()) {
			return existing, nil
		}
	}
	f.items = append(f.items, e)
	return e, nil
}

func (f *fakeEvaluationStore) Save(_ context.Context, e *review.ManagerEvaluation) error {
	f.hit("Save")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID().Equals(e.ID()) {
			f.items[i] = e
			return nil
		}
	}
	f.items = append(f.items, e)
	return nil
}

type fakeFinalScoreStore struct {
	counter
	items []*review.FinalScore
}

func (f *fakeFinalScoreStore) FindByUserAndCycle(_ context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.FinalScore, error) {
	f.hit("FindByUserAndCycle")
	for _, s := range f.items {
		if s.UserID().Equals(userID) && s.CycleID().Equals(cycleID) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeFinalScoreStore) ListByCycle(_ context.Context, cycleID review.ReviewCycleID, limit, offset int) ([]*review.FinalScore, error) {
	f.hit("ListByCycle")
	var out []*review.FinalScore
	for _, s := range f.items {
		if s.CycleID().Equals(cycleID) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeightedScore().Decimal().GreaterThan(out[j].WeightedScore().Decimal())
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Save upserts on (cycle, user) like the SQL store.
func (f *fakeFinalScoreStore) Save(_ context.Context, s *review.FinalScore) error {
	f.hit("Save")
	for i, existing := range f.items {
		if existing.UserID().Equals(s.UserID()) && existing.CycleID().Equals(s.CycleID()) {
			f.items[i] = s
			return nil
		}
	}
	f.items = append(f.items, s)
	return nil
}

type countingAggregator struct {
	counter
	inner *review.PeerFeedbackAggregator
}

func (a *countingAggregator) Aggregate(feedback []*review.PeerFeedback) review.PillarScores {
	a.hit("Aggregate")
	return a.inner.Aggregate(feedback)
}

type countingCalculator struct {
	counter
	inner *review.FinalScoreCalculator
}

func (c *countingCalculator) Calculate(eval *review.ManagerEvaluation) *review.FinalScore {
	c.hit("Calculate")
	return c.inner.Calculate(eval)
}

type harness struct {
	cycles      *fakeCycleStore
	users       *fakeUserStore
	selfReviews *fakeSelfReviewStore
	peers       *fakePeerFeedbackStore
	evals       *fakeEvaluationStore
	scores      *fakeFinalScoreStore
	aggregator  *countingAggregator
	calculator  *countingCalculator
	svc         *Service

	cycle    *review.ReviewCycle
	manager  *review.User
	employee *review.User
	peer     *review.User
	outsider *review.User
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	pinClock(t, clockNow)

	cycle, err := review.NewReviewCycle("H1 2025",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		map[review.Phase]time.Time{
			review.PhaseSelfReview:        time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC),
			review.PhasePeerFeedback:      time.Date(2025, 4, 15, 23, 59, 0, 0, time.UTC),
			review.PhaseManagerEvaluation: time.Date(2025, 4, 30, 23, 59, 0, 0, time.UTC),
			review.PhaseCalibration:       time.Date(2025, 5, 15, 23, 59, 0, 0, time.UTC),
			review.PhaseFeedbackDelivery:  time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC),
		})
	require.NoError(t, err)

	manager := &review.User{ID: review.NewUserID(), Name: "Maya Manager", Level: review.LevelManager}
	managerID := manager.ID
	employee := &review.User{ID: review.NewUserID(), Name: "Eli Engineer", Level: review.LevelMid, ManagerID: &managerID}
	peer := &review.User{ID: review.NewUserID(), Name: "Pat Peer", Level: review.LevelSenior, ManagerID: &managerID}
	outsider := &review.User{ID: review.NewUserID(), Name: "Olu Outsider", Level: review.LevelManager}

	h := &harness{
		cycles:      &fakeCycleStore{items: map[review.ReviewCycleID]*review.ReviewCycle{cycle.ID(): cycle}},
		users:       &fakeUserStore{items: []*review.User{manager, employee, peer, outsider}},
		selfReviews: &fakeSelfReviewStore{},
		peers:       &fakePeerFeedbackStore{},
		evals:       &fakeEvaluationStore{},
		scores:      &fakeFinalScoreStore{},
		aggregator:  &countingAggregator{inner: review.NewPeerFeedbackAggregator()},
		calculator:  &countingCalculator{inner: review.NewFinalScoreCalculator()},
		cycle:       cycle,
		manager:     manager,
		employee:    employee,
		peer:        peer,
		outsider:    outsider,
	}
	all := append([]Option{WithAggregator(h.aggregator), WithCalculator(h.calculator)}, opts...)
	h.svc = NewService(Stores{
		Cycles:      h.cycles,
		Users:       h.users,
		SelfReviews: h.selfReviews,
		PeerReviews: h.peers,
		Evaluations: h.evals,
		FinalScores: h.scores,
	}, all...)
	return h
}

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	t.Cleanup(review.SetClock(func() time.Time { return at }))
}

// artifactCalls counts every call that reached a review artifact repository.
func (h *harness) artifactCalls() int {
	return h.selfReviews.total() + h.peers.total() + h.evals.total() + h.scores.total()
}

func (h *harness) seedSelfReview(t *testing.T, narrative string, submitted bool) *review.SelfReview {
	t.Helper()
	r := review.NewSelfReview(h.cycle.ID(), h.employee.ID, review.MustPillarScores(3, 3, 3, 3, 3), review.NewNarrative(narrative))
	if submitted {
		require.NoError(t, r.Submit())
	}
	h.selfReviews.items = append(h.selfReviews.items, r)
	return r
}

func (h *harness) seedEvaluation(t *testing.T, employee *review.User, scores review.PillarScores, submitted bool) *review.ManagerEvaluation {
	t.Helper()
	level := employee.Level
	e := review.NewManagerEvaluation(h.cycle.ID(), employee.ID, h.manager.ID, scores, &level)
	if submitted {
		require.NoError(t, e.Submit())
	}
	h.evals.items = append(h.evals.items, e)
	return e
}
