package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRun struct {
	jobType, subjectID, status, errMsg string
	details                            []byte
	history                            []string
}

type memoryRuns struct {
	mu   sync.Mutex
	runs map[string]*memoryRun
	next int
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: map[string]*memoryRun{}}
}

func (m *memoryRuns) Create(_ context.Context, jobType, subjectID, status string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("run-%d", m.next)
	m.runs[id] = &memoryRun{jobType: jobType, subjectID: subjectID, status: status, history: []string{status}}
	return id, nil
}

func (m *memoryRuns) MarkRunning(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.runs[runID]
	r.status = StatusRunning
	r.history = append(r.history, StatusRunning)
	return nil
}

func (m *memoryRuns) Complete(_ context.Context, runID, status string, details []byte, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.runs[runID]
	r.status = status
	r.details = details
	r.errMsg = errMsg
	r.history = append(r.history, status)
	return nil
}

func (m *memoryRuns) get(id string) memoryRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.runs[id]
}

func TestRunNowRecordsLifecycle(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs, 4)

	details, err := svc.RunNow(context.Background(), JobFinalScoreCalculation, "cycle-1", func(context.Context) (any, error) {
		return map[string]int{"calculated": 2}, nil
	})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"calculated": 2}, details)

	run := runs.get("run-1")
	require.Equal(t, []string{StatusQueued, StatusRunning, StatusSucceeded}, run.history)
	require.JSONEq(t, `{"calculated":2}`, string(run.details))
	require.Equal(t, "cycle-1", run.subjectID)
}

func TestRunNowRecordsFailure(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs, 4)

	_, err := svc.RunNow(context.Background(), JobFinalScoreCalculation, "cycle-1", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	run := runs.get("run-1")
	require.Equal(t, StatusFailed, run.status)
	require.Equal(t, "boom", run.errMsg)
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs, 4)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc.Start(ctx)

	done := make(chan struct{})
	runID, err := svc.Enqueue(ctx, JobFinalScoreCalculation, "cycle-2", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	require.Eventually(t, func() bool {
		return runs.get(runID).status == StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEnqueueFailsFastWhenQueueFull(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs, 1)
	noop := func(context.Context) (any, error) { return nil, nil }

	_, err := svc.Enqueue(context.Background(), JobFinalScoreCalculation, "a", noop)
	require.NoError(t, err)

	runID, err := svc.Enqueue(context.Background(), JobFinalScoreCalculation, "b", noop)
	require.ErrorIs(t, err, ErrQueueFull)
	require.Equal(t, StatusFailed, runs.get(runID).status)
}
