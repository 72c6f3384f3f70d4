package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	JobFinalScoreCalculation = "final_score_calculation"
	JobFinalScoreReport      = "final_score_report"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var ErrQueueFull = errors.New("job queue full")

// RunFunc does the work of a job and returns details stored with the run.
type RunFunc func(context.Context) (any, error)

// RunStore records the lifecycle of every job run.
type RunStore interface {
	Create(ctx context.Context, jobType, subjectID, status string) (string, error)
	MarkRunning(ctx context.Context, runID string) error
	Complete(ctx context.Context, runID, status string, details []byte, errMsg string) error
}

type Service struct {
	runs  RunStore
	queue chan job
}

type job struct {
	ID        string
	Type      string
	SubjectID string
	Run       RunFunc
}

func New(runs RunStore, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Service{
		runs:  runs,
		queue: make(chan job, queueSize),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue records a queued run and hands it to the worker. A full queue fails
// the run immediately instead of blocking the caller.
func (s *Service) Enqueue(ctx context.Context, jobType, subjectID string, run RunFunc) (string, error) {
	runID, err := s.runs.Create(ctx, jobType, subjectID, StatusQueued)
	if err != nil {
		return "", gerrors.Wrap(err, "record queued job")
	}
	select {
	case s.queue <- job{ID: runID, Type: jobType, SubjectID: subjectID, Run: run}:
		return runID, nil
	default:
		slog.Warn("job queue full", "jobType", jobType, "subjectId", subjectID)
		if err := s.runs.Complete(ctx, runID, StatusFailed, nil, ErrQueueFull.Error()); err != nil {
			slog.Warn("job run update failed", "runId", runID, "err", err)
		}
		return runID, ErrQueueFull
	}
}

// RunNow executes the job on the caller's goroutine, still recording the run.
func (s *Service) RunNow(ctx context.Context, jobType, subjectID string, run RunFunc) (any, error) {
	runID, err := s.runs.Create(ctx, jobType, subjectID, StatusQueued)
	if err != nil {
		slog.Warn("job run insert failed", "jobType", jobType, "err", err)
	}
	return s.runJob(ctx, job{ID: runID, Type: jobType, SubjectID: subjectID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "subjectId", j.SubjectID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	if j.ID != "" {
		if err := s.runs.MarkRunning(ctx, j.ID); err != nil {
			slog.Warn("job run update failed", "runId", j.ID, "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := StatusSucceeded
	errMsg := ""
	if err != nil {
		status = StatusFailed
		errMsg = err.Error()
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if j.ID != "" {
		if updErr := s.runs.Complete(ctx, j.ID, status, detailsJSON, errMsg); updErr != nil {
			slog.Warn("job run update failed", "runId", j.ID, "err", updErr)
		}
	}
	return details, err
}

// PGRunStore keeps job runs in the job_runs table.
type PGRunStore struct {
	DB *pgxpool.Pool
}

func NewPGRunStore(db *pgxpool.Pool) *PGRunStore {
	return &PGRunStore{DB: db}
}

func (s *PGRunStore) Create(ctx context.Context, jobType, subjectID, status string) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, subject_id, status)
    VALUES ($1,$2,$3)
    RETURNING id::text
  `, jobType, subjectID, status).Scan(&runID)
	if err != nil {
		return "", gerrors.Wrap(err, "insert job run")
	}
	return runID, nil
}

func (s *PGRunStore) MarkRunning(ctx context.Context, runID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, started_at = now()
    WHERE id = $2
  `, StatusRunning, runID)
	if err != nil {
		return gerrors.Wrap(err, "mark job running")
	}
	return nil
}

func (s *PGRunStore) Complete(ctx context.Context, runID, status string, details []byte, errMsg string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, error = $3, completed_at = now()
    WHERE id = $4
  `, status, details, errMsg, runID)
	if err != nil {
		return gerrors.Wrap(err, "complete job run")
	}
	return nil
}
