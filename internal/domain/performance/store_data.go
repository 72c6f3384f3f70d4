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

// Store is the PostgreSQL implementation of every repository port.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Stores() Stores {
	return Stores{
		Cycles:      &cycleStore{db: s.DB},
		Users:       &userStore{db: s.DB},
		SelfReviews: &selfReviewStore{db: s.DB},
		PeerReviews: &peerFeedbackStore{db: s.DB},
		Evaluations: &evaluationStore{db: s.DB},
		FinalScores: &finalScoreStore{db: s.DB},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

type cycleStore struct {
	db *pgxpool.Pool
}

func (s *cycleStore) FindByID(ctx context.Context, id review.ReviewCycleID) (*review.ReviewCycle, error) {
	var (
		rawID      uuid.UUID
		name       string
		start, end time.Time
		createdAt  time.Time
		deadlines  [5]*time.Time
	)
	err := s.db.QueryRow(ctx, `
    SELECT id, name, start_date, end_date,
           self_review_deadline, peer_feedback_deadline, manager_evaluation_deadline,
           calibration_deadline, feedback_delivery_deadline, created_at
    FROM review_cycles
    WHERE id = $1
  `, id.UUID()).Scan(&rawID, &name, &start, &end,
		&deadlines[0], &deadlines[1], &deadlines[2], &deadlines[3], &deadlines[4], &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "find review cycle")
	}
	byPhase := make(map[review.Phase]time.Time, len(review.Phases))
	for i, p := range review.Phases {
		if deadlines[i] != nil {
			byPhase[p] = *deadlines[i]
		}
	}
	return review.HydrateReviewCycle(review.ReviewCycleIDFrom(rawID), name, start, end, byPhase, createdAt), nil
}

func (s *cycleStore) Save(ctx context.Context, cycle *review.ReviewCycle) error {
	var deadlines [5]*time.Time
	for i, p := range review.Phases {
		if d, ok := cycle.Deadline(p); ok {
			deadlines[i] = &d
		}
	}
	_, err := s.db.Exec(ctx, `
    INSERT INTO review_cycles (id, name, start_date, end_date,
      self_review_deadline, peer_feedback_deadline, manager_evaluation_deadline,
      calibration_deadline, feedback_delivery_deadline, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (id) DO UPDATE
    SET name = EXCLUDED.name,
        start_date = EXCLUDED.start_date,
        end_date = EXCLUDED.end_date,
        self_review_deadline = EXCLUDED.self_review_deadline,
        peer_feedback_deadline = EXCLUDED.peer_feedback_deadline,
        manager_evaluation_deadline = EXCLUDED.manager_evaluation_deadline,
        calibration_deadline = EXCLUDED.calibration_deadline,
        feedback_delivery_deadline = EXCLUDED.feedback_delivery_deadline
  `, cycle.ID().UUID(), cycle.Name(), cycle.StartDate(), cycle.EndDate(),
		deadlines[0], deadlines[1], deadlines[2], deadlines[3], deadlines[4], cycle.CreatedAt())
	if err != nil {
		return gerrors.Wrap(err, "save review cycle")
	}
	return nil
}

type userStore struct {
	db *pgxpool.Pool
}

const userColumns = "id, name, email, level, department, manager_id"

func (s *userStore) FindByID(ctx context.Context, id review.UserID) (*review.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id.UUID()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "find user")
	}
	return user, nil
}

func (s *userStore) FindByManager(ctx context.Context, managerID review.UserID) ([]*review.User, error) {
	rows, err := s.db.Query(ctx, "SELECT "+userColumns+" FROM users WHERE manager_id = $1 ORDER BY name, id", managerID.UUID())
	if err != nil {
		return nil, gerrors.Wrap(err, "list direct reports")
	}
	defer rows.Close()

	var out []*review.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, gerrors.Wrap(err, "scan direct report")
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func scanUser(row rowScanner) (*review.User, error) {
	var (
		id        uuid.UUID
		managerID uuid.NullUUID
		level     string
		user      review.User
	)
	if err := row.Scan(&id, &user.Name, &user.Email, &level, &user.Department, &managerID); err != nil {
		return nil, err
	}
	parsed, err := review.ParseEngineerLevel(level)
	if err != nil {
		return nil, err
	}
	user.ID = review.UserIDFrom(id)
	user.Level = parsed
	if managerID.Valid {
		m := review.UserIDFrom(managerID.UUID)
		user.ManagerID = &m
	}
	return &user, nil
}

func scanPillars(v *[5]int) []any {
	return []any{&v[0], &v[1], &v[2], &v[3], &v[4]}
}

func parseLevel(raw *string) (*review.EngineerLevel, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	level, err := review.ParseEngineerLevel(*raw)
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func levelValue(level *review.EngineerLevel) any {
	if level == nil {
		return nil
	}
	return level.String()
}
