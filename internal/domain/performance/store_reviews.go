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

type selfReviewStore struct {
	db *pgxpool.Pool
}

func (s *selfReviewStore) FindByUserAndCycle(ctx context.Context, userID review.UserID, cycleID review.ReviewCycleID) (*review.SelfReview, error) {
	var (
		id, cycle, user      uuid.UUID
		values               [5]int
		narrative, status    string
		submittedAt          *time.Time
		createdAt, updatedAt time.Time
	)
	dest := []any{&id, &cycle, &user}
	dest = append(dest, scanPillars(&values)...)
	dest = append(dest, &narrative, &status, &submittedAt, &createdAt, &updatedAt)
	err := s.db.QueryRow(ctx, `
    SELECT id, cycle_id, user_id,
           project_impact, direction, engineering_excellence, operational_ownership, people_impact,
           narrative, status, submitted_at, created_at, updated_at
    FROM self_reviews
    WHERE user_id = $1 AND cycle_id = $2
  `, userID.UUID(), cycleID.UUID()).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "find self review")
	}
	scores, err := review.PillarScoresFromValues(values)
	if err != nil {
		return nil, gerrors.Wrap(err, "decode self review scores")
	}
	st, err := review.ParseReviewStatus(status)
	if err != nil {
		return nil, gerrors.Wrap(err, "decode self review status")
	}
	return review.HydrateSelfReview(
		review.SelfReviewIDFrom(id),
		review.ReviewCycleIDFrom(cycle),
		review.UserIDFrom(user),
		scores,
		review.NewNarrative(narrative),
		st,
		submittedAt,
		createdAt,
		updatedAt,
	), nil
}

func (s *selfReviewStore) Save(ctx context.Context, r *review.SelfReview) error {
	v := r.Scores().Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO self_reviews (id, cycle_id, user_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      narrative, status, submitted_at, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (id) DO UPDATE
    SET project_impact = EXCLUDED.project_impact,
        direction = EXCLUDED.direction,
        engineering_excellence = EXCLUDED.engineering_excellence,
        operational_ownership = EXCLUDED.operational_ownership,
        people_impact = EXCLUDED.people_impact,
        narrative = EXCLUDED.narrative,
        status = EXCLUDED.status,
        submitted_at = EXCLUDED.submitted_at,
        updated_at = EXCLUDED.updated_at
  `, r.ID().UUID(), r.CycleID().UUID(), r.UserID().UUID(),
		v[0], v[1], v[2], v[3], v[4],
		r.Narrative().Text(), r.Status().String(), r.SubmittedAt(), r.CreatedAt(), r.UpdatedAt())
	if err != nil {
		return gerrors.Wrap(err, "save self review")
	}
	return nil
}

func (s *selfReviewStore) Create(ctx context.Context, r *review.SelfReview) (*review.SelfReview, error) {
	v := r.Scores().Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO self_reviews (id, cycle_id, user_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      narrative, status, submitted_at, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (cycle_id, user_id) DO NOTHING
  `, r.ID().UUID(), r.CycleID().UUID(), r.UserID().UUID(),
		v[0], v[1], v[2], v[3], v[4],
		r.Narrative().Text(), r.Status().String(), r.SubmittedAt(), r.CreatedAt(), r.UpdatedAt())
	if err != nil {
		return nil, gerrors.Wrap(err, "create self review")
	}
	stored, err := s.FindByUserAndCycle(ctx, r.UserID(), r.CycleID())
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gerrors.New("self review vanished after create")
	}
	return stored, nil
}

type peerFeedbackStore struct {
	db *pgxpool.Pool
}

func (s *peerFeedbackStore) FindByRevieweeAndCycle(ctx context.Context, revieweeID review.UserID, cycleID review.ReviewCycleID) ([]*review.PeerFeedback, error) {
	rows, err := s.db.Query(ctx, `
    SELECT id, cycle_id, reviewee_id, reviewer_id,
           project_impact, direction, engineering_excellence, operational_ownership, people_impact,
           strengths, growth_areas, general_comments, created_at
    FROM peer_feedback
    WHERE reviewee_id = $1 AND cycle_id = $2
    ORDER BY created_at
  `, revieweeID.UUID(), cycleID.UUID())
	if err != nil {
		return nil, gerrors.Wrap(err, "list peer feedback")
	}
	defer rows.Close()

	var out []*review.PeerFeedback
	for rows.Next() {
		var (
			id, cycle, reviewee, reviewer         uuid.UUID
			values                                [5]int
			strengths, growthAreas, generalRemark string
			createdAt                             time.Time
		)
		dest := []any{&id, &cycle, &reviewee, &reviewer}
		dest = append(dest, scanPillars(&values)...)
		dest = append(dest, &strengths, &growthAreas, &generalRemark, &createdAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, gerrors.Wrap(err, "scan peer feedback")
		}
		scores, err := review.PillarScoresFromValues(values)
		if err != nil {
			return nil, gerrors.Wrap(err, "decode peer feedback scores")
		}
		out = append(out, review.HydratePeerFeedback(
			review.PeerFeedbackIDFrom(id),
			review.ReviewCycleIDFrom(cycle),
			review.UserIDFrom(reviewee),
			review.UserIDFrom(reviewer),
			scores,
			strengths,
			growthAreas,
			generalRemark,
			createdAt,
		))
	}
	return out, rows.Err()
}

func (s *peerFeedbackStore) Save(ctx context.Context, f *review.PeerFeedback) error {
	v := f.Scores().Values()
	_, err := s.db.Exec(ctx, `
    INSERT INTO peer_feedback (id, cycle_id, reviewee_id, reviewer_id,
      project_impact, direction, engineering_excellence, operational_ownership, people_impact,
      strengths, growth_areas, general_comments, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (id) DO NOTHING
  `, f.ID().UUID(), f.CycleID().UUID(), f.RevieweeID().UUID(), f.ReviewerID().UUID(),
		v[0], v[1], v[2], v[3], v[4],
		f.Strengths(), f.GrowthAreas(), f.GeneralComments(), f.CreatedAt())
	if err != nil {
		return gerrors.Wrap(err, "save peer feedback")
	}
	return nil
}
