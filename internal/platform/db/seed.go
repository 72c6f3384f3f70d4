package db

import (
	"context"
	"log/slog"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed ids keep seeding idempotent and let developers mint tokens for known users.
const (
	SeedManagerID = "6f1c7f4e-0b4e-4d1a-9a57-2f0c9d6f3a01"
	SeedCycleID   = "0c9b2a57-5d43-4e3c-8a55-1b7f0e6d2c10"
)

type seedUser struct {
	id, name, email, level, department string
	managerID                          *string
}

func seedUsers() []seedUser {
	manager := SeedManagerID
	return []seedUser{
		{id: SeedManagerID, name: "Morgan Reyes", email: "morgan.reyes@example.com", level: "MANAGER", department: "Platform"},
		{id: "b2d0e1f7-6c8a-4f39-9d2e-5a1c3b7e8f21", name: "Avery Chen", email: "avery.chen@example.com", level: "MID", department: "Platform", managerID: &manager},
		{id: "c3e1f208-7d9b-4a4a-8e3f-6b2d4c8f9a32", name: "Jordan Patel", email: "jordan.patel@example.com", level: "SENIOR", department: "Platform", managerID: &manager},
		{id: "d4f20319-8eac-4b5b-9f40-7c3e5d9a0b43", name: "Riley Okafor", email: "riley.okafor@example.com", level: "JUNIOR", department: "Platform", managerID: &manager},
	}
}

// Seed inserts a small development team and an open review cycle.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, u := range seedUsers() {
		_, err := pool.Exec(ctx, `
      INSERT INTO users (id, name, email, level, department, manager_id)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (id) DO NOTHING
    `, u.id, u.name, u.email, u.level, u.department, u.managerID)
		if err != nil {
			return gerrors.Wrapf(err, "seed user %s", u.email)
		}
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	_, err := pool.Exec(ctx, `
    INSERT INTO review_cycles (id, name, start_date, end_date,
      self_review_deadline, peer_feedback_deadline, manager_evaluation_deadline,
      calibration_deadline, feedback_delivery_deadline)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (id) DO NOTHING
  `, SeedCycleID, "Development cycle", start, start.AddDate(0, 6, 0),
		start.AddDate(0, 1, 0), start.AddDate(0, 2, 0), start.AddDate(0, 3, 0),
		start.AddDate(0, 4, 0), start.AddDate(0, 5, 0))
	if err != nil {
		return gerrors.Wrap(err, "seed review cycle")
	}

	slog.Info("seed data ensured", "users", len(seedUsers()), "cycle_id", SeedCycleID)
	return nil
}
