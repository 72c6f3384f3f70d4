package review

import (
	"testing"
	"time"
)

// tickingClock advances one minute on every read so each mutation gets a distinct timestamp.
func tickingClock(t *testing.T) {
	t.Helper()
	cur := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	restore := SetClock(func() time.Time {
		cur = cur.Add(time.Minute)
		return cur
	})
	t.Cleanup(restore)
}

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	restore := SetClock(func() time.Time { return at })
	t.Cleanup(restore)
}
