package review

import "time"

var now = func() time.Time { return time.Now().UTC() }

// SetClock replaces the package clock and returns a func restoring the previous one.
func SetClock(fn func() time.Time) (restore func()) {
	prev := now
	now = fn
	return func() { now = prev }
}

// Now reads the package clock.
func Now() time.Time { return now() }
