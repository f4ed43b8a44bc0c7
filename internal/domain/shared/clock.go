package shared

import "time"

// Clock provides the current time to domain logic. Penalty computation
// depends on "today", so the clock is injected instead of read globally.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the current date truncated to midnight UTC
func (SystemClock) Today() time.Time {
	return Midnight(time.Now())
}

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// Today returns the pinned instant truncated to midnight UTC
func (c FixedClock) Today() time.Time {
	return Midnight(c.Instant)
}

// Midnight truncates a time to the start of its day in UTC.
// Dates (due dates, issue dates, event dates) are stored date-only.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b (b - a).
// Both are truncated to midnight before the subtraction.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}
