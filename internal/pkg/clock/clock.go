package clock

import "time"

// Clock supplies the current time. Everything that stamps rows takes a Clock
// instead of calling time.Now directly so tests can pin the clock.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a clock stuck at a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return f.Instant
}
