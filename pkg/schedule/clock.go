package schedule

import "time"

// Clock abstracts time.Now so ledger arithmetic is testable without sleeps.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time {
	return time.Now()
}
