package types

import "time"

// Clock abstracts time for testability. The sync window computation depends
// on "now" in the reference timezone, so every component that reads the
// wall clock takes a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
// Callers convert into the reference timezone themselves.
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
