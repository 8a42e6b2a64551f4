// Package clock abstracts the wall clock so services can be tested at
// fixed instants.
package clock

import "time"

// Clock is the time source injected into anything that stamps or compares
// moments: connect order, room creation, character lastPlayed.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates the system-clock implementation used outside tests
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current wall-clock time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
