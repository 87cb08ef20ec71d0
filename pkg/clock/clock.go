// Package clock abstracts wall-clock reads and one-shot timers so schedulers
// can be driven by virtual time in tests.
package clock

import "time"

// Clock provides the current time and one-shot timers. It can be mocked for testing.
type Clock interface {
	Now() time.Time

	// AfterFunc waits for d and then calls f in its own goroutine.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
