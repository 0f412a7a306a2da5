package resolve

import "time"

// Clock abstracts time for the polling loops so tests can simulate elapsed
// time deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// realClock is the production Clock backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the production clock.
func RealClock() Clock {
	return realClock{}
}
