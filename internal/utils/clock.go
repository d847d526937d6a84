package utils

import "time"

// Clock abstracts time.Now so time-dependent logic can be pinned to a
// fixed instant in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, reading the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock reports a fixed instant that tests can reposition.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}
