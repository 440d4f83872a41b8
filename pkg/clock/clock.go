// Package clock supplies the time source shared by the bridge and data bindings.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock with its monotonic reading.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a controllable clock for tests and replayed sessions.
type Manual struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{current: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
