// Package visibility reports when a host returns to the foreground so live
// displays can be refreshed immediately instead of waiting for the next tick.
package visibility

import (
	"sync"
)

// State is the host's visibility.
type State int

const (
	// Foreground means displays are visible and timers run normally.
	Foreground State = iota
	// Background means the host may be throttling or suspending timers.
	Background
)

func (s State) String() string {
	switch s {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Source delivers visibility transitions.
type Source interface {
	// Watch registers fn for every transition until stop is called.
	// fn may be invoked from any goroutine.
	Watch(fn func(State)) (stop func())
}

// Manual is a Source driven by explicit calls, for hosts that learn about
// visibility through their own event loop and for tests.
type Manual struct {
	mu       sync.Mutex
	state    State
	watchers map[int]func(State)
	next     int
}

// NewManual creates a Manual source that starts in the foreground.
func NewManual() *Manual {
	return &Manual{
		state:    Foreground,
		watchers: make(map[int]func(State)),
	}
}

// Watch implements Source.
func (m *Manual) Watch(fn func(State)) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.watchers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
		})
	}
}

// Set records s and notifies watchers if it differs from the current state.
// Watchers run synchronously on the caller's goroutine.
func (m *Manual) Set(s State) {
	m.mu.Lock()
	if s == m.state {
		m.mu.Unlock()
		return
	}
	m.state = s
	fns := make([]func(State), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Foreground is shorthand for Set(Foreground).
func (m *Manual) Foreground() { m.Set(Foreground) }

// Background is shorthand for Set(Background).
func (m *Manual) Background() { m.Set(Background) }

// State returns the last recorded state.
func (m *Manual) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Watchers returns the number of registered watchers.
func (m *Manual) Watchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}
