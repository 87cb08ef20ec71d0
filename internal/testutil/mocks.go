package testutil

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/vnykmshr/livetime/pkg/clock"
)

// MockClock implements clock.Clock with controllable time.
// Timers created with AfterFunc fire synchronously from Advance, in due order,
// with Now() reporting each timer's due instant while its callback runs.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
	seq    int
}

type mockTimer struct {
	clock *MockClock
	when  time.Time
	seq   int
	f     func()
	done  bool
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// NewMockClockMillis creates a MockClock at the given Unix millisecond, in UTC.
func NewMockClockMillis(ms int64) *MockClock {
	return &MockClock{now: time.UnixMilli(ms).UTC()}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers f to run once the mock time reaches Now()+d.
// A non-positive d fires on the next Advance, including Advance(0).
func (m *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &mockTimer{clock: m, when: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Stop implements clock.Timer.
func (t *mockTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	m.remove(t)
	return true
}

// Advance moves the mock clock forward by d, firing every timer that comes due.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		m.remove(next)
		if next.when.After(m.now) {
			m.now = next.when
		}
		m.mu.Unlock()

		next.f()
	}
}

// AdvanceTo moves the clock to the given Unix millisecond.
func (m *MockClock) AdvanceTo(ms int64) {
	m.Advance(time.UnixMilli(ms).Sub(m.Now()))
}

// Set sets the mock clock to a specific time without firing timers.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Pending returns the number of armed timers.
func (m *MockClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// NextFire returns the due instant of the earliest armed timer.
func (m *MockClock) NextFire() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return time.Time{}, false
	}
	m.sortTimers()
	return m.timers[0].when, true
}

func (m *MockClock) nextDue(target time.Time) *mockTimer {
	if len(m.timers) == 0 {
		return nil
	}
	m.sortTimers()
	if m.timers[0].when.After(target) {
		return nil
	}
	return m.timers[0]
}

func (m *MockClock) sortTimers() {
	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].when.Equal(m.timers[j].when) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].when.Before(m.timers[j].when)
	})
}

func (m *MockClock) remove(t *mockTimer) {
	for i, cur := range m.timers {
		if cur == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Recorder collects values delivered to a subscription callback.
type Recorder struct {
	mu     sync.Mutex
	values []string
	at     []time.Time
	clock  clock.Clock
	err    error
	panics interface{}
}

// NewRecorder creates a Recorder. When c is non-nil each value is stamped with c.Now().
func NewRecorder(c clock.Clock) *Recorder {
	return &Recorder{clock: c}
}

// OnUpdate records value and returns the configured error, or panics if configured to.
func (r *Recorder) OnUpdate(value string) error {
	r.mu.Lock()
	r.values = append(r.values, value)
	if r.clock != nil {
		r.at = append(r.at, r.clock.Now())
	}
	err, p := r.err, r.panics
	r.mu.Unlock()

	if p != nil {
		panic(p)
	}
	return err
}

// FailWith makes subsequent OnUpdate calls return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// PanicWith makes subsequent OnUpdate calls panic with v.
func (r *Recorder) PanicWith(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = v
}

// Count returns the number of recorded values.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Values returns a copy of the recorded values.
func (r *Recorder) Values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

// Last returns the most recent value, or "" if none.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return ""
	}
	return r.values[len(r.values)-1]
}

// Times returns the clock readings taken at each delivery, as Unix milliseconds.
func (r *Recorder) Times() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.at))
	for i, t := range r.at {
		out[i] = t.UnixMilli()
	}
	return out
}

// Reset clears recorded values.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = nil
	r.at = nil
}

// MockWriter is a test writer that can simulate write errors.
type MockWriter struct {
	buf        *bytes.Buffer
	mu         sync.Mutex
	writeCount int
	err        error
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		buf: &bytes.Buffer{},
	}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.writeCount++
	if mw.err != nil {
		return 0, mw.err
	}
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// SetAlwaysError configures the writer to always return the given error.
func (mw *MockWriter) SetAlwaysError(err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.err = err
}
