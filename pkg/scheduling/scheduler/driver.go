package scheduler

import (
	"github.com/vnykmshr/livetime/pkg/logx"
)

// The tick driver is Idle when no timer is armed and Running otherwise.
// All methods below except tick require s.mu.

// recompute refreshes the base interval and reports whether it changed.
func (s *scheduler) recompute() bool {
	next := computeBaseInterval(s.reg.all())
	if next == s.base {
		return false
	}
	s.base = next
	s.observeBase(next)
	return true
}

// reschedule brings the timer in line with the registry after a mutation.
func (s *scheduler) reschedule(changed bool) {
	switch {
	case s.reg.isEmpty():
		s.stopTimer()
	case s.ticking:
		// the tick in progress rearms when it finishes
	case changed || s.timer == nil:
		s.arm()
	}
}

// arm cancels any pending fire and schedules the next one on a wall-clock
// multiple of the base interval.
func (s *scheduler) arm() {
	restart := s.stopTimer()

	s.gen++
	gen := s.gen
	delay := alignedDelay(s.clock.Now().UnixMilli(), s.base)
	s.timer = s.clock.AfterFunc(delay, func() { s.tick(gen) })

	if restart && s.metrics != nil {
		s.metrics.TimerRestarts.WithLabelValues(s.name).Inc()
	}
}

// stopTimer disarms the timer and reports whether one was armed.
func (s *scheduler) stopTimer() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	// A fire already in flight sees a newer generation and does nothing.
	s.gen++
	return true
}

// tick publishes every subscription whose boundary advanced and rearms.
func (s *scheduler) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.ticking = true

	now := s.clock.Now()
	nowMs := now.UnixMilli()
	due := make([]*entry, 0, s.reg.len())
	for _, e := range s.reg.all() {
		boundary := dueBoundary(nowMs, e.intervalMs)
		if boundary > e.sub.LastTickBoundary {
			e.sub.LastTickBoundary = boundary
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Ticks.WithLabelValues(s.name).Inc()
	}

	results := s.publishAll(due, now)
	if s.log.Enabled(logx.LevelTrace) {
		failed := 0
		for _, r := range results {
			if r.Outcome == Failed {
				failed++
			}
		}
		s.log.Trace("tick",
			logx.Int64("now", nowMs),
			logx.Int("published", len(results)),
			logx.Int("failed", failed),
		)
	}

	s.mu.Lock()
	s.ticking = false
	if !s.closed {
		s.reschedule(true)
	}
	s.mu.Unlock()
}
