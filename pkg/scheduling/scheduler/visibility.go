package scheduler

import (
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/visibility"
)

func (s *scheduler) onVisibility(state visibility.State) {
	if state != visibility.Foreground {
		return
	}
	s.Resync()
}

// Resync marks every subscription as published now and publishes it,
// regardless of its boundary. Timers may have been throttled or suspended
// while the host was in the background.
func (s *scheduler) Resync() {
	now := s.clock.Now()
	nowMs := now.UnixMilli()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	entries := s.reg.all()
	for _, e := range entries {
		e.sub.LastTickBoundary = nowMs
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Resyncs.WithLabelValues(s.name).Inc()
	}
	results := s.publishAll(entries, now)
	s.log.Debug("resync", logx.Int("published", len(results)))
}
