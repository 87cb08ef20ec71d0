package visibility

import (
	"os"
	"os/signal"
	"sync"
)

// Signal is a Source that reports Foreground whenever the process receives one
// of its signals. By default that is SIGCONT, sent when a stopped process
// (Ctrl-Z, SIGSTOP, a frozen container) resumes.
type Signal struct {
	signals []os.Signal
}

// NewSignal creates a Signal source for sigs, or the platform default when none
// are given. On platforms without SIGCONT the default source never fires.
func NewSignal(sigs ...os.Signal) *Signal {
	if len(sigs) == 0 {
		sigs = defaultSignals
	}
	return &Signal{signals: sigs}
}

// Watch implements Source.
func (s *Signal) Watch(fn func(State)) func() {
	if len(s.signals) == 0 {
		// signal.Notify with no signals would relay everything.
		return func() {}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, s.signals...)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ch:
				fn(Foreground)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
