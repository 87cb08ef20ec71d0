// Package sink provides ready-made scheduler callbacks: line writers, a board
// that keeps the latest value per widget, and fan-out to several callbacks.
package sink

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/vnykmshr/livetime/pkg/metrics"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
)

// Writer writes "label value" lines to an io.Writer.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	label string
}

// NewWriter creates a Writer. An empty label writes bare values.
func NewWriter(w io.Writer, label string) *Writer {
	return &Writer{w: w, label: label}
}

// OnUpdate implements scheduler.Callback.
func (w *Writer) OnUpdate(value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.label == "" {
		_, err = fmt.Fprintln(w.w, value)
	} else {
		_, err = fmt.Fprintf(w.w, "%s %s\n", w.label, value)
	}
	return err
}

// Fanout delivers each value to every callback, even when some fail, and
// returns the joined errors.
func Fanout(callbacks ...scheduler.Callback) scheduler.Callback {
	return scheduler.CallbackFunc(func(value string) error {
		var errs []error
		for _, cb := range callbacks {
			if err := cb.OnUpdate(value); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Counted wraps cb and records each delivery in reg under the given sink name.
// A nil registry returns cb unchanged.
func Counted(reg *metrics.Registry, name string, cb scheduler.Callback) scheduler.Callback {
	if reg == nil {
		return cb
	}
	return scheduler.CallbackFunc(func(value string) error {
		err := cb.OnUpdate(value)
		outcome := metrics.OutcomeDelivered
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		reg.SinkMessages.WithLabelValues(name, outcome).Inc()
		return err
	})
}

// Board keeps the latest value of each named widget.
type Board struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// NewBoard creates an empty Board.
func NewBoard() *Board {
	return &Board{values: make(map[string]string)}
}

// Callback returns a callback that stores values under name.
func (b *Board) Callback(name string) scheduler.Callback {
	b.mu.Lock()
	if _, ok := b.values[name]; !ok {
		b.values[name] = ""
		b.order = append(b.order, name)
	}
	b.mu.Unlock()

	return scheduler.CallbackFunc(func(value string) error {
		b.mu.Lock()
		b.values[name] = value
		b.mu.Unlock()
		return nil
	})
}

// Remove forgets a widget.
func (b *Board) Remove(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[name]; !ok {
		return
	}
	delete(b.values, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Reset forgets every widget.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = make(map[string]string)
	b.order = nil
}

// Get returns the latest value for name.
func (b *Board) Get(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[name]
	return v, ok
}

// Snapshot returns a copy of all values.
func (b *Board) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Render writes one aligned "name  value" line per widget in registration order.
func (b *Board) Render(w io.Writer) error {
	b.mu.RLock()
	width := 0
	for _, n := range b.order {
		if len(n) > width {
			width = len(n)
		}
	}
	var sb strings.Builder
	for _, n := range b.order {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, n, b.values[n])
	}
	b.mu.RUnlock()

	_, err := io.WriteString(w, sb.String())
	return err
}

// Names returns widget names sorted alphabetically.
func (b *Board) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.values))
	for n := range b.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
