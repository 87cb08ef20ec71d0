package scheduler

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ID identifies a subscription. IDs start at 1 and are never reused by a Scheduler.
type ID uint64

// Kind selects how a subscription's value is computed.
type Kind int

const (
	// KindNow renders the current time with Format.
	KindNow Kind = iota
	// KindRelative humanizes the offset from Anchor to now.
	KindRelative
	// KindUntil renders the time remaining until Anchor with Format.
	KindUntil
)

func (k Kind) String() string {
	switch k {
	case KindNow:
		return "now"
	case KindRelative:
		return "relative"
	case KindUntil:
		return "until"
	default:
		return "unknown"
	}
}

// NeverTicked is the LastTickBoundary of a subscription that has not been published.
const NeverTicked int64 = math.MinInt64

// Callback receives every value computed for a subscription.
// A returned error is reported as a failed dispatch and does not unsubscribe.
type Callback interface {
	OnUpdate(value string) error
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(value string) error

// OnUpdate implements Callback.
func (f CallbackFunc) OnUpdate(value string) error {
	return f(value)
}

// Request describes a subscription to create.
type Request struct {
	Kind          Kind
	Format        string
	Anchor        time.Time
	Timezone      string
	WithoutSuffix bool
	ClampToZero   bool

	// Interval is the requested cadence. Non-positive values become one second;
	// values under 50ms are raised to 50ms.
	Interval time.Duration

	Callback Callback
}

// Subscription is a snapshot of a registered subscription.
type Subscription struct {
	ID            ID
	Kind          Kind
	Format        string
	Anchor        time.Time
	Timezone      string
	WithoutSuffix bool
	ClampToZero   bool
	Interval      time.Duration

	// LastTickBoundary is the Unix millisecond boundary at which the
	// subscription was last published, or NeverTicked.
	LastTickBoundary int64

	Callback Callback
}

// entry is the registry's mutable record. sub.LastTickBoundary is guarded by
// the scheduler mutex; publishMu serializes deliveries to one callback.
type entry struct {
	sub        Subscription
	intervalMs int64

	publishMu sync.Mutex
	removed   atomic.Bool
}

func newEntry(id ID, req Request, interval time.Duration) *entry {
	return &entry{
		sub: Subscription{
			ID:               id,
			Kind:             req.Kind,
			Format:           req.Format,
			Anchor:           req.Anchor,
			Timezone:         req.Timezone,
			WithoutSuffix:    req.WithoutSuffix,
			ClampToZero:      req.ClampToZero,
			Interval:         interval,
			LastTickBoundary: NeverTicked,
			Callback:         req.Callback,
		},
		intervalMs: interval.Milliseconds(),
	}
}
