package scheduler

import (
	"fmt"
	"time"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
	"github.com/vnykmshr/livetime/pkg/dateprovider"
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/metrics"
)

// Outcome is the result of one dispatch attempt.
type Outcome int

const (
	Delivered Outcome = iota
	Failed
)

func (o Outcome) String() string {
	if o == Delivered {
		return metrics.OutcomeDelivered
	}
	return metrics.OutcomeFailed
}

// Result describes one dispatch attempt. Err is a *errors.DispatchError when
// Outcome is Failed.
type Result struct {
	SubscriptionID ID
	Kind           Kind
	Outcome        Outcome
	Value          string
	Err            error
	Duration       time.Duration
}

// publishAll dispatches each entry in turn. A failure never stops the loop.
func (s *scheduler) publishAll(entries []*entry, now time.Time) []Result {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		if res, ok := s.deliver(e, now, nil); ok {
			results = append(results, res)
		}
	}
	return results
}

// deliver publishes one entry and reports the result. ok is false when the
// entry was removed, or stale reported true, before it could be published.
func (s *scheduler) deliver(e *entry, now time.Time, stale func() bool) (Result, bool) {
	res, ok := s.publish(e, now, stale)
	if ok {
		s.report(res)
	}
	return res, ok
}

// deliverInitial publishes the value a new subscription was registered with.
// It is skipped when a tick or resync moved the entry past boundary first,
// since that publish already carried a newer value.
func (s *scheduler) deliverInitial(e *entry, now time.Time, boundary int64) (Result, bool) {
	return s.deliver(e, now, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return e.sub.LastTickBoundary != boundary
	})
}

func (s *scheduler) publish(e *entry, now time.Time, stale func() bool) (res Result, ok bool) {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	if e.removed.Load() {
		return Result{}, false
	}
	// Checked under publishMu so a newer publish cannot slip in between.
	if stale != nil && stale() {
		return Result{}, false
	}

	res = Result{SubscriptionID: e.sub.ID, Kind: e.sub.Kind}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = Failed
			res.Err = dispatchError(e.sub.ID, fmt.Errorf("panic: %v", r))
			ok = true
		}
		res.Duration = time.Since(start)
	}()

	value, err := s.compute(&e.sub, now)
	if err != nil {
		res.Outcome = Failed
		res.Err = dispatchError(e.sub.ID, err)
		return res, true
	}

	res.Value = value
	if err := e.sub.Callback.OnUpdate(value); err != nil {
		res.Outcome = Failed
		res.Err = dispatchError(e.sub.ID, err)
		return res, true
	}

	res.Outcome = Delivered
	return res, true
}

// compute renders the display string for sub at now.
func (s *scheduler) compute(sub *Subscription, now time.Time) (string, error) {
	p := s.provider
	switch sub.Kind {
	case KindNow:
		return p.Format(now, sub.Format, sub.Timezone)
	case KindRelative:
		return p.Humanize(p.Diff(sub.Anchor, now), sub.WithoutSuffix)
	case KindUntil:
		return dateprovider.FormatRemaining(p, p.Diff(sub.Anchor, now), sub.Format, sub.ClampToZero)
	default:
		return "", fmt.Errorf("unknown subscription kind %d", sub.Kind)
	}
}

func (s *scheduler) report(res Result) {
	if s.metrics != nil {
		s.metrics.Publishes.WithLabelValues(s.name, res.Kind.String(), res.Outcome.String()).Inc()
		s.metrics.PublishDuration.WithLabelValues(s.name).Observe(res.Duration.Seconds())
	}

	if res.Outcome == Failed {
		s.logFailure(res)
	}

	if s.onResult != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("result hook panicked", logx.Any("panic", r))
				}
			}()
			s.onResult(res)
		}()
	}
}

// logFailure warns about a failed dispatch unless the limiter is exhausted, in
// which case the failure is counted and reported with the next logged one.
func (s *scheduler) logFailure(res Result) {
	if !s.failureLimiter.Allow() {
		s.suppressed.Add(1)
		return
	}

	fields := []logx.Field{
		logx.Uint64("id", uint64(res.SubscriptionID)),
		logx.String("kind", res.Kind.String()),
		logx.Err(res.Err),
	}
	if n := s.suppressed.Swap(0); n > 0 {
		fields = append(fields, logx.Int64("suppressed", n))
	}
	s.log.Warn("dispatch failed", fields...)
}

func dispatchError(id ID, cause error) error {
	return &gferrors.DispatchError{SubscriptionID: uint64(id), Cause: cause}
}
