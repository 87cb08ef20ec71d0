package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/vnykmshr/livetime/pkg/clock"
	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
	"github.com/vnykmshr/livetime/pkg/common/validation"
	"github.com/vnykmshr/livetime/pkg/dateprovider"
	"github.com/vnykmshr/livetime/pkg/interval"
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/metrics"
	"github.com/vnykmshr/livetime/pkg/visibility"
)

// Scheduler keeps live time strings up to date for any number of subscribers
// using a single timer.
type Scheduler interface {
	// SubscribeNow publishes the current time rendered with format.
	SubscribeNow(format, timezone string, interval time.Duration, cb Callback) (ID, error)

	// SubscribeRelative publishes a humanized offset such as "5 minutes ago".
	SubscribeRelative(anchor time.Time, interval time.Duration, withoutSuffix bool, timezone string, cb Callback) (ID, error)

	// SubscribeUntil publishes the time remaining until anchor rendered with format.
	SubscribeUntil(anchor time.Time, format string, interval time.Duration, timezone string, clampToZero bool, cb Callback) (ID, error)

	// Subscribe registers req and publishes it once before returning.
	Subscribe(req Request) (ID, error)

	// Unsubscribe removes a subscription. Unknown ids are ignored.
	Unsubscribe(id ID)

	// Resync republishes every subscription immediately, as on a return to
	// the foreground.
	Resync()

	BaseInterval() time.Duration
	Running() bool
	Len() int
	List() []Subscription
	Get(id ID) (Subscription, bool)
	SessionID() string

	// Close stops the timer and the visibility watch and drops all subscriptions.
	Close() error
}

// Config holds scheduler configuration.
type Config struct {
	Provider   dateprovider.Provider
	Clock      clock.Clock       // default: system clock
	Visibility visibility.Source // optional foreground notifications
	Logger     logx.Logger       // default: no-op
	Metrics    *metrics.Registry // optional
	Name       string            // metrics label and log field (default: "default")

	// OnResult is called after every dispatch attempt, from the goroutine that
	// performed it.
	OnResult func(Result)

	// Dispatch failures are logged at most FailureLogBurst at a time, refilling
	// one per FailureLogInterval. Defaults: 5 and 1s.
	FailureLogInterval time.Duration
	FailureLogBurst    int
}

type scheduler struct {
	provider dateprovider.Provider
	clock    clock.Clock
	log      logx.Logger
	metrics  *metrics.Registry
	name     string
	session  string
	onResult func(Result)

	failureLimiter *rate.Limiter
	suppressed     atomic.Int64

	stopWatch func()

	mu      sync.Mutex
	reg     *registry
	base    time.Duration
	timer   clock.Timer
	gen     uint64
	ticking bool
	closed  bool
}

// New creates a scheduler with default configuration.
func New(provider dateprovider.Provider) Scheduler {
	return NewWithConfig(Config{Provider: provider})
}

// NewWithMetrics creates a scheduler that records metrics in its own
// Prometheus registry.
func NewWithMetrics(name string, provider dateprovider.Provider) Scheduler {
	return NewWithConfigAndMetrics(Config{Provider: provider}, name, metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(cfg Config, name string, metricsConfig metrics.Config) Scheduler {
	cfg.Name = name
	if metricsConfig.Enabled {
		reg := metricsConfig.Registry
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		cfg.Metrics = metrics.NewRegistryWithNamespace(reg, metricsConfig.Namespace)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	c := cfg.Clock
	if c == nil {
		c = clock.SystemClock{}
	}

	name := cfg.Name
	if name == "" {
		name = "default"
	}

	logEvery := cfg.FailureLogInterval
	if logEvery <= 0 {
		logEvery = time.Second
	}
	burst := cfg.FailureLogBurst
	if burst <= 0 {
		burst = 5
	}

	log := cfg.Logger
	if log.IsZero() {
		log = logx.Nop()
	}

	session := uuid.NewString()
	s := &scheduler{
		provider:       cfg.Provider,
		clock:          c,
		log:            log.With(logx.String("scheduler", name), logx.String("session", session)),
		metrics:        cfg.Metrics,
		name:           name,
		session:        session,
		onResult:       cfg.OnResult,
		failureLimiter: rate.NewLimiter(rate.Every(logEvery), burst),
		reg:            newRegistry(),
		base:           interval.Default,
	}
	s.observeBase(s.base)

	if cfg.Visibility != nil {
		s.stopWatch = cfg.Visibility.Watch(s.onVisibility)
	}
	return s
}

func (s *scheduler) SubscribeNow(format, timezone string, every time.Duration, cb Callback) (ID, error) {
	return s.Subscribe(Request{
		Kind:     KindNow,
		Format:   format,
		Timezone: timezone,
		Interval: every,
		Callback: cb,
	})
}

func (s *scheduler) SubscribeRelative(anchor time.Time, every time.Duration, withoutSuffix bool, timezone string, cb Callback) (ID, error) {
	return s.Subscribe(Request{
		Kind:          KindRelative,
		Anchor:        anchor,
		Timezone:      timezone,
		WithoutSuffix: withoutSuffix,
		Interval:      every,
		Callback:      cb,
	})
}

func (s *scheduler) SubscribeUntil(anchor time.Time, format string, every time.Duration, timezone string, clampToZero bool, cb Callback) (ID, error) {
	return s.Subscribe(Request{
		Kind:        KindUntil,
		Format:      format,
		Anchor:      anchor,
		Timezone:    timezone,
		ClampToZero: clampToZero,
		Interval:    every,
		Callback:    cb,
	})
}

func (s *scheduler) Subscribe(req Request) (ID, error) {
	if err := s.validate(req); err != nil {
		return 0, err
	}

	every := interval.Normalize(req.Interval)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, gferrors.ErrClosed
	}
	now := s.clock.Now()
	e := newEntry(s.reg.reserve(), req, every)
	// The publish below stands in for the current boundary.
	boundary := dueBoundary(now.UnixMilli(), e.intervalMs)
	e.sub.LastTickBoundary = boundary
	id := s.reg.insert(e)
	s.reschedule(s.recompute())
	count := s.reg.len()
	s.mu.Unlock()

	s.observeCount(count)
	s.log.Debug("subscribed",
		logx.Uint64("id", uint64(id)),
		logx.String("kind", req.Kind.String()),
		logx.Duration("interval", every),
	)

	s.deliverInitial(e, now, boundary)
	return id, nil
}

func (s *scheduler) validate(req Request) error {
	if err := validation.ValidateNotNil("scheduler", "callback", req.Callback); err != nil {
		return err
	}
	if s.provider == nil {
		return gferrors.ErrMissingProvider
	}

	var op string
	switch req.Kind {
	case KindNow:
		op = "subscribeNow"
	case KindRelative:
		op = "subscribeRelative"
	case KindUntil:
		op = "subscribeUntil"
	default:
		return gferrors.NewValidationError("scheduler", "kind", req.Kind, "unknown subscription kind")
	}

	if req.Kind != KindRelative {
		if err := validation.ValidateNotEmpty("scheduler", "format", req.Format); err != nil {
			return err
		}
	}
	if req.Kind != KindNow {
		if err := validation.ValidateNotZeroTime("scheduler", "anchor", req.Anchor); err != nil {
			return err
		}
	}

	if err := dateprovider.Require(s.provider, op, req.Timezone, req.Kind == KindRelative); err != nil {
		return err
	}
	if req.Timezone != "" {
		if _, err := s.provider.Now(req.Timezone); err != nil {
			return err
		}
	}
	return nil
}

func (s *scheduler) Unsubscribe(id ID) {
	s.mu.Lock()
	if !s.reg.remove(id) {
		s.mu.Unlock()
		return
	}
	s.reschedule(s.recompute())
	count := s.reg.len()
	s.mu.Unlock()

	s.observeCount(count)
	s.log.Debug("unsubscribed", logx.Uint64("id", uint64(id)))
}

func (s *scheduler) BaseInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// Running reports whether a timer is armed or a tick is being processed.
func (s *scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil || s.ticking
}

func (s *scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.len()
}

// List returns snapshots of all subscriptions ordered by id.
func (s *scheduler) List() []Subscription {
	s.mu.Lock()
	out := make([]Subscription, 0, s.reg.len())
	for _, e := range s.reg.all() {
		out = append(out, e.sub)
	}
	s.mu.Unlock()
	return out
}

func (s *scheduler) Get(id ID) (Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.reg.get(id)
	if !ok {
		return Subscription{}, false
	}
	return e.sub, true
}

func (s *scheduler) SessionID() string {
	return s.session
}

func (s *scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopTimer()
	dropped := s.reg.clear()
	s.base = interval.Default
	s.mu.Unlock()

	if s.stopWatch != nil {
		s.stopWatch()
	}
	s.observeCount(0)
	s.observeBase(interval.Default)
	s.log.Info("scheduler closed", logx.Int("dropped", len(dropped)))
	return nil
}

func (s *scheduler) observeCount(n int) {
	if s.metrics != nil {
		s.metrics.Subscriptions.WithLabelValues(s.name).Set(float64(n))
	}
}

func (s *scheduler) observeBase(d time.Duration) {
	if s.metrics != nil {
		s.metrics.BaseInterval.WithLabelValues(s.name).Set(d.Seconds())
	}
}
