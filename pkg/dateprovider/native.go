package dateprovider

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"

	"github.com/vnykmshr/livetime/pkg/clock"
	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

// Options selects the optional features of a Native provider.
type Options struct {
	// Timezone enables IANA zone conversion.
	Timezone bool

	// Duration enables relative-time humanization.
	Duration bool

	// Clock supplies the current time. Defaults to the system clock.
	Clock clock.Clock
}

// DefaultOptions enables every capability.
func DefaultOptions() Options {
	return Options{Timezone: true, Duration: true}
}

// Native is a Provider backed by strftime formatting and go-humanize.
type Native struct {
	caps  Capabilities
	clock clock.Clock

	mu    sync.RWMutex
	zones map[string]*time.Location
}

// NewNative creates a Native provider.
func NewNative(opts Options) *Native {
	c := opts.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Native{
		caps: Capabilities{
			SupportsTimezone: opts.Timezone,
			SupportsDuration: opts.Duration,
		},
		clock: c,
		zones: make(map[string]*time.Location),
	}
}

// Default creates a Native provider with every capability enabled.
func Default() *Native {
	return NewNative(DefaultOptions())
}

// Capabilities implements Provider.
func (n *Native) Capabilities() Capabilities {
	return n.caps
}

// Now implements Provider.
func (n *Native) Now(timezone string) (time.Time, error) {
	now := n.clock.Now()
	if timezone == "" {
		return now, nil
	}
	loc, err := n.location("now", timezone)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}

// Format implements Provider.
func (n *Native) Format(t time.Time, format, timezone string) (string, error) {
	if format == "" {
		return "", gferrors.NewValidationError("dateprovider", "format", format, "cannot be empty").
			WithHint("use strftime directives such as %H:%M:%S")
	}
	if timezone != "" {
		loc, err := n.location("format", timezone)
		if err != nil {
			return "", err
		}
		t = t.In(loc)
	}
	return strftime.Format(format, t), nil
}

// Diff implements Provider.
func (n *Native) Diff(a, b time.Time) time.Duration {
	return a.Sub(b)
}

// Humanize implements Provider.
func (n *Native) Humanize(d time.Duration, withoutSuffix bool) (string, error) {
	if !n.caps.SupportsDuration {
		return "", gferrors.NewCapabilityError(CapabilityDuration, "humanize")
	}
	base := n.clock.Now()
	if withoutSuffix {
		return strings.TrimSpace(humanize.RelTime(base.Add(d), base, "", "")), nil
	}
	return humanize.RelTime(base.Add(d), base, "ago", "from now"), nil
}

// location resolves and caches an IANA zone.
func (n *Native) location(operation, name string) (*time.Location, error) {
	if !n.caps.SupportsTimezone {
		return nil, gferrors.NewCapabilityError(CapabilityTimezone, operation)
	}

	n.mu.RLock()
	loc, ok := n.zones[name]
	n.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, gferrors.NewValidationError("dateprovider", "timezone", name, "unknown zone").
			WithHint(fmt.Sprintf("use an IANA name such as Europe/Berlin (%v)", err))
	}

	n.mu.Lock()
	n.zones[name] = loc
	n.mu.Unlock()
	return loc, nil
}

var _ Provider = (*Native)(nil)
