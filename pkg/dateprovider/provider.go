package dateprovider

import (
	"time"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

// Capability names used in CapabilityError.
const (
	CapabilityTimezone = "timezone"
	CapabilityDuration = "duration"
)

// Capabilities describes optional provider features. It is fixed for the
// lifetime of a provider.
type Capabilities struct {
	SupportsTimezone bool
	SupportsDuration bool
}

// Provider computes instants and display strings.
type Provider interface {
	// Capabilities returns the descriptor captured at construction.
	Capabilities() Capabilities

	// Now returns the current instant, in timezone when one is given.
	Now(timezone string) (time.Time, error)

	// Format renders t with format, converted to timezone when one is given.
	Format(t time.Time, format, timezone string) (string, error)

	// Diff returns a - b.
	Diff(a, b time.Time) time.Duration

	// Humanize renders d as a relative phrase. Positive durations lie in the
	// future ("5 minutes from now"), negative ones in the past ("5 minutes
	// ago"). withoutSuffix drops the direction ("5 minutes").
	Humanize(d time.Duration, withoutSuffix bool) (string, error)
}

// Require checks that p is present and offers what an operation needs.
// An empty timezone never requires timezone support.
func Require(p Provider, operation, timezone string, needDuration bool) error {
	if p == nil {
		return gferrors.ErrMissingProvider
	}
	caps := p.Capabilities()
	if timezone != "" && !caps.SupportsTimezone {
		return gferrors.NewCapabilityError(CapabilityTimezone, operation)
	}
	if needDuration && !caps.SupportsDuration {
		return gferrors.NewCapabilityError(CapabilityDuration, operation)
	}
	return nil
}
