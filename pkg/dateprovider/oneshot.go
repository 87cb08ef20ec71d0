package dateprovider

import (
	"time"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

// Format renders t once.
func Format(p Provider, t time.Time, format, timezone string) (string, error) {
	if err := Require(p, "format", timezone, false); err != nil {
		return "", err
	}
	return p.Format(t, format, timezone)
}

// FromNow describes t relative to now, e.g. "5 minutes ago".
func FromNow(p Provider, t time.Time, withoutSuffix bool, timezone string) (string, error) {
	if err := Require(p, "fromNow", timezone, true); err != nil {
		return "", err
	}
	now, err := p.Now(timezone)
	if err != nil {
		return "", err
	}
	return p.Humanize(p.Diff(t, now), withoutSuffix)
}

// ToNow describes now relative to t, the inverse of FromNow.
func ToNow(p Provider, t time.Time, withoutSuffix bool, timezone string) (string, error) {
	if err := Require(p, "toNow", timezone, true); err != nil {
		return "", err
	}
	now, err := p.Now(timezone)
	if err != nil {
		return "", err
	}
	return p.Humanize(p.Diff(now, t), withoutSuffix)
}

// Add renders t+d.
func Add(p Provider, t time.Time, d time.Duration, format, timezone string) (string, error) {
	if err := Require(p, "add", timezone, false); err != nil {
		return "", err
	}
	return p.Format(t.Add(d), format, timezone)
}

// Subtract renders t-d.
func Subtract(p Provider, t time.Time, d time.Duration, format, timezone string) (string, error) {
	if err := Require(p, "subtract", timezone, false); err != nil {
		return "", err
	}
	return p.Format(t.Add(-d), format, timezone)
}

// DurationHumanize renders d on its own, e.g. "2 hours" or "2 hours from now".
func DurationHumanize(p Provider, d time.Duration, withoutSuffix bool) (string, error) {
	if err := Require(p, "durationHumanize", "", true); err != nil {
		return "", err
	}
	return p.Humanize(d, withoutSuffix)
}

// Until renders the time remaining from now to anchor.
func Until(p Provider, anchor time.Time, format, timezone string, clampToZero bool) (string, error) {
	if err := Require(p, "until", timezone, false); err != nil {
		return "", err
	}
	now, err := p.Now(timezone)
	if err != nil {
		return "", err
	}
	return FormatRemaining(p, p.Diff(anchor, now), format, clampToZero)
}

// FormatRemaining renders a countdown value. The duration is laid out as an
// instant offset from the Unix epoch in UTC, so "%H:%M:%S" reads as hours,
// minutes and seconds left. A negative diff is floored to zero when clampToZero
// is set and otherwise rendered as-is.
func FormatRemaining(p Provider, diff time.Duration, format string, clampToZero bool) (string, error) {
	if p == nil {
		return "", gferrors.ErrMissingProvider
	}
	if clampToZero && diff < 0 {
		diff = 0
	}
	return p.Format(Epoch.Add(diff), format, "")
}

// Epoch is the UTC Unix epoch.
var Epoch = time.Unix(0, 0).UTC()
