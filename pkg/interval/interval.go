// Package interval parses refresh-interval strings from host configuration and
// normalizes intervals to the bounds the scheduler works with.
//
// Accepted forms, tried in order:
//
//	"1m30s", "250ms"       Go duration literal
//	"00:00:05", "1.02:00:00", "00:01:30.500"
//	                       clock literal, [d.]hh:mm[:ss[.fraction]]
//	"@every 5s"            cron descriptor (whole seconds, minimum 1s)
//	"1.5M", "2D", "10S"    number + ms|s|m|h|d, case-insensitive
//	"5"                    bare integer number of days
//
// A bare decimal such as "1.5" has no unit and is rejected.
package interval

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

const (
	// Min is the shortest interval the scheduler honors.
	Min = 50 * time.Millisecond

	// Default replaces missing or non-positive intervals.
	Default = time.Second
)

var clockLiteral = regexp.MustCompile(`^(?:(\d+)\.)?(\d{1,2}):(\d{1,2})(?::(\d{1,2})(?:\.(\d{1,7}))?)?$`)

var units = []struct {
	suffix string
	unit   time.Duration
}{
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
}

// Parse parses s strictly. Unparsable and non-positive values yield an error
// wrapping ErrInvalidInterval.
func Parse(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, invalid(s, "is empty")
	}

	d, ok := parse(trimmed)
	if !ok {
		return 0, invalid(s, "is not a recognized interval")
	}
	if d <= 0 {
		return 0, invalid(s, "must be positive")
	}
	return d, nil
}

// ParseOrDefault parses s, returning fallback when s is empty, unparsable or
// not positive.
func ParseOrDefault(s string, fallback time.Duration) time.Duration {
	d, err := Parse(s)
	if err != nil {
		return fallback
	}
	return d
}

// Normalize clamps d to the scheduler's bounds: non-positive values become
// Default, anything shorter than Min becomes Min, and the result is truncated
// to whole milliseconds.
func Normalize(d time.Duration) time.Duration {
	if d <= 0 {
		return Default
	}
	d = d.Truncate(time.Millisecond)
	if d < Min {
		return Min
	}
	return d
}

func parse(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	if d, ok := parseClock(s); ok {
		return d, true
	}
	if strings.HasPrefix(s, "@") {
		return parseEvery(s)
	}
	if d, ok := parseWithUnit(s); ok {
		return d, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return scale(float64(n), 24*time.Hour)
	}
	return 0, false
}

func parseClock(s string) (time.Duration, bool) {
	m := clockLiteral.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	days := atoi(m[1])
	hours, minutes, seconds := atoi(m[2]), atoi(m[3]), atoi(m[4])
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, false
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second

	if frac := m[5]; frac != "" {
		// Fraction digits are in 100ns ticks once padded to seven places.
		ticks := atoi(frac + strings.Repeat("0", 7-len(frac)))
		d += time.Duration(ticks) * 100 * time.Nanosecond
	}
	return d, true
}

func parseEvery(s string) (time.Duration, bool) {
	sched, err := cron.ParseStandard(s)
	if err != nil {
		return 0, false
	}
	every, ok := sched.(cron.ConstantDelaySchedule)
	if !ok {
		return 0, false
	}
	return every.Delay, true
}

func parseWithUnit(s string) (time.Duration, bool) {
	lower := strings.ToLower(s)
	for _, u := range units {
		if !strings.HasSuffix(lower, u.suffix) {
			continue
		}
		n, err := strconv.ParseFloat(lower[:len(lower)-len(u.suffix)], 64)
		if err != nil {
			// "5ms" also ends in "s"; let the next unit try.
			continue
		}
		return scale(n, u.unit)
	}
	return 0, false
}

func scale(n float64, unit time.Duration) (time.Duration, bool) {
	v := n * float64(unit)
	if math.IsNaN(v) || math.IsInf(v, 0) || v > math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return time.Duration(v), true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func invalid(value, reason string) error {
	return fmt.Errorf("%w: %q %s", gferrors.ErrInvalidInterval, value, reason)
}
