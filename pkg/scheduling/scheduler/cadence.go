package scheduler

import (
	"time"

	"github.com/vnykmshr/livetime/pkg/interval"
)

// computeBaseInterval returns the shared tick period for the given entries:
// the fastest interval, never below interval.Min, or interval.Default when
// there is nothing to tick for.
func computeBaseInterval(entries []*entry) time.Duration {
	if len(entries) == 0 {
		return interval.Default
	}

	fastest := entries[0].sub.Interval
	for _, e := range entries[1:] {
		if e.sub.Interval < fastest {
			fastest = e.sub.Interval
		}
	}
	if fastest < interval.Min {
		fastest = interval.Min
	}
	return fastest
}

// alignedDelay returns the wait from nowMs to the next multiple of base.
// A clock sitting exactly on a boundary waits a full period.
func alignedDelay(nowMs int64, base time.Duration) time.Duration {
	b := base.Milliseconds()
	if b <= 0 {
		b = interval.Default.Milliseconds()
	}
	rem := nowMs % b
	if rem < 0 {
		rem += b
	}
	return time.Duration(b-rem) * time.Millisecond
}

// dueBoundary returns the latest multiple of intervalMs at or before nowMs.
func dueBoundary(nowMs, intervalMs int64) int64 {
	q := nowMs / intervalMs
	if nowMs%intervalMs < 0 {
		q--
	}
	return q * intervalMs
}
