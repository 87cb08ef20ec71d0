/*
Package livetime keeps many live time strings up to date from a single timer.

A widget subscribes with a kind (current time, relative time or countdown), a
format and a refresh interval. The scheduler coalesces every subscription onto
one timer running at the fastest interval, aligned to wall-clock boundaries,
and publishes a widget only when its own interval boundary has passed.
When the host comes back to the foreground every widget is republished at
once.

Scheduling (pkg/scheduling):
  - scheduler: subscription registry, aligned tick driver, value dispatch

Dates (pkg/dateprovider, pkg/interval):
  - dateprovider: strftime formatting, time zones and humanized durations
  - interval: parses "250ms", "1.5m", "00:00:05" and "@every 10s"

Hosts (pkg/sink, pkg/visibility):
  - sink: line writers, a board of latest values, fan-out, Redis pub/sub
  - visibility: foreground notifications from the host or from SIGCONT

Example usage:

	import (
		"github.com/vnykmshr/livetime/pkg/dateprovider"
		"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
		"github.com/vnykmshr/livetime/pkg/sink"
	)

	sched := scheduler.New(dateprovider.Default())
	defer sched.Close()

	sched.SubscribeNow("%H:%M:%S", "Europe/Berlin", time.Second, sink.NewWriter(os.Stdout, "berlin"))
	sched.SubscribeUntil(launch, "%H:%M:%S", time.Second, "", true, sink.NewWriter(os.Stdout, "launch"))

The cmd/livetime command renders widgets described in a YAML or JSON file.
*/
package livetime
