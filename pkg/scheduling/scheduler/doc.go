/*
Package scheduler keeps any number of live time strings current with a single
timer.

Each subscription asks for its own refresh interval. The scheduler ticks at the
fastest requested interval (never faster than 50ms), aligns every tick to a
wall-clock multiple of that interval, and on each tick republishes only the
subscriptions whose own interval boundary has advanced. Widgets sharing a
cadence therefore update together, on round clock values, no matter when they
subscribed.

Basic Usage:

	sched := scheduler.New(dateprovider.Default())
	defer sched.Close()

	id, err := sched.SubscribeNow("%H:%M:%S", "", time.Second,
		scheduler.CallbackFunc(func(v string) error {
			fmt.Println(v)
			return nil
		}))
	if err != nil {
		log.Fatal(err)
	}
	defer sched.Unsubscribe(id)

Subscription Kinds:

	// repeating clock in a fixed zone
	sched.SubscribeNow("%H:%M", "Europe/Berlin", time.Minute, cb)

	// "5 minutes ago", refreshed every 30s
	sched.SubscribeRelative(postedAt, 30*time.Second, false, "", cb)

	// countdown that stops at 00:00:00
	sched.SubscribeUntil(deadline, "%H:%M:%S", time.Second, "", true, cb)

Every subscription is published once before Subscribe returns. Invalid requests
(nil callback, empty format, unknown timezone, a capability the provider lacks)
are rejected synchronously; nothing is registered.

Failure Isolation:

A callback that returns an error or panics, or a provider that fails while
computing a value, affects only that subscription. The failure is reported as a
Result with Outcome Failed through Config.OnResult and metrics, and logged at
warn level with rate limiting. Other subscriptions in the same tick are still
published.

Visibility:

When the host is backgrounded its timers may be throttled or suspended. Pass a
visibility.Source in Config, or call Resync directly, to republish every
subscription as soon as the host is back in the foreground:

	sched := scheduler.NewWithConfig(scheduler.Config{
		Provider:   dateprovider.Default(),
		Visibility: visibility.NewSignal(),
	})

Concurrency:

All methods are safe for concurrent use. Callbacks run outside the scheduler's
lock and may call Subscribe or Unsubscribe. Deliveries to a single subscription
never overlap. Unsubscribe takes effect no later than the next tick; a delivery
already in progress is allowed to finish.

Metrics:

	sched := scheduler.NewWithMetrics("dashboard", dateprovider.Default())

See package metrics for the exported series.
*/
package scheduler
