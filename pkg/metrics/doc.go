// Package metrics provides Prometheus instrumentation for livetime components.
//
// # Quick Start
//
//	sched := scheduler.NewWithMetrics("dashboard", provider)
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Available Metrics
//
//   - livetime_scheduler_subscriptions: Number of active subscriptions
//   - livetime_scheduler_base_interval_seconds: Current coalesced tick interval
//   - livetime_scheduler_ticks_total: Timer fires processed
//   - livetime_scheduler_timer_restarts_total: Restarts caused by cadence changes
//   - livetime_scheduler_publishes_total: Publishes by kind and outcome (delivered, failed)
//   - livetime_scheduler_publish_duration_seconds: Compute + deliver time per value
//   - livetime_scheduler_resyncs_total: Forced republishes on foreground
//   - livetime_sink_messages_total: Values forwarded by sinks by outcome
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	sched := scheduler.NewWithConfig(scheduler.Config{
//		Provider: provider,
//		Metrics:  metrics.NewRegistry(registry),
//	})
package metrics
