package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "livetime"

// Publish outcomes used as the "outcome" label value.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Registry holds all metric instances for livetime components.
type Registry struct {
	// Scheduler metrics
	Subscriptions   *prometheus.GaugeVec
	BaseInterval    *prometheus.GaugeVec
	Ticks           *prometheus.CounterVec
	TimerRestarts   *prometheus.CounterVec
	Publishes       *prometheus.CounterVec
	PublishDuration *prometheus.HistogramVec
	Resyncs         *prometheus.CounterVec

	// Sink metrics
	SinkMessages *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithNamespace(reg, DefaultNamespace)
}

// NewRegistryWithNamespace is NewRegistry with a custom metric namespace.
func NewRegistryWithNamespace(reg prometheus.Registerer, namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Registry{
		Subscriptions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "subscriptions",
				Help:      "Number of active subscriptions",
			},
			[]string{"scheduler_name"},
		),

		BaseInterval: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "base_interval_seconds",
				Help:      "Current coalesced tick interval",
			},
			[]string{"scheduler_name"},
		),

		Ticks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "ticks_total",
				Help:      "Total number of timer fires processed",
			},
			[]string{"scheduler_name"},
		),

		TimerRestarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "timer_restarts_total",
				Help:      "Total number of timer restarts caused by base interval changes",
			},
			[]string{"scheduler_name"},
		),

		Publishes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "publishes_total",
				Help:      "Total number of value publishes by subscription kind and outcome",
			},
			[]string{"scheduler_name", "kind", "outcome"},
		),

		PublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "publish_duration_seconds",
				Help:      "Time spent computing and delivering a single value",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"scheduler_name"},
		),

		Resyncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "resyncs_total",
				Help:      "Total number of forced republishes on foreground",
			},
			[]string{"scheduler_name"},
		),

		SinkMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sink",
				Name:      "messages_total",
				Help:      "Total number of values forwarded by sinks by outcome",
			},
			[]string{"sink", "outcome"},
		),
	}
}
