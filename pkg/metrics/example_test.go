package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	registry := NewRegistry(prometheus.NewRegistry())

	registry.Publishes.WithLabelValues("dashboard", "now", OutcomeDelivered).Add(8)
	registry.Publishes.WithLabelValues("dashboard", "now", OutcomeFailed).Add(2)
	registry.Subscriptions.WithLabelValues("dashboard").Set(3)

	fmt.Println(testutil.ToFloat64(registry.Publishes.WithLabelValues("dashboard", "now", OutcomeDelivered)))
	fmt.Println(testutil.ToFloat64(registry.Subscriptions.WithLabelValues("dashboard")))

	// Output:
	// 8
	// 3
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	customConfig := Config{
		Enabled:   false,
		Namespace: "myapp",
	}
	fmt.Printf("Custom enabled: %v\n", customConfig.Enabled)
	fmt.Printf("Custom namespace: %s\n", customConfig.Namespace)

	// Output:
	// Default enabled: true
	// Default namespace: livetime
	// Custom enabled: false
	// Custom namespace: myapp
}

// Example_customNamespace shows metric names under a custom namespace.
func Example_customNamespace() {
	reg := prometheus.NewRegistry()
	registry := NewRegistryWithNamespace(reg, "dash")
	registry.Ticks.WithLabelValues("main").Inc()

	families, _ := reg.Gather()
	for _, f := range families {
		fmt.Println(f.GetName())
	}

	// Output:
	// dash_scheduler_ticks_total
}
