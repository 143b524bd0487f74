package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "storefront"
	metricsSubsystem = "breaker"
)

// Breaker collectors live on the default registry so every process exposes
// them without extra wiring.
var (
	// BreakerState holds the numeric State per target.
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "state",
		Help:      "Breaker state per target (0 closed, 1 open, 2 half-open).",
	}, []string{"target"})

	BreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "transitions_total",
		Help:      "Breaker state changes by origin and destination state.",
	}, []string{"target", "from", "to"})

	BreakerOpenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "opened_total",
		Help:      "Times the breaker tripped open.",
	}, []string{"target"})
)
