package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CircuitBreakerClosed indicates whether the breaker allows live upstream calls.
	CircuitBreakerClosed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "djedops_circuit_breaker_closed",
		Help: "Whether the breaker allows live upstream calls (1=closed, 0=open)",
	}, []string{"upstream"})

	// CircuitBreakerConsecutiveFailures tracks the current failure run length.
	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "djedops_circuit_breaker_consecutive_failures",
		Help: "Current run of consecutive upstream failures",
	}, []string{"upstream"})

	// CircuitBreakerStateChanges tracks the number of open/close transitions.
	CircuitBreakerStateChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "djedops_circuit_breaker_state_changes_total",
		Help: "Total number of times the breaker changed state (opened/closed)",
	}, []string{"upstream"})

	// CircuitBreakerProbesTotal tracks half-open probe calls let through.
	CircuitBreakerProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "djedops_circuit_breaker_probes_total",
		Help: "Total number of probe calls allowed after a cooldown",
	}, []string{"upstream"})
)
