package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks outbound upstream API requests by source.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_upstream_requests_total",
			Help: "Total number of outbound upstream API requests",
		},
		[]string{"source"},
	)

	// FailuresTotal tracks upstream request failures by source.
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_upstream_failures_total",
			Help: "Total number of failed upstream API requests",
		},
		[]string{"source"},
	)

	// FallbacksTotal tracks how often a static fallback payload was substituted.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_upstream_fallbacks_total",
			Help: "Total number of responses served from static fallback values",
		},
		[]string{"source"},
	)

	// RequestDurationSeconds tracks upstream request latency by source.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "djedops_upstream_request_duration_seconds",
			Help:    "Duration of outbound upstream API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)
