package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks new arbitrage opportunities by signal.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_arb_opportunities_detected_total",
			Help: "Total number of new arbitrage opportunities detected",
		},
		[]string{"signal"},
	)

	// OpportunitiesRefreshedTotal tracks in-place refreshes of the latest entry.
	OpportunitiesRefreshedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_arb_opportunities_refreshed_total",
		Help: "Total number of opportunities refreshed in place instead of re-added",
	})

	// OpportunitiesExpiredTotal tracks DETECTED to EXPIRED transitions by reason.
	OpportunitiesExpiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_arb_opportunities_expired_total",
			Help: "Total number of opportunities flipped to EXPIRED",
		},
		[]string{"reason"},
	)

	// SpreadPercentGauge tracks the last observed DEX-vs-protocol spread.
	SpreadPercentGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "djedops_arb_spread_percent",
		Help: "Last observed DEX vs protocol price spread in percent",
	})

	// NetProfitUSD tracks estimated net profit of detected opportunities.
	NetProfitUSD = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "djedops_arb_net_profit_usd",
		Help:    "Estimated net profit of detected opportunities in USD",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50, 100, 250},
	})

	// TickDurationSeconds tracks engine tick latency.
	TickDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "djedops_arb_tick_duration_seconds",
		Help:    "Duration of one arbitrage engine tick",
		Buckets: prometheus.DefBuckets,
	})

	// TickErrorsTotal tracks ticks aborted on upstream failure.
	TickErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_arb_tick_errors_total",
		Help: "Total number of engine ticks that failed to fetch prices",
	})
)
