package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks workflow runs by terminal status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_workflow_runs_total",
			Help: "Total number of workflow runs by terminal status",
		},
		[]string{"status"},
	)

	// NodesExecutedTotal tracks node records by status.
	NodesExecutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "djedops_workflow_nodes_total",
			Help: "Total number of workflow node executions by status",
		},
		[]string{"status"},
	)

	// RunDurationSeconds tracks wall-clock run duration.
	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "djedops_workflow_run_duration_seconds",
		Help:    "Wall-clock duration of workflow runs",
		Buckets: prometheus.DefBuckets,
	})

	// CyclesDetectedTotal counts runs whose graph contained a cycle.
	CyclesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_workflow_cycles_detected_total",
		Help: "Total number of runs executed over graphs containing a cycle",
	})
)
