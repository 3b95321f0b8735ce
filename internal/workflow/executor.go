package workflow

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// RunStatus is the lifecycle state of one workflow run.
type RunStatus string

const (
	RunPending   RunStatus = "PENDING"
	RunBlocked   RunStatus = "BLOCKED"
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// NodeStatus is the outcome of a single node execution.
type NodeStatus string

const (
	NodeSuccess NodeStatus = "SUCCESS"
	NodeSkipped NodeStatus = "SKIPPED"
	NodeFailed  NodeStatus = "FAILED"
)

// PolicyGateNode names the synthetic record produced when a run is blocked.
const PolicyGateNode = "policy-gate"

// Record is produced exactly once per node per run.
type Record struct {
	NodeID    string                 `json:"nodeId"`
	Type      AppletType             `json:"appletType,omitempty"`
	Status    NodeStatus             `json:"status"`
	StartedAt time.Time              `json:"startedAt"`
	EndedAt   time.Time              `json:"endedAt"`
	Output    map[string]interface{} `json:"output"`
}

// RunResult is the final state of one workflow run.
type RunResult struct {
	ID            string    `json:"id"`
	Status        RunStatus `json:"status"`
	Records       []Record  `json:"records"`
	Snapshot      *Snapshot `json:"snapshot,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
	Duration      float64   `json:"durationSeconds"`
	CycleDetected bool      `json:"cycleDetected,omitempty"`
}

// MetricsSource collects the one shared snapshot for a run.
type MetricsSource interface {
	CollectSnapshot(ctx context.Context) *Snapshot
}

// ExecutorConfig holds executor configuration.
type ExecutorConfig struct {
	// Simulated per-node execution latency bounds.
	MinNodeDelay time.Duration
	MaxNodeDelay time.Duration
	Logger       *zap.Logger
}

// Executor walks workflow graphs depth-first against a single metrics
// snapshot. Nodes run sequentially so the snapshot stays valid for the whole
// run; a visited set keeps diamond (and accidentally cyclic) graphs to at
// most one execution per node.
type Executor struct {
	cfg    ExecutorConfig
	source MetricsSource
	logger *zap.Logger
	rng    *rand.Rand
}

// NewExecutor creates a new workflow executor.
func NewExecutor(cfg ExecutorConfig, source MetricsSource) *Executor {
	if cfg.MinNodeDelay <= 0 {
		cfg.MinNodeDelay = 100 * time.Millisecond
	}

	if cfg.MaxNodeDelay < cfg.MinNodeDelay {
		cfg.MaxNodeDelay = cfg.MinNodeDelay
	}

	return &Executor{
		cfg:    cfg,
		source: source,
		logger: cfg.Logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs the graph and returns the run result.
// Returns an error only for structurally invalid graphs; runtime outcomes
// (blocked, node failures) are expressed in the result.
func (e *Executor) Execute(ctx context.Context, graph *Graph) (*RunResult, error) {
	err := graph.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate graph: %w", err)
	}

	start := time.Now()
	result := &RunResult{
		ID:        uuid.New().String(),
		Status:    RunPending,
		Records:   make([]Record, 0, len(graph.Nodes)),
		StartedAt: start,
	}

	if graph.HasCycle() {
		result.CycleDetected = true
		CyclesDetectedTotal.Inc()
		e.logger.Warn("workflow-graph-has-cycle", zap.String("run-id", result.ID))
	}

	snapshot := e.source.CollectSnapshot(ctx)
	result.Snapshot = snapshot

	// Policy gate: a CRITICAL protocol blocks the whole run before any node.
	if snapshot != nil && snapshot.Status == types.StatusCritical {
		now := time.Now()
		result.Status = RunBlocked
		result.Records = append(result.Records, Record{
			NodeID:    PolicyGateNode,
			Status:    NodeFailed,
			StartedAt: now,
			EndedAt:   now,
			Output: map[string]interface{}{
				"reason": "protocol status CRITICAL, execution blocked by policy",
			},
		})
		result.Duration = time.Since(start).Seconds()
		RunsTotal.WithLabelValues(string(RunBlocked)).Inc()
		e.logger.Warn("workflow-run-blocked", zap.String("run-id", result.ID))
		return result, nil
	}

	result.Status = RunRunning
	visited := make(map[string]bool, len(graph.Nodes))

	for _, entry := range graph.EntryNodes() {
		e.walk(ctx, graph, entry.ID, snapshot, visited, result)
	}

	result.Status = RunCompleted
	for _, record := range result.Records {
		if record.Status == NodeFailed {
			result.Status = RunFailed
			break
		}
	}

	result.Duration = time.Since(start).Seconds()
	RunsTotal.WithLabelValues(string(result.Status)).Inc()
	RunDurationSeconds.Observe(result.Duration)

	e.logger.Info("workflow-run-finished",
		zap.String("run-id", result.ID),
		zap.String("status", string(result.Status)),
		zap.Int("records", len(result.Records)),
		zap.Float64("duration-seconds", result.Duration))

	return result, nil
}

// walk executes one node and recurses into its outgoing edges on success.
func (e *Executor) walk(ctx context.Context, graph *Graph, nodeID string, snapshot *Snapshot, visited map[string]bool, result *RunResult) {
	if visited[nodeID] {
		return
	}
	visited[nodeID] = true

	node, ok := graph.NodeByID(nodeID)
	if !ok {
		return
	}

	record := Record{
		NodeID:    node.ID,
		Type:      node.Type,
		StartedAt: time.Now(),
	}

	err := e.simulateLatency(ctx)
	if err != nil {
		record.Status = NodeFailed
		record.EndedAt = time.Now()
		record.Output = map[string]interface{}{"error": err.Error()}
		result.Records = append(result.Records, record)
		NodesExecutedTotal.WithLabelValues(string(NodeFailed)).Inc()
		return
	}

	if node.Condition.Evaluate(snapshot) {
		record.Status = NodeSuccess
		record.Output = syntheticOutput(node, snapshot)
	} else {
		record.Status = NodeSkipped
		record.Output = nil
	}

	record.EndedAt = time.Now()
	result.Records = append(result.Records, record)
	NodesExecutedTotal.WithLabelValues(string(record.Status)).Inc()

	if record.Status != NodeSuccess {
		return
	}

	for _, next := range graph.Outgoing(node.ID) {
		e.walk(ctx, graph, next, snapshot, visited, result)
	}
}

// simulateLatency sleeps for a bounded random delay, honoring cancellation.
func (e *Executor) simulateLatency(ctx context.Context) error {
	delay := e.cfg.MinNodeDelay
	if spread := e.cfg.MaxNodeDelay - e.cfg.MinNodeDelay; spread > 0 {
		delay += time.Duration(e.rng.Int63n(int64(spread)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
