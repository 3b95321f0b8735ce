package testutil

import (
	"time"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// CreateTestOpportunity creates a detected MINT opportunity with a 2% spread.
func CreateTestOpportunity(id string) *arbitrage.Opportunity {
	return &arbitrage.Opportunity{
		ID:                 id,
		DetectedAt:         time.Now(),
		Signal:             arbitrage.SignalMint,
		DexPrice:           1.02,
		ProtocolPrice:      1.00,
		Spread:             0.02,
		SpreadPercent:      2.0,
		EstimatedNetProfit: 9.61,
		RawProfit:          9.61,
		Profitable:         true,
		Liquidity:          50000,
		Status:             arbitrage.StatusDetected,
		Source:             "spectrum",
	}
}

// CreateTestSnapshot creates a healthy metrics snapshot.
func CreateTestSnapshot(reserveRatio, oraclePrice float64, status types.Status) *workflow.Snapshot {
	txCount := int64(1200)
	return &workflow.Snapshot{
		ReserveRatio: &reserveRatio,
		OraclePrice:  &oraclePrice,
		TxCount:      &txCount,
		Status:       status,
		CollectedAt:  time.Now(),
	}
}

// CreateTestGraph creates a two-node monitor-then-notify graph.
func CreateTestGraph() *workflow.Graph {
	return &workflow.Graph{
		Nodes: []workflow.Node{
			{ID: "watch", Type: workflow.AppletPriceMonitor},
			{ID: "notify", Type: workflow.AppletNotifier},
		},
		Edges: []workflow.Edge{
			{From: "watch", To: "notify"},
		},
	}
}

// CreateTestRunResult creates a completed run result for the given graph size.
func CreateTestRunResult(id string, nodes int) *workflow.RunResult {
	now := time.Now()
	records := make([]workflow.Record, 0, nodes)
	for i := 0; i < nodes; i++ {
		records = append(records, workflow.Record{
			NodeID:    "node",
			Type:      workflow.AppletPriceMonitor,
			Status:    workflow.NodeSuccess,
			StartedAt: now,
			EndedAt:   now,
		})
	}

	return &workflow.RunResult{
		ID:        id,
		Status:    workflow.RunCompleted,
		Records:   records,
		StartedAt: now,
		Duration:  0.2,
	}
}
