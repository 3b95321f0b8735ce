package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// SnapshotCollector gathers the single metrics snapshot shared by every node
// of a workflow run. The three reads are independent sources, so they are
// issued concurrently and merged; a failed read leaves its field nil rather
// than failing the snapshot.
type SnapshotCollector struct {
	state    *StateSource
	oracle   *OracleSource
	explorer *ExplorerClient
	logger   *zap.Logger
}

// NewSnapshotCollector creates a new snapshot collector.
func NewSnapshotCollector(state *StateSource, oracle *OracleSource, explorer *ExplorerClient, logger *zap.Logger) *SnapshotCollector {
	return &SnapshotCollector{
		state:    state,
		oracle:   oracle,
		explorer: explorer,
		logger:   logger,
	}
}

// CollectSnapshot implements workflow.MetricsSource.
func (c *SnapshotCollector) CollectSnapshot(ctx context.Context) *workflow.Snapshot {
	snap := &workflow.Snapshot{CollectedAt: time.Now()}

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(3)

	go func() {
		defer wg.Done()
		state := c.state.FetchState(ctx)
		mu.Lock()
		defer mu.Unlock()
		snap.Status = state.Status
		ratio := state.ReserveRatio
		snap.ReserveRatio = &ratio
	}()

	go func() {
		defer wg.Done()
		price, err := c.oracle.FetchPrice(ctx)
		if err != nil {
			c.logger.Warn("snapshot-oracle-price-missing", zap.Error(err))
			return
		}
		mu.Lock()
		defer mu.Unlock()
		snap.OraclePrice = &price.Price
	}()

	go func() {
		defer wg.Done()
		info, err := c.explorer.FetchNetworkInfo(ctx)
		if err != nil {
			c.logger.Warn("snapshot-tx-count-missing", zap.Error(err))
			return
		}
		txCount := gjson.GetBytes(info, "transactionsCount")
		if !txCount.Exists() {
			return
		}
		count := txCount.Int()
		mu.Lock()
		defer mu.Unlock()
		snap.TxCount = &count
	}()

	wg.Wait()

	return snap
}
