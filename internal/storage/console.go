package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// consoleRunLimit bounds the in-memory run history in console mode.
const consoleRunLimit = 100

// ConsoleStorage pretty-prints opportunities to the console and keeps
// workflow runs in memory. The default storage mode.
type ConsoleStorage struct {
	logger *zap.Logger
	mu     sync.Mutex
	runs   []*workflow.RunResult
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreOpportunity pretty-prints an arbitrage opportunity.
func (c *ConsoleStorage) StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error {
	fmt.Println("\n" + "────────────────────────────────────────────────────────────")
	fmt.Printf("ARBITRAGE SIGNAL: %s\n", opp.Signal)
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("ID:         %s\n", opp.ID[:8])
	fmt.Printf("Time:       %s\n", opp.DetectedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("DEX:        $%.4f\n", opp.DexPrice)
	fmt.Printf("Protocol:   $%.4f\n", opp.ProtocolPrice)
	fmt.Printf("Spread:     %.2f%%\n", opp.SpreadPercent)
	fmt.Printf("Net Profit: $%.2f", opp.EstimatedNetProfit)
	if opp.Profitable {
		fmt.Printf("  (profitable)\n")
	} else {
		fmt.Printf("  (raw %.2f, not profitable)\n", opp.RawProfit)
	}
	fmt.Println("────────────────────────────────────────────────────────────")

	return nil
}

// StoreWorkflowRun appends the run to the bounded in-memory history.
func (c *ConsoleStorage) StoreWorkflowRun(ctx context.Context, run *workflow.RunResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs = append([]*workflow.RunResult{run}, c.runs...)
	if len(c.runs) > consoleRunLimit {
		c.runs = c.runs[:consoleRunLimit]
	}

	c.logger.Info("workflow-run-stored",
		zap.String("run-id", run.ID),
		zap.String("status", string(run.Status)))

	return nil
}

// ListWorkflowRuns returns the in-memory run history, newest first.
func (c *ConsoleStorage) ListWorkflowRuns(ctx context.Context) ([]*workflow.RunResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*workflow.RunResult, len(c.runs))
	copy(out, c.runs)

	return out, nil
}

// ClearWorkflowRuns drops the whole in-memory history.
func (c *ConsoleStorage) ClearWorkflowRuns(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs = nil
	c.logger.Info("workflow-history-cleared")

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
