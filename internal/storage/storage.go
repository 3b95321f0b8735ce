package storage

import (
	"context"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// Storage persists detected opportunities and workflow run history.
type Storage interface {
	// StoreOpportunity stores a newly detected arbitrage opportunity.
	StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error

	// StoreWorkflowRun stores a finished workflow run.
	StoreWorkflowRun(ctx context.Context, run *workflow.RunResult) error

	// ListWorkflowRuns returns stored runs, newest first.
	ListWorkflowRuns(ctx context.Context) ([]*workflow.RunResult, error)

	// ClearWorkflowRuns removes the whole run history.
	ClearWorkflowRuns(ctx context.Context) error

	// Close closes the storage connection.
	Close() error
}
