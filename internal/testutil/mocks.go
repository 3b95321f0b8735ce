package testutil

import (
	"context"
	"sync"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
)

// MockPriceSource is a scripted arbitrage price source for testing.
type MockPriceSource struct {
	DexPrice      float64
	Liquidity     float64
	MintPrice     float64
	DexPriceErr   error
	MintPriceErr  error
	FetchDexCalls int
	mu            sync.Mutex
}

// NewMockPriceSource creates a mock price source with the given readings.
func NewMockPriceSource(dexPrice, mintPrice, liquidity float64) *MockPriceSource {
	return &MockPriceSource{
		DexPrice:  dexPrice,
		MintPrice: mintPrice,
		Liquidity: liquidity,
	}
}

// FetchDexPrice returns the scripted DEX price and liquidity.
func (m *MockPriceSource) FetchDexPrice(ctx context.Context) (float64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchDexCalls++
	if m.DexPriceErr != nil {
		return 0, 0, m.DexPriceErr
	}
	return m.DexPrice, m.Liquidity, nil
}

// FetchMintPrice returns the scripted protocol mint price.
func (m *MockPriceSource) FetchMintPrice(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MintPriceErr != nil {
		return 0, m.MintPriceErr
	}
	return m.MintPrice, nil
}

// SetDexPrice updates the scripted DEX price.
func (m *MockPriceSource) SetDexPrice(price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DexPrice = price
}

// MockStorage is an in-memory storage implementation for testing.
type MockStorage struct {
	Opportunities []*arbitrage.Opportunity
	Runs          []*workflow.RunResult
	StoreErr      error
	mu            sync.Mutex
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		Opportunities: make([]*arbitrage.Opportunity, 0),
		Runs:          make([]*workflow.RunResult, 0),
	}
}

// StoreOpportunity stores an opportunity in memory.
func (m *MockStorage) StoreOpportunity(ctx context.Context, opp *arbitrage.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StoreErr != nil {
		return m.StoreErr
	}

	// Store a copy to avoid race conditions
	oppCopy := *opp
	m.Opportunities = append(m.Opportunities, &oppCopy)
	return nil
}

// StoreWorkflowRun stores a run in memory.
func (m *MockStorage) StoreWorkflowRun(ctx context.Context, run *workflow.RunResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StoreErr != nil {
		return m.StoreErr
	}

	runCopy := *run
	m.Runs = append(m.Runs, &runCopy)
	return nil
}

// ListWorkflowRuns returns stored runs, newest first.
func (m *MockStorage) ListWorkflowRuns(ctx context.Context) ([]*workflow.RunResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*workflow.RunResult, 0, len(m.Runs))
	for i := len(m.Runs) - 1; i >= 0; i-- {
		result = append(result, m.Runs[i])
	}
	return result, nil
}

// ClearWorkflowRuns removes all stored runs.
func (m *MockStorage) ClearWorkflowRuns(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs = make([]*workflow.RunResult, 0)
	return nil
}

// Close is a no-op for mock storage.
func (m *MockStorage) Close() error {
	return nil
}

// GetOpportunities returns all stored opportunities.
func (m *MockStorage) GetOpportunities() []*arbitrage.Opportunity {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Return a copy to avoid race conditions
	result := make([]*arbitrage.Opportunity, len(m.Opportunities))
	copy(result, m.Opportunities)
	return result
}

// MockMetricsSource serves a fixed snapshot to the workflow executor.
type MockMetricsSource struct {
	Snapshot *workflow.Snapshot
	Calls    int
	mu       sync.Mutex
}

// NewMockMetricsSource creates a mock metrics source with the given snapshot.
func NewMockMetricsSource(snap *workflow.Snapshot) *MockMetricsSource {
	return &MockMetricsSource{Snapshot: snap}
}

// CollectSnapshot returns the fixed snapshot.
func (m *MockMetricsSource) CollectSnapshot(ctx context.Context) *workflow.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	return m.Snapshot
}
