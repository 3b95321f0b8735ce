package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/testutil"
	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
	"github.com/Shresth-Senwal/djedops2nd/pkg/healthprobe"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := zap.NewNop()
	snap := testutil.CreateTestSnapshot(450, 1.50, types.StatusOptimal)
	executor := workflow.NewExecutor(workflow.ExecutorConfig{
		MinNodeDelay: time.Millisecond,
		MaxNodeDelay: 2 * time.Millisecond,
		Logger:       logger,
	}, testutil.NewMockMetricsSource(snap))

	return New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: healthprobe.New(),
		Gas:           upstream.NewGasClient("http://127.0.0.1:1", logger),
		Tracker:       arbitrage.NewTracker(arbitrage.TrackerConfig{}),
		Executor:      executor,
		Storage:       testutil.NewMockStorage(),
	})
}

func TestNew(t *testing.T) {
	logger := zap.NewNop()
	healthChecker := healthprobe.New()

	cfg := &Config{
		Port:          "8080",
		Logger:        logger,
		HealthChecker: healthChecker,
	}

	server := New(cfg)
	if server == nil {
		t.Fatal("New() returned nil server")
	}
	if server.server == nil {
		t.Error("New() server.server is nil")
	}
	if server.logger != logger {
		t.Error("New() logger not set correctly")
	}
	if server.healthChecker != healthChecker {
		t.Error("New() healthChecker not set correctly")
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		setReady       bool
		expectedStatus int
	}{
		{
			name:           "ready_when_set",
			setReady:       true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not_ready_initially",
			setReady:       false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := healthprobe.New()
			if tt.setReady {
				hc.SetReady(true)
			}

			server := New(&Config{
				Port:          "0",
				Logger:        zap.NewNop(),
				HealthChecker: hc,
			})

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Ready endpoint status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Metrics endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics response body: %v", err)
	}
	if len(body) == 0 {
		t.Error("Metrics endpoint returned empty body")
	}
}

func TestDjedHandler_ParamValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{
			name:    "missing_endpoint",
			target:  "/api/djed",
			wantErr: "missing required query parameter: endpoint",
		},
		{
			name:    "unknown_endpoint",
			target:  "/api/djed?endpoint=bogus",
			wantErr: "unknown endpoint: bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if errResp.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", errResp.Error, tt.wantErr)
			}
		})
	}
}

func TestDjedHandler_BlocksLimitValidation(t *testing.T) {
	server := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/djed?endpoint=blocks&limit="+limit, nil)
		w := httptest.NewRecorder()

		server.server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%q status = %d, want %d", limit, w.Code, http.StatusBadRequest)
		}
	}
}

func TestGasEndpoint(t *testing.T) {
	server := newTestServer(t)

	t.Run("ergo", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/gas?chain=ergo", nil)
		w := httptest.NewRecorder()

		server.server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var prices types.GasPrices
		if err := json.NewDecoder(w.Body).Decode(&prices); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if prices.Chain != "ergo" {
			t.Errorf("chain = %q, want ergo", prices.Chain)
		}
		if prices.Source != "protocol" {
			t.Errorf("source = %q, want protocol", prices.Source)
		}
	})

	t.Run("invalid_chain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/gas?chain=solana", nil)
		w := httptest.NewRecorder()

		server.server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestDefiEndpoint_ParamValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "missing_type", target: "/api/defi"},
		{name: "unknown_type", target: "/api/defi?type=volumes"},
		{name: "tvl_missing_protocol", target: "/api/defi?type=protocol-tvl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestPricesEndpoint_RequiresSymbols(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRoutingEndpoint_ParamValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "missing_all", target: "/api/routing"},
		{name: "missing_amount", target: "/api/routing?srcToken=ETH&destToken=DAI"},
		{name: "bad_chain_id", target: "/api/routing?srcToken=ETH&destToken=DAI&amount=100&chainId=zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestArbitrageEndpoint(t *testing.T) {
	logger := zap.NewNop()
	tracker := arbitrage.NewTracker(arbitrage.TrackerConfig{})
	tracker.Observe(1.02, 1.00, 50000, "spectrum", time.Now())

	server := New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: healthprobe.New(),
		Tracker:       tracker,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/arbitrage", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Opportunities[0].Signal != arbitrage.SignalMint {
		t.Errorf("signal = %s, want MINT", resp.Opportunities[0].Signal)
	}
}

func TestWorkflowExecuteEndpoint(t *testing.T) {
	server := newTestServer(t)

	graph := testutil.CreateTestGraph()
	body, err := json.Marshal(graph)
	if err != nil {
		t.Fatalf("marshal graph: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/workflows/execute", strings.NewReader(string(body)))
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result workflow.RunResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if result.Status != workflow.RunCompleted {
		t.Errorf("run status = %s, want COMPLETED", result.Status)
	}
	if len(result.Records) != len(graph.Nodes) {
		t.Errorf("records = %d, want %d", len(result.Records), len(graph.Nodes))
	}
}

func TestWorkflowExecuteEndpoint_BadRequests(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed_json", body: `{not json`},
		{name: "empty_graph", body: `{"nodes":[],"edges":[]}`},
		{name: "unknown_edge_node", body: `{"nodes":[{"id":"a","appletType":"notifier"}],"edges":[{"from":"a","to":"ghost"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/workflows/execute", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestWorkflowExecuteEndpoint_StoreFailureIsBestEffort(t *testing.T) {
	logger := zap.NewNop()
	store := testutil.NewMockStorage()
	store.StoreErr = errors.New("database down")

	snap := testutil.CreateTestSnapshot(450, 1.50, types.StatusOptimal)
	executor := workflow.NewExecutor(workflow.ExecutorConfig{
		MinNodeDelay: time.Millisecond,
		MaxNodeDelay: 2 * time.Millisecond,
		Logger:       logger,
	}, testutil.NewMockMetricsSource(snap))

	server := New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: healthprobe.New(),
		Executor:      executor,
		Storage:       store,
	})

	body, _ := json.Marshal(testutil.CreateTestGraph())
	req := httptest.NewRequest(http.MethodPost, "/api/workflows/execute", strings.NewReader(string(body)))
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d despite storage failure", w.Code, http.StatusOK)
	}
}

func TestWorkflowHistoryEndpoints(t *testing.T) {
	logger := zap.NewNop()
	store := testutil.NewMockStorage()
	_ = store.StoreWorkflowRun(context.Background(), testutil.CreateTestRunResult("run-1", 2))

	server := New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: healthprobe.New(),
		Storage:       store,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/workflows/history", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp RunHistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Count != 1 || len(resp.Runs) != 1 {
		t.Fatalf("count = %d, runs = %d, want 1", resp.Count, len(resp.Runs))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/workflows/history", nil)
	w = httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want %d", w.Code, http.StatusOK)
	}

	runs, _ := store.ListWorkflowRuns(context.Background())
	if len(runs) != 0 {
		t.Errorf("expected history cleared, got %d runs", len(runs))
	}
}
