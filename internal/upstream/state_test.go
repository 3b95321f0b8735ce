package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

func newStateSourceAgainst(t *testing.T, handler http.HandlerFunc) *StateSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zaptest.NewLogger(t)
	explorer := NewExplorerClient(server.URL, testBankAddr, 2*time.Second, logger)
	coinGecko := NewCoinGeckoClient(server.URL, 2*time.Second, logger)
	oracle := NewOracleSource(coinGecko, explorer, logger)

	return NewStateSource(explorer, oracle, logger)
}

func TestStateSource_FetchState_Live(t *testing.T) {
	t.Parallel()

	source := newStateSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/simple/price":
			_, _ = w.Write([]byte(`{"ergo": {"usd": 2.0}}`))
		case strings.HasSuffix(r.URL.Path, "/balance/confirmed"):
			_, _ = w.Write([]byte(`{
				"nanoErgs": 1000000000000000,
				"tokens": [{"name": "SigUSD", "amount": 50000000}, {"name": "SigRSV", "amount": 55000000}]
			}`))
		default:
			http.NotFound(w, r)
		}
	})

	state := source.FetchState(context.Background())

	if state.Source != "live" {
		t.Fatalf("source = %q, want live", state.Source)
	}
	// 1,000,000 ERG at $2 against 500,000 SigUSD is a 400% ratio.
	if state.ReserveRatio != 400 {
		t.Errorf("reserve ratio = %v, want 400", state.ReserveRatio)
	}
	if state.Status != types.StatusOptimal {
		t.Errorf("status = %s, want OPTIMAL at the 400%% boundary", state.Status)
	}
	if state.ReservesUSD != 2000000 {
		t.Errorf("reserves USD = %v, want 2000000", state.ReservesUSD)
	}
}

func TestStateSource_FetchState_FallsBackOnUpstreamFailure(t *testing.T) {
	t.Parallel()

	source := newStateSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	state := source.FetchState(context.Background())

	if state.Source != "fallback" {
		t.Fatalf("source = %q, want fallback", state.Source)
	}
	if state.StablecoinSupply != FallbackDjedSupply {
		t.Errorf("supply = %v, want fallback constant %v", state.StablecoinSupply, FallbackDjedSupply)
	}
	if state.Status != types.StatusOptimal {
		t.Errorf("fallback snapshot status = %s, want OPTIMAL", state.Status)
	}
}

func TestStateSource_BreakerStopsHammeringFailingUpstreams(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	source := newStateSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Each failed fetch costs two upstream calls (CoinGecko then the oracle
	// pool). After three failures the breaker opens.
	for i := 0; i < 3; i++ {
		_ = source.FetchState(context.Background())
	}
	afterThreshold := hits.Load()

	for i := 0; i < 5; i++ {
		state := source.FetchState(context.Background())
		if state.Source != "fallback" {
			t.Fatalf("source = %q, want fallback while open", state.Source)
		}
	}

	if hits.Load() != afterThreshold {
		t.Errorf("open breaker still made %d upstream calls", hits.Load()-afterThreshold)
	}
}
