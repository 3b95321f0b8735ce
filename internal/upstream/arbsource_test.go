package upstream

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func newArbSourceAgainst(t *testing.T, handler http.HandlerFunc) *ArbPriceSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zaptest.NewLogger(t)
	explorer := NewExplorerClient(server.URL, testBankAddr, 2*time.Second, logger)
	coinGecko := NewCoinGeckoClient(server.URL, 2*time.Second, logger)
	oracle := NewOracleSource(coinGecko, explorer, logger)
	state := NewStateSource(explorer, oracle, logger)
	spectrum := NewSpectrumClient(server.URL, 2*time.Second, logger)
	defi := NewDefiLlamaClient(server.URL, server.URL, 2*time.Second, logger)
	prices := NewCachedPrices(coinGecko, nil, time.Minute)

	return NewArbPriceSource(prices, spectrum, state, defi, "spectrum", nil, logger)
}

func TestArbPriceSource_FetchDexPrice(t *testing.T) {
	t.Parallel()

	source := newArbSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/simple/price":
			_, _ = w.Write([]byte(`{"ergo": {"usd": 1.173}}`))
		case "/price-tracking/markets":
			_, _ = w.Write([]byte(`[{"baseSymbol": "ERG", "quoteSymbol": "SigUSD", "lastPrice": 1.15}]`))
		case "/tvl/spectrum":
			_, _ = w.Write([]byte(`4500000`))
		default:
			http.NotFound(w, r)
		}
	})

	price, liquidity, err := source.FetchDexPrice(context.Background())
	if err != nil {
		t.Fatalf("fetch dex price: %v", err)
	}

	if math.Abs(price-1.02) > 1e-6 {
		t.Errorf("price = %v, want 1.02", price)
	}
	if liquidity != 4500000 {
		t.Errorf("liquidity = %v, want live TVL 4500000", liquidity)
	}
}

func TestArbPriceSource_FallsBackForErgPriceAndLiquidity(t *testing.T) {
	t.Parallel()

	source := newArbSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/price-tracking/markets":
			// Quote chosen so the fallback ERG price lands on a clean number.
			_, _ = w.Write([]byte(`[{"baseSymbol": "ERG", "quoteSymbol": "SigUSD", "lastPrice": 1.15}]`))
		default:
			// CoinGecko and DefiLlama both down.
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	price, liquidity, err := source.FetchDexPrice(context.Background())
	if err != nil {
		t.Fatalf("fetch dex price: %v", err)
	}

	if math.Abs(price-FallbackErgPriceUSD/1.15) > 1e-6 {
		t.Errorf("price = %v, want conversion via the fallback ERG price", price)
	}
	if liquidity != FallbackDexLiquidity {
		t.Errorf("liquidity = %v, want fallback %v", liquidity, FallbackDexLiquidity)
	}
}

func TestArbPriceSource_DexFailureIsAnError(t *testing.T) {
	t.Parallel()

	source := newArbSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := source.FetchDexPrice(context.Background())
	if err == nil {
		t.Fatal("expected error when the DEX quote is unavailable")
	}
}

func TestArbPriceSource_FetchMintPrice(t *testing.T) {
	t.Parallel()

	source := newArbSourceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	price, err := source.FetchMintPrice(context.Background())
	if err != nil {
		t.Fatalf("fetch mint price: %v", err)
	}
	if price != FallbackMintPrice {
		t.Errorf("mint price = %v, want the protocol approximation %v", price, FallbackMintPrice)
	}
}
