// Package upstream wraps the public data sources the dashboard proxies:
// Ergo Explorer, CoinGecko, Spectrum, DefiLlama, Paraswap and chain gas
// endpoints. Clients attach per-call timeouts and substitute static fallback
// values where the proxy contract allows it.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// Symbol to CoinGecko coin-id mapping for the symbols the dashboard requests.
var coinGeckoIDs = map[string]string{
	"ERG":    "ergo",
	"BTC":    "bitcoin",
	"ETH":    "ethereum",
	"ADA":    "cardano",
	"SIGUSD": "sigusd",
}

// CoinGeckoClient fetches spot prices from the CoinGecko simple-price API.
// The public tier is rate limited, so calls go through a token-bucket limiter.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client.
func NewCoinGeckoClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// Public API allows roughly 30 calls/minute; stay under it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 5),
		logger:  logger,
	}
}

type coinGeckoEntry struct {
	USD          float64 `json:"usd"`
	USDChange24h float64 `json:"usd_24h_change"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USDVolume24h float64 `json:"usd_24h_vol"`
}

// FetchPrices fetches quotes for the given ticker symbols.
// Unknown symbols are silently omitted from the result. Returns an error only
// on total upstream failure; there is no fallback for multi-symbol prices.
func (c *CoinGeckoClient) FetchPrices(ctx context.Context, symbols []string) (map[string]*types.PriceQuote, error) {
	ids := make([]string, 0, len(symbols))
	idToSymbol := make(map[string]string, len(symbols))

	for _, sym := range symbols {
		id, ok := coinGeckoIDs[strings.ToUpper(sym)]
		if !ok {
			c.logger.Debug("unknown-price-symbol", zap.String("symbol", sym))
			continue
		}
		ids = append(ids, id)
		idToSymbol[id] = strings.ToUpper(sym)
	}

	if len(ids) == 0 {
		return map[string]*types.PriceQuote{}, nil
	}

	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	query.Set("include_market_cap", "true")
	query.Set("include_24hr_vol", "true")

	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	RequestsTotal.WithLabelValues("coingecko").Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FailuresTotal.WithLabelValues("coingecko").Inc()
		return nil, fmt.Errorf("coingecko request: %w", err)
	}
	defer resp.Body.Close()

	RequestDurationSeconds.WithLabelValues("coingecko").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		FailuresTotal.WithLabelValues("coingecko").Inc()
		return nil, fmt.Errorf("coingecko status %d", resp.StatusCode)
	}

	var payload map[string]coinGeckoEntry
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		FailuresTotal.WithLabelValues("coingecko").Inc()
		return nil, fmt.Errorf("decode coingecko response: %w", err)
	}

	now := time.Now()
	quotes := make(map[string]*types.PriceQuote, len(payload))

	for id, entry := range payload {
		symbol, ok := idToSymbol[id]
		if !ok {
			continue
		}
		quotes[symbol] = &types.PriceQuote{
			Symbol:     symbol,
			Price:      entry.USD,
			Change24h:  entry.USDChange24h,
			MarketCap:  entry.USDMarketCap,
			Volume24h:  entry.USDVolume24h,
			ObservedAt: now,
		}
	}

	return quotes, nil
}

// FetchErgPrice fetches the ERG/USD spot price.
func (c *CoinGeckoClient) FetchErgPrice(ctx context.Context) (float64, error) {
	quotes, err := c.FetchPrices(ctx, []string{"ERG"})
	if err != nil {
		return 0, err
	}

	quote, ok := quotes["ERG"]
	if !ok || quote.Price <= 0 {
		return 0, fmt.Errorf("coingecko returned no ERG price")
	}

	return quote.Price, nil
}
