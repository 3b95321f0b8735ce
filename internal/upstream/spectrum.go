package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// SpectrumClient fetches DEX market prices from the Spectrum Finance
// price-tracking API (the open-market side of the arbitrage spread).
type SpectrumClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSpectrumClient creates a new Spectrum price client.
func NewSpectrumClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SpectrumClient {
	return &SpectrumClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type spectrumMarket struct {
	BaseSymbol  string  `json:"baseSymbol"`
	QuoteSymbol string  `json:"quoteSymbol"`
	LastPrice   float64 `json:"lastPrice"`
}

// FetchDexPrice returns the open-market price of the stablecoin in USD.
// Spectrum quotes SigUSD in ERG, so the ERG/USD price is needed to convert.
func (c *SpectrumClient) FetchDexPrice(ctx context.Context, ergPriceUSD float64) (float64, error) {
	if ergPriceUSD <= 0 {
		return 0, fmt.Errorf("erg price must be positive, got %f", ergPriceUSD)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/price-tracking/markets", nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	RequestsTotal.WithLabelValues("spectrum").Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FailuresTotal.WithLabelValues("spectrum").Inc()
		return 0, fmt.Errorf("spectrum request: %w", err)
	}
	defer resp.Body.Close()

	RequestDurationSeconds.WithLabelValues("spectrum").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		FailuresTotal.WithLabelValues("spectrum").Inc()
		return 0, fmt.Errorf("spectrum status %d", resp.StatusCode)
	}

	var markets []spectrumMarket
	err = json.NewDecoder(resp.Body).Decode(&markets)
	if err != nil {
		FailuresTotal.WithLabelValues("spectrum").Inc()
		return 0, fmt.Errorf("decode spectrum response: %w", err)
	}

	for _, m := range markets {
		if strings.EqualFold(m.BaseSymbol, "ERG") && strings.EqualFold(m.QuoteSymbol, "SigUSD") {
			if m.LastPrice <= 0 {
				continue
			}
			// lastPrice is SigUSD per ERG; invert and convert to USD.
			return ergPriceUSD / m.LastPrice, nil
		}
	}

	return 0, fmt.Errorf("spectrum listed no ERG/SigUSD market")
}
