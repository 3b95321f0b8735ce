package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefiLlamaClient fetches protocol TVL and yield data from DefiLlama.
type DefiLlamaClient struct {
	baseURL    string
	yieldsURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDefiLlamaClient creates a new DefiLlama client.
func NewDefiLlamaClient(baseURL, yieldsURL string, timeout time.Duration, logger *zap.Logger) *DefiLlamaClient {
	return &DefiLlamaClient{
		baseURL:   baseURL,
		yieldsURL: yieldsURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ProtocolSummary is a trimmed DefiLlama protocol listing entry.
type ProtocolSummary struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Chain    string  `json:"chain"`
	Category string  `json:"category"`
	TVL      float64 `json:"tvl"`
	Change1d float64 `json:"change_1d"`
	Change7d float64 `json:"change_7d"`
}

// YieldPool is a trimmed DefiLlama yields entry.
type YieldPool struct {
	Pool    string  `json:"pool"`
	Project string  `json:"project"`
	Chain   string  `json:"chain"`
	Symbol  string  `json:"symbol"`
	TVLUSD  float64 `json:"tvlUsd"`
	APY     float64 `json:"apy"`
}

func (c *DefiLlamaClient) get(ctx context.Context, rawURL, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	RequestsTotal.WithLabelValues(source).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("defillama request: %w", err)
	}
	defer resp.Body.Close()

	RequestDurationSeconds.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("defillama status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("read defillama response: %w", err)
	}

	return body, nil
}

// FetchProtocols lists DeFi protocols, optionally filtered by chain.
// The upstream document carries hundreds of fields per protocol; only the
// handful the dashboard renders are extracted.
func (c *DefiLlamaClient) FetchProtocols(ctx context.Context, chain string) ([]ProtocolSummary, error) {
	body, err := c.get(ctx, c.baseURL+"/protocols", "defillama_protocols")
	if err != nil {
		return nil, err
	}

	protocols := make([]ProtocolSummary, 0, 64)

	gjson.ParseBytes(body).ForEach(func(_, p gjson.Result) bool {
		if chain != "" && !strings.EqualFold(p.Get("chain").String(), chain) {
			return true
		}
		protocols = append(protocols, ProtocolSummary{
			Name:     p.Get("name").String(),
			Slug:     p.Get("slug").String(),
			Chain:    p.Get("chain").String(),
			Category: p.Get("category").String(),
			TVL:      p.Get("tvl").Float(),
			Change1d: p.Get("change_1d").Float(),
			Change7d: p.Get("change_7d").Float(),
		})
		return true
	})

	return protocols, nil
}

// FetchProtocolTVL returns the current TVL in USD for a single protocol slug.
func (c *DefiLlamaClient) FetchProtocolTVL(ctx context.Context, protocol string) (float64, error) {
	if protocol == "" {
		return 0, fmt.Errorf("protocol slug is required")
	}

	body, err := c.get(ctx, c.baseURL+"/tvl/"+url.PathEscape(protocol), "defillama_tvl")
	if err != nil {
		return 0, err
	}

	// The /tvl endpoint returns a bare number.
	result := gjson.ParseBytes(body)
	if result.Type != gjson.Number {
		return 0, fmt.Errorf("unexpected tvl payload for %s", protocol)
	}

	return result.Float(), nil
}

// FetchYields lists yield pools, optionally filtered by chain.
func (c *DefiLlamaClient) FetchYields(ctx context.Context, chain string) ([]YieldPool, error) {
	body, err := c.get(ctx, c.yieldsURL+"/pools", "defillama_yields")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []YieldPool `json:"data"`
	}
	err = json.Unmarshal(body, &payload)
	if err != nil {
		return nil, fmt.Errorf("decode yields response: %w", err)
	}

	if chain == "" {
		return payload.Data, nil
	}

	pools := make([]YieldPool, 0, len(payload.Data))
	for _, pool := range payload.Data {
		if strings.EqualFold(pool.Chain, chain) {
			pools = append(pools, pool)
		}
	}

	return pools, nil
}
