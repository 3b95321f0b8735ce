package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// ParaswapClient fetches best-route swap quotes from the Paraswap aggregator.
type ParaswapClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewParaswapClient creates a new Paraswap client.
func NewParaswapClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ParaswapClient {
	return &ParaswapClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type paraswapPriceRoute struct {
	PriceRoute struct {
		SrcAmount  string `json:"srcAmount"`
		DestAmount string `json:"destAmount"`
		GasCostUSD string `json:"gasCostUSD"`
		BestRoute  []struct {
			Swaps []struct {
				SwapExchanges []struct {
					Exchange string  `json:"exchange"`
					Percent  float64 `json:"percent"`
				} `json:"swapExchanges"`
			} `json:"swaps"`
		} `json:"bestRoute"`
	} `json:"priceRoute"`
}

// FetchRoute fetches a best-route quote.
// On upstream failure a synthetic single-hop fallback route is returned with
// Source="fallback" instead of an error.
func (c *ParaswapClient) FetchRoute(ctx context.Context, srcToken, destToken, amount string, chainID int) *types.SwapRoute {
	route, err := c.fetchLive(ctx, srcToken, destToken, amount, chainID)
	if err != nil {
		c.logger.Warn("paraswap-route-fallback",
			zap.String("src", srcToken),
			zap.String("dest", destToken),
			zap.Error(err))
		FallbacksTotal.WithLabelValues("paraswap").Inc()
		return fallbackRoute(srcToken, destToken, amount, chainID)
	}

	return route
}

func (c *ParaswapClient) fetchLive(ctx context.Context, srcToken, destToken, amount string, chainID int) (*types.SwapRoute, error) {
	query := url.Values{}
	query.Set("srcToken", srcToken)
	query.Set("destToken", destToken)
	query.Set("amount", amount)
	query.Set("network", strconv.Itoa(chainID))
	query.Set("side", "SELL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prices?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	RequestsTotal.WithLabelValues("paraswap").Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FailuresTotal.WithLabelValues("paraswap").Inc()
		return nil, fmt.Errorf("paraswap request: %w", err)
	}
	defer resp.Body.Close()

	RequestDurationSeconds.WithLabelValues("paraswap").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		FailuresTotal.WithLabelValues("paraswap").Inc()
		return nil, fmt.Errorf("paraswap status %d", resp.StatusCode)
	}

	var payload paraswapPriceRoute
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		FailuresTotal.WithLabelValues("paraswap").Inc()
		return nil, fmt.Errorf("decode paraswap response: %w", err)
	}

	gasCostUSD, _ := strconv.ParseFloat(payload.PriceRoute.GasCostUSD, 64)

	hops := make([]types.SwapHop, 0, 4)
	for _, leg := range payload.PriceRoute.BestRoute {
		for _, swap := range leg.Swaps {
			for _, ex := range swap.SwapExchanges {
				hops = append(hops, types.SwapHop{
					Exchange: ex.Exchange,
					Percent:  ex.Percent,
				})
			}
		}
	}

	return &types.SwapRoute{
		SrcToken:    srcToken,
		DestToken:   destToken,
		SrcAmount:   payload.PriceRoute.SrcAmount,
		DestAmount:  payload.PriceRoute.DestAmount,
		PriceImpact: priceImpact(payload.PriceRoute.SrcAmount, payload.PriceRoute.DestAmount),
		GasCostUSD:  gasCostUSD,
		ChainID:     chainID,
		Hops:        hops,
		QuotedAt:    time.Now(),
		Source:      "paraswap",
	}, nil
}

// priceImpact estimates impact as deviation of dest/src from parity.
// A rough display number, not an execution guarantee.
func priceImpact(srcAmount, destAmount string) float64 {
	src, err := strconv.ParseFloat(srcAmount, 64)
	if err != nil || src <= 0 {
		return 0
	}

	dest, err := strconv.ParseFloat(destAmount, 64)
	if err != nil || dest <= 0 {
		return 0
	}

	impact := (1 - dest/src) * 100
	if impact < 0 {
		return 0
	}

	return impact
}

func fallbackRoute(srcToken, destToken, amount string, chainID int) *types.SwapRoute {
	return &types.SwapRoute{
		SrcToken:    srcToken,
		DestToken:   destToken,
		SrcAmount:   amount,
		DestAmount:  amount,
		PriceImpact: 0.15,
		GasCostUSD:  1.50,
		ChainID:     chainID,
		Hops: []types.SwapHop{
			{Exchange: "UniswapV3", Percent: 100},
		},
		QuotedAt: time.Now(),
		Source:   "fallback",
	}
}
