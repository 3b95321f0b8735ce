package upstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Shresth-Senwal/djedops2nd/pkg/cache"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

var (
	// PriceCacheHitsTotal tracks price cache hits.
	PriceCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_price_cache_hits_total",
		Help: "Total number of price lookups served from cache",
	})

	// PriceCacheMissesTotal tracks price cache misses.
	PriceCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_price_cache_misses_total",
		Help: "Total number of price lookups that hit the upstream API",
	})
)

// CachedPrices wraps CoinGeckoClient with a short-TTL cache so dashboard
// polling does not burn the public API quota.
type CachedPrices struct {
	client *CoinGeckoClient
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedPrices creates a new cached price client.
func NewCachedPrices(client *CoinGeckoClient, priceCache cache.Cache, ttl time.Duration) *CachedPrices {
	return &CachedPrices{
		client: client,
		cache:  priceCache,
		ttl:    ttl,
	}
}

// FetchPrices fetches quotes for the given symbols, serving from cache where
// possible and batching the remainder into one upstream call.
func (c *CachedPrices) FetchPrices(ctx context.Context, symbols []string) (map[string]*types.PriceQuote, error) {
	quotes := make(map[string]*types.PriceQuote, len(symbols))
	missing := make([]string, 0, len(symbols))

	for _, sym := range symbols {
		sym = strings.ToUpper(sym)

		if c.cache != nil {
			if cached, ok := c.cache.Get(priceKey(sym)); ok {
				if quote, ok := cached.(*types.PriceQuote); ok {
					PriceCacheHitsTotal.Inc()
					quotes[sym] = quote
					continue
				}
			}
			PriceCacheMissesTotal.Inc()
		}

		missing = append(missing, sym)
	}

	if len(missing) == 0 {
		return quotes, nil
	}

	fetched, err := c.client.FetchPrices(ctx, missing)
	if err != nil {
		return nil, err
	}

	for sym, quote := range fetched {
		quotes[sym] = quote
		if c.cache != nil {
			c.cache.Set(priceKey(sym), quote, c.ttl)
		}
	}

	return quotes, nil
}

func priceKey(symbol string) string {
	return fmt.Sprintf("price:%s", symbol)
}
