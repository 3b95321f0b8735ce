package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/pkg/cache"
)

// FallbackDexLiquidity is assumed when the TVL source is unreachable.
const FallbackDexLiquidity = 50_000.0

const liquidityCacheKey = "liquidity:spectrum"

// ArbPriceSource feeds the arbitrage engine: DEX price from Spectrum (with
// the ERG/USD leg from the cached price client), mint price from the protocol
// approximation, liquidity from the DEX's DefiLlama TVL.
type ArbPriceSource struct {
	prices       *CachedPrices
	spectrum     *SpectrumClient
	state        *StateSource
	defi         *DefiLlamaClient
	dexSlug      string
	cache        cache.Cache
	liquidityTTL time.Duration
	logger       *zap.Logger
}

// NewArbPriceSource creates a new arbitrage price source.
func NewArbPriceSource(
	prices *CachedPrices,
	spectrum *SpectrumClient,
	state *StateSource,
	defi *DefiLlamaClient,
	dexSlug string,
	sourceCache cache.Cache,
	logger *zap.Logger,
) *ArbPriceSource {
	return &ArbPriceSource{
		prices:       prices,
		spectrum:     spectrum,
		state:        state,
		defi:         defi,
		dexSlug:      dexSlug,
		cache:        sourceCache,
		liquidityTTL: 5 * time.Minute,
		logger:       logger,
	}
}

// FetchDexPrice returns the open-market stablecoin price and pool liquidity.
func (s *ArbPriceSource) FetchDexPrice(ctx context.Context) (float64, float64, error) {
	ergPrice := FallbackErgPriceUSD

	quotes, err := s.prices.FetchPrices(ctx, []string{"ERG"})
	if err != nil {
		s.logger.Warn("erg-price-fallback", zap.Error(err))
		FallbacksTotal.WithLabelValues("erg_price").Inc()
	} else if quote, ok := quotes["ERG"]; ok && quote.Price > 0 {
		ergPrice = quote.Price
	}

	dexPrice, err := s.spectrum.FetchDexPrice(ctx, ergPrice)
	if err != nil {
		return 0, 0, err
	}

	return dexPrice, s.fetchLiquidity(ctx), nil
}

// FetchMintPrice returns the protocol mint price.
func (s *ArbPriceSource) FetchMintPrice(ctx context.Context) (float64, error) {
	return s.state.FetchProtocolPrice(time.Now()).MintPrice, nil
}

func (s *ArbPriceSource) fetchLiquidity(ctx context.Context) float64 {
	if s.cache != nil {
		if cached, ok := s.cache.Get(liquidityCacheKey); ok {
			if tvl, ok := cached.(float64); ok {
				return tvl
			}
		}
	}

	tvl, err := s.defi.FetchProtocolTVL(ctx, s.dexSlug)
	if err != nil || tvl <= 0 {
		if err != nil {
			s.logger.Debug("dex-liquidity-fallback", zap.Error(err))
		}
		FallbacksTotal.WithLabelValues("dex_liquidity").Inc()
		return FallbackDexLiquidity
	}

	if s.cache != nil {
		s.cache.Set(liquidityCacheKey, tvl, s.liquidityTTL)
	}

	return tvl
}
