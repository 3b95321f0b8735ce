package upstream

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// OraclePrice is an ERG/USD price with its originating source.
type OraclePrice struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// OracleSource resolves the ERG/USD oracle price: CoinGecko first, then the
// on-chain oracle pool via the explorer. Exhausting both sources is a hard
// error (the one proxy endpoint with no static fallback besides /api/prices).
type OracleSource struct {
	coinGecko *CoinGeckoClient
	explorer  *ExplorerClient
	logger    *zap.Logger
}

// NewOracleSource creates a new oracle price source.
func NewOracleSource(coinGecko *CoinGeckoClient, explorer *ExplorerClient, logger *zap.Logger) *OracleSource {
	return &OracleSource{
		coinGecko: coinGecko,
		explorer:  explorer,
		logger:    logger,
	}
}

// FetchPrice returns the current ERG/USD price.
func (s *OracleSource) FetchPrice(ctx context.Context) (*OraclePrice, error) {
	price, err := s.coinGecko.FetchErgPrice(ctx)
	if err == nil {
		return &OraclePrice{Price: price, Timestamp: time.Now(), Source: "coingecko"}, nil
	}

	s.logger.Warn("oracle-primary-source-failed", zap.Error(err))

	price, err = s.explorer.FetchOracleErgPrice(ctx)
	if err == nil {
		return &OraclePrice{Price: price, Timestamp: time.Now(), Source: "oracle-pool"}, nil
	}

	s.logger.Error("oracle-all-sources-failed", zap.Error(err))

	return nil, fmt.Errorf("all oracle price sources failed: %w", err)
}
