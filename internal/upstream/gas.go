package upstream

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// Tier multipliers applied to the node's suggested gas price.
const (
	gasSlowMultiplier    = 0.85
	gasFastMultiplier    = 1.25
	gasInstantMultiplier = 1.75
)

// GasClient reports per-chain fee tiers. Ethereum tiers come from an RPC
// node's suggested gas price; Ergo fees are protocol constants.
// Safe for concurrent use: /api/gas requests share one client.
type GasClient struct {
	rpcURL string
	logger *zap.Logger

	mu  sync.Mutex
	eth *ethclient.Client
}

// NewGasClient creates a new gas client. The ethereum RPC connection is
// established lazily on the first ethereum query.
func NewGasClient(rpcURL string, logger *zap.Logger) *GasClient {
	return &GasClient{
		rpcURL: rpcURL,
		logger: logger,
	}
}

// FetchGasPrices returns fee tiers for the requested chain.
// Falls back to static tiers when the live source is unreachable.
func (c *GasClient) FetchGasPrices(ctx context.Context, chain string) *types.GasPrices {
	now := time.Now()

	switch chain {
	case "ethereum":
		prices, err := c.fetchEthereum(ctx, now)
		if err != nil {
			c.logger.Warn("ethereum-gas-fallback", zap.Error(err))
			FallbacksTotal.WithLabelValues("eth_gas").Inc()
			return FallbackGasPrices("ethereum", now)
		}
		return prices
	default:
		// Ergo transaction fees are flat protocol minimums, not an auction.
		return ergoGasPrices(now)
	}
}

// ethClient returns the shared RPC connection, dialing it on first use.
func (c *GasClient) ethClient(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth == nil {
		client, err := ethclient.DialContext(ctx, c.rpcURL)
		if err != nil {
			return nil, fmt.Errorf("dial ethereum rpc: %w", err)
		}
		c.eth = client
	}

	return c.eth, nil
}

func (c *GasClient) fetchEthereum(ctx context.Context, now time.Time) (*types.GasPrices, error) {
	eth, err := c.ethClient(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	RequestsTotal.WithLabelValues("eth_gas").Inc()

	suggested, err := eth.SuggestGasPrice(ctx)
	if err != nil {
		FailuresTotal.WithLabelValues("eth_gas").Inc()
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	RequestDurationSeconds.WithLabelValues("eth_gas").Observe(time.Since(start).Seconds())

	gwei, _ := new(big.Float).Quo(
		new(big.Float).SetInt(suggested),
		big.NewFloat(params.GWei),
	).Float64()

	return &types.GasPrices{
		Chain:       "ethereum",
		Slow:        gwei * gasSlowMultiplier,
		Standard:    gwei,
		Fast:        gwei * gasFastMultiplier,
		Instant:     gwei * gasInstantMultiplier,
		Unit:        "gwei",
		LastUpdated: now,
		Source:      "rpc",
	}, nil
}

func ergoGasPrices(now time.Time) *types.GasPrices {
	return &types.GasPrices{
		Chain:       "ergo",
		Slow:        0.0011,
		Standard:    0.0011,
		Fast:        0.0022,
		Unit:        "ERG",
		LastUpdated: now,
		Source:      "protocol",
	}
}

// Close releases the RPC connection if one was established.
func (c *GasClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
}
