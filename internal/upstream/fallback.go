package upstream

import (
	"time"

	"github.com/Shresth-Senwal/djedops2nd/internal/protocol"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// Static fallback values used when an upstream source is unavailable.
// These mirror the demo numbers shown on the dashboard when offline.
const (
	FallbackErgPriceUSD = 1.15

	FallbackBaseReserves    = 1_500_000.0 // ERG
	FallbackDjedSupply      = 400_000.0
	FallbackShenCirculation = 55_000_000.0

	// Protocol mint/redeem approximation around the 1 USD peg.
	FallbackMintPrice   = 1.01
	FallbackRedeemPrice = 0.99
	FallbackPeg         = 1.00
)

// FallbackProtocolState returns the demo protocol snapshot served when every
// upstream source failed. Callers can only distinguish it from a live read via
// the Source field.
func FallbackProtocolState(now time.Time) *types.ProtocolState {
	return protocol.BuildState(
		FallbackBaseReserves,
		FallbackErgPriceUSD,
		FallbackDjedSupply,
		FallbackShenCirculation,
		"fallback",
		now,
	)
}

// FallbackGasPrices returns static fee tiers for a chain when the live source
// is unreachable.
func FallbackGasPrices(chain string, now time.Time) *types.GasPrices {
	switch chain {
	case "ethereum":
		return &types.GasPrices{
			Chain:       "ethereum",
			Slow:        18,
			Standard:    25,
			Fast:        32,
			Instant:     45,
			Unit:        "gwei",
			LastUpdated: now,
			Source:      "fallback",
		}
	default:
		return &types.GasPrices{
			Chain:       "ergo",
			Slow:        0.0011,
			Standard:    0.0011,
			Fast:        0.0022,
			Unit:        "ERG",
			LastUpdated: now,
			Source:      "fallback",
		}
	}
}
