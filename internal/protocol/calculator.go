// Package protocol derives Djed protocol health metrics from raw upstream numbers.
package protocol

import (
	"time"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// Reserve ratio bands, in percent. Fixed by protocol policy.
const (
	OptimalThreshold = 400.0
	WarningThreshold = 200.0
)

// ComputeReserveRatio returns the reserve ratio in percent.
// Returns 0 when the stablecoin supply is zero or negative; callers must
// treat that as "undefined" rather than dividing themselves.
func ComputeReserveRatio(baseReserves, ergPrice, stablecoinSupply float64) float64 {
	if stablecoinSupply <= 0 {
		return 0
	}

	reservesUSD := baseReserves * ergPrice

	return reservesUSD / stablecoinSupply * 100
}

// ClassifyStatus maps a reserve ratio to the protocol health status.
// Total over all float64 inputs.
func ClassifyStatus(ratio float64) types.Status {
	switch {
	case ratio >= OptimalThreshold:
		return types.StatusOptimal
	case ratio >= WarningThreshold:
		return types.StatusWarning
	default:
		return types.StatusCritical
	}
}

// BuildState assembles a full protocol snapshot from raw numbers.
func BuildState(baseReserves, ergPrice, stablecoinSupply, shenCirculation float64, source string, observedAt time.Time) *types.ProtocolState {
	ratio := ComputeReserveRatio(baseReserves, ergPrice, stablecoinSupply)

	return &types.ProtocolState{
		ErgPrice:         ergPrice,
		BaseReserves:     baseReserves,
		ReservesUSD:      baseReserves * ergPrice,
		StablecoinSupply: stablecoinSupply,
		ShenCirculation:  shenCirculation,
		ReserveRatio:     ratio,
		Status:           ClassifyStatus(ratio),
		ObservedAt:       observedAt,
		Source:           source,
	}
}
