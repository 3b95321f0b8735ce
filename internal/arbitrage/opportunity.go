package arbitrage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OpportunityStatus is the lifecycle state of a detected opportunity.
type OpportunityStatus string

const (
	// StatusDetected means the signal is live.
	StatusDetected OpportunityStatus = "DETECTED"
	// StatusExpired means the signal aged out or disappeared.
	StatusExpired OpportunityStatus = "EXPIRED"
)

// Opportunity represents one detected mint/redeem arbitrage edge.
type Opportunity struct {
	ID                 string            `json:"id"`
	DetectedAt         time.Time         `json:"detectedAt"`
	Signal             Signal            `json:"signal"`
	DexPrice           float64           `json:"dexPrice"`
	ProtocolPrice      float64           `json:"protocolPrice"`
	Spread             float64           `json:"spread"`
	SpreadPercent      float64           `json:"spreadPercent"`
	EstimatedNetProfit float64           `json:"estimatedNetProfit"`
	RawProfit          float64           `json:"rawProfit"`
	Profitable         bool              `json:"profitable"`
	Liquidity          float64           `json:"liquidity"`
	Status             OpportunityStatus `json:"status"`
	Source             string            `json:"source"`
}

// NewOpportunity creates a new opportunity from one price reading.
func NewOpportunity(dexPrice, protocolPrice, liquidity float64, source string, profitCfg ProfitConfig, now time.Time) *Opportunity {
	spreadPct := SpreadPercent(dexPrice, protocolPrice)
	estimate := EstimateNetProfit(dexPrice, protocolPrice, profitCfg)

	return &Opportunity{
		ID:                 uuid.New().String(),
		DetectedAt:         now,
		Signal:             ClassifySignal(spreadPct),
		DexPrice:           dexPrice,
		ProtocolPrice:      protocolPrice,
		Spread:             dexPrice - protocolPrice,
		SpreadPercent:      spreadPct,
		EstimatedNetProfit: estimate.NetProfit,
		RawProfit:          estimate.RawProfit,
		Profitable:         estimate.Profitable,
		Liquidity:          liquidity,
		Status:             StatusDetected,
		Source:             source,
	}
}

// Same-opportunity heuristic: a fresh reading refreshes the previous entry
// instead of creating a new one when the spread barely moved and the previous
// detection is still young.
const (
	SameSpreadDeltaPP = 0.1 // percentage points
	SameMaxAge        = 60 * time.Second
)

// SameOpportunity reports whether next is a refresh of prev rather than a new
// detection. Pure; next.DetectedAt serves as "now".
func SameOpportunity(prev, next *Opportunity) bool {
	if prev == nil || next == nil {
		return false
	}

	if prev.Signal != next.Signal {
		return false
	}

	delta := next.SpreadPercent - prev.SpreadPercent
	if delta < 0 {
		delta = -delta
	}

	return delta <= SameSpreadDeltaPP && next.DetectedAt.Sub(prev.DetectedAt) < SameMaxAge
}

// Refresh overwrites the economics of o with those of next, preserving
// identity (ID, DetectedAt) and lifecycle status.
func (o *Opportunity) Refresh(next *Opportunity) {
	o.DexPrice = next.DexPrice
	o.ProtocolPrice = next.ProtocolPrice
	o.Spread = next.Spread
	o.SpreadPercent = next.SpreadPercent
	o.EstimatedNetProfit = next.EstimatedNetProfit
	o.RawProfit = next.RawProfit
	o.Profitable = next.Profitable
	o.Liquidity = next.Liquidity
}

// String returns a human-readable representation of the opportunity.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] %s dex=%.4f proto=%.4f spread=%.2f%% net=$%.2f %s",
		o.ID[:8],
		o.Signal,
		o.DexPrice,
		o.ProtocolPrice,
		o.SpreadPercent,
		o.EstimatedNetProfit,
		o.Status,
	)
}
