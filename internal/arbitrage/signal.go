package arbitrage

// Signal classifies the direction of a mint/redeem arbitrage edge.
type Signal string

const (
	// SignalMint means the DEX price trades above the protocol mint price.
	SignalMint Signal = "MINT"
	// SignalRedeem means the DEX price trades below the protocol redeem price.
	SignalRedeem Signal = "REDEEM"
	// SignalNone means the spread is inside the threshold band.
	SignalNone Signal = "NONE"
)

// SignalThresholdPercent is the minimum absolute spread, in percent, that
// constitutes a signal. Boundary inclusive on both sides.
const SignalThresholdPercent = 0.5

// SpreadPercent returns the DEX-vs-protocol spread in percent of the
// protocol price. Returns 0 when the protocol price is not positive.
func SpreadPercent(dexPrice, protocolPrice float64) float64 {
	if protocolPrice <= 0 {
		return 0
	}

	return (dexPrice - protocolPrice) / protocolPrice * 100
}

// ClassifySignal maps a spread percentage to a signal.
func ClassifySignal(spreadPercent float64) Signal {
	switch {
	case spreadPercent >= SignalThresholdPercent:
		return SignalMint
	case spreadPercent <= -SignalThresholdPercent:
		return SignalRedeem
	default:
		return SignalNone
	}
}

// ProfitConfig holds the fee, slippage and gas assumptions behind the
// net-profit estimate. All values are externally configurable.
type ProfitConfig struct {
	NotionalUSD  float64 // trade size the estimate assumes
	DEXFeeRate   float64 // e.g. 0.003 for a 0.3% pool fee
	SlippageRate float64
	FixedGasCost float64 // USD
}

// DefaultProfitConfig returns the dashboard's standard assumptions.
func DefaultProfitConfig() ProfitConfig {
	return ProfitConfig{
		NotionalUSD:  1000,
		DEXFeeRate:   0.003,
		SlippageRate: 0.005,
		FixedGasCost: 2.0,
	}
}

// ProfitEstimate is the outcome of a net-profit calculation.
// NetProfit is floored at zero for display; RawProfit carries the true,
// possibly negative number, with Profitable as its sign.
type ProfitEstimate struct {
	GrossProfit float64 `json:"grossProfit"`
	Costs       float64 `json:"costs"`
	NetProfit   float64 `json:"netProfit"`
	RawProfit   float64 `json:"rawProfit"`
	Profitable  bool    `json:"profitable"`
}

// EstimateNetProfit estimates profit for one round trip at the configured
// notional. Returns a zero estimate when the DEX price is not positive.
func EstimateNetProfit(dexPrice, protocolPrice float64, cfg ProfitConfig) ProfitEstimate {
	if dexPrice <= 0 {
		return ProfitEstimate{}
	}

	tokens := cfg.NotionalUSD / dexPrice

	spread := dexPrice - protocolPrice
	if spread < 0 {
		spread = -spread
	}

	gross := tokens * spread
	costs := cfg.NotionalUSD*cfg.DEXFeeRate + cfg.NotionalUSD*cfg.SlippageRate + cfg.FixedGasCost
	raw := gross - costs

	net := raw
	if net < 0 {
		net = 0
	}

	return ProfitEstimate{
		GrossProfit: gross,
		Costs:       costs,
		NetProfit:   net,
		RawProfit:   raw,
		Profitable:  raw > 0,
	}
}
