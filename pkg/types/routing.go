package types

import "time"

// SwapRoute is a best-route swap quote from the routing aggregator.
type SwapRoute struct {
	SrcToken     string    `json:"srcToken"`
	DestToken    string    `json:"destToken"`
	SrcAmount    string    `json:"srcAmount"`
	DestAmount   string    `json:"destAmount"`
	PriceImpact  float64   `json:"priceImpact"` // percent
	GasCostUSD   float64   `json:"gasCostUSD"`
	ChainID      int       `json:"chainId"`
	Hops         []SwapHop `json:"hops"`
	QuotedAt     time.Time `json:"quotedAt"`
	Source       string    `json:"source"` // "paraswap" or "fallback"
}

// SwapHop is a single exchange leg within a route.
type SwapHop struct {
	Exchange string  `json:"exchange"`
	Percent  float64 `json:"percent"`
}
