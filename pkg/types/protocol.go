package types

import "time"

// Status is the protocol health classification derived from the reserve ratio.
type Status string

const (
	// StatusOptimal means the reserve ratio is at or above 400%.
	StatusOptimal Status = "OPTIMAL"
	// StatusWarning means the reserve ratio is in the [200%, 400%) band.
	StatusWarning Status = "WARNING"
	// StatusCritical means the reserve ratio is below 200%.
	StatusCritical Status = "CRITICAL"
)

// ProtocolState is a derived snapshot of the Djed protocol.
// It is recomputed wholesale on every poll, never mutated in place.
type ProtocolState struct {
	ErgPrice         float64   `json:"ergPrice"`
	BaseReserves     float64   `json:"baseReserves"` // ERG held in the reserve contract
	ReservesUSD      float64   `json:"reservesUSD"`
	StablecoinSupply float64   `json:"djedSupply"`
	ShenCirculation  float64   `json:"shenCirculation"`
	ReserveRatio     float64   `json:"reserveRatio"` // percent
	Status           Status    `json:"status"`
	ObservedAt       time.Time `json:"timestamp"`
	Source           string    `json:"source"` // "live" or "fallback"
}

// PriceQuote is an immutable market-data snapshot for a single symbol.
type PriceQuote struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	Change24h  float64   `json:"change24h"`
	MarketCap  float64   `json:"marketCap"`
	Volume24h  float64   `json:"volume24h"`
	ObservedAt time.Time `json:"lastUpdated"`
}

// ProtocolPrice is the protocol-quoted mint/redeem price pair for the stablecoin.
type ProtocolPrice struct {
	MintPrice   float64   `json:"mintPrice"`
	RedeemPrice float64   `json:"redeemPrice"`
	Peg         float64   `json:"peg"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
}
