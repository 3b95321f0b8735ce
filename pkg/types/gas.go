package types

import "time"

// GasPrices holds per-chain fee tiers.
// Instant is only populated for chains that expose a priority tier.
type GasPrices struct {
	Chain       string    `json:"chain"`
	Slow        float64   `json:"slow"`
	Standard    float64   `json:"standard"`
	Fast        float64   `json:"fast"`
	Instant     float64   `json:"instant,omitempty"`
	Unit        string    `json:"unit"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
}
