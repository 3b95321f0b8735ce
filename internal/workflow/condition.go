package workflow

import (
	"time"

	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// ConditionKind names a trigger predicate over the shared metrics snapshot.
type ConditionKind string

const (
	CondAlways     ConditionKind = "always"
	CondDSIBelow   ConditionKind = "dsi_below"
	CondDSIAbove   ConditionKind = "dsi_above"
	CondPriceBelow ConditionKind = "price_below"
	CondPriceAbove ConditionKind = "price_above"
)

// Condition is a node's trigger predicate. Threshold is ignored for "always".
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold float64       `json:"threshold"`
}

// Snapshot is the single metrics read shared by every node in one run.
// Nil fields mean the metric was unavailable; conditions over an absent
// metric evaluate to false rather than guessing.
type Snapshot struct {
	ReserveRatio *float64     `json:"reserveRatio,omitempty"`
	OraclePrice  *float64     `json:"oraclePrice,omitempty"`
	TxCount      *int64       `json:"txCount,omitempty"`
	Status       types.Status `json:"status"`
	CollectedAt  time.Time    `json:"collectedAt"`
}

// Evaluate applies the condition to the snapshot. An unset kind means the
// node has no trigger and always runs.
func (c Condition) Evaluate(snap *Snapshot) bool {
	if snap == nil {
		return c.Kind == CondAlways || c.Kind == ""
	}

	switch c.Kind {
	case CondAlways, "":
		return true
	case CondDSIBelow:
		return snap.ReserveRatio != nil && *snap.ReserveRatio < c.Threshold
	case CondDSIAbove:
		return snap.ReserveRatio != nil && *snap.ReserveRatio > c.Threshold
	case CondPriceBelow:
		return snap.OraclePrice != nil && *snap.OraclePrice < c.Threshold
	case CondPriceAbove:
		return snap.OraclePrice != nil && *snap.OraclePrice > c.Threshold
	default:
		return false
	}
}
