package arbitrage

import (
	"sync"
	"time"
)

// Tracker lifecycle parameters.
const (
	// DefaultHistoryLimit bounds the opportunity history.
	DefaultHistoryLimit = 20
	// DefaultExpireAfter is the age at which a DETECTED entry expires.
	DefaultExpireAfter = 300 * time.Second
)

// TrackerConfig holds tracker configuration.
type TrackerConfig struct {
	HistoryLimit int
	ExpireAfter  time.Duration
	Profit       ProfitConfig
}

// Tracker owns the bounded, time-expiring opportunity history.
// It is an explicit state container: all mutation goes through Observe, reads
// return copies. Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	history []*Opportunity
	cfg     TrackerConfig
}

// NewTracker creates a new opportunity tracker.
func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}

	if cfg.ExpireAfter <= 0 {
		cfg.ExpireAfter = DefaultExpireAfter
	}

	return &Tracker{
		history: make([]*Opportunity, 0, cfg.HistoryLimit),
		cfg:     cfg,
	}
}

// Observe applies one price reading to the history.
// Returns the newly created opportunity when the reading produced a NEW
// history entry, nil when there was no signal or the latest entry was merely
// refreshed.
func (t *Tracker) Observe(dexPrice, protocolPrice, liquidity float64, source string, now time.Time) *Opportunity {
	t.mu.Lock()
	defer t.mu.Unlock()

	spreadPct := SpreadPercent(dexPrice, protocolPrice)
	SpreadPercentGauge.Set(spreadPct)

	signal := ClassifySignal(spreadPct)

	if signal == SignalNone {
		// No live edge: open signals are void.
		t.expireAllLocked()
		return nil
	}

	candidate := NewOpportunity(dexPrice, protocolPrice, liquidity, source, t.cfg.Profit, now)

	var created *Opportunity

	if len(t.history) > 0 && t.history[0].Status == StatusDetected && SameOpportunity(t.history[0], candidate) {
		t.history[0].Refresh(candidate)
		OpportunitiesRefreshedTotal.Inc()
	} else {
		t.history = append([]*Opportunity{candidate}, t.history...)
		if len(t.history) > t.cfg.HistoryLimit {
			t.history = t.history[:t.cfg.HistoryLimit]
		}
		OpportunitiesDetectedTotal.WithLabelValues(string(candidate.Signal)).Inc()
		NetProfitUSD.Observe(candidate.EstimatedNetProfit)
		created = candidate
	}

	t.expireAgedLocked(now)

	return created
}

// expireAgedLocked flips DETECTED entries older than the expiry window.
func (t *Tracker) expireAgedLocked(now time.Time) {
	for _, opp := range t.history {
		if opp.Status == StatusDetected && now.Sub(opp.DetectedAt) > t.cfg.ExpireAfter {
			opp.Status = StatusExpired
			OpportunitiesExpiredTotal.WithLabelValues("aged").Inc()
		}
	}
}

// expireAllLocked flips every DETECTED entry, used when the signal disappears.
func (t *Tracker) expireAllLocked() {
	for _, opp := range t.history {
		if opp.Status == StatusDetected {
			opp.Status = StatusExpired
			OpportunitiesExpiredTotal.WithLabelValues("signal_gone").Inc()
		}
	}
}

// History returns a copy of the opportunity list, newest first.
func (t *Tracker) History() []Opportunity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Opportunity, len(t.history))
	for i, opp := range t.history {
		out[i] = *opp
	}

	return out
}

// Len returns the number of stored opportunities.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.history)
}
