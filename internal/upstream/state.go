package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/circuitbreaker"
	"github.com/Shresth-Senwal/djedops2nd/internal/protocol"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// Live-path breaker defaults. Three straight upstream failures stop live
// fetches for thirty seconds before a probe is attempted.
const (
	stateFailureThreshold = 3
	stateCooldown         = 30 * time.Second
)

// StateSource derives live protocol state from the bank contract and the
// oracle price. Any upstream failure yields the demo fallback snapshot, never
// an error; callers distinguish the two via the Source field. A circuit
// breaker stops live fetches while the upstreams keep failing.
type StateSource struct {
	explorer *ExplorerClient
	oracle   *OracleSource
	breaker  *circuitbreaker.UpstreamCircuitBreaker
	logger   *zap.Logger
}

// NewStateSource creates a new protocol state source.
func NewStateSource(explorer *ExplorerClient, oracle *OracleSource, logger *zap.Logger) *StateSource {
	// Config is static and valid, New cannot fail here.
	breaker, _ := circuitbreaker.New(&circuitbreaker.Config{
		Name:             "djed-state",
		FailureThreshold: stateFailureThreshold,
		Cooldown:         stateCooldown,
		Logger:           logger,
	})

	return &StateSource{
		explorer: explorer,
		oracle:   oracle,
		breaker:  breaker,
		logger:   logger,
	}
}

// FetchState returns the current protocol snapshot.
func (s *StateSource) FetchState(ctx context.Context) *types.ProtocolState {
	now := time.Now()

	if !s.breaker.Allow() {
		s.logger.Debug("protocol-state-fallback", zap.String("reason", "circuit-open"))
		FallbacksTotal.WithLabelValues("djed_state").Inc()
		return FallbackProtocolState(now)
	}

	oraclePrice, err := s.oracle.FetchPrice(ctx)
	if err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("protocol-state-fallback", zap.String("reason", "oracle"), zap.Error(err))
		FallbacksTotal.WithLabelValues("djed_state").Inc()
		return FallbackProtocolState(now)
	}

	balance, err := s.explorer.FetchBankBalance(ctx)
	if err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("protocol-state-fallback", zap.String("reason", "bank-balance"), zap.Error(err))
		FallbacksTotal.WithLabelValues("djed_state").Inc()
		return FallbackProtocolState(now)
	}

	s.breaker.RecordSuccess()

	return protocol.BuildState(
		balance.ReservesERG,
		oraclePrice.Price,
		balance.DjedSupply,
		balance.ShenCirculation,
		"live",
		now,
	)
}

// FetchProtocolPrice returns the protocol mint/redeem quote. The original
// dashboard serves a static approximation around the peg, not a live quote.
func (s *StateSource) FetchProtocolPrice(now time.Time) *types.ProtocolPrice {
	return &types.ProtocolPrice{
		MintPrice:   FallbackMintPrice,
		RedeemPrice: FallbackRedeemPrice,
		Peg:         FallbackPeg,
		Timestamp:   now,
		Source:      "approximation",
	}
}
