package arbitrage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PriceSource supplies the two sides of the spread each tick.
type PriceSource interface {
	// FetchDexPrice returns the open-market stablecoin price in USD plus the
	// pool liquidity backing it.
	FetchDexPrice(ctx context.Context) (price, liquidity float64, err error)

	// FetchMintPrice returns the protocol mint price in USD.
	FetchMintPrice(ctx context.Context) (float64, error)
}

// Storage is the sink for newly detected opportunities.
type Storage interface {
	StoreOpportunity(ctx context.Context, opp *Opportunity) error
}

// EngineConfig holds engine configuration.
type EngineConfig struct {
	TickInterval time.Duration
	Source       string // tag stored on detected opportunities
	Logger       *zap.Logger
}

// Engine polls the price source on a fixed interval and feeds the tracker.
// New detections are persisted and published on the opportunity channel.
type Engine struct {
	cfg             EngineConfig
	source          PriceSource
	tracker         *Tracker
	storage         Storage
	logger          *zap.Logger
	opportunityChan chan *Opportunity
	ctx             context.Context
	wg              sync.WaitGroup
}

// NewEngine creates a new arbitrage engine.
func NewEngine(cfg EngineConfig, source PriceSource, tracker *Tracker, storage Storage) *Engine {
	return &Engine{
		cfg:             cfg,
		source:          source,
		tracker:         tracker,
		storage:         storage,
		logger:          cfg.Logger,
		opportunityChan: make(chan *Opportunity, 50),
	}
}

// Start starts the polling loop.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx = ctx
	e.logger.Info("arbitrage-engine-starting",
		zap.Duration("tick-interval", e.cfg.TickInterval))

	e.wg.Add(1)
	go e.tickLoop()

	return nil
}

func (e *Engine) tickLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	// Initial tick so the dashboard is not empty for a full interval.
	e.tick()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("arbitrage-engine-stopping")
			close(e.opportunityChan)
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	start := time.Now()
	defer func() {
		TickDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	dexPrice, liquidity, err := e.source.FetchDexPrice(e.ctx)
	if err != nil {
		TickErrorsTotal.Inc()
		e.logger.Warn("dex-price-unavailable", zap.Error(err))
		return
	}

	mintPrice, err := e.source.FetchMintPrice(e.ctx)
	if err != nil {
		TickErrorsTotal.Inc()
		e.logger.Warn("mint-price-unavailable", zap.Error(err))
		return
	}

	opp := e.tracker.Observe(dexPrice, mintPrice, liquidity, e.cfg.Source, time.Now())
	if opp == nil {
		return
	}

	err = e.storage.StoreOpportunity(e.ctx, opp)
	if err != nil {
		e.logger.Error("failed-to-store-opportunity",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
	}

	// Non-blocking publish; a slow consumer never stalls detection.
	select {
	case e.opportunityChan <- opp:
		e.logger.Info("arbitrage-opportunity-detected",
			zap.String("opportunity-id", opp.ID),
			zap.String("signal", string(opp.Signal)),
			zap.Float64("spread-percent", opp.SpreadPercent),
			zap.Float64("net-profit", opp.EstimatedNetProfit))
	default:
		e.logger.Warn("opportunity-channel-full", zap.String("opportunity-id", opp.ID))
	}
}

// OpportunityChan returns the channel for receiving new opportunities.
func (e *Engine) OpportunityChan() <-chan *Opportunity {
	return e.opportunityChan
}

// Tracker exposes the engine's history container.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// Close waits for the polling loop to drain.
func (e *Engine) Close() error {
	e.logger.Info("closing-arbitrage-engine")
	e.wg.Wait()
	e.logger.Info("arbitrage-engine-closed")
	return nil
}
