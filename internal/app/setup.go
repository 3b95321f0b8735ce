package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/storage"
	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
	"github.com/Shresth-Senwal/djedops2nd/pkg/cache"
	"github.com/Shresth-Senwal/djedops2nd/pkg/config"
	"github.com/Shresth-Senwal/djedops2nd/pkg/healthprobe"
	"github.com/Shresth-Senwal/djedops2nd/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	appCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	// Upstream clients
	explorer := upstream.NewExplorerClient(cfg.ExplorerBaseURL, cfg.BankAddress, cfg.UpstreamTimeout, logger)
	coinGecko := upstream.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.UpstreamTimeout, logger)
	spectrum := upstream.NewSpectrumClient(cfg.SpectrumBaseURL, cfg.UpstreamTimeout, logger)
	defi := upstream.NewDefiLlamaClient(cfg.DefiLlamaBaseURL, cfg.DefiLlamaYieldsURL, cfg.UpstreamTimeout, logger)
	paraswap := upstream.NewParaswapClient(cfg.ParaswapBaseURL, cfg.UpstreamTimeout, logger)
	gasClient := upstream.NewGasClient(cfg.EthereumRPCURL, logger)

	cachedPrices := upstream.NewCachedPrices(coinGecko, appCache, cfg.PriceCacheTTL)
	oracle := upstream.NewOracleSource(coinGecko, explorer, logger)
	stateSource := upstream.NewStateSource(explorer, oracle, logger)

	// Storage
	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	// Arbitrage engine
	arbEngine := setupArbitrageEngine(cfg, logger, cachedPrices, spectrum, stateSource, defi, appCache, store)

	// Workflow executor
	snapshots := upstream.NewSnapshotCollector(stateSource, oracle, explorer, logger)
	executor := workflow.NewExecutor(workflow.ExecutorConfig{
		MinNodeDelay: cfg.WorkflowMinNodeDelay,
		MaxNodeDelay: cfg.WorkflowMaxNodeDelay,
		Logger:       logger,
	}, snapshots)

	// HTTP surface
	hub := httpserver.NewOpportunityHub(logger)
	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Oracle:        oracle,
		State:         stateSource,
		Explorer:      explorer,
		Gas:           gasClient,
		Defi:          defi,
		Prices:        cachedPrices,
		Paraswap:      paraswap,
		Tracker:       arbEngine.Tracker(),
		Executor:      executor,
		Storage:       store,
		Hub:           hub,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		hub:           hub,
		appCache:      appCache,
		gasClient:     gasClient,
		arbEngine:     arbEngine,
		executor:      executor,
		storage:       store,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	// Package defaults are sized for the upstream-response working set.
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		Logger: logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupArbitrageEngine(
	cfg *config.Config,
	logger *zap.Logger,
	prices *upstream.CachedPrices,
	spectrum *upstream.SpectrumClient,
	stateSource *upstream.StateSource,
	defi *upstream.DefiLlamaClient,
	appCache cache.Cache,
	store storage.Storage,
) *arbitrage.Engine {
	tracker := arbitrage.NewTracker(arbitrage.TrackerConfig{
		HistoryLimit: cfg.ArbHistoryLimit,
		ExpireAfter:  cfg.ArbExpireAfter,
		Profit: arbitrage.ProfitConfig{
			NotionalUSD:  cfg.ArbNotionalUSD,
			DEXFeeRate:   cfg.ArbDEXFeeRate,
			SlippageRate: cfg.ArbSlippageRate,
			FixedGasCost: cfg.ArbFixedGasCost,
		},
	})

	source := upstream.NewArbPriceSource(prices, spectrum, stateSource, defi, cfg.DexProtocolSlug, appCache, logger)

	return arbitrage.NewEngine(arbitrage.EngineConfig{
		TickInterval: cfg.ArbTickInterval,
		Source:       "spectrum",
		Logger:       logger,
	}, source, tracker, store)
}
