package app

import (
	"context"
	"sync"

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

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	hub           *httpserver.OpportunityHub
	appCache      cache.Cache
	gasClient     *upstream.GasClient
	arbEngine     *arbitrage.Engine
	executor      *workflow.Executor
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
