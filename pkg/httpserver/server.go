package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
	"github.com/Shresth-Senwal/djedops2nd/internal/storage"
	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
	"github.com/Shresth-Senwal/djedops2nd/pkg/healthprobe"
)

// Server provides the dashboard proxy API plus metrics and health checks.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker

	Oracle   *upstream.OracleSource
	State    *upstream.StateSource
	Explorer *upstream.ExplorerClient
	Gas      *upstream.GasClient
	Defi     *upstream.DefiLlamaClient
	Prices   *upstream.CachedPrices
	Paraswap *upstream.ParaswapClient
	Tracker  *arbitrage.Tracker
	Executor *workflow.Executor
	Storage  storage.Storage
	Hub      *OpportunityHub
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Operational routes
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())

	// Proxy routes
	djedHandler := NewDjedHandler(cfg.Oracle, cfg.State, cfg.Explorer, cfg.Logger)
	r.Get("/api/djed", djedHandler.HandleDjed)

	marketHandler := NewMarketHandler(cfg.Gas, cfg.Defi, cfg.Prices, cfg.Paraswap, cfg.Logger)
	r.Get("/api/gas", marketHandler.HandleGas)
	r.Get("/api/defi", marketHandler.HandleDefi)
	r.Get("/api/prices", marketHandler.HandlePrices)
	r.Get("/api/routing", marketHandler.HandleRouting)

	arbHandler := NewArbitrageHandler(cfg.Tracker, cfg.Logger)
	r.Get("/api/arbitrage", arbHandler.HandleHistory)

	wfHandler := NewWorkflowHandler(cfg.Executor, cfg.Storage, cfg.Logger)
	r.Post("/api/workflows/execute", wfHandler.HandleExecute)
	r.Get("/api/workflows/history", wfHandler.HandleHistory)
	r.Delete("/api/workflows/history", wfHandler.HandleClear)

	if cfg.Hub != nil {
		r.Get("/ws/opportunities", cfg.Hub.HandleSubscribe)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
