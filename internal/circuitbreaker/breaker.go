package circuitbreaker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// UpstreamCircuitBreaker guards calls to a flaky upstream API. After a run of
// consecutive failures it opens and Allow reports false until the cooldown
// elapses; the first call after the cooldown is a probe, and a success closes
// the breaker again. While open, callers are expected to serve fallback data
// instead of hitting the upstream.
type UpstreamCircuitBreaker struct {
	closed atomic.Bool // Atomic for lock-free reads

	// Configuration
	name             string
	failureThreshold int
	cooldown         time.Duration
	logger           *zap.Logger

	// Protected by mutex
	mu                  sync.Mutex
	consecutiveFailures int
	openedAt            time.Time
	probing             bool
}

// Config holds circuit breaker configuration.
type Config struct {
	Name             string // upstream label used in logs and metrics
	FailureThreshold int
	Cooldown         time.Duration
	Logger           *zap.Logger
}

// Status holds current circuit breaker status for debugging.
type Status struct {
	Name                string
	Closed              bool
	ConsecutiveFailures int
	OpenedAt            time.Time
}

// New creates a new circuit breaker with the given configuration.
func New(cfg *Config) (breaker *UpstreamCircuitBreaker, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.FailureThreshold <= 0 {
		return nil, fmt.Errorf("failure threshold must be positive")
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("cooldown must be positive")
	}

	breaker = &UpstreamCircuitBreaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		cooldown:         cfg.Cooldown,
		logger:           cfg.Logger,
	}

	// Start closed by default
	breaker.closed.Store(true)

	// Initialize metrics
	CircuitBreakerClosed.WithLabelValues(cfg.Name).Set(1)
	CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	return breaker, nil
}

// Allow reports whether the upstream may be called. When the breaker is open
// and the cooldown has elapsed, it lets a single probe call through.
func (b *UpstreamCircuitBreaker) Allow() (allowed bool) {
	if b.closed.Load() {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.probing || time.Since(b.openedAt) < b.cooldown {
		return false
	}

	b.probing = true
	CircuitBreakerProbesTotal.WithLabelValues(b.name).Inc()
	b.logger.Info("circuit-breaker-probing", zap.String("upstream", b.name))

	return true
}

// RecordSuccess resets the failure run and closes the breaker.
func (b *UpstreamCircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures = 0
	b.probing = false
	CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	if !b.closed.Load() {
		b.closed.Store(true)
		CircuitBreakerClosed.WithLabelValues(b.name).Set(1)
		CircuitBreakerStateChanges.WithLabelValues(b.name).Inc()

		b.logger.Info("circuit-breaker-closed",
			zap.String("upstream", b.name))
	}
}

// RecordFailure counts a failed upstream call and opens the breaker once the
// threshold is reached. A failed probe re-arms the cooldown.
func (b *UpstreamCircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.consecutiveFailures))

	if b.probing {
		b.probing = false
		b.openedAt = time.Now()
		b.logger.Warn("circuit-breaker-probe-failed",
			zap.String("upstream", b.name),
			zap.Duration("cooldown", b.cooldown))
		return
	}

	if b.closed.Load() && b.consecutiveFailures >= b.failureThreshold {
		b.closed.Store(false)
		b.openedAt = time.Now()
		CircuitBreakerClosed.WithLabelValues(b.name).Set(0)
		CircuitBreakerStateChanges.WithLabelValues(b.name).Inc()

		b.logger.Warn("circuit-breaker-opened",
			zap.String("upstream", b.name),
			zap.Int("consecutive-failures", b.consecutiveFailures),
			zap.Duration("cooldown", b.cooldown))
	}
}

// GetStatus returns current circuit breaker status for debugging.
func (b *UpstreamCircuitBreaker) GetStatus() (status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status = Status{
		Name:                b.name,
		Closed:              b.closed.Load(),
		ConsecutiveFailures: b.consecutiveFailures,
		OpenedAt:            b.openedAt,
	}

	return status
}
