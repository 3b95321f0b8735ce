package circuitbreaker

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// Test New circuit breaker creation
func TestNew(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid-config",
			config: &Config{
				Name:             "explorer",
				FailureThreshold: 3,
				Cooldown:         30 * time.Second,
				Logger:           logger,
			},
			wantErr: false,
		},
		{
			name:    "nil-config",
			config:  nil,
			wantErr: true,
			errMsg:  "config cannot be nil",
		},
		{
			name: "empty-name",
			config: &Config{
				FailureThreshold: 3,
				Cooldown:         30 * time.Second,
				Logger:           logger,
			},
			wantErr: true,
			errMsg:  "name cannot be empty",
		},
		{
			name: "nil-logger",
			config: &Config{
				Name:             "explorer",
				FailureThreshold: 3,
				Cooldown:         30 * time.Second,
			},
			wantErr: true,
			errMsg:  "logger cannot be nil",
		},
		{
			name: "zero-threshold",
			config: &Config{
				Name:     "explorer",
				Cooldown: 30 * time.Second,
				Logger:   logger,
			},
			wantErr: true,
			errMsg:  "failure threshold must be positive",
		},
		{
			name: "zero-cooldown",
			config: &Config{
				Name:             "explorer",
				FailureThreshold: 3,
				Logger:           logger,
			},
			wantErr: true,
			errMsg:  "cooldown must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker, err := New(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !breaker.Allow() {
				t.Error("new breaker should start closed")
			}
		})
	}
}

func TestUpstreamCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	breaker, err := New(&Config{
		Name:             "explorer",
		FailureThreshold: 3,
		Cooldown:         time.Hour,
		Logger:           zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("create breaker: %v", err)
	}

	breaker.RecordFailure()
	breaker.RecordFailure()
	if !breaker.Allow() {
		t.Error("breaker should stay closed below the threshold")
	}

	breaker.RecordFailure()
	if breaker.Allow() {
		t.Error("breaker should open at the threshold")
	}

	status := breaker.GetStatus()
	if status.Closed {
		t.Error("status should report open")
	}
	if status.ConsecutiveFailures != 3 {
		t.Errorf("expected 3 consecutive failures, got %d", status.ConsecutiveFailures)
	}
}

func TestUpstreamCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	breaker, err := New(&Config{
		Name:             "explorer",
		FailureThreshold: 3,
		Cooldown:         time.Hour,
		Logger:           zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("create breaker: %v", err)
	}

	breaker.RecordFailure()
	breaker.RecordFailure()
	breaker.RecordSuccess()
	breaker.RecordFailure()
	breaker.RecordFailure()

	if !breaker.Allow() {
		t.Error("breaker should stay closed when failures are not consecutive")
	}
}

func TestUpstreamCircuitBreaker_ProbeAfterCooldown(t *testing.T) {
	t.Parallel()

	breaker, err := New(&Config{
		Name:             "explorer",
		FailureThreshold: 1,
		Cooldown:         50 * time.Millisecond,
		Logger:           zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("create breaker: %v", err)
	}

	breaker.RecordFailure()
	if breaker.Allow() {
		t.Error("breaker should be open before the cooldown")
	}

	time.Sleep(80 * time.Millisecond)

	if !breaker.Allow() {
		t.Error("breaker should allow a probe after the cooldown")
	}
	if breaker.Allow() {
		t.Error("only one probe should be allowed at a time")
	}

	// Successful probe closes the breaker for good.
	breaker.RecordSuccess()
	if !breaker.Allow() {
		t.Error("breaker should close after a successful probe")
	}
	if !breaker.Allow() {
		t.Error("closed breaker should allow every call")
	}
}

func TestUpstreamCircuitBreaker_FailedProbeRearmsCooldown(t *testing.T) {
	t.Parallel()

	breaker, err := New(&Config{
		Name:             "explorer",
		FailureThreshold: 1,
		Cooldown:         50 * time.Millisecond,
		Logger:           zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("create breaker: %v", err)
	}

	breaker.RecordFailure()
	time.Sleep(80 * time.Millisecond)

	if !breaker.Allow() {
		t.Fatal("expected a probe after the cooldown")
	}
	breaker.RecordFailure()

	if breaker.Allow() {
		t.Error("breaker should stay open immediately after a failed probe")
	}

	time.Sleep(80 * time.Millisecond)
	if !breaker.Allow() {
		t.Error("breaker should allow another probe after the next cooldown")
	}
}
