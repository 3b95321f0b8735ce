package healthprobe

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker backs the /health and /ready endpoints. Liveness is
// unconditional; readiness flips once upstream polling has started and flips
// back during shutdown so load balancers drain the instance.
type HealthChecker struct {
	startTime time.Time
	ready     atomic.Bool
}

// New creates a new HealthChecker.
func New() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
	}
}

// SetReady marks the service as ready to serve traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// ProbeResponse is the payload of both probe endpoints.
type ProbeResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime,omitempty"`
	UptimeSeconds float64 `json:"uptimeSeconds,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// Health returns an HTTP handler for liveness checks.
// Always 200 OK while the process is running.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeProbe(w, http.StatusOK, ProbeResponse{Status: "healthy"})
	}
}

// Ready returns an HTTP handler for readiness checks.
// 200 OK when ready, 503 Service Unavailable otherwise.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			h.writeProbe(w, http.StatusServiceUnavailable, ProbeResponse{
				Status:  "not_ready",
				Message: "service is starting",
			})
			return
		}

		h.writeProbe(w, http.StatusOK, ProbeResponse{Status: "ready"})
	}
}

func (h *HealthChecker) writeProbe(w http.ResponseWriter, code int, resp ProbeResponse) {
	if code == http.StatusOK {
		uptime := time.Since(h.startTime)
		resp.Uptime = uptime.String()
		resp.UptimeSeconds = uptime.Seconds()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
