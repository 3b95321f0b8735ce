package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
)

// DjedHandler handles the /api/djed proxy endpoint family.
type DjedHandler struct {
	oracle   *upstream.OracleSource
	state    *upstream.StateSource
	explorer *upstream.ExplorerClient
	logger   *zap.Logger
}

// NewDjedHandler creates a new djed proxy handler.
func NewDjedHandler(oracle *upstream.OracleSource, state *upstream.StateSource, explorer *upstream.ExplorerClient, logger *zap.Logger) *DjedHandler {
	return &DjedHandler{
		oracle:   oracle,
		state:    state,
		explorer: explorer,
		logger:   logger,
	}
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StateResponse wraps the protocol state in the dashboard's envelope.
type StateResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// HandleDjed handles GET /api/djed?endpoint=<name> requests.
func (h *DjedHandler) HandleDjed(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		writeError(w, h.logger, "missing required query parameter: endpoint", http.StatusBadRequest)
		return
	}

	h.logger.Debug("djed-request-received", zap.String("endpoint", endpoint))

	switch endpoint {
	case "oracle/price":
		h.handleOraclePrice(w, r)
	case "info":
		h.handleInfo(w, r)
	case "blocks":
		h.handleBlocks(w, r)
	case "djed/price":
		h.handleProtocolPrice(w)
	case "djed/state":
		h.handleProtocolState(w, r)
	default:
		writeError(w, h.logger, "unknown endpoint: "+endpoint, http.StatusBadRequest)
	}
}

// handleOraclePrice is one of the two endpoints with no static fallback:
// exhausting every price source surfaces a 502.
func (h *DjedHandler) handleOraclePrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.oracle.FetchPrice(r.Context())
	if err != nil {
		writeError(w, h.logger, "all oracle price sources unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, h.logger, price)
}

func (h *DjedHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.explorer.FetchNetworkInfo(r.Context())
	if err != nil {
		writeError(w, h.logger, "network info unavailable", http.StatusBadGateway)
		return
	}

	writeRaw(w, h.logger, info)
}

func (h *DjedHandler) handleBlocks(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, h.logger, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	blocks, err := h.explorer.FetchBlocks(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, "blocks unavailable", http.StatusBadGateway)
		return
	}

	writeRaw(w, h.logger, blocks)
}

func (h *DjedHandler) handleProtocolPrice(w http.ResponseWriter) {
	writeJSON(w, h.logger, h.state.FetchProtocolPrice(time.Now()))
}

// handleProtocolState always reports success; a failed upstream read is
// served as the fallback snapshot, distinguishable only via data.source.
func (h *DjedHandler) handleProtocolState(w http.ResponseWriter, r *http.Request) {
	state := h.state.FetchState(r.Context())
	writeJSON(w, h.logger, StateResponse{Success: true, Data: state})
}

// writeJSON writes a JSON 200 response.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeRaw passes an upstream JSON document through untouched.
func writeRaw(w http.ResponseWriter, logger *zap.Logger, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, err := w.Write(body)
	if err != nil {
		logger.Error("failed-to-write-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(ErrorResponse{Error: message})
	if err != nil {
		logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
