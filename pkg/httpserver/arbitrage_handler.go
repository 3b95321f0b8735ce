package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
)

// ArbitrageHandler serves the detected-opportunity history.
type ArbitrageHandler struct {
	tracker *arbitrage.Tracker
	logger  *zap.Logger
}

// NewArbitrageHandler creates a new arbitrage history handler.
func NewArbitrageHandler(tracker *arbitrage.Tracker, logger *zap.Logger) *ArbitrageHandler {
	return &ArbitrageHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// HistoryResponse is the /api/arbitrage payload.
type HistoryResponse struct {
	Opportunities []arbitrage.Opportunity `json:"opportunities"`
	Count         int                     `json:"count"`
}

// HandleHistory handles GET /api/arbitrage requests.
func (h *ArbitrageHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history := h.tracker.History()

	writeJSON(w, h.logger, HistoryResponse{
		Opportunities: history,
		Count:         len(history),
	})
}
