package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/pkg/types"
)

// MarketHandler handles the market-data proxy endpoints: gas, defi, prices
// and swap routing.
type MarketHandler struct {
	gas      *upstream.GasClient
	defi     *upstream.DefiLlamaClient
	prices   *upstream.CachedPrices
	paraswap *upstream.ParaswapClient
	logger   *zap.Logger
}

// NewMarketHandler creates a new market-data handler.
func NewMarketHandler(gas *upstream.GasClient, defi *upstream.DefiLlamaClient, prices *upstream.CachedPrices, paraswap *upstream.ParaswapClient, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		gas:      gas,
		defi:     defi,
		prices:   prices,
		paraswap: paraswap,
		logger:   logger,
	}
}

// HandleGas handles GET /api/gas?chain=ergo|ethereum|all requests.
func (h *MarketHandler) HandleGas(w http.ResponseWriter, r *http.Request) {
	chain := r.URL.Query().Get("chain")
	if chain == "" {
		chain = "all"
	}

	switch chain {
	case "ergo", "ethereum":
		writeJSON(w, h.logger, h.gas.FetchGasPrices(r.Context(), chain))
	case "all":
		payload := map[string]*types.GasPrices{
			"ergo":     h.gas.FetchGasPrices(r.Context(), "ergo"),
			"ethereum": h.gas.FetchGasPrices(r.Context(), "ethereum"),
		}
		writeJSON(w, h.logger, payload)
	default:
		writeError(w, h.logger, "chain must be one of: ergo, ethereum, all", http.StatusBadRequest)
	}
}

// HandleDefi handles GET /api/defi?type=protocols|yields|protocol-tvl requests.
func (h *MarketHandler) HandleDefi(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("type")
	if dataType == "" {
		writeError(w, h.logger, "missing required query parameter: type", http.StatusBadRequest)
		return
	}

	chain := r.URL.Query().Get("chain")

	switch dataType {
	case "protocols":
		protocols, err := h.defi.FetchProtocols(r.Context(), chain)
		if err != nil {
			writeError(w, h.logger, "defi protocols unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, h.logger, protocols)
	case "yields":
		pools, err := h.defi.FetchYields(r.Context(), chain)
		if err != nil {
			writeError(w, h.logger, "defi yields unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, h.logger, pools)
	case "protocol-tvl":
		protocol := r.URL.Query().Get("protocol")
		if protocol == "" {
			writeError(w, h.logger, "missing required query parameter: protocol", http.StatusBadRequest)
			return
		}
		tvl, err := h.defi.FetchProtocolTVL(r.Context(), protocol)
		if err != nil {
			writeError(w, h.logger, "protocol tvl unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, h.logger, map[string]float64{"tvl": tvl})
	default:
		writeError(w, h.logger, "type must be one of: protocols, yields, protocol-tvl", http.StatusBadRequest)
	}
}

// HandlePrices handles GET /api/prices?symbols=CSV requests.
// The second endpoint with no fallback: total upstream failure is a 502.
func (h *MarketHandler) HandlePrices(w http.ResponseWriter, r *http.Request) {
	symbolsParam := r.URL.Query().Get("symbols")
	if symbolsParam == "" {
		writeError(w, h.logger, "missing required query parameter: symbols", http.StatusBadRequest)
		return
	}

	symbols := strings.Split(symbolsParam, ",")
	for i := range symbols {
		symbols[i] = strings.TrimSpace(symbols[i])
	}

	quotes, err := h.prices.FetchPrices(r.Context(), symbols)
	if err != nil {
		h.logger.Error("prices-unavailable", zap.Error(err))
		writeError(w, h.logger, "all price sources unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, h.logger, quotes)
}

// HandleRouting handles GET /api/routing swap quote requests.
func (h *MarketHandler) HandleRouting(w http.ResponseWriter, r *http.Request) {
	srcToken := r.URL.Query().Get("srcToken")
	destToken := r.URL.Query().Get("destToken")
	amount := r.URL.Query().Get("amount")

	if srcToken == "" || destToken == "" || amount == "" {
		writeError(w, h.logger, "missing required query parameters: srcToken, destToken, amount", http.StatusBadRequest)
		return
	}

	chainID := 1
	if v := r.URL.Query().Get("chainId"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, h.logger, "chainId must be a positive integer", http.StatusBadRequest)
			return
		}
		chainID = parsed
	}

	// FetchRoute substitutes a synthetic route on upstream failure.
	writeJSON(w, h.logger, h.paraswap.FetchRoute(r.Context(), srcToken, destToken, amount, chainID))
}
