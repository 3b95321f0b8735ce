package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/arbitrage"
)

const streamWriteTimeout = 5 * time.Second

// OpportunityHub fans newly detected opportunities out to dashboard
// websocket subscribers. Slow clients are dropped, never waited on.
type OpportunityHub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	wg       sync.WaitGroup
}

// NewOpportunityHub creates a new opportunity stream hub.
func NewOpportunityHub(logger *zap.Logger) *OpportunityHub {
	return &OpportunityHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The dashboard is served from arbitrary origins in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleSubscribe handles GET /ws/opportunities upgrade requests.
func (h *OpportunityHub) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket-upgrade-failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	StreamClientsGauge.Set(float64(count))
	h.logger.Info("stream-client-connected", zap.Int("clients", count))

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice closes.
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Run consumes the engine's opportunity channel until it closes.
func (h *OpportunityHub) Run(ctx context.Context, opportunities <-chan *arbitrage.Opportunity) {
	for {
		select {
		case <-ctx.Done():
			return
		case opp, ok := <-opportunities:
			if !ok {
				return
			}
			h.broadcast(opp)
		}
	}
}

func (h *OpportunityHub) broadcast(opp *arbitrage.Opportunity) {
	payload, err := json.Marshal(opp)
	if err != nil {
		h.logger.Error("failed-to-marshal-opportunity", zap.Error(err))
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		err := conn.WriteMessage(websocket.TextMessage, payload)
		if err != nil {
			h.drop(conn)
		}
	}

	StreamMessagesTotal.Inc()
}

func (h *OpportunityHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, present := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	if present {
		_ = conn.Close()
		StreamClientsGauge.Set(float64(count))
		h.logger.Info("stream-client-disconnected", zap.Int("clients", count))
	}
}

// Close disconnects all clients and waits for reader goroutines.
func (h *OpportunityHub) Close() error {
	h.mu.Lock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	h.wg.Wait()

	return nil
}
