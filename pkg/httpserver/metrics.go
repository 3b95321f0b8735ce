package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StreamClientsGauge tracks connected opportunity-stream clients.
	StreamClientsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "djedops_stream_clients",
		Help: "Number of connected opportunity stream websocket clients",
	})

	// StreamMessagesTotal tracks broadcast opportunity messages.
	StreamMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "djedops_stream_messages_total",
		Help: "Total number of opportunity messages broadcast to stream clients",
	})
)
