package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebSocket metrics
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_active",
		Help: "The current number of active WebSocket connections.",
	})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_connections_total",
		Help: "The total number of WebSocket connections accepted.",
	})
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_messages_received_total",
		Help: "The total number of messages received from clients.",
	})
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_messages_sent_total",
		Help: "The total number of messages sent to clients.",
	})

	// Game metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_sessions_active",
		Help: "The current number of sessions in the registry.",
	})
	GamesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "games_completed_total",
		Help: "Finished or abandoned games, partitioned by outcome.",
	}, []string{"outcome"})
	RematchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rematches_started_total",
		Help: "The total number of accepted rematches.",
	})
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_swept_total",
		Help: "Sessions removed by the stale-session sweep.",
	})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
