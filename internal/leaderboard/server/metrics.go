package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the backend's Prometheus collectors. Label values are bounded.
type Metrics struct {
	scoresSubmitted prometheus.Counter
	scoresRejected  *prometheus.CounterVec // reason: "decode", "invalid"
	rateLimited     prometheus.Counter
	requests        *prometheus.CounterVec // method, route, status
	wsClients       prometheus.Gauge
	wsMessages      prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scoresSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_scores_submitted_total",
			Help: "Scores accepted by the leaderboard",
		}),
		scoresRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_scores_rejected_total",
			Help: "Score submissions rejected",
		}, []string{"reason"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_rate_limited_total",
			Help: "API requests rejected by the per-IP rate limiter",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_http_requests_total",
			Help: "HTTP requests by route pattern",
		}, []string{"method", "route", "status"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_websocket_clients",
			Help: "Connected live-feed clients",
		}),
		wsMessages: f.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_websocket_messages_total",
			Help: "Messages pushed to live-feed clients",
		}),
	}
}
