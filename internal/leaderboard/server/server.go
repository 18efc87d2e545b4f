// Package server is the HTTP backend behind the shared leaderboard: a JSON
// score API, a WebSocket live feed of the top table, health and metrics.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomz197/spacedefenders/internal/leaderboard"
)

// EventTopScores is the live-feed event carrying the current top table.
const EventTopScores = "scores:top"

// maxBodyBytes bounds a score submission body.
const maxBodyBytes = 1 << 10

// Config configures a Server. Zero values pick defaults.
type Config struct {
	Capacity       int      // Entries kept by the store
	AllowedOrigins []string // CORS and WebSocket origins; empty allows any
	RateLimit      *RateLimitConfig
	FeedLimit      int // Entries pushed on the live feed
}

// Server owns the score table and everything that serves it.
type Server struct {
	store    *leaderboard.Store
	hub      *Hub
	limiter  *IPRateLimiter
	metrics  *Metrics
	registry *prometheus.Registry
	origins  []string
	feed     int
	logger   *log.Logger
}

// postRequest is the body of POST /api/scores.
type postRequest struct {
	Name  string `json:"name"`
	Score *int   `json:"score"`
}

// New creates a server and starts its background workers. Call Close to stop
// them.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	rl := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		rl = *cfg.RateLimit
	}
	feed := leaderboard.ClampLimit(cfg.FeedLimit)

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	s := &Server{
		store:    leaderboard.NewStore(cfg.Capacity),
		limiter:  NewIPRateLimiter(rl),
		metrics:  metrics,
		registry: reg,
		origins:  cfg.AllowedOrigins,
		feed:     feed,
		logger:   logger,
	}
	s.hub = NewHub(cfg.AllowedOrigins, metrics, logger)
	go s.hub.Run()
	return s
}

// Close stops the hub and the rate limiter.
func (s *Server) Close() {
	s.hub.Close()
	s.limiter.Stop()
}

// Store exposes the score table.
func (s *Server) Store() *leaderboard.Store {
	return s.store
}

// Router builds the HTTP routes. Callers may mount more routes on the
// returned mux, such as a landing page at "/".
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.metrics.rateLimited.Inc))
		r.Get("/scores", s.handleTopScores)
		r.Post("/scores", s.handlePostScore)
	})

	r.Get("/ws", s.handleFeed)

	return r
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	limit := leaderboard.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.store.Top(limit))
}

func (s *Server) handlePostScore(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.metrics.scoresRejected.WithLabelValues("decode").Inc()
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Score == nil {
		s.metrics.scoresRejected.WithLabelValues("invalid").Inc()
		writeError(w, "score is required", http.StatusBadRequest)
		return
	}

	entry, err := s.store.Add(req.Name, *req.Score)
	if errors.Is(err, leaderboard.ErrInvalidScore) {
		s.metrics.scoresRejected.WithLabelValues("invalid").Inc()
		writeError(w, "score must not be negative", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.scoresSubmitted.Inc()
	s.logger.Info("score submitted", "name", entry.Name, "score", entry.Score)
	s.hub.Publish(EventTopScores, s.store.Top(s.feed))

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, &feedMessage{Event: EventTopScores, Data: s.store.Top(s.feed)})
}

// requestLogger logs every request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"dur", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}
