// Package api exposes the team lookup pipeline as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/ftcscope/internal/app"
	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Lookup(ctx context.Context, number, season int) (*service.Lookup, error)
	TeamSeasons(ctx context.Context, number int) (service.SeasonList, error)
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

const defaultRequestTimeout = 60 * time.Second

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithRequestTimeout bounds each request, upstream calls included.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// Server wires HTTP routes for the lookup API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	teamsHandler  *TeamsHandler

	corsOrigins    []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		corsOrigins:    []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.teamsHandler = NewTeamsHandler(deps, s.logger)
	return s
}

// Register attaches middleware and all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(AccessLog(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api/teams/{number}", func(r chi.Router) {
		r.Get("/", s.teamsHandler.HandleLookup)
		r.Get("/seasons", s.teamsHandler.HandleSeasons)
	})
}

// Router returns a fresh chi router with every route registered.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	// 5xx bodies hide internals, except upstream failures which name the call.
	if err != nil && (status < http.StatusInternalServerError || status == http.StatusBadGateway) {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
