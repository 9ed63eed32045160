package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/metrics"
	"github.com/dgallion1/slidedeck/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for slidedeck.
type Server struct {
	router       chi.Router
	library      *deck.Library
	orchestrator *pipeline.Orchestrator
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. gatherer backs /metrics;
// nil uses the default registry.
func NewServer(lib *deck.Library, orch *pipeline.Orchestrator, m *metrics.Metrics, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		library:      lib,
		orchestrator: orch,
		metrics:      m,
		gatherer:     gatherer,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/decks", s.handleListDecks)
		r.Route("/api/decks/{lang}/{slug}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Get("/outline", s.handleDeckOutline)
			r.Get("/slides/{n}", s.handleDeckSlide)
		})

		r.Post("/api/segment", s.handleSegment)

		r.Post("/api/builds", s.handleBuild)
		r.Get("/api/builds/{jobID}/status", s.handleBuildStatus)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
