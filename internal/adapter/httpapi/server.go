// Package httpapi exposes the briefing service over HTTP. Data-bearing
// routes answer with the {success, data, message, error} envelope; the NOTAM
// parse and text summarization routes return dedicated shapes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skybrief/aviation-nlp/internal/briefing"
	"github.com/skybrief/aviation-nlp/internal/config"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

// Fallback modes. Strict surfaces unexpected internal errors as 500s;
// tolerant degrades them to labeled 200 responses.
const (
	ModeStrict   = "strict"
	ModeTolerant = "tolerant"
)

// Server is the briefing HTTP server.
type Server struct {
	httpServer *http.Server
	svc        *briefing.Service
	logger     *slog.Logger
	metrics    *observability.Metrics

	mode        string
	corsOrigins []string
}

// NewServer wires every route. The service handle is required; behavior
// toggles (listen address, fallback mode, CORS origins) come from config.
func NewServer(cfg *config.Config, svc *briefing.Service, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		svc:         svc,
		logger:      logger,
		metrics:     metrics,
		mode:        cfg.FallbackMode,
		corsOrigins: cfg.CORSOrigins,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api-status", s.handleAPIStatus)

	mux.HandleFunc("POST /nlp/parse-notam", s.handleParseNotam)
	mux.HandleFunc("POST /nlp/summarize", s.handleSummarize)
	mux.HandleFunc("POST /summarize-report", s.handleSummarizeReport)
	mux.HandleFunc("POST /batch-summarize", s.handleBatchSummarize)
	mux.HandleFunc("POST /route-weather-summary", s.handleRouteWeatherSummary)
	mux.HandleFunc("POST /flight-weather-brief", s.handleFlightWeatherBrief)
	mux.HandleFunc("POST /explain-metar", s.handleExplainMetar)
	mux.HandleFunc("POST /quick-summary", s.handleQuickSummary)
	mux.HandleFunc("POST /assess-conditions", s.handleAssessConditions)
	mux.HandleFunc("POST /weather-highlights", s.handleWeatherHighlights)
	mux.HandleFunc("POST /categorize-weather", s.handleCategorizeWeather)
	mux.HandleFunc("POST /batch-categorize-weather", s.handleBatchCategorize)
	mux.HandleFunc("POST /enhanced-route-weather", s.handleEnhancedRouteWeather)

	mux.HandleFunc("POST /fetch-metar", s.handleFetchMetar)
	mux.HandleFunc("POST /fetch-taf", s.handleFetchTaf)
	mux.HandleFunc("POST /fetch-pirep", s.handleFetchPirep)
	mux.HandleFunc("POST /fetch-sigmet", s.handleFetchSigmet)
	mux.HandleFunc("POST /fetch-airmet", s.handleFetchAirmet)
	mux.HandleFunc("POST /fetch-comprehensive-weather", s.handleComprehensiveWeather)

	handler := s.cors(s.logRequests(s.recoverPanics(mux)))

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "mode", s.mode)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReadyz reports ready unconditionally: the rule-based path needs no
// external dependency, so the service can serve as soon as it listens.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}
