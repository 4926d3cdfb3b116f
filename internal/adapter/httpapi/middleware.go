package httpapi

import (
	"net/http"
	"time"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests records one log line and the request metrics per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		outcome := "ok"
		switch {
		case rec.status >= 500:
			outcome = "server_error"
		case rec.status >= 400:
			outcome = "client_error"
		}
		s.metrics.RequestsTotal.WithLabelValues(r.URL.Path, outcome).Inc()
		s.metrics.RequestDuration.WithLabelValues(r.URL.Path).Observe(duration.Seconds())

		s.logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds())
	})
}

// cors applies the configured origin policy and answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowed := s.allowOrigin(r.Header.Get("Origin")); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

// recoverPanics converts handler panics into structured responses. Strict
// mode surfaces a 500; tolerant mode answers 200 with a degraded envelope so
// briefing clients keep rendering. The panic value is logged, never returned.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			s.logger.Error("handler panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec)

			if s.mode == ModeStrict {
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			writeJSON(w, http.StatusOK, envelope{
				Success: false,
				Message: "Request processing degraded due to an internal error",
				Error:   "internal server error",
			})
		}()
		next.ServeHTTP(w, r)
	})
}
