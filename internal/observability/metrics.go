package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// text-processing service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: route, outcome={ok,client_error,server_error}
	RequestDuration *prometheus.HistogramVec // labels: route

	// Model-backend metrics.
	ModelCalls     *prometheus.CounterVec // labels: operation, outcome={success,error}
	FallbacksTotal *prometheus.CounterVec // labels: operation, reason={model_error,model_disabled}
	SummaryCache   *prometheus.CounterVec // labels: result={hit,miss}
	ModelEnabled   prometheus.Gauge

	// Upstream weather API metrics.
	UpstreamRequests  *prometheus.CounterVec   // labels: product={metar,taf,pirep,airsigmet}, outcome={success,error}
	UpstreamDuration  *prometheus.HistogramVec // labels: product
	WeatherAPIEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aviation_nlp",
			Name:      "requests_total",
			Help:      "HTTP requests by route and outcome.",
		}, []string{"route", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aviation_nlp",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route"}),
		ModelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aviation_nlp",
			Name:      "model_calls_total",
			Help:      "Language model calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aviation_nlp",
			Name:      "fallbacks_total",
			Help:      "Rule-based fallbacks taken by operation and reason.",
		}, []string{"operation", "reason"}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aviation_nlp",
			Name:      "summary_cache_total",
			Help:      "Model response cache lookups by result.",
		}, []string{"result"}),
		ModelEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aviation_nlp",
			Name:      "model_enabled",
			Help:      "1 when the model backend is loaded, 0 otherwise.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aviation_nlp",
			Name:      "upstream_requests_total",
			Help:      "Weather data API requests by product and outcome.",
		}, []string{"product", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aviation_nlp",
			Name:      "upstream_duration_seconds",
			Help:      "Weather data API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"product"}),
		WeatherAPIEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aviation_nlp",
			Name:      "weather_api_enabled",
			Help:      "1 when the live weather data API is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ModelCalls,
		m.FallbacksTotal,
		m.SummaryCache,
		m.ModelEnabled,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.WeatherAPIEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RequestsTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aviation_nlp", Name: "requests_total"}, []string{"route", "outcome"}),
		RequestDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "aviation_nlp", Name: "request_duration_seconds"}, []string{"route"}),
		ModelCalls:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aviation_nlp", Name: "model_calls_total"}, []string{"operation", "outcome"}),
		FallbacksTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aviation_nlp", Name: "fallbacks_total"}, []string{"operation", "reason"}),
		SummaryCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aviation_nlp", Name: "summary_cache_total"}, []string{"result"}),
		ModelEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aviation_nlp", Name: "model_enabled"}),
		UpstreamRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aviation_nlp", Name: "upstream_requests_total"}, []string{"product", "outcome"}),
		UpstreamDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "aviation_nlp", Name: "upstream_duration_seconds"}, []string{"product"}),
		WeatherAPIEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aviation_nlp", Name: "weather_api_enabled"}),
	}
}
