// Package briefing orchestrates aviation text processing across an optional
// model backend and an optional live weather backend. Every operation has a
// deterministic rule-based fallback, so a missing or failing backend degrades
// the output instead of failing the request.
package briefing

import (
	"context"

	"github.com/skybrief/aviation-nlp/internal/domain"
)

// BackendState records how an optional backend came up. States are fixed at
// construction and never re-probed.
type BackendState string

const (
	// BackendLoaded means the backend was configured and constructed.
	BackendLoaded BackendState = "loaded"
	// BackendDisabled means configuration turned the backend off.
	BackendDisabled BackendState = "disabled"
	// BackendUnavailable means the backend was wanted but could not be built.
	BackendUnavailable BackendState = "unavailable"
)

// Summarizer is the model-backed parsing and summarization backend.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
	SummarizeReport(ctx context.Context, kind domain.ReportKind, text string, maxLength int) (string, error)
	ParseNotam(ctx context.Context, notamText, airportCode string) (domain.StructuredNotam, error)
	ExplainMetar(ctx context.Context, metarText string) (string, error)
	HealthCheck(ctx context.Context) error
}

// WeatherAPI is the live aviationweather.gov data backend.
type WeatherAPI interface {
	FetchMetars(ctx context.Context, stations []string, hours int) ([]domain.Metar, error)
	FetchTafs(ctx context.Context, stations []string, hours int) ([]domain.Taf, error)
	FetchPireps(ctx context.Context, stations []string, age, distanceNM int) ([]domain.Pirep, error)
	FetchSigmets(ctx context.Context, hazard, level string) ([]domain.AirSigmet, error)
	FetchAirmets(ctx context.Context, hazard string) ([]domain.AirSigmet, error)
	Status(ctx context.Context) domain.APIStatus
}

// Backends bundles the optional backend handles and their states for Service
// construction. A nil handle whose state claims loaded is normalized to
// unavailable so operations never dereference it.
type Backends struct {
	Summarizer      Summarizer
	SummarizerState BackendState
	Weather         WeatherAPI
	WeatherState    BackendState
}
