package briefing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/aviation-nlp/internal/briefing"
	"github.com/skybrief/aviation-nlp/internal/domain"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

// --- mocks ---

type mockSummarizer struct {
	summary    string
	structured domain.StructuredNotam
	explained  string
	err        error

	calls    int
	lastText string
	lastMax  int
	lastKind domain.ReportKind
}

func (m *mockSummarizer) Summarize(_ context.Context, text string, maxLength, _ int) (string, error) {
	m.calls++
	m.lastText = text
	m.lastMax = maxLength
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func (m *mockSummarizer) SummarizeReport(_ context.Context, kind domain.ReportKind, text string, maxLength int) (string, error) {
	m.calls++
	m.lastKind = kind
	m.lastText = text
	m.lastMax = maxLength
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func (m *mockSummarizer) ParseNotam(_ context.Context, notamText, _ string) (domain.StructuredNotam, error) {
	m.calls++
	m.lastText = notamText
	if m.err != nil {
		return domain.StructuredNotam{}, m.err
	}
	return m.structured, nil
}

func (m *mockSummarizer) ExplainMetar(_ context.Context, metarText string) (string, error) {
	m.calls++
	m.lastText = metarText
	if m.err != nil {
		return "", m.err
	}
	return m.explained, nil
}

func (m *mockSummarizer) HealthCheck(_ context.Context) error {
	return m.err
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func modelService(m *mockSummarizer) *briefing.Service {
	return briefing.New(briefing.Backends{
		Summarizer:      m,
		SummarizerState: briefing.BackendLoaded,
		WeatherState:    briefing.BackendDisabled,
	}, testLogger(), newTestMetrics())
}

func rulesService() *briefing.Service {
	return briefing.New(briefing.Backends{
		SummarizerState: briefing.BackendDisabled,
		WeatherState:    briefing.BackendDisabled,
	}, testLogger(), newTestMetrics())
}

const (
	notamRunwayClosed = "A1234/24 NOTAMN KJFK RWY 04L/22R CLSD DUE TO CONSTRUCTION 2406121200-2406151200"
	metarCalm         = "KJFK 251651Z 18004KT 10SM FEW250 24/18 A3012"
	metarStormy       = "KORD 251651Z 24018G35KT 2SM TSRA BR OVC008 19/17 A2965"
)

// --- tests ---

func TestParseNotam_ModelPath(t *testing.T) {
	structured := domain.StructuredNotam{
		NotamID:     "A1234/24",
		Location:    "KJFK",
		Subject:     "runway closure",
		Description: "Runway 04L/22R closed for construction.",
		Severity:    "HIGH",
		Category:    "RUNWAY",
	}
	mock := &mockSummarizer{structured: structured}
	svc := modelService(mock)

	result := svc.ParseNotam(context.Background(), notamRunwayClosed, "KJFK", true)

	require.True(t, result.Success)
	assert.Equal(t, "model_parser", result.ProcessedBy)
	assert.False(t, result.ProcessedAt.IsZero())
	if diff := cmp.Diff(structured, result.StructuredNotam); diff != "" {
		t.Fatalf("structured notam mismatch (-want +got):\n%s", diff)
	}

	// Regex fields ride along regardless of which path parsed.
	assert.Equal(t, "A1234/24", result.Fields.NotamID)
	assert.Contains(t, result.Fields.Airports, "KJFK")
	assert.Equal(t, 1, mock.calls)
}

func TestParseNotam_FallsBackOnModelError(t *testing.T) {
	mock := &mockSummarizer{err: errors.New("model offline")}
	svc := modelService(mock)

	result := svc.ParseNotam(context.Background(), notamRunwayClosed, "KJFK", true)

	require.True(t, result.Success)
	assert.Equal(t, "rule_based_parser", result.ProcessedBy)
	assert.Equal(t, "A1234/24", result.NotamID)
	assert.Equal(t, "KJFK", result.Location)
	assert.Equal(t, "RUNWAY", result.Category)
	assert.Equal(t, "HIGH", result.Severity)
	assert.Equal(t, notamRunwayClosed, result.Description)
}

func TestParseNotam_ModelDisabled(t *testing.T) {
	svc := rulesService()

	result := svc.ParseNotam(context.Background(), notamRunwayClosed, "", true)

	require.True(t, result.Success)
	assert.Equal(t, "rule_based_parser", result.ProcessedBy)
	// With no airport code given the first extracted station wins.
	assert.Equal(t, "KJFK", result.Location)
}

func TestParseNotam_ExcludesSeverityOnRequest(t *testing.T) {
	svc := rulesService()

	result := svc.ParseNotam(context.Background(), notamRunwayClosed, "KJFK", false)

	assert.Empty(t, result.Severity)
	assert.Empty(t, result.Fields.Severity)
	assert.Zero(t, result.Fields.Confidence)
	// The category survives; only severity grading is suppressed.
	assert.Equal(t, "RUNWAY", result.Category)
}

func TestNew_NormalizesNilBackends(t *testing.T) {
	svc := briefing.New(briefing.Backends{
		SummarizerState: briefing.BackendLoaded,
		WeatherState:    briefing.BackendLoaded,
	}, testLogger(), newTestMetrics())

	health := svc.Health()
	assert.Equal(t, "unavailable", health.Backends["summarizer"])
	assert.Equal(t, "unavailable", health.Backends["weather_api"])

	// Operations still answer on the rule path.
	result := svc.ParseNotam(context.Background(), notamRunwayClosed, "KJFK", true)
	assert.Equal(t, "rule_based_parser", result.ProcessedBy)
}

func TestSummarize_ModelPath(t *testing.T) {
	mock := &mockSummarizer{summary: "Runway closed at JFK, plan alternates."}
	svc := modelService(mock)

	text := "NOTAM: " + notamRunwayClosed
	result := svc.Summarize(context.Background(), text, 200, 50)

	require.True(t, result.Success)
	assert.Equal(t, "model_summarizer", result.ProcessedBy)
	assert.Equal(t, mock.summary, result.Summary)
	assert.Equal(t, len(text), result.OriginalLength)
	assert.Equal(t, len(mock.summary), result.SummaryLength)

	// Derived fields are rule-based on both paths.
	assert.Equal(t, "HIGH", result.Severity)
	assert.Contains(t, result.KeyPoints, "Facility or service closure reported")
	assert.Contains(t, result.KeyPoints, "Runway operations affected")
	assert.Contains(t, result.Recommendations, "Plan alternate routing or procedures")
}

func TestSummarize_FallsBackToExtractive(t *testing.T) {
	mock := &mockSummarizer{err: errors.New("rate limited")}
	svc := modelService(mock)

	// Two sentences pass through the extractive summarizer verbatim.
	text := "Runway 04L closed for construction. Use runway 13R instead."
	result := svc.Summarize(context.Background(), text, 200, 20)

	require.True(t, result.Success)
	assert.Equal(t, "rule_based_summarizer", result.ProcessedBy)
	assert.Equal(t, text, result.Summary)
}

func TestSummarize_EmptyModelOutputFallsBack(t *testing.T) {
	mock := &mockSummarizer{summary: ""}
	svc := modelService(mock)

	text := "Taxiway B limited to aircraft under 12500 lbs."
	result := svc.Summarize(context.Background(), text, 200, 20)

	assert.Equal(t, "rule_based_summarizer", result.ProcessedBy)
	assert.Equal(t, text, result.Summary)
}

func TestSummarizeReport_ModelPath(t *testing.T) {
	mock := &mockSummarizer{summary: "Ceiling lifting through the morning."}
	svc := modelService(mock)

	data := []byte(`"KJFK 251720Z 2518/2624 19008KT P6SM SCT035"`)
	result := svc.SummarizeReport(context.Background(), domain.KindTaf, data, 150)

	assert.Equal(t, "TAF", result.ReportType)
	assert.Equal(t, mock.summary, result.Summary)
	assert.Equal(t, "model_summarizer", result.ProcessedBy)
	assert.JSONEq(t, string(data), string(result.OriginalData))
	assert.Equal(t, domain.KindTaf, mock.lastKind)
	assert.Equal(t, 150, mock.lastMax)
	assert.Equal(t, "KJFK 251720Z 2518/2624 19008KT P6SM SCT035", mock.lastText)
}

func TestSummarizeReport_MetarRuleFallbackDecodes(t *testing.T) {
	svc := rulesService()

	data := []byte(`"` + metarCalm + `"`)
	result := svc.SummarizeReport(context.Background(), domain.KindMetar, data, 200)

	assert.Equal(t, "rule_based_summarizer", result.ProcessedBy)
	assert.Equal(t, domain.SummarizeMetar(metarCalm), result.Summary)
	assert.Contains(t, result.Summary, "visibility 10 statute miles")
}

func TestBatchSummarize_MixedTypes(t *testing.T) {
	svc := rulesService()

	reports := []briefing.BatchReport{
		{Data: []byte(`"` + metarCalm + `"`), Type: "metar"},
		{Data: []byte(`"whatever"`), Type: "bogus"},
		{Data: []byte(`"KJFK 251720Z 2518/2624 19008KT P6SM SCT035"`), Type: "taf", MaxLength: 100},
	}
	result := svc.BatchSummarize(context.Background(), reports)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 3)

	assert.True(t, result.Results[0].Success)
	assert.Equal(t, 0, result.Results[0].Index)
	assert.Equal(t, "metar", result.Results[0].Type)
	assert.NotEmpty(t, result.Results[0].Summary)

	assert.False(t, result.Results[1].Success)
	assert.Equal(t, "bogus", result.Results[1].Type)
	assert.Contains(t, result.Results[1].Error, "unknown report type")

	assert.True(t, result.Results[2].Success)
}

func TestBatchSummarize_EmptyList(t *testing.T) {
	svc := rulesService()

	result := svc.BatchSummarize(context.Background(), nil)

	assert.Zero(t, result.TotalProcessed)
	assert.Zero(t, result.Successful)
	assert.Zero(t, result.Failed)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
}

func TestBatchSummarize_DefaultsTypeAndLength(t *testing.T) {
	mock := &mockSummarizer{summary: "short"}
	svc := modelService(mock)

	reports := []briefing.BatchReport{
		{Data: []byte(`"KDEN UA /OV DEN/TM 1720/FL350 /TP B738 /TB MOD"`), Type: "pirep"},
		{Data: []byte(`"text"`)},
	}
	result := svc.BatchSummarize(context.Background(), reports)

	assert.Equal(t, 200, mock.lastMax)
	assert.Equal(t, 1, result.Successful)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "unknown", result.Results[1].Type)
	assert.False(t, result.Results[1].Success)
}

func TestRouteWeatherSummary_ModelRewritesSummary(t *testing.T) {
	mock := &mockSummarizer{summary: "VFR both ends, smooth ride expected at FL350."}
	svc := modelService(mock)

	result := svc.RouteWeatherSummary(context.Background(), briefing.RouteWeatherInput{
		Departure:        "KJFK",
		Arrival:          "KLAX",
		Altitude:         "FL350",
		MetarOverride:    metarCalm,
		IncludeEnroute:   true,
		MaxSummaryLength: 300,
	})

	assert.Equal(t, "KJFK → KLAX", result.Route)
	assert.Equal(t, mock.summary, result.Summary)
	assert.Equal(t, "model_summarizer", result.ProcessedBy)
	assert.Equal(t, "VFR", result.FlightCategory)
	assert.Equal(t, "HIGH", result.Confidence)
	assert.NotEmpty(t, result.Conditions)
	assert.NotEmpty(t, result.Recommendations)
	assert.Empty(t, result.Hazards)

	// The model is asked to rewrite the deterministic briefing, not raw data.
	assert.Contains(t, mock.lastText, "Create a concise flight weather briefing:")
	assert.Contains(t, mock.lastText, "ROUTE WEATHER BRIEFING: Flight from KJFK to KLAX at FL350")
	assert.Equal(t, 300, mock.lastMax)
}

func TestRouteWeatherSummary_RuleSummaryOnModelError(t *testing.T) {
	mock := &mockSummarizer{err: errors.New("timeout")}
	svc := modelService(mock)

	result := svc.RouteWeatherSummary(context.Background(), briefing.RouteWeatherInput{
		Departure:        "KJFK",
		Arrival:          "KLAX",
		Altitude:         "FL350",
		IncludeEnroute:   true,
		MaxSummaryLength: 300,
	})

	assert.Equal(t, "rule_based_summarizer", result.ProcessedBy)
	assert.Contains(t, result.Summary, "ROUTE WEATHER BRIEFING: Flight from KJFK to KLAX at FL350")
	assert.Contains(t, result.Summary, "Primary Recommendation:")
}

func TestRouteWeatherSummary_HazardsFromMetar(t *testing.T) {
	svc := rulesService()

	result := svc.RouteWeatherSummary(context.Background(), briefing.RouteWeatherInput{
		Departure:        "KORD",
		Arrival:          "KDEN",
		Altitude:         "8000ft",
		MetarOverride:    metarStormy,
		IncludeEnroute:   false,
		MaxSummaryLength: 300,
	})

	assert.Equal(t, "IFR", result.FlightCategory)
	assert.Contains(t, result.Hazards, "Thunderstorms at departure")
	assert.Contains(t, result.Hazards, "Strong winds at departure")
	assert.Contains(t, result.Hazards, "Reduced visibility at departure")
	assert.Contains(t, result.Recommendations, "IFR flight rules required - file IFR flight plan")
}

func TestFlightWeatherBrief_CalmConditions(t *testing.T) {
	svc := rulesService()

	brief, err := svc.FlightWeatherBrief(context.Background(), "kjfk", "klax", "FL350", metarCalm)

	require.NoError(t, err)
	assert.Equal(t, "KJFK → KLAX", brief.Route)
	assert.Equal(t, "FL350", brief.Altitude)
	assert.Equal(t, "VFR", brief.FlightConditions)
	assert.Len(t, brief.KeyPoints, 3)
	assert.Equal(t, "VFR conditions favorable for flight", brief.Recommendation)
	assert.False(t, brief.HazardsPresent)
	assert.Equal(t, "None identified", brief.HazardSummary)
	assert.Contains(t, brief.WeatherBrief, "ROUTE WEATHER BRIEFING")
}

func TestFlightWeatherBrief_ReportsHazards(t *testing.T) {
	svc := rulesService()

	brief, err := svc.FlightWeatherBrief(context.Background(), "KORD", "KDEN", "FL350", metarStormy)

	require.NoError(t, err)
	assert.True(t, brief.HazardsPresent)
	assert.Contains(t, brief.HazardSummary, "Thunderstorms at departure")
	assert.Contains(t, brief.HazardSummary, "Strong winds at departure")
	assert.Equal(t, "IFR", brief.FlightConditions)
	assert.Equal(t, "IFR flight rules required - file IFR flight plan", brief.Recommendation)
}

func TestExplainMetar_ModelPath(t *testing.T) {
	mock := &mockSummarizer{explained: "Wind from the south at 4 knots, visibility 10 miles."}
	svc := modelService(mock)

	explanation, processedBy := svc.ExplainMetar(context.Background(), metarCalm)

	assert.Equal(t, mock.explained, explanation)
	assert.Equal(t, "model_summarizer", processedBy)
	assert.Equal(t, metarCalm, mock.lastText)
}

func TestExplainMetar_RuleFallback(t *testing.T) {
	mock := &mockSummarizer{err: errors.New("boom")}
	svc := modelService(mock)

	explanation, processedBy := svc.ExplainMetar(context.Background(), metarCalm)

	assert.Equal(t, "rule_based_summarizer", processedBy)
	assert.Equal(t, domain.SummarizeMetar(metarCalm), explanation)
}

func TestQuickSummary_ModelPath(t *testing.T) {
	mock := &mockSummarizer{summary: "Expect a smooth VFR flight."}
	svc := modelService(mock)

	summary, processedBy := svc.QuickSummary(context.Background(), "KJFK", "KBOS", "FL240", []string{"light rain", "scattered clouds"})

	assert.Equal(t, mock.summary, summary)
	assert.Equal(t, "model_summarizer", processedBy)
	assert.Contains(t, mock.lastText, "KJFK")
	assert.Contains(t, mock.lastText, "KBOS")
	assert.Contains(t, mock.lastText, "light rain, scattered clouds")
}

func TestQuickSummary_RuleFallback(t *testing.T) {
	svc := rulesService()

	summary, processedBy := svc.QuickSummary(context.Background(), "KJFK", "KBOS", "FL240", []string{"light rain"})

	assert.Equal(t, "rule_based_summarizer", processedBy)
	assert.Equal(t, domain.QuickSummary("KJFK", "KBOS", "FL240", []string{"light rain"}), summary)
}

func TestBatchCategorize(t *testing.T) {
	svc := rulesService()

	result := svc.BatchCategorize([]briefing.AirportMetar{
		{Airport: "KJFK", Metar: metarCalm},
		{Airport: "KORD", Metar: metarStormy},
		{Airport: "KLGA"},
		{Metar: metarCalm},
	})

	assert.Equal(t, 4, result.AirportsProcessed)
	assert.Equal(t, 3, result.TotalAnalyzed)
	require.Len(t, result.AirportsAnalysis, 4)

	assert.Equal(t, "KJFK", result.AirportsAnalysis[0].Airport)
	assert.Equal(t, "Clear", result.AirportsAnalysis[0].Category)
	assert.Equal(t, metarCalm, result.AirportsAnalysis[0].RawMetar)
	assert.NotEmpty(t, result.AirportsAnalysis[0].WeatherSummary)

	assert.Equal(t, "Severe", result.AirportsAnalysis[1].Category)

	noData := result.AirportsAnalysis[2]
	assert.Equal(t, "No Data", noData.Category)
	assert.Equal(t, "No METAR data provided", noData.WeatherSummary)
	assert.Equal(t, "METAR required for analysis", noData.Explanation)
	assert.Equal(t, "Unknown", noData.FlightImpact)
	assert.Empty(t, noData.RawMetar)

	assert.Equal(t, "Unknown", result.AirportsAnalysis[3].Airport)

	assert.Equal(t, 2, result.SummaryStatistics["Clear"])
	assert.Equal(t, 0, result.SummaryStatistics["Significant"])
	assert.Equal(t, 1, result.SummaryStatistics["Severe"])
}

func TestCategorizeWeather_Delegates(t *testing.T) {
	svc := rulesService()

	got := svc.CategorizeWeather(metarStormy)

	if diff := cmp.Diff(domain.CategorizeWeather(metarStormy), got); diff != "" {
		t.Fatalf("categorization mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Severe", got.Category)
}

func TestAssessConditions_Delegates(t *testing.T) {
	svc := rulesService()

	snapshot := domain.WeatherSnapshot{
		CurrentConditions: map[string]domain.StationObservation{
			"KJFK": {RawOb: metarCalm},
		},
	}
	got := svc.AssessConditions(snapshot)

	assert.Equal(t, "GOOD", got.Overall)
	assert.Equal(t, "VFR", got.FlightCategory)
}

func TestWeatherHighlights_Delegates(t *testing.T) {
	svc := rulesService()

	snapshot := domain.WeatherSnapshot{
		CurrentConditions: map[string]domain.StationObservation{
			"KORD": {RawOb: metarStormy},
		},
	}
	got := svc.WeatherHighlights(snapshot)

	assert.Equal(t, "IFR", got.StationCategories["KORD"])
	assert.NotEmpty(t, got.Highlights)
}

func TestEnhancedRouteWeather_Delegates(t *testing.T) {
	svc := rulesService()

	got := svc.EnhancedRouteWeather("KJFK", "KORD", "FL350", metarCalm, metarStormy)

	assert.Equal(t, "KJFK → KORD", got.Route)
	assert.Equal(t, 35000, got.AltitudeFeet)
	assert.Equal(t, "Severe", got.OverallAssessment)
	require.NotNil(t, got.Departure)
	assert.Equal(t, "Clear", got.Departure.Analysis.Category)
}

func TestHealth_ReportsBackendStates(t *testing.T) {
	svc := briefing.New(briefing.Backends{
		Summarizer:      &mockSummarizer{},
		SummarizerState: briefing.BackendLoaded,
		WeatherState:    briefing.BackendDisabled,
	}, testLogger(), newTestMetrics())

	health := svc.Health()

	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "aviation-nlp", health.Service)
	assert.Equal(t, "1.0.0", health.Version)
	assert.Equal(t, "loaded", health.Backends["summarizer"])
	assert.Equal(t, "disabled", health.Backends["weather_api"])
}
