package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skybrief/aviation-nlp/internal/domain"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

const (
	// ServiceName identifies this service in health responses.
	ServiceName = "aviation-nlp"
	// ServiceVersion is reported by the health endpoints.
	ServiceVersion = "1.0.0"
)

// Path labels reported in processed_by fields and matched by dashboards.
const (
	processedByModelParser     = "model_parser"
	processedByRuleParser      = "rule_based_parser"
	processedByModelSummarizer = "model_summarizer"
	processedByRuleSummarizer  = "rule_based_summarizer"
)

// errEmptyModel marks a model call that succeeded but produced nothing
// usable. It is treated like any other model failure.
var errEmptyModel = errors.New("model returned an empty result")

// ErrWeatherUnavailable is returned by fetch operations when the live
// weather backend is disabled or was never built.
var ErrWeatherUnavailable = errors.New("aviation weather backend is not available")

// Service coordinates the model and weather backends behind every briefing
// operation. Backend states are fixed at construction; a degraded backend
// downgrades results to the rule-based path instead of failing requests.
type Service struct {
	summarizer      Summarizer
	summarizerState BackendState
	weather         WeatherAPI
	weatherState    BackendState

	logger  *slog.Logger
	metrics *observability.Metrics
}

// New builds the Service and publishes the backend availability gauges.
func New(backends Backends, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if backends.Summarizer == nil && backends.SummarizerState == BackendLoaded {
		backends.SummarizerState = BackendUnavailable
	}
	if backends.Weather == nil && backends.WeatherState == BackendLoaded {
		backends.WeatherState = BackendUnavailable
	}

	s := &Service{
		summarizer:      backends.Summarizer,
		summarizerState: backends.SummarizerState,
		weather:         backends.Weather,
		weatherState:    backends.WeatherState,
		logger:          logger,
		metrics:         metrics,
	}

	if s.modelReady() {
		metrics.ModelEnabled.Set(1)
	} else {
		metrics.ModelEnabled.Set(0)
	}
	if s.weatherReady() {
		metrics.WeatherAPIEnabled.Set(1)
	} else {
		metrics.WeatherAPIEnabled.Set(0)
	}
	return s
}

func (s *Service) modelReady() bool {
	return s.summarizerState == BackendLoaded && s.summarizer != nil
}

func (s *Service) weatherReady() bool {
	return s.weatherState == BackendLoaded && s.weather != nil
}

// recordFallback notes why the model path did not produce a result. A nil
// error means the backend was never available for this process.
func (s *Service) recordFallback(operation string, err error) {
	if err != nil {
		s.logger.Warn("model path failed, falling back to rules",
			"operation", operation,
			"error", err)
		s.metrics.ModelCalls.WithLabelValues(operation, "error").Inc()
		s.metrics.FallbacksTotal.WithLabelValues(operation, "model_error").Inc()
		return
	}
	s.metrics.FallbacksTotal.WithLabelValues(operation, "model_disabled").Inc()
}

// trySummarize runs one model summarization attempt. The boolean reports
// whether the model produced the result; on false the caller supplies the
// rule-based value.
func (s *Service) trySummarize(ctx context.Context, operation, text string, maxLength, minLength int) (string, bool) {
	if !s.modelReady() {
		s.recordFallback(operation, nil)
		return "", false
	}
	out, err := s.summarizer.Summarize(ctx, text, maxLength, minLength)
	if err == nil && out == "" {
		err = errEmptyModel
	}
	if err != nil {
		s.recordFallback(operation, err)
		return "", false
	}
	s.metrics.ModelCalls.WithLabelValues(operation, "success").Inc()
	return out, true
}

// NotamParseResult is the dedicated response shape of the NOTAM parse
// operation: the structured view plus the raw extracted fields.
type NotamParseResult struct {
	Success bool `json:"success"`
	domain.StructuredNotam
	Fields      domain.ParsedNotam `json:"fields"`
	ProcessedBy string             `json:"processed_by"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// ParseNotam turns raw NOTAM text into the structured briefing view. The
// model parser is tried first; the regex extractor always contributes the
// fields block and serves as the full fallback.
func (s *Service) ParseNotam(ctx context.Context, notamText, airportCode string, includeSeverity bool) NotamParseResult {
	fields := domain.ExtractNotamFields(notamText)

	var structured domain.StructuredNotam
	processedBy := processedByRuleParser
	if s.modelReady() {
		out, err := s.summarizer.ParseNotam(ctx, notamText, airportCode)
		if err == nil {
			structured = out
			processedBy = processedByModelParser
			s.metrics.ModelCalls.WithLabelValues("parse-notam", "success").Inc()
		} else {
			s.recordFallback("parse-notam", err)
		}
	} else {
		s.recordFallback("parse-notam", nil)
	}
	if processedBy == processedByRuleParser {
		structured = domain.StructureNotam(notamText, airportCode)
	}

	result := NotamParseResult{
		Success:         true,
		StructuredNotam: structured,
		Fields:          fields,
		ProcessedBy:     processedBy,
		ProcessedAt:     domain.Now(),
	}
	if !includeSeverity {
		result.Severity = ""
		result.Fields.Severity = ""
		result.Fields.Confidence = 0
	}
	return result
}

// SummarizeResult is the dedicated response shape of the free-text
// summarization operation. Key points, severity, and recommendations are
// always rule-derived so both paths stay comparable.
type SummarizeResult struct {
	Success         bool      `json:"success"`
	Summary         string    `json:"summary"`
	KeyPoints       []string  `json:"key_points"`
	Severity        string    `json:"severity"`
	Recommendations []string  `json:"recommendations"`
	OriginalLength  int       `json:"original_length"`
	SummaryLength   int       `json:"summary_length"`
	ProcessedBy     string    `json:"processed_by"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// Summarize condenses assembled briefing text into a pilot-readable digest.
func (s *Service) Summarize(ctx context.Context, text string, maxLength, minLength int) SummarizeResult {
	summary, fromModel := s.trySummarize(ctx, "summarize", text, maxLength, minLength)
	processedBy := processedByModelSummarizer
	if !fromModel {
		summary = domain.Summarize(text, maxLength, minLength)
		processedBy = processedByRuleSummarizer
	}

	return SummarizeResult{
		Success:         true,
		Summary:         summary,
		KeyPoints:       domain.KeyPoints(text),
		Severity:        domain.AssessSeverity(text),
		Recommendations: domain.Recommendations(text),
		OriginalLength:  len(text),
		SummaryLength:   len(summary),
		ProcessedBy:     processedBy,
		ProcessedAt:     domain.Now(),
	}
}

// ReportSummary is the summarize-report payload.
type ReportSummary struct {
	Summary      string          `json:"summary"`
	ReportType   string          `json:"report_type"`
	OriginalData json.RawMessage `json:"original_data"`
	ProcessedBy  string          `json:"processed_by"`
}

// SummarizeReport summarizes a single typed report payload. The payload may
// be a raw string, a decoded report object, or an array of either.
func (s *Service) SummarizeReport(ctx context.Context, kind domain.ReportKind, data json.RawMessage, maxLength int) ReportSummary {
	text := domain.ReportText(kind, data)
	summary, processedBy := s.reportSummary(ctx, kind, text, maxLength)
	return ReportSummary{
		Summary:      summary,
		ReportType:   strings.ToUpper(string(kind)),
		OriginalData: data,
		ProcessedBy:  processedBy,
	}
}

func (s *Service) reportSummary(ctx context.Context, kind domain.ReportKind, text string, maxLength int) (string, string) {
	if s.modelReady() {
		out, err := s.summarizer.SummarizeReport(ctx, kind, text, maxLength)
		if err == nil && out == "" {
			err = errEmptyModel
		}
		if err == nil {
			s.metrics.ModelCalls.WithLabelValues("summarize-report", "success").Inc()
			return out, processedByModelSummarizer
		}
		s.recordFallback("summarize-report", err)
	} else {
		s.recordFallback("summarize-report", nil)
	}
	return s.ruleReportSummary(kind, text, maxLength), processedByRuleSummarizer
}

// ruleReportSummary is the deterministic per-report summary. METARs get the
// token decoder, which reads far better than extractive selection on a
// single coded line; everything else goes through the extractive summarizer.
func (s *Service) ruleReportSummary(kind domain.ReportKind, text string, maxLength int) string {
	if kind == domain.KindMetar {
		return domain.SummarizeMetar(text)
	}
	return domain.Summarize(text, maxLength, 0)
}

// BatchReport is one entry of a batch-summarize request.
type BatchReport struct {
	Data      json.RawMessage `json:"data"`
	Type      string          `json:"type"`
	MaxLength int             `json:"max_length"`
}

// BatchEntry is the per-report outcome of a batch summarization.
type BatchEntry struct {
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// BatchSummaryResult aggregates the per-report outcomes.
type BatchSummaryResult struct {
	Results        []BatchEntry `json:"results"`
	TotalProcessed int          `json:"total_processed"`
	Successful     int          `json:"successful"`
	Failed         int          `json:"failed"`
}

// BatchSummarize processes a mixed list of reports. A report with an unknown
// type fails its own row; it never fails the batch.
func (s *Service) BatchSummarize(ctx context.Context, reports []BatchReport) BatchSummaryResult {
	result := BatchSummaryResult{
		Results:        make([]BatchEntry, 0, len(reports)),
		TotalProcessed: len(reports),
	}

	for i, report := range reports {
		entry := BatchEntry{Index: i, Type: report.Type}
		if entry.Type == "" {
			entry.Type = "unknown"
		}

		kind, err := domain.ParseReportKind(entry.Type)
		if err != nil {
			entry.Error = err.Error()
			result.Failed++
			result.Results = append(result.Results, entry)
			continue
		}

		maxLength := report.MaxLength
		if maxLength <= 0 {
			maxLength = 200
		}
		text := domain.ReportText(kind, report.Data)
		entry.Summary, _ = s.reportSummary(ctx, kind, text, maxLength)
		entry.Success = true
		result.Successful++
		result.Results = append(result.Results, entry)
	}
	return result
}

// RouteWeatherInput carries the route summary request parameters.
type RouteWeatherInput struct {
	Departure        string
	Arrival          string
	Altitude         string
	MetarOverride    string
	IncludeEnroute   bool
	MaxSummaryLength int
}

// RouteWeatherResult is the route-weather-summary payload.
type RouteWeatherResult struct {
	Route           string   `json:"route"`
	Altitude        string   `json:"altitude"`
	Summary         string   `json:"summary"`
	Conditions      []string `json:"conditions"`
	Recommendations []string `json:"recommendations"`
	Hazards         []string `json:"hazards"`
	FlightCategory  string   `json:"flight_category"`
	Confidence      string   `json:"confidence"`
	ProcessedBy     string   `json:"processed_by"`
}

// RouteWeatherSummary assembles the deterministic route briefing and, when
// the model is up, rewrites its summary line for readability. Conditions,
// recommendations, and hazards always come from the rule path.
func (s *Service) RouteWeatherSummary(ctx context.Context, in RouteWeatherInput) RouteWeatherResult {
	briefing := domain.BuildRouteBriefing(domain.RouteBriefingInput{
		Departure:      in.Departure,
		Arrival:        in.Arrival,
		Altitude:       in.Altitude,
		Metar:          in.MetarOverride,
		IncludeEnroute: in.IncludeEnroute,
	})

	prompt := fmt.Sprintf(
		"Create a concise flight weather briefing: %s. Focus on safety and key decisions for pilots.",
		briefing.Summary)
	summary, fromModel := s.trySummarize(ctx, "route-weather-summary", prompt, in.MaxSummaryLength, 0)
	processedBy := processedByModelSummarizer
	if !fromModel {
		summary = briefing.Summary
		processedBy = processedByRuleSummarizer
	}

	return RouteWeatherResult{
		Route:           in.Departure + " → " + in.Arrival,
		Altitude:        in.Altitude,
		Summary:         summary,
		Conditions:      briefing.Conditions,
		Recommendations: briefing.Recommendations,
		Hazards:         briefing.Hazards,
		FlightCategory:  briefing.FlightCategory,
		Confidence:      briefing.Confidence,
		ProcessedBy:     processedBy,
	}
}

// FlightBrief is the condensed briefing shape for the pilot-facing form.
type FlightBrief struct {
	Route            string   `json:"route"`
	Altitude         string   `json:"altitude"`
	WeatherBrief     string   `json:"weather_brief"`
	FlightConditions string   `json:"flight_conditions"`
	KeyPoints        []string `json:"key_points"`
	Recommendation   string   `json:"recommendation"`
	HazardsPresent   bool     `json:"hazards_present"`
	HazardSummary    string   `json:"hazard_summary"`
}

// FlightWeatherBrief produces the condensed route brief. It never fails the
// caller: if assembly panics, the returned brief tells the pilot to get a
// manual briefing and the error describes what broke.
func (s *Service) FlightWeatherBrief(ctx context.Context, departure, arrival, altitude, metar string) (brief FlightBrief, err error) {
	departure = strings.ToUpper(departure)
	arrival = strings.ToUpper(arrival)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("flight weather brief recovered",
				"departure", departure,
				"arrival", arrival,
				"panic", r)
			brief = manualReviewBrief(departure, arrival, altitude)
			err = fmt.Errorf("flight weather brief: %v", r)
		}
	}()

	route := s.RouteWeatherSummary(ctx, RouteWeatherInput{
		Departure:        departure,
		Arrival:          arrival,
		Altitude:         altitude,
		MetarOverride:    metar,
		IncludeEnroute:   true,
		MaxSummaryLength: 250,
	})

	brief = FlightBrief{
		Route:            departure + " → " + arrival,
		Altitude:         altitude,
		WeatherBrief:     route.Summary,
		FlightConditions: route.FlightCategory,
		KeyPoints:        route.Conditions[:min(3, len(route.Conditions))],
		Recommendation:   "Standard procedures apply",
		HazardsPresent:   len(route.Hazards) > 0,
		HazardSummary:    "None identified",
	}
	if len(route.Recommendations) > 0 {
		brief.Recommendation = route.Recommendations[0]
	}
	if len(route.Hazards) > 0 {
		brief.HazardSummary = strings.Join(route.Hazards, ", ")
	}
	return brief, nil
}

// manualReviewBrief is the degraded payload for a failed brief assembly.
func manualReviewBrief(departure, arrival, altitude string) FlightBrief {
	return FlightBrief{
		Route:    departure + " → " + arrival,
		Altitude: altitude,
		WeatherBrief: fmt.Sprintf(
			"Weather briefing for flight from %s to %s at %s. Please review current weather conditions manually due to system error.",
			departure, arrival, altitude),
		FlightConditions: "UNKNOWN",
		KeyPoints: []string{
			"Manual weather review required",
			"Contact FSS for briefing",
			"Check NOTAMs independently",
		},
		Recommendation: "Obtain weather briefing through alternate means",
		HazardsPresent: true,
		HazardSummary:  "System error - manual verification required",
	}
}

// ExplainMetar decodes a raw METAR into plain language. The second return
// value labels the producing path.
func (s *Service) ExplainMetar(ctx context.Context, metarText string) (string, string) {
	if s.modelReady() {
		out, err := s.summarizer.ExplainMetar(ctx, metarText)
		if err == nil && out == "" {
			err = errEmptyModel
		}
		if err == nil {
			s.metrics.ModelCalls.WithLabelValues("explain-metar", "success").Inc()
			return out, processedByModelSummarizer
		}
		s.recordFallback("explain-metar", err)
	} else {
		s.recordFallback("explain-metar", nil)
	}
	return domain.SummarizeMetar(metarText), processedByRuleSummarizer
}

// QuickSummary produces a short route outlook from reported conditions. The
// second return value labels the producing path.
func (s *Service) QuickSummary(ctx context.Context, departure, arrival, flightLevel string, conditions []string) (string, string) {
	conditionsText := "none reported"
	if len(conditions) > 0 {
		conditionsText = strings.Join(conditions, ", ")
	}
	prompt := fmt.Sprintf(
		"Create a quick weather summary for a flight from %s to %s at %s. Reported conditions: %s.",
		departure, arrival, flightLevel, conditionsText)

	if out, ok := s.trySummarize(ctx, "quick-summary", prompt, 300, 0); ok {
		return out, processedByModelSummarizer
	}
	return domain.QuickSummary(departure, arrival, flightLevel, conditions), processedByRuleSummarizer
}

// AssessConditions grades a weather snapshot for go/no-go planning.
func (s *Service) AssessConditions(w domain.WeatherSnapshot) domain.FlightAssessment {
	return domain.AssessConditions(w)
}

// WeatherHighlights digests a snapshot for dashboard display.
func (s *Service) WeatherHighlights(w domain.WeatherSnapshot) domain.WeatherHighlights {
	return domain.BuildWeatherHighlights(w)
}

// CategorizeWeather buckets one METAR as Clear, Significant, or Severe.
func (s *Service) CategorizeWeather(metarText string) domain.WeatherCategory {
	return domain.CategorizeWeather(metarText)
}

// EnhancedRouteWeather categorizes caller-supplied station METARs for a route.
func (s *Service) EnhancedRouteWeather(departure, arrival, altitude, departureMetar, arrivalMetar string) domain.EnhancedRouteAnalysis {
	return domain.BuildEnhancedRouteAnalysis(departure, arrival, altitude, departureMetar, arrivalMetar)
}

// AirportMetar is one entry of a batch categorization request.
type AirportMetar struct {
	Airport string `json:"airport"`
	Metar   string `json:"metar"`
}

// AirportAnalysis is the categorized weather picture for one airport.
type AirportAnalysis struct {
	Airport           string   `json:"airport"`
	WeatherSummary    string   `json:"weather_summary"`
	Category          string   `json:"category"`
	Explanation       string   `json:"explanation"`
	FlightImpact      string   `json:"flight_impact"`
	ConditionsPresent []string `json:"conditions_present"`
	RawMetar          string   `json:"raw_metar"`
}

// BatchCategorizeResult is the batch categorization payload. Statistics
// count only airports that supplied a METAR.
type BatchCategorizeResult struct {
	AirportsAnalysis  []AirportAnalysis `json:"airports_analysis"`
	SummaryStatistics map[string]int    `json:"summary_statistics"`
	TotalAnalyzed     int               `json:"total_analyzed"`
	AirportsProcessed int               `json:"airports_processed"`
}

// BatchCategorize categorizes weather for multiple airports. Airports
// without METAR data get a No Data row rather than failing the batch.
func (s *Service) BatchCategorize(items []AirportMetar) BatchCategorizeResult {
	result := BatchCategorizeResult{
		AirportsAnalysis:  make([]AirportAnalysis, 0, len(items)),
		SummaryStatistics: map[string]int{"Clear": 0, "Significant": 0, "Severe": 0},
	}

	for _, item := range items {
		airport := item.Airport
		if airport == "" {
			airport = "Unknown"
		}
		if item.Metar == "" {
			result.AirportsAnalysis = append(result.AirportsAnalysis, AirportAnalysis{
				Airport:           airport,
				WeatherSummary:    "No METAR data provided",
				Category:          "No Data",
				Explanation:       "METAR required for analysis",
				FlightImpact:      "Unknown",
				ConditionsPresent: []string{},
			})
			continue
		}

		c := domain.CategorizeWeather(item.Metar)
		result.AirportsAnalysis = append(result.AirportsAnalysis, AirportAnalysis{
			Airport:           airport,
			WeatherSummary:    domain.SummarizeMetar(item.Metar),
			Category:          c.Category,
			Explanation:       c.Explanation,
			FlightImpact:      c.FlightImpact,
			ConditionsPresent: c.ConditionsPresent,
			RawMetar:          item.Metar,
		})
		result.SummaryStatistics[c.Category]++
		result.TotalAnalyzed++
	}

	result.AirportsProcessed = len(result.AirportsAnalysis)
	return result
}

// HealthReport is the service health payload.
type HealthReport struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Version  string            `json:"version"`
	Backends map[string]string `json:"backends"`
}

// Health reports the fixed backend states. The service itself is healthy as
// long as it can answer; degraded backends show up in the backends map.
func (s *Service) Health() HealthReport {
	return HealthReport{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
		Backends: map[string]string{
			"summarizer":  string(s.summarizerState),
			"weather_api": string(s.weatherState),
		},
	}
}
