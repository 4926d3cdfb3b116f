package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/skybrief/aviation-nlp/internal/briefing"
	"github.com/skybrief/aviation-nlp/internal/domain"
)

func (s *Server) handleParseNotam(w http.ResponseWriter, r *http.Request) {
	var req notamParseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.NotamText) == "" {
		writeError(w, http.StatusBadRequest, "notam_text is required")
		return
	}

	result := s.svc.ParseNotam(r.Context(), req.NotamText, req.AirportCode, boolOr(req.IncludeSeverity, true))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxLength, err := boundedInt(req.MaxLength, 200, 50, 500, "max_length")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	minLength, err := boundedInt(req.MinLength, 50, 20, 200, "min_length")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := req.assembleText()
	if text == "" {
		writeError(w, http.StatusBadRequest, "Either NOTAM text or weather data is required")
		return
	}

	result := s.svc.Summarize(r.Context(), text, maxLength, minLength)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummarizeReport(w http.ResponseWriter, r *http.Request) {
	var req reportSummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.ReportData) == 0 || string(req.ReportData) == "null" {
		writeError(w, http.StatusBadRequest, "report_data is required")
		return
	}
	kind, err := domain.ParseReportKind(req.ReportType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.svc.SummarizeReport(r.Context(), kind, req.ReportData, intOr(req.MaxLength, 200))
	writeData(w, result, fmt.Sprintf("%s summarized successfully", result.ReportType))
}

func (s *Server) handleBatchSummarize(w http.ResponseWriter, r *http.Request) {
	var reports []briefing.BatchReport
	if err := decodeJSON(w, r, &reports); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.svc.BatchSummarize(r.Context(), reports)
	writeData(w, result, fmt.Sprintf("Batch processing completed: %d/%d successful",
		result.Successful, result.TotalProcessed))
}

func (s *Server) handleRouteWeatherSummary(w http.ResponseWriter, r *http.Request) {
	var req routeWeatherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Departure == "" || req.Arrival == "" {
		writeError(w, http.StatusBadRequest, "departure and arrival are required")
		return
	}
	altitude := req.Altitude
	if altitude == "" {
		altitude = "FL350"
	}

	result := s.svc.RouteWeatherSummary(r.Context(), briefing.RouteWeatherInput{
		Departure:        req.Departure,
		Arrival:          req.Arrival,
		Altitude:         altitude,
		MetarOverride:    req.MetarOverride,
		IncludeEnroute:   boolOr(req.IncludeEnroute, true),
		MaxSummaryLength: intOr(req.MaxSummaryLength, 300),
	})
	writeData(w, result, "Route weather summary generated successfully")
}

// handleFlightWeatherBrief is always tolerant, whatever the configured mode:
// a failed assembly still answers 200 with the manual-review payload so the
// pilot-facing form renders something actionable.
func (s *Server) handleFlightWeatherBrief(w http.ResponseWriter, r *http.Request) {
	var req flightBriefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Departure == "" || req.Arrival == "" {
		writeError(w, http.StatusBadRequest, "departure and arrival are required")
		return
	}
	altitude := req.Altitude
	if altitude == "" {
		altitude = "FL350"
	}

	brief, err := s.svc.FlightWeatherBrief(r.Context(), req.Departure, req.Arrival, altitude, req.Metar)
	if err != nil {
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			Data:    brief,
			Message: "Weather briefing system error - use backup methods",
			Error:   err.Error(),
		})
		return
	}
	writeData(w, brief, "Flight weather briefing generated")
}

func (s *Server) handleExplainMetar(w http.ResponseWriter, r *http.Request) {
	var req metarExplanationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.MetarText) == "" {
		writeError(w, http.StatusBadRequest, "metar_text is required")
		return
	}

	explanation, processedBy := s.svc.ExplainMetar(r.Context(), req.MetarText)
	writeData(w, struct {
		Explanation   string `json:"explanation"`
		OriginalMetar string `json:"original_metar"`
		ProcessedBy   string `json:"processed_by"`
	}{explanation, req.MetarText, processedBy}, "METAR explained successfully")
}

func (s *Server) handleQuickSummary(w http.ResponseWriter, r *http.Request) {
	var req quickSummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Departure == "" || req.Arrival == "" {
		writeError(w, http.StatusBadRequest, "departure and arrival are required")
		return
	}
	flightLevel := req.FlightLevel
	if flightLevel == "" {
		flightLevel = "FL350"
	}

	summary, processedBy := s.svc.QuickSummary(r.Context(), req.Departure, req.Arrival, flightLevel, req.WeatherConditions)
	writeData(w, struct {
		Summary     string `json:"summary"`
		Route       string `json:"route"`
		FlightLevel string `json:"flight_level"`
		ProcessedBy string `json:"processed_by"`
	}{summary, req.Departure + " → " + req.Arrival, flightLevel, processedBy}, "Quick summary generated successfully")
}

func (s *Server) handleAssessConditions(w http.ResponseWriter, r *http.Request) {
	var req weatherDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.WeatherData == nil {
		writeError(w, http.StatusBadRequest, "weather_data is required")
		return
	}

	writeData(w, s.svc.AssessConditions(*req.WeatherData), "Flight conditions assessed successfully")
}

func (s *Server) handleWeatherHighlights(w http.ResponseWriter, r *http.Request) {
	var req weatherDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.WeatherData == nil {
		writeError(w, http.StatusBadRequest, "weather_data is required")
		return
	}

	writeData(w, s.svc.WeatherHighlights(*req.WeatherData), "Weather highlights extracted successfully")
}

func (s *Server) handleCategorizeWeather(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.MetarText) == "" {
		writeError(w, http.StatusBadRequest, "metar_text is required")
		return
	}

	category := s.svc.CategorizeWeather(req.MetarText)
	writeData(w, category, fmt.Sprintf("Weather categorized as %s", category.Category))
}

func (s *Server) handleBatchCategorize(w http.ResponseWriter, r *http.Request) {
	var items []briefing.AirportMetar
	if err := decodeJSON(w, r, &items); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.svc.BatchCategorize(items)
	writeData(w, result, fmt.Sprintf("Batch weather categorization completed for %d airports",
		result.AirportsProcessed))
}

func (s *Server) handleEnhancedRouteWeather(w http.ResponseWriter, r *http.Request) {
	var req enhancedRouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Departure == "" || req.Arrival == "" || req.Altitude == "" {
		writeError(w, http.StatusBadRequest, "departure, arrival, and altitude are required")
		return
	}

	result := s.svc.EnhancedRouteWeather(req.Departure, req.Arrival, req.Altitude, req.DepartureMetar, req.ArrivalMetar)
	writeData(w, result, fmt.Sprintf("Enhanced route analysis completed for %s → %s",
		req.Departure, req.Arrival))
}
