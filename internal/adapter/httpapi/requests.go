package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/skybrief/aviation-nlp/internal/domain"
)

// stationList accepts either a single station string or an array. A single
// string may carry several comma-separated identifiers.
type stationList []string

func (s *stationList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*s = splitStations(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("stations must be a string or an array of strings")
	}
	out := make(stationList, 0, len(many))
	for _, st := range many {
		if st = strings.TrimSpace(st); st != "" {
			out = append(out, st)
		}
	}
	*s = out
	return nil
}

func splitStations(s string) stationList {
	parts := strings.Split(s, ",")
	out := make(stationList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type notamParseRequest struct {
	NotamText       string `json:"notam_text"`
	AirportCode     string `json:"airport_code"`
	IncludeSeverity *bool  `json:"include_severity"`
}

type summarizeRequest struct {
	Text        string          `json:"text"`
	NotamText   string          `json:"notam_text"`
	WeatherData json.RawMessage `json:"weather_data"`
	MaxLength   *int            `json:"max_length"`
	MinLength   *int            `json:"min_length"`
	AirportCode string          `json:"airport_code"`
}

// assembleText builds the summarizer input from whichever content fields the
// request carries. Empty output means the request had no content at all.
func (req summarizeRequest) assembleText() string {
	var parts []string
	if t := strings.TrimSpace(req.Text); t != "" {
		parts = append(parts, t)
	}
	if t := strings.TrimSpace(req.NotamText); t != "" {
		parts = append(parts, "NOTAM: "+t)
	}
	if wt := weatherText(req.WeatherData); wt != "" {
		parts = append(parts, "Weather: "+wt)
	}
	return strings.Join(parts, " | ")
}

// weatherText renders a weather_data payload as summarizable text. Payloads
// shaped like a weather snapshot get the structured formatter; anything else
// is compacted JSON, so free-form payloads still summarize.
func weatherText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var snapshot domain.WeatherSnapshot
	if err := json.Unmarshal(trimmed, &snapshot); err == nil && !snapshot.IsEmpty() {
		return domain.FormatWeatherText(snapshot)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	text := buf.String()
	if text == "{}" || text == "[]" {
		return ""
	}
	return text
}

type reportSummaryRequest struct {
	ReportData json.RawMessage `json:"report_data"`
	ReportType string          `json:"report_type"`
	MaxLength  *int            `json:"max_length"`
}

type routeWeatherRequest struct {
	Departure        string `json:"departure"`
	Arrival          string `json:"arrival"`
	Altitude         string `json:"altitude"`
	MetarOverride    string `json:"metar_override"`
	IncludeEnroute   *bool  `json:"include_enroute"`
	MaxSummaryLength *int   `json:"max_summary_length"`
}

type flightBriefRequest struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Altitude  string `json:"altitude"`
	Metar     string `json:"metar"`
}

type metarExplanationRequest struct {
	MetarText string `json:"metar_text"`
}

type quickSummaryRequest struct {
	Departure         string   `json:"departure"`
	Arrival           string   `json:"arrival"`
	WeatherConditions []string `json:"weather_conditions"`
	FlightLevel       string   `json:"flight_level"`
}

type weatherDataRequest struct {
	WeatherData *domain.WeatherSnapshot `json:"weather_data"`
}

type categorizeRequest struct {
	MetarText string `json:"metar_text"`
}

type enhancedRouteRequest struct {
	Departure      string `json:"departure"`
	Arrival        string `json:"arrival"`
	Altitude       string `json:"altitude"`
	DepartureMetar string `json:"departure_metar"`
	ArrivalMetar   string `json:"arrival_metar"`
}

type stationWeatherRequest struct {
	Stations stationList `json:"stations"`
	Hours    *int        `json:"hours"`
	Decoded  *bool       `json:"decoded"`
}

type pirepRequest struct {
	Stations stationList `json:"stations"`
	Hours    *int        `json:"hours"`
	Age      *int        `json:"age"`
	Distance *int        `json:"distance"`
}

type sigmetRequest struct {
	Hazard string `json:"hazard"`
	Level  string `json:"level"`
}

type airmetRequest struct {
	Hazard string `json:"hazard"`
}

type comprehensiveRequest struct {
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	Enroute   []string `json:"enroute"`
}

// intOr returns the default when the field was omitted.
func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// boolOr returns the default when the field was omitted.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// boundedInt validates an optional request field against its allowed range.
func boundedInt(v *int, def, lo, hi int, field string) (int, error) {
	if v == nil {
		return def, nil
	}
	if *v < lo || *v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", field, lo, hi)
	}
	return *v, nil
}
