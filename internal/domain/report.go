package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// ReportKind identifies which aviation text product a payload carries.
type ReportKind string

const (
	KindMetar  ReportKind = "metar"
	KindTaf    ReportKind = "taf"
	KindPirep  ReportKind = "pirep"
	KindSigmet ReportKind = "sigmet"
	KindAirmet ReportKind = "airmet"
	KindNotam  ReportKind = "notam"
)

// ParseReportKind normalizes and validates a report type string.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindMetar, KindTaf, KindPirep, KindSigmet, KindAirmet, KindNotam:
		return k, nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

// Metar is a decoded surface observation.
type Metar struct {
	StationID      string  `json:"station_id"`
	ObservedAt     string  `json:"observed_at,omitempty"`
	TempC          float64 `json:"temp_c"`
	DewpointC      float64 `json:"dewpoint_c"`
	WindDirDeg     float64 `json:"wind_dir_deg"`
	WindSpeedKt    float64 `json:"wind_speed_kt"`
	Visibility     string  `json:"visibility,omitempty"`
	Altimeter      float64 `json:"altimeter"`
	FlightCategory string  `json:"flight_category,omitempty"`
	StationName    string  `json:"station_name,omitempty"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	RawText        string  `json:"raw_text"`
}

// Taf is a decoded terminal forecast.
type Taf struct {
	StationID   string  `json:"station_id"`
	IssuedAt    string  `json:"issued_at,omitempty"`
	ValidFrom   string  `json:"valid_from,omitempty"`
	ValidTo     string  `json:"valid_to,omitempty"`
	StationName string  `json:"station_name,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	RawText     string  `json:"raw_text"`
	Remarks     string  `json:"remarks,omitempty"`
}

// Pirep is a decoded pilot report.
type Pirep struct {
	ReceiptTime string  `json:"receipt_time,omitempty"`
	ReportType  string  `json:"report_type,omitempty"`
	AircraftRef string  `json:"aircraft_ref,omitempty"`
	AltitudeFt  int     `json:"altitude_ft"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	RawText     string  `json:"raw_text"`
}

// AirSigmet is a decoded SIGMET or AIRMET advisory.
type AirSigmet struct {
	Product      string `json:"product"`
	Hazard       string `json:"hazard,omitempty"`
	Severity     string `json:"severity,omitempty"`
	ValidFrom    string `json:"valid_from,omitempty"`
	ValidTo      string `json:"valid_to,omitempty"`
	AltitudeLoFt int    `json:"altitude_low_ft"`
	AltitudeHiFt int    `json:"altitude_high_ft"`
	RawText      string `json:"raw_text"`
}

// ReportText recovers summarizable raw text from an arbitrarily shaped
// report payload: a bare JSON string, a decoded report object, or an array
// of either. Objects are probed for the product's raw-text key and fall back
// to their compact JSON rendering, so any payload yields something to
// summarize.
func ReportText(kind ReportKind, data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return reportTextValue(kind, v)
}

func reportTextValue(kind ReportKind, v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		lines := make([]string, 0, len(t))
		for _, el := range t {
			if s := reportTextValue(kind, el); s != "" {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		for _, key := range rawTextKeys(kind) {
			if s, ok := t[key].(string); ok && s != "" {
				return s
			}
		}
		b, _ := json.Marshal(t)
		return string(b)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// rawTextKeys lists the upstream field names that carry raw report text,
// most specific first.
func rawTextKeys(kind ReportKind) []string {
	switch kind {
	case KindTaf:
		return []string{"rawTAF", "rawTaf", "raw_text", "rawText", "text"}
	case KindSigmet, KindAirmet:
		return []string{"rawAirSigmet", "rawSigmet", "raw_text", "rawText", "text"}
	default:
		return []string{"rawOb", "raw_text", "rawText", "text"}
	}
}

// WeatherSnapshot is the caller-assembled weather picture consumed by the
// summary, assessment, and highlight operations. Field names follow the
// upstream aviationweather.gov JSON so fetched data round-trips directly.
type WeatherSnapshot struct {
	CurrentConditions map[string]StationObservation `json:"current_conditions,omitempty"`
	Forecasts         map[string]StationForecast    `json:"forecasts,omitempty"`
	PilotReports      []PilotReport                 `json:"pilot_reports,omitempty"`
	Hazards           HazardSet                     `json:"hazards,omitempty"`
}

// StationObservation carries the raw METAR for one station.
type StationObservation struct {
	RawOb string `json:"rawOb"`
}

// StationForecast carries the raw TAF for one station.
type StationForecast struct {
	RawTaf string `json:"rawTaf"`
}

// PilotReport carries raw PIREP text under either upstream key.
type PilotReport struct {
	RawOb      string `json:"rawOb,omitempty"`
	ReportText string `json:"reportText,omitempty"`
}

// HazardSet holds active advisories. Only the counts feed the formatter, so
// elements stay unparsed.
type HazardSet struct {
	Sigmets []json.RawMessage `json:"sigmets,omitempty"`
	Airmets []json.RawMessage `json:"airmets,omitempty"`
}

// IsEmpty reports whether the snapshot carries no weather at all.
func (w WeatherSnapshot) IsEmpty() bool {
	return len(w.CurrentConditions) == 0 &&
		len(w.Forecasts) == 0 &&
		len(w.PilotReports) == 0 &&
		len(w.Hazards.Sigmets) == 0 &&
		len(w.Hazards.Airmets) == 0
}

// FormatWeatherText flattens a snapshot into the line-oriented text fed to
// the summarizer. Stations render in sorted order so output is stable, and
// at most three pilot reports are included.
func FormatWeatherText(w WeatherSnapshot) string {
	var parts []string

	if len(w.CurrentConditions) > 0 {
		parts = append(parts, "CURRENT CONDITIONS:")
		for _, airport := range slices.Sorted(maps.Keys(w.CurrentConditions)) {
			raw := w.CurrentConditions[airport].RawOb
			if raw == "" {
				raw = "No data"
			}
			parts = append(parts, airport+": "+raw)
		}
	}
	if len(w.Forecasts) > 0 {
		parts = append(parts, "FORECASTS:")
		for _, airport := range slices.Sorted(maps.Keys(w.Forecasts)) {
			raw := w.Forecasts[airport].RawTaf
			if raw == "" {
				raw = "No forecast"
			}
			parts = append(parts, airport+": "+raw)
		}
	}
	if len(w.PilotReports) > 0 {
		parts = append(parts, "PILOT REPORTS:")
		for i, p := range w.PilotReports[:min(3, len(w.PilotReports))] {
			raw := p.RawOb
			if raw == "" {
				raw = p.ReportText
			}
			if raw == "" {
				raw = "No data"
			}
			parts = append(parts, fmt.Sprintf("PIREP %d: %s", i+1, raw))
		}
	}
	if n := len(w.Hazards.Sigmets); n > 0 {
		parts = append(parts, fmt.Sprintf("SIGMETS: %d active", n))
	}
	if n := len(w.Hazards.Airmets); n > 0 {
		parts = append(parts, fmt.Sprintf("AIRMETS: %d active", n))
	}

	if len(parts) == 0 {
		return "No weather data available"
	}
	return strings.Join(parts, "\n")
}

// EndpointStatus is the probe result for one upstream data endpoint.
type EndpointStatus struct {
	Available      bool    `json:"available"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	Error          string  `json:"error,omitempty"`
}

// APIStatus reports upstream weather API health per endpoint.
type APIStatus struct {
	Endpoints map[string]EndpointStatus `json:"endpoints"`
	CheckedAt time.Time                 `json:"checked_at"`
}
