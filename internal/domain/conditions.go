package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FlightAssessment is the go/no-go style grading of a weather snapshot.
type FlightAssessment struct {
	Overall        string   `json:"overall"`
	FlightCategory string   `json:"flight_category,omitempty"`
	Hazards        []string `json:"hazards"`
	Factors        []string `json:"factors"`
	Recommendation string   `json:"recommendation"`
}

// AssessConditions grades a snapshot: the worst station flight category and
// any scanned hazards drive the overall POOR/MARGINAL/GOOD call. An empty
// snapshot grades UNKNOWN rather than implying good conditions.
func AssessConditions(w WeatherSnapshot) FlightAssessment {
	if w.IsEmpty() {
		return FlightAssessment{
			Overall:        "UNKNOWN",
			Hazards:        []string{},
			Factors:        []string{},
			Recommendation: "No weather data supplied - obtain a standard briefing",
		}
	}

	worst := "VFR"
	hazards := []string{}
	factors := []string{}
	for _, station := range slices.Sorted(maps.Keys(w.CurrentConditions)) {
		raw := w.CurrentConditions[station].RawOb
		cat := DeriveFlightCategory(raw)
		factors = append(factors, fmt.Sprintf("%s: %s conditions", station, cat))
		if categoryRank(cat) > categoryRank(worst) {
			worst = cat
		}
		hazards = append(hazards, ScanHazards(raw, station)...)
	}
	if n := len(w.Hazards.Sigmets); n > 0 {
		factors = append(factors, fmt.Sprintf("%d SIGMETs active", n))
	}
	if n := len(w.Hazards.Airmets); n > 0 {
		factors = append(factors, fmt.Sprintf("%d AIRMETs active", n))
	}
	if n := len(w.PilotReports); n > 0 {
		factors = append(factors, fmt.Sprintf("%d pilot reports received", n))
	}

	overall := "GOOD"
	switch {
	case worst == "IFR" || len(hazards) > 0 || len(w.Hazards.Sigmets) > 0:
		overall = "POOR"
	case worst == "MVFR" || len(w.Hazards.Airmets) > 0:
		overall = "MARGINAL"
	}

	recommendation := "Conditions favorable for flight"
	switch overall {
	case "POOR":
		recommendation = "Delay departure or file IFR with solid alternates"
	case "MARGINAL":
		recommendation = "Proceed with caution and monitor updates"
	}

	return FlightAssessment{
		Overall:        overall,
		FlightCategory: worst,
		Hazards:        hazards,
		Factors:        factors,
		Recommendation: recommendation,
	}
}

func categoryRank(cat string) int {
	switch cat {
	case "IFR":
		return 2
	case "MVFR":
		return 1
	default:
		return 0
	}
}

// WeatherHighlights is the at-a-glance digest of a snapshot.
type WeatherHighlights struct {
	Highlights        []string          `json:"highlights"`
	StationCategories map[string]string `json:"station_categories"`
	SigmetCount       int               `json:"sigmet_count"`
	AirmetCount       int               `json:"airmet_count"`
	PirepCount        int               `json:"pirep_count"`
}

// BuildWeatherHighlights lists one line per station plus advisory counts.
// Stations render in sorted order so output is stable.
func BuildWeatherHighlights(w WeatherSnapshot) WeatherHighlights {
	h := WeatherHighlights{
		Highlights:        []string{},
		StationCategories: map[string]string{},
		SigmetCount:       len(w.Hazards.Sigmets),
		AirmetCount:       len(w.Hazards.Airmets),
		PirepCount:        len(w.PilotReports),
	}

	for _, station := range slices.Sorted(maps.Keys(w.CurrentConditions)) {
		raw := w.CurrentConditions[station].RawOb
		cat := DeriveFlightCategory(raw)
		h.StationCategories[station] = cat

		line := station + ": " + cat
		if hz := ScanHazards(raw, station); len(hz) > 0 {
			line += " - " + strings.Join(hz, "; ")
		}
		h.Highlights = append(h.Highlights, line)
	}

	if h.SigmetCount > 0 {
		h.Highlights = append(h.Highlights, fmt.Sprintf("%d SIGMETs active", h.SigmetCount))
	}
	if h.AirmetCount > 0 {
		h.Highlights = append(h.Highlights, fmt.Sprintf("%d AIRMETs active", h.AirmetCount))
	}
	if h.PirepCount > 0 {
		h.Highlights = append(h.Highlights, fmt.Sprintf("%d pilot reports received", h.PirepCount))
	}
	if len(h.Highlights) == 0 {
		h.Highlights = append(h.Highlights, "No weather data available")
	}
	return h
}
