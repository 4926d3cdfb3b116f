package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAltitude(t *testing.T) {
	tests := []struct {
		name     string
		altitude string
		feet     int
	}{
		{"flight level", "FL350", 35000},
		{"flight level lowercase", "fl180", 18000},
		{"flight level with space", "FL 240", 24000},
		{"feet suffix", "8000ft", 8000},
		{"feet suffix uppercase", "12000FT", 12000},
		{"bare digits", "8000", 8000},
		{"garbage falls back", "cruise", 10000},
		{"empty falls back", "", 10000},
		{"bare FL falls back", "FL", 10000},
		{"negative digits fall back", "-500", 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.feet, ParseAltitude(tt.altitude))
		})
	}
}

func TestBuildRouteBriefing(t *testing.T) {
	t.Run("with departure METAR", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure:      "KJFK",
			Arrival:        "KLAX",
			Altitude:       "FL350",
			Metar:          testMetarGusts,
			IncludeEnroute: true,
		})

		assert.Equal(t, "KJFK to KLAX", b.Route)
		assert.Equal(t, "FL350", b.Altitude)
		assert.Equal(t, "VFR", b.FlightCategory)
		assert.Equal(t, "HIGH", b.Confidence)
		assert.Equal(t, []string{
			"Thunderstorms at departure",
			"Strong winds at departure",
		}, b.Hazards)

		require.Len(t, b.Conditions, 4)
		assert.True(t, strings.HasPrefix(b.Conditions[0], "Departure (KJFK): "))
		assert.Equal(t, "Arrival (KLAX): Forecast conditions require review", b.Conditions[1])
		assert.Equal(t, "High altitude flight (FL350): Monitor jet stream winds", b.Conditions[2])
		assert.Equal(t, "Potential for moderate turbulence in jet stream", b.Conditions[3])

		assert.Equal(t, []string{
			"VFR conditions favorable for flight",
			"Monitor weather updates due to identified hazards",
			"Monitor winds aloft and turbulence reports",
		}, b.Recommendations)

		assert.Contains(t, b.Summary, "ROUTE WEATHER BRIEFING: Flight from KJFK to KLAX at FL350")
		assert.Contains(t, b.Summary, "Overall Conditions: VFR")
		assert.Contains(t, b.Summary, "Weather Hazards: Thunderstorms at departure, Strong winds at departure")
		assert.Contains(t, b.Summary, "Enroute: 2 factors to monitor")
		assert.Contains(t, b.Summary, "Primary Recommendation: VFR conditions favorable for flight")
	})

	t.Run("without METAR", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure:      "KBOS",
			Arrival:        "KPHL",
			Altitude:       "8000",
			IncludeEnroute: true,
		})

		assert.Equal(t, "VFR", b.FlightCategory)
		assert.Empty(t, b.Hazards)
		assert.Equal(t, "Departure (KBOS): Current conditions require review", b.Conditions[0])
		assert.Contains(t, b.Conditions, "Low altitude flight (8000): Monitor surface weather influence")
		assert.Contains(t, b.Recommendations, "No significant weather hazards identified")
		assert.NotContains(t, b.Summary, "Weather Hazards")
		assert.Contains(t, b.Summary, "Departure: Current conditions require review")
	})

	t.Run("IFR recommendations", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure: "KSFO",
			Arrival:   "KSAN",
			Altitude:  "12000",
			Metar:     testMetarIFR,
		})

		assert.Equal(t, "IFR", b.FlightCategory)
		assert.Equal(t, "IFR flight rules required - file IFR flight plan", b.Recommendations[0])
		assert.Contains(t, b.Recommendations, "Monitor weather minimums at destination")
	})

	t.Run("enroute omitted when not requested", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure: "KJFK",
			Arrival:   "KBOS",
			Altitude:  "FL190",
		})

		assert.Len(t, b.Conditions, 2)
		assert.NotContains(t, b.Summary, "Enroute:")
		// Altitude still drives the winds aloft recommendation.
		assert.Contains(t, b.Recommendations, "Monitor winds aloft and turbulence reports")
	})

	t.Run("mid level enroute band", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure:      "KJFK",
			Arrival:        "KBOS",
			Altitude:       "12000",
			IncludeEnroute: true,
		})

		assert.Contains(t, b.Conditions, "Mid-level flight (12000): Standard enroute conditions expected")
	})

	t.Run("summary is bullet joined", func(t *testing.T) {
		b := BuildRouteBriefing(RouteBriefingInput{
			Departure: "KJFK",
			Arrival:   "KBOS",
			Altitude:  "4500",
		})

		parts := strings.Split(b.Summary, " • ")
		require.GreaterOrEqual(t, len(parts), 4)
		assert.Equal(t, "ROUTE WEATHER BRIEFING: Flight from KJFK to KBOS at 4500", parts[0])
		assert.Equal(t, "Overall Conditions: VFR", parts[1])
	})
}

func TestQuickSummary(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		got := QuickSummary("KJFK", "KLAX", "FL350", nil)

		assert.Equal(t, "Flight KJFK to KLAX at FL350: no reported weather concerns. Conditions generally favorable.", got)
	})

	t.Run("hazardous conditions", func(t *testing.T) {
		got := QuickSummary("KJFK", "KLAX", "", []string{"thunderstorms enroute", "icing above FL200"})

		assert.Equal(t, "Flight KJFK to KLAX: reported conditions - thunderstorms enroute, icing above FL200. Review hazards before departure.", got)
	})

	t.Run("cautionary conditions", func(t *testing.T) {
		got := QuickSummary("KBOS", "KPHL", "8000", []string{"light turbulence reported"})

		assert.True(t, strings.HasSuffix(got, "Exercise caution enroute."))
	})

	t.Run("benign conditions", func(t *testing.T) {
		got := QuickSummary("KBOS", "KPHL", "8000", []string{"scattered clouds"})

		assert.True(t, strings.HasSuffix(got, "Conditions generally favorable."))
	})
}

func TestBuildEnhancedRouteAnalysis(t *testing.T) {
	t.Run("both stations analyzed", func(t *testing.T) {
		got := BuildEnhancedRouteAnalysis("KJFK", "KSEA", "FL350",
			testMetarVFR, "KSEA 251653Z 18008KT 4SM BR OVC015 12/10 A3020")

		assert.Equal(t, "KJFK → KSEA", got.Route)
		assert.Equal(t, 35000, got.AltitudeFeet)
		require.NotNil(t, got.Departure)
		require.NotNil(t, got.Arrival)
		assert.Equal(t, "Clear", got.Departure.Analysis.Category)
		assert.Equal(t, "Significant", got.Arrival.Analysis.Category)
		assert.Equal(t, "Significant", got.OverallAssessment)
		assert.Contains(t, got.Recommendations, "File an IFR flight plan and carry alternates")
		assert.Contains(t, got.AltitudeGuidance, "Potential for moderate turbulence in jet stream")
	})

	t.Run("severe wins", func(t *testing.T) {
		got := BuildEnhancedRouteAnalysis("KJFK", "KORD", "FL240",
			testMetarVFR, "KORD 251651Z 09012KT 2SM FZRA OVC008 M01/M02 A2988")

		assert.Equal(t, "Severe", got.OverallAssessment)
		assert.Equal(t, "Delay or reroute until severe weather clears", got.Recommendations[0])
	})

	t.Run("no station weather", func(t *testing.T) {
		got := BuildEnhancedRouteAnalysis("KJFK", "KBOS", "6000", "", "")

		assert.Nil(t, got.Departure)
		assert.Nil(t, got.Arrival)
		assert.Equal(t, "Unknown", got.OverallAssessment)
		assert.Equal(t, []string{"Obtain current METARs for both airports before departure"}, got.Recommendations)
		assert.Contains(t, got.AltitudeGuidance, "Low altitude flight (6000): Monitor surface weather influence")
	})
}
