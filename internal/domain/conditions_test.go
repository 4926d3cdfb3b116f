package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessConditions(t *testing.T) {
	t.Run("empty snapshot is unknown", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{})

		assert.Equal(t, "UNKNOWN", got.Overall)
		assert.Equal(t, "No weather data supplied - obtain a standard briefing", got.Recommendation)
		assert.Empty(t, got.Hazards)
		assert.Empty(t, got.Factors)
	})

	t.Run("VFR stations grade good", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{
				"KJFK": {RawOb: testMetarVFR},
				"KLAX": {RawOb: "KLAX 251653Z 25008KT 10SM FEW030 22/14 A2992"},
			},
		})

		assert.Equal(t, "GOOD", got.Overall)
		assert.Equal(t, "VFR", got.FlightCategory)
		assert.Equal(t, "Conditions favorable for flight", got.Recommendation)
		assert.Equal(t, []string{"KJFK: VFR conditions", "KLAX: VFR conditions"}, got.Factors)
	})

	t.Run("worst station category wins", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{
				"KJFK": {RawOb: testMetarVFR},
				"KSFO": {RawOb: testMetarIFR},
			},
		})

		assert.Equal(t, "IFR", got.FlightCategory)
		assert.Equal(t, "POOR", got.Overall)
		assert.Equal(t, "Delay departure or file IFR with solid alternates", got.Recommendation)
		assert.Contains(t, got.Hazards, "Reduced visibility at KSFO")
	})

	t.Run("MVFR grades marginal", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{
				"KBOS": {RawOb: "KBOS 251654Z 09010KT 5SM HZ SCT025 24/18 A2998"},
			},
		})

		assert.Equal(t, "MARGINAL", got.Overall)
		assert.Equal(t, "Proceed with caution and monitor updates", got.Recommendation)
	})

	t.Run("active SIGMETs grade poor", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{"KJFK": {RawOb: testMetarVFR}},
			Hazards:           HazardSet{Sigmets: []json.RawMessage{json.RawMessage(`{}`)}},
		})

		assert.Equal(t, "POOR", got.Overall)
		assert.Contains(t, got.Factors, "1 SIGMETs active")
	})

	t.Run("airmets alone grade marginal", func(t *testing.T) {
		got := AssessConditions(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{"KJFK": {RawOb: testMetarVFR}},
			Hazards:           HazardSet{Airmets: []json.RawMessage{json.RawMessage(`{}`)}},
		})

		assert.Equal(t, "MARGINAL", got.Overall)
	})
}

func TestBuildWeatherHighlights(t *testing.T) {
	t.Run("stations and counts", func(t *testing.T) {
		got := BuildWeatherHighlights(WeatherSnapshot{
			CurrentConditions: map[string]StationObservation{
				"KSFO": {RawOb: testMetarIFR},
				"KJFK": {RawOb: testMetarVFR},
			},
			PilotReports: []PilotReport{{RawOb: "UA /OV KJFK"}},
			Hazards: HazardSet{
				Sigmets: []json.RawMessage{json.RawMessage(`{}`)},
				Airmets: []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{}`)},
			},
		})

		assert.Equal(t, []string{
			"KJFK: VFR",
			"KSFO: IFR - Reduced visibility at KSFO",
			"1 SIGMETs active",
			"2 AIRMETs active",
			"1 pilot reports received",
		}, got.Highlights)
		assert.Equal(t, map[string]string{"KJFK": "VFR", "KSFO": "IFR"}, got.StationCategories)
		assert.Equal(t, 1, got.SigmetCount)
		assert.Equal(t, 2, got.AirmetCount)
		assert.Equal(t, 1, got.PirepCount)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		got := BuildWeatherHighlights(WeatherSnapshot{})

		assert.Equal(t, []string{"No weather data available"}, got.Highlights)
		assert.Empty(t, got.StationCategories)
	})
}
