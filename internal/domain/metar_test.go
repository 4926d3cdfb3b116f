package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testMetarVFR   = "KJFK 251651Z 18004KT 10SM FEW250 28/14 A3012"
	testMetarIFR   = "KSFO 251656Z 28008KT 1/2SM FG OVC002 14/13 A3001"
	testMetarGusts = "KJFK 251651Z 23012G25KT 10SM TSRA BKN040 28/14 A3012"
)

func TestDeriveFlightCategory(t *testing.T) {
	tests := []struct {
		name     string
		metar    string
		category string
	}{
		{"ten miles visibility", testMetarVFR, "VFR"},
		{"clear sky marker", "KLAX 251653Z 25008KT CLR 22/14 A2992", "VFR"},
		{"overcast", "KSEA 251653Z 18008KT 4SM BR OVC008 12/10 A3020", "IFR"},
		{"low visibility", testMetarIFR, "IFR"},
		{"neither marker set", "KBOS 251654Z 09010KT 5SM HZ SCT025 24/18 A2998", "MVFR"},
		{"empty defaults to VFR", "", "VFR"},
		{"vfr marker wins over ifr marker", "KDEN 251653Z 27015KT 10SM OVC045 18/04 A3005", "VFR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, DeriveFlightCategory(tt.metar))
		})
	}
}

func TestScanHazards(t *testing.T) {
	t.Run("thunderstorms and gusts", func(t *testing.T) {
		hazards := ScanHazards(testMetarGusts, "departure")

		assert.Equal(t, []string{
			"Thunderstorms at departure",
			"Strong winds at departure",
		}, hazards)
	})

	t.Run("fog", func(t *testing.T) {
		hazards := ScanHazards(testMetarIFR, "arrival")

		assert.Equal(t, []string{"Reduced visibility at arrival"}, hazards)
	})

	t.Run("clean observation", func(t *testing.T) {
		assert.Empty(t, ScanHazards(testMetarVFR, "departure"))
	})
}

func TestSummarizeMetar(t *testing.T) {
	t.Run("routine observation", func(t *testing.T) {
		got := SummarizeMetar(testMetarVFR)

		assert.Equal(t, "observed 16:51Z, wind 180° at 4 kt, visibility 10 statute miles, "+
			"few clouds at 25000 ft, temperature 28°C, dew point 14°C, altimeter 30.12 inHg", got)
	})

	t.Run("gusts and weather", func(t *testing.T) {
		got := SummarizeMetar(testMetarGusts)

		assert.Contains(t, got, "wind 230° at 12 kt gusting 25 kt")
		assert.Contains(t, got, "thunderstorms with rain")
		assert.Contains(t, got, "broken clouds at 4000 ft")
	})

	t.Run("negative temperatures", func(t *testing.T) {
		got := SummarizeMetar("CYYZ 251700Z 33015KT 15SM FEW040 M05/M12 A3033")

		assert.Contains(t, got, "temperature -5°C, dew point -12°C")
	})

	t.Run("fractional visibility and vertical visibility", func(t *testing.T) {
		got := SummarizeMetar("KSFO 251656Z 00000KT 1/2SM FG VV002 14/13 A3001")

		assert.Contains(t, got, "wind calm")
		assert.Contains(t, got, "visibility 1/2 statute miles")
		assert.Contains(t, got, "fog")
		assert.Contains(t, got, "sky obscured, vertical visibility 200 ft")
	})

	t.Run("variable wind and intensity prefixes", func(t *testing.T) {
		got := SummarizeMetar("EGLL 251650Z VRB03KT 9999 -RA SCT018 Q1013")

		assert.Contains(t, got, "wind variable at 3 kt")
		assert.Contains(t, got, "visibility 10 km or more")
		assert.Contains(t, got, "light rain")
		assert.Contains(t, got, "QNH 1013 hPa")
	})

	t.Run("remarks are not decoded", func(t *testing.T) {
		got := SummarizeMetar("KJFK 251651Z 18004KT 10SM CLR 28/14 A3012 RMK AO2 SLP198 TSRA")

		assert.NotContains(t, got, "thunderstorms")
	})

	t.Run("unrecognizable input", func(t *testing.T) {
		assert.Equal(t, "No recognizable METAR elements", SummarizeMetar("not really a metar"))
	})
}

func TestCategorizeWeather(t *testing.T) {
	t.Run("severe convective", func(t *testing.T) {
		got := CategorizeWeather("KJFK 251651Z 23015G40KT 1/2SM +TSRA OVC004CB 22/20 A2960")

		assert.Equal(t, "Severe", got.Category)
		assert.Contains(t, got.Explanation, "Severe weather present")
		assert.Equal(t, "Expect delays, diversions, or possible cancellations", got.FlightImpact)
		assert.Contains(t, got.ConditionsPresent, "wind gusts 40 kt")
		assert.Contains(t, got.ConditionsPresent, "visibility below 1 SM")
		assert.Contains(t, got.ConditionsPresent, "thunderstorms with rain")
		assert.Contains(t, got.ConditionsPresent, "cumulonimbus clouds")
		assert.Contains(t, got.ConditionsPresent, "ceiling 400 ft")
	})

	t.Run("significant precipitation and ceilings", func(t *testing.T) {
		got := CategorizeWeather("KSEA 251653Z 18008KT 4SM BR OVC015 12/10 A3020")

		assert.Equal(t, "Significant", got.Category)
		assert.Contains(t, got.Explanation, "Notable conditions")
		assert.Equal(t, "Expect possible delays and instrument procedures", got.FlightImpact)
		assert.Contains(t, got.ConditionsPresent, "visibility 4 SM")
		assert.Contains(t, got.ConditionsPresent, "mist")
		assert.Contains(t, got.ConditionsPresent, "ceiling 1500 ft")
	})

	t.Run("moderate gusts are significant", func(t *testing.T) {
		got := CategorizeWeather("KDEN 251653Z 27020G28KT 10SM SCT045 18/04 A3005")

		assert.Equal(t, "Significant", got.Category)
		assert.Contains(t, got.ConditionsPresent, "wind gusts 28 kt")
	})

	t.Run("clear", func(t *testing.T) {
		got := CategorizeWeather(testMetarVFR)

		assert.Equal(t, "Clear", got.Category)
		assert.Equal(t, "No significant weather detected", got.Explanation)
		assert.Equal(t, "Good conditions for normal operations", got.FlightImpact)
		assert.Empty(t, got.ConditionsPresent)
		assert.Equal(t, testMetarVFR, got.RawMetar)
	})

	t.Run("freezing rain is severe", func(t *testing.T) {
		got := CategorizeWeather("KORD 251651Z 09012KT 2SM FZRA OVC008 M01/M02 A2988")

		assert.Equal(t, "Severe", got.Category)
		assert.Contains(t, got.ConditionsPresent, "freezing rain")
	})

	t.Run("remarks ignored", func(t *testing.T) {
		got := CategorizeWeather("KLAX 251653Z 25008KT 10SM FEW030 22/14 A2992 RMK TS DSNT NE")

		assert.Equal(t, "Clear", got.Category)
	})
}
