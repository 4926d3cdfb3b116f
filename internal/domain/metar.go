package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// vfrMarkers and ifrMarkers are substring probes over the raw METAR.
	// Coarse by design of the briefing output: the route summary only needs
	// the dominant category, not a ceiling/visibility computation.
	vfrMarkers = []string{"10SM", "P6SM", "9999", "CLR", "SKC"}
	ifrMarkers = []string{"OVC", "1SM", "2SM"}

	// obsTimeRe matches the DDHHMMZ observation time group.
	obsTimeRe = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)

	// windRe matches wind groups like 18004KT, VRB03KT, 23012G25KT.
	windRe = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?KT$`)

	// visRe matches statute-mile visibility: 10SM, 1/2SM, M1/4SM.
	visRe = regexp.MustCompile(`^(M)?(\d{1,2})(?:/(\d))?SM$`)

	// cloudRe matches cloud groups: BKN025, OVC004CB, VV002.
	cloudRe = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV)(\d{3})(CB|TCU)?$`)

	// tempRe matches the temperature/dew point group, M prefix for negative.
	tempRe = regexp.MustCompile(`^(M)?(\d{2})/(M)?(\d{2})$`)

	// altimRe matches altimeter settings: A3012 (inHg) or Q1013 (hPa).
	altimRe = regexp.MustCompile(`^([AQ])(\d{3,4})$`)

	// wxTokenRe matches present-weather groups with an optional intensity
	// or vicinity prefix, e.g. -RA, +TSRA, VCSH.
	wxTokenRe = regexp.MustCompile(`^([+-]|VC)?([A-Z]{2,6})$`)
)

// wxPhrases translates common present-weather codes. Compound codes are
// listed explicitly where pairwise decoding reads badly.
var wxPhrases = map[string]string{
	"TSRA": "thunderstorms with rain",
	"TSSN": "thunderstorms with snow",
	"TSGR": "thunderstorms with hail",
	"SHRA": "rain showers",
	"SHSN": "snow showers",
	"FZRA": "freezing rain",
	"FZDZ": "freezing drizzle",
	"FZFG": "freezing fog",
	"BLSN": "blowing snow",
	"TS":   "thunderstorms",
	"RA":   "rain",
	"SN":   "snow",
	"DZ":   "drizzle",
	"GR":   "hail",
	"GS":   "small hail",
	"PL":   "ice pellets",
	"FG":   "fog",
	"BR":   "mist",
	"HZ":   "haze",
	"FU":   "smoke",
	"VA":   "volcanic ash",
	"DU":   "dust",
	"SA":   "sand",
	"SQ":   "squalls",
	"FC":   "funnel cloud",
	"UP":   "unknown precipitation",
}

var cloudPhrases = map[string]string{
	"FEW": "few clouds",
	"SCT": "scattered clouds",
	"BKN": "broken clouds",
	"OVC": "overcast",
}

// DeriveFlightCategory classifies a raw METAR as VFR, MVFR, or IFR by marker
// substrings. Empty input defaults to VFR, matching the briefing behavior
// when no observation is supplied.
func DeriveFlightCategory(metar string) string {
	if strings.TrimSpace(metar) == "" {
		return "VFR"
	}
	upper := strings.ToUpper(metar)
	for _, m := range vfrMarkers {
		if strings.Contains(upper, m) {
			return "VFR"
		}
	}
	for _, m := range ifrMarkers {
		if strings.Contains(upper, m) {
			return "IFR"
		}
	}
	return "MVFR"
}

// ScanHazards flags route-level hazards in a raw METAR. The site label
// ("departure", "arrival") is embedded in the hazard strings so briefings
// read naturally.
func ScanHazards(metar, site string) []string {
	upper := strings.ToUpper(metar)

	var hazards []string
	if strings.Contains(upper, "TS") {
		hazards = append(hazards, "Thunderstorms at "+site)
	}
	if containsAny(upper, "G25", "G30", "G35") {
		hazards = append(hazards, "Strong winds at "+site)
	}
	if containsAny(upper, "FG", "BR") {
		hazards = append(hazards, "Reduced visibility at "+site)
	}
	return hazards
}

// SummarizeMetar renders a raw METAR as a plain-language line for pilots,
// decoding the standard groups in order and skipping anything unrecognized.
// Decoding stops at the remarks section.
func SummarizeMetar(raw string) string {
	var parts []string
	for _, tok := range strings.Fields(strings.ToUpper(raw)) {
		if tok == "RMK" {
			break
		}
		if p := decodeMetarToken(tok); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "No recognizable METAR elements"
	}
	return strings.Join(parts, ", ")
}

func decodeMetarToken(tok string) string {
	switch tok {
	case "METAR", "SPECI", "AUTO", "COR", "NOSIG":
		return ""
	case "CAVOK":
		return "ceiling and visibility OK"
	case "SKC", "CLR", "NSC", "NCD":
		return "sky clear"
	case "9999":
		return "visibility 10 km or more"
	case "P6SM":
		return "visibility better than 6 miles"
	case "00000KT":
		return "wind calm"
	}

	if m := obsTimeRe.FindStringSubmatch(tok); m != nil {
		return fmt.Sprintf("observed %s:%sZ", m[2], m[3])
	}
	if m := windRe.FindStringSubmatch(tok); m != nil {
		speed, _ := strconv.Atoi(m[2])
		var wind string
		if m[1] == "VRB" {
			wind = fmt.Sprintf("wind variable at %d kt", speed)
		} else {
			wind = fmt.Sprintf("wind %s° at %d kt", m[1], speed)
		}
		if m[3] != "" {
			gust, _ := strconv.Atoi(m[3])
			wind += fmt.Sprintf(" gusting %d kt", gust)
		}
		return wind
	}
	if m := visRe.FindStringSubmatch(tok); m != nil {
		vis := m[2]
		if m[3] != "" {
			vis += "/" + m[3]
		}
		if m[1] == "M" {
			return fmt.Sprintf("visibility below %s statute miles", vis)
		}
		return fmt.Sprintf("visibility %s statute miles", vis)
	}
	if m := cloudRe.FindStringSubmatch(tok); m != nil {
		height := atoiDigits(m[2]) * 100
		var layer string
		if m[1] == "VV" {
			layer = fmt.Sprintf("sky obscured, vertical visibility %d ft", height)
		} else {
			layer = fmt.Sprintf("%s at %d ft", cloudPhrases[m[1]], height)
		}
		switch m[3] {
		case "CB":
			layer += " (cumulonimbus)"
		case "TCU":
			layer += " (towering cumulus)"
		}
		return layer
	}
	if m := tempRe.FindStringSubmatch(tok); m != nil {
		return fmt.Sprintf("temperature %d°C, dew point %d°C",
			signedTemp(m[1], m[2]), signedTemp(m[3], m[4]))
	}
	if m := altimRe.FindStringSubmatch(tok); m != nil {
		if m[1] == "A" && len(m[2]) == 4 {
			return fmt.Sprintf("altimeter %s.%s inHg", m[2][:2], m[2][2:])
		}
		if m[1] == "Q" {
			return fmt.Sprintf("QNH %s hPa", m[2])
		}
	}
	if m := wxTokenRe.FindStringSubmatch(tok); m != nil {
		if phrase, ok := wxPhrases[m[2]]; ok {
			switch m[1] {
			case "+":
				return "heavy " + phrase
			case "-":
				return "light " + phrase
			case "VC":
				return phrase + " in the vicinity"
			}
			return phrase
		}
	}
	return ""
}

func signedTemp(sign, digits string) int {
	v := atoiDigits(digits)
	if sign == "M" {
		return -v
	}
	return v
}

// WeatherCategory grades a METAR into one of three pilot-facing buckets.
type WeatherCategory struct {
	Category          string   `json:"category"`
	Explanation       string   `json:"explanation"`
	FlightImpact      string   `json:"flight_impact"`
	ConditionsPresent []string `json:"conditions_present"`
	RawMetar          string   `json:"raw_metar"`
}

// CategorizeWeather buckets a raw METAR as Clear, Significant, or Severe.
// Severe means convective or freezing weather, gusts of 35 kt or more,
// visibility under a mile, or ceilings under 500 ft. Significant covers
// precipitation, reduced visibility, low ceilings, and strong winds.
func CategorizeWeather(raw string) WeatherCategory {
	var severe, significant []string

	for _, tok := range strings.Fields(strings.ToUpper(raw)) {
		if tok == "RMK" {
			break
		}

		if m := windRe.FindStringSubmatch(tok); m != nil {
			speed, _ := strconv.Atoi(m[2])
			if m[3] != "" {
				gust, _ := strconv.Atoi(m[3])
				if gust >= 35 {
					severe = append(severe, fmt.Sprintf("wind gusts %d kt", gust))
				} else if gust >= 25 {
					significant = append(significant, fmt.Sprintf("wind gusts %d kt", gust))
				}
			} else if speed >= 30 {
				significant = append(significant, fmt.Sprintf("sustained winds %d kt", speed))
			}
			continue
		}
		if m := visRe.FindStringSubmatch(tok); m != nil {
			miles := float64(atoiDigits(m[2]))
			if m[3] != "" {
				miles /= float64(atoiDigits(m[3]))
			}
			if m[1] == "M" || miles < 1 {
				severe = append(severe, "visibility below 1 SM")
			} else if miles <= 5 {
				significant = append(significant, fmt.Sprintf("visibility %s SM", strings.TrimSuffix(tok, "SM")))
			}
			continue
		}
		if m := cloudRe.FindStringSubmatch(tok); m != nil {
			height := atoiDigits(m[2]) * 100
			if m[3] == "CB" {
				severe = append(severe, "cumulonimbus clouds")
			}
			if m[1] == "BKN" || m[1] == "OVC" || m[1] == "VV" {
				if height < 500 {
					severe = append(severe, fmt.Sprintf("ceiling %d ft", height))
				} else if height < 3000 {
					significant = append(significant, fmt.Sprintf("ceiling %d ft", height))
				}
			}
			continue
		}
		if m := wxTokenRe.FindStringSubmatch(tok); m != nil {
			phrase, ok := wxPhrases[m[2]]
			if !ok {
				continue
			}
			switch {
			case strings.Contains(m[2], "TS") || strings.Contains(m[2], "FZ"):
				severe = append(severe, phrase)
			case m[2] == "GR" || m[2] == "SQ" || m[2] == "FC" || m[2] == "VA":
				severe = append(severe, phrase)
			case m[1] == "+":
				severe = append(severe, "heavy "+phrase)
			default:
				significant = append(significant, phrase)
			}
		}
	}

	cat := WeatherCategory{
		RawMetar:          raw,
		ConditionsPresent: append(append([]string{}, severe...), significant...),
	}
	switch {
	case len(severe) > 0:
		cat.Category = "Severe"
		cat.Explanation = "Severe weather present: " + strings.Join(severe, "; ")
		cat.FlightImpact = "Expect delays, diversions, or possible cancellations"
	case len(significant) > 0:
		cat.Category = "Significant"
		cat.Explanation = "Notable conditions: " + strings.Join(significant, "; ")
		cat.FlightImpact = "Expect possible delays and instrument procedures"
	default:
		cat.Category = "Clear"
		cat.Explanation = "No significant weather detected"
		cat.FlightImpact = "Good conditions for normal operations"
	}
	return cat
}
