package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAltitude converts an altitude string to feet. Three shapes are
// accepted: flight levels ("FL350" → 35000), explicit feet ("8000ft"), and
// bare digits ("8000"). Anything else falls back to 10000 ft, a mid-level
// default that keeps briefings usable when the caller sends garbage.
func ParseAltitude(altitude string) int {
	alt := strings.ReplaceAll(strings.ToUpper(altitude), " ", "")

	if rest, ok := strings.CutPrefix(alt, "FL"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n * 100
		}
		return 10000
	}
	if rest, ok := strings.CutSuffix(alt, "FT"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n
		}
		return 10000
	}
	if isDigits(alt) {
		n, _ := strconv.Atoi(alt)
		return n
	}
	return 10000
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// RouteBriefingInput carries the request parameters for BuildRouteBriefing.
type RouteBriefingInput struct {
	Departure      string
	Arrival        string
	Altitude       string
	Metar          string
	IncludeEnroute bool
}

// RouteBriefing is the assembled weather picture for a departure-arrival
// pair. Summary is a bullet-joined digest of the other fields.
type RouteBriefing struct {
	Route           string   `json:"route"`
	Altitude        string   `json:"altitude"`
	Summary         string   `json:"summary"`
	Conditions      []string `json:"conditions"`
	Recommendations []string `json:"recommendations"`
	Hazards         []string `json:"hazards"`
	FlightCategory  string   `json:"flight_category"`
	Confidence      string   `json:"confidence"`
}

// BuildRouteBriefing assembles the deterministic route briefing. When a
// departure METAR is supplied it drives the flight category and hazard scan;
// otherwise the briefing flags conditions for manual review.
func BuildRouteBriefing(in RouteBriefingInput) RouteBriefing {
	briefing := RouteBriefing{
		Route:          in.Departure + " to " + in.Arrival,
		Altitude:       in.Altitude,
		Hazards:        []string{},
		FlightCategory: "VFR",
		Confidence:     "HIGH",
	}

	var departureConditions []string
	if in.Metar != "" {
		departureConditions = append(departureConditions,
			fmt.Sprintf("Departure (%s): %s", in.Departure, SummarizeMetar(in.Metar)))
		briefing.FlightCategory = DeriveFlightCategory(in.Metar)
		briefing.Hazards = append(briefing.Hazards, ScanHazards(in.Metar, "departure")...)
	} else {
		departureConditions = append(departureConditions,
			fmt.Sprintf("Departure (%s): Current conditions require review", in.Departure))
	}

	arrivalConditions := []string{
		fmt.Sprintf("Arrival (%s): Forecast conditions require review", in.Arrival),
	}

	var enrouteConditions []string
	if in.IncludeEnroute {
		switch feet := ParseAltitude(in.Altitude); {
		case feet >= 18000:
			enrouteConditions = append(enrouteConditions,
				fmt.Sprintf("High altitude flight (%s): Monitor jet stream winds", in.Altitude),
				"Potential for moderate turbulence in jet stream")
		case feet >= 10000:
			enrouteConditions = append(enrouteConditions,
				fmt.Sprintf("Mid-level flight (%s): Standard enroute conditions expected", in.Altitude))
		default:
			enrouteConditions = append(enrouteConditions,
				fmt.Sprintf("Low altitude flight (%s): Monitor surface weather influence", in.Altitude))
		}
	}

	briefing.Conditions = append(append(departureConditions, arrivalConditions...), enrouteConditions...)

	switch briefing.FlightCategory {
	case "IFR":
		briefing.Recommendations = append(briefing.Recommendations,
			"IFR flight rules required - file IFR flight plan",
			"Monitor weather minimums at destination")
	case "MVFR":
		briefing.Recommendations = append(briefing.Recommendations,
			"MVFR conditions - consider IFR flight plan as backup")
	default:
		briefing.Recommendations = append(briefing.Recommendations,
			"VFR conditions favorable for flight")
	}
	if len(briefing.Hazards) > 0 {
		briefing.Recommendations = append(briefing.Recommendations,
			"Monitor weather updates due to identified hazards")
	} else {
		briefing.Recommendations = append(briefing.Recommendations,
			"No significant weather hazards identified")
	}
	if ParseAltitude(in.Altitude) >= 18000 {
		briefing.Recommendations = append(briefing.Recommendations,
			"Monitor winds aloft and turbulence reports")
	}

	summaryParts := []string{
		fmt.Sprintf("ROUTE WEATHER BRIEFING: Flight from %s to %s at %s", in.Departure, in.Arrival, in.Altitude),
		"Overall Conditions: " + briefing.FlightCategory,
	}
	if len(briefing.Hazards) > 0 {
		summaryParts = append(summaryParts, "Weather Hazards: "+strings.Join(briefing.Hazards, ", "))
	}
	summaryParts = append(summaryParts,
		"Departure: "+afterLabel(departureConditions[0]),
		"Arrival: "+afterLabel(arrivalConditions[0]),
	)
	if len(enrouteConditions) > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("Enroute: %d factors to monitor", len(enrouteConditions)))
	}
	summaryParts = append(summaryParts, "Primary Recommendation: "+briefing.Recommendations[0])
	briefing.Summary = strings.Join(summaryParts, " • ")

	return briefing
}

// afterLabel strips the "Site (CODE): " prefix from a condition line.
func afterLabel(s string) string {
	if _, rest, ok := strings.Cut(s, ": "); ok {
		return rest
	}
	return s
}

// QuickSummary builds a one-paragraph route outlook from reported conditions.
func QuickSummary(departure, arrival, flightLevel string, conditions []string) string {
	head := fmt.Sprintf("Flight %s to %s", departure, arrival)
	if flightLevel != "" {
		head += " at " + flightLevel
	}
	if len(conditions) == 0 {
		return head + ": no reported weather concerns. Conditions generally favorable."
	}

	joined := strings.Join(conditions, ", ")
	upper := strings.ToUpper(joined)

	assessment := "Conditions generally favorable."
	switch {
	case containsAny(upper, "THUNDERSTORM", "SEVERE", "ICING", "ICE"):
		assessment = "Review hazards before departure."
	case containsAny(upper, "TURBULENCE", "GUST", "FOG", "LOW VISIBILITY", "SNOW"):
		assessment = "Exercise caution enroute."
	}
	return fmt.Sprintf("%s: reported conditions - %s. %s", head, joined, assessment)
}

// RouteStationAnalysis pairs an airport with its categorized weather.
type RouteStationAnalysis struct {
	Airport  string          `json:"airport"`
	Analysis WeatherCategory `json:"analysis"`
}

// EnhancedRouteAnalysis is the per-station categorized view of a route,
// built from caller-supplied METARs rather than live fetches.
type EnhancedRouteAnalysis struct {
	Route             string                `json:"route"`
	Altitude          string                `json:"altitude"`
	AltitudeFeet      int                   `json:"altitude_feet"`
	Departure         *RouteStationAnalysis `json:"departure,omitempty"`
	Arrival           *RouteStationAnalysis `json:"arrival,omitempty"`
	AltitudeGuidance  []string              `json:"altitude_guidance"`
	OverallAssessment string                `json:"overall_assessment"`
	Recommendations   []string              `json:"recommendations"`
}

// BuildEnhancedRouteAnalysis categorizes the supplied station METARs and
// grades the route by the worst category found.
func BuildEnhancedRouteAnalysis(departure, arrival, altitude, departureMetar, arrivalMetar string) EnhancedRouteAnalysis {
	out := EnhancedRouteAnalysis{
		Route:        departure + " → " + arrival,
		Altitude:     altitude,
		AltitudeFeet: ParseAltitude(altitude),
	}

	var categories []string
	if departureMetar != "" {
		c := CategorizeWeather(departureMetar)
		out.Departure = &RouteStationAnalysis{Airport: departure, Analysis: c}
		categories = append(categories, c.Category)
	}
	if arrivalMetar != "" {
		c := CategorizeWeather(arrivalMetar)
		out.Arrival = &RouteStationAnalysis{Airport: arrival, Analysis: c}
		categories = append(categories, c.Category)
	}

	switch {
	case out.AltitudeFeet >= 18000:
		out.AltitudeGuidance = []string{
			fmt.Sprintf("High altitude flight (%s): Monitor jet stream winds", altitude),
			"Potential for moderate turbulence in jet stream",
		}
	case out.AltitudeFeet >= 10000:
		out.AltitudeGuidance = []string{
			fmt.Sprintf("Mid-level flight (%s): Standard enroute conditions expected", altitude),
		}
	default:
		out.AltitudeGuidance = []string{
			fmt.Sprintf("Low altitude flight (%s): Monitor surface weather influence", altitude),
		}
	}

	out.OverallAssessment = worstCategory(categories)
	switch out.OverallAssessment {
	case "Severe":
		out.Recommendations = []string{
			"Delay or reroute until severe weather clears",
			"Review SIGMETs and convective forecasts before departure",
		}
	case "Significant":
		out.Recommendations = []string{
			"File an IFR flight plan and carry alternates",
			"Monitor conditions for deterioration",
		}
	case "Clear":
		out.Recommendations = []string{
			"Conditions favorable for flight",
			"Standard weather monitoring applies",
		}
	default:
		out.Recommendations = []string{
			"Obtain current METARs for both airports before departure",
		}
	}
	return out
}

// worstCategory picks the most severe of the station categories, or
// "Unknown" when no station weather was supplied.
func worstCategory(categories []string) string {
	if len(categories) == 0 {
		return "Unknown"
	}
	rank := map[string]int{"Clear": 0, "Significant": 1, "Severe": 2}
	worst := "Clear"
	for _, c := range categories {
		if rank[c] > rank[worst] {
			worst = c
		}
	}
	return worst
}
