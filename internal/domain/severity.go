package domain

import (
	"math"
	"strings"
)

// severityBuckets is scanned in order; ties between buckets resolve to the
// earlier (more severe) one. Keywords are matched as substrings of the
// lowercased text and every occurrence counts.
var severityBuckets = []struct {
	level    string
	keywords []string
}{
	{"high", []string{"closed", "failure", "out of service", "unavailable", "inoperative"}},
	{"medium", []string{"reduced", "limited", "caution", "warning", "temporary"}},
	{"low", []string{"information", "advisory", "notice", "scheduled", "maintenance"}},
}

// facilityBuckets maps keyword groups to facility types, first match wins.
var facilityBuckets = []struct {
	facility string
	keywords []string
}{
	{"runway", []string{"runway", "rwy"}},
	{"taxiway", []string{"taxiway", "twy"}},
	{"approach", []string{"ils", "vor", "ndb", "rnav", "approach"}},
	{"lighting", []string{"lighting", "lights", "papi", "vasi"}},
	{"navigation", []string{"navaid", "navigation", "beacon"}},
	{"airport", []string{"airport", "airfield"}},
}

// ClassifySeverity scores each severity bucket by keyword occurrence count
// and returns the winning level with a confidence derived from the score.
// Text with no severity keywords at all is "medium" at confidence 0.3.
func ClassifySeverity(text string) (string, float64) {
	lower := strings.ToLower(text)

	level := ""
	best := 0
	for _, bucket := range severityBuckets {
		score := 0
		for _, kw := range bucket.keywords {
			score += strings.Count(lower, kw)
		}
		if score > best {
			level, best = bucket.level, score
		}
	}

	if best == 0 {
		return "medium", 0.3
	}
	return level, math.Min(float64(best)*0.2+0.5, 1.0)
}

// FacilityType classifies which facility a NOTAM concerns, or "" when no
// facility keyword appears.
func FacilityType(text string) string {
	lower := strings.ToLower(text)
	for _, bucket := range facilityBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.facility
			}
		}
	}
	return ""
}

// ClassifyNotam assigns the briefing category and severity for a NOTAM.
// Category rules are first-match, but a closure mention raises severity to
// HIGH even when it appears after a lower-severity category has matched.
func ClassifyNotam(text string) (category, severity string) {
	upper := strings.ToUpper(text)

	category, severity = "GENERAL", "MEDIUM"
	switch {
	case containsAny(upper, "RUNWAY", "RWY"):
		category, severity = "RUNWAY", "HIGH"
	case containsAny(upper, "TAXIWAY", "TWY"):
		category, severity = "TAXIWAY", "MEDIUM"
	case containsAny(upper, "NAVAID", "ILS", "VOR"):
		category, severity = "NAVIGATION", "HIGH"
	}
	if containsAny(upper, "CLOSED", "CLSD") {
		severity = "HIGH"
	}
	return category, severity
}

// AssessSeverity grades free-form aviation text on the coarse HIGH/MEDIUM/LOW
// scale used by summary responses.
func AssessSeverity(text string) string {
	upper := strings.ToUpper(text)
	switch {
	case containsAny(upper, "CLOSED", "CLSD", "THUNDERSTORM", "SEVERE"):
		return "HIGH"
	case containsAny(upper, "RESTRICTED", "LIMITED", "CAUTION", "MODERATE"):
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// KeyPoints extracts up to five operationally relevant bullet points from
// aviation text.
func KeyPoints(text string) []string {
	upper := strings.ToUpper(text)

	points := []string{}
	if containsAny(upper, "CLOSED", "CLSD") {
		points = append(points, "Facility or service closure reported")
	}
	if containsAny(upper, "RUNWAY", "RWY") {
		points = append(points, "Runway operations affected")
	}
	if strings.Contains(upper, "WEATHER") {
		points = append(points, "Weather conditions noted")
	}
	if strings.Contains(upper, "VISIBILITY") {
		points = append(points, "Visibility restrictions present")
	}
	if strings.Contains(upper, "WIND") {
		points = append(points, "Wind conditions reported")
	}
	if len(points) > 5 {
		points = points[:5]
	}
	return points
}

// Recommendations derives up to three pilot action items from aviation text.
func Recommendations(text string) []string {
	upper := strings.ToUpper(text)

	recs := []string{}
	if containsAny(upper, "CLOSED", "CLSD") {
		recs = append(recs, "Plan alternate routing or procedures")
	}
	if strings.Contains(upper, "CONSTRUCTION") {
		recs = append(recs, "Expect delays and allow extra time")
	}
	if containsAny(upper, "LOW VISIBILITY", "FOG") {
		recs = append(recs, "Consider IFR procedures and alternate airports")
	}
	if containsAny(upper, "STRONG WIND", "GUSTS") {
		recs = append(recs, "Monitor crosswind limitations for aircraft")
	}
	if containsAny(upper, "THUNDERSTORM", "CONVECTIVE") {
		recs = append(recs, "Avoid area or plan weather deviation")
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

// containsAny reports whether any of the needles occurs in s.
func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
