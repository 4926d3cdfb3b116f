package domain

import (
	"regexp"
	"strings"
)

var (
	// airportRe matches ICAO station identifiers: exactly four uppercase
	// letters on word boundaries, e.g. "KJFK". Boundaries keep runway
	// designators like "RWY 04L/22R" from producing phantom stations.
	airportRe = regexp.MustCompile(`\b[A-Z]{4}\b`)

	// dateRe matches DD/MM/YYYY dates or six-digit NOTAM timestamps (YYMMDD).
	// The six-digit form deliberately has no boundary so the date prefix of a
	// full YYMMDDhhmm group like "2401151200" is still recovered.
	dateRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}|\d{6}`)

	// timeRe matches Zulu times ("1200Z") or colon-separated times ("14:30").
	timeRe = regexp.MustCompile(`\d{4}Z|\d{2}:\d{2}`)

	// notamIDRe matches NOTAM identifiers: series letter, four digits,
	// slash, two-digit year, e.g. "A1234/24".
	notamIDRe = regexp.MustCompile(`[A-Z]\d{4}/\d{2}`)

	// coordRe matches a DMS coordinate pair like "404551N 0735906W":
	// DDMMSS plus hemisphere, then DDDMMSS plus hemisphere.
	coordRe = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})([NS])\s*(\d{3})(\d{2})(\d{2})([EW])`)
)

// Coordinates is a decimal-degree position decoded from NOTAM DMS text.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParsedNotam holds the fields the rule-based extractor recovers from raw
// NOTAM text. Slice fields are never nil so they serialize as [].
type ParsedNotam struct {
	Airports     []string     `json:"airports"`
	Dates        []string     `json:"dates"`
	Times        []string     `json:"times"`
	NotamID      string       `json:"notam_id,omitempty"`
	FacilityType string       `json:"facility_type,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Severity     string       `json:"severity"`
	Confidence   float64      `json:"confidence"`
}

// StructuredNotam is the briefing-oriented view of a single NOTAM.
type StructuredNotam struct {
	NotamID          string       `json:"notam_id,omitempty"`
	EffectiveDate    string       `json:"effective_date,omitempty"`
	ExpiryDate       string       `json:"expiry_date,omitempty"`
	Location         string       `json:"location,omitempty"`
	Subject          string       `json:"subject,omitempty"`
	Description      string       `json:"description"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	AltitudeAffected *int         `json:"altitude_affected,omitempty"`
	Severity         string       `json:"severity"`
	Category         string       `json:"category"`
}

// ExtractNotamFields runs the regex extractors over raw NOTAM text and
// classifies severity from keyword occurrences. Matching is done against the
// uppercased text so lowercase input still extracts.
func ExtractNotamFields(notamText string) ParsedNotam {
	text := strings.ToUpper(notamText)

	parsed := ParsedNotam{
		Airports: uniqueStrings(airportRe.FindAllString(text, -1)),
		Dates:    nonNil(dateRe.FindAllString(text, -1)),
		Times:    nonNil(timeRe.FindAllString(text, -1)),
	}
	if id := notamIDRe.FindString(text); id != "" {
		parsed.NotamID = id
	}
	parsed.FacilityType = FacilityType(text)
	parsed.Coordinates = parseCoordinates(text)
	parsed.Severity, parsed.Confidence = ClassifySeverity(text)
	return parsed
}

// StructureNotam builds the briefing view of a NOTAM from raw text. The
// airport code argument, when present, wins over any extracted station; the
// first and second extracted dates become the effective and expiry dates.
func StructureNotam(notamText, airportCode string) StructuredNotam {
	fields := ExtractNotamFields(notamText)
	category, severity := ClassifyNotam(notamText)

	s := StructuredNotam{
		NotamID:     fields.NotamID,
		Location:    airportCode,
		Subject:     category,
		Description: notamText,
		Coordinates: fields.Coordinates,
		Severity:    severity,
		Category:    category,
	}
	if s.Location == "" && len(fields.Airports) > 0 {
		s.Location = fields.Airports[0]
	}
	if len(fields.Dates) > 0 {
		s.EffectiveDate = fields.Dates[0]
	}
	if len(fields.Dates) > 1 {
		s.ExpiryDate = fields.Dates[1]
	}
	return s
}

// parseCoordinates decodes the first DMS coordinate pair in the text into
// signed decimal degrees. Returns nil when no pair is present.
func parseCoordinates(text string) *Coordinates {
	m := coordRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	lat := dmsToDecimal(m[1], m[2], m[3])
	if m[4] == "S" {
		lat = -lat
	}
	lon := dmsToDecimal(m[5], m[6], m[7])
	if m[8] == "W" {
		lon = -lon
	}
	return &Coordinates{Latitude: lat, Longitude: lon}
}

// dmsToDecimal converts degree/minute/second strings to decimal degrees.
// Inputs come from coordRe capture groups, so they are always digit runs.
func dmsToDecimal(deg, min, sec string) float64 {
	return float64(atoiDigits(deg)) + float64(atoiDigits(min))/60 + float64(atoiDigits(sec))/3600
}

// atoiDigits parses a known-digits string, avoiding the error plumbing of
// strconv for regex-validated input.
func atoiDigits(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// uniqueStrings deduplicates while preserving first-appearance order.
func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// nonNil normalizes a nil slice to an empty one.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
