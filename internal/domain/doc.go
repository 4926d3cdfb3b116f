// Package domain models aviation weather and NOTAM text processing.
//
// # Data Sources
//
// Raw report text arrives two ways: callers POST it directly (a NOTAM pasted
// into a briefing tool, a METAR copied from ATIS), or the service fetches it
// live from the aviationweather.gov data API. Either way the text follows the
// ICAO/FAA conventions documented here, and the extraction code in this
// package depends on them.
//
// # NOTAM Conventions
//
// NOTAM identifiers:
//
//	One letter, four digits, a slash, and a two-digit year: "A1234/24".
//	The letter encodes the NOTAM series; the digits reset each year.
//
// Station identifiers:
//
//	ICAO location codes are exactly four uppercase letters: "KJFK", "EGLL".
//	Extraction is word-bounded so that runway designators ("RWY 04L/22R")
//	and other uppercase runs do not produce false stations.
//
// Dates and times:
//
//	Dates appear either as DD/MM/YYYY ("15/01/2024") or as the six-digit
//	NOTAM timestamp YYMMDD ("2401151200" carries date "240115"). Times are
//	four digits with a Z suffix ("1200Z") or colon-separated ("14:30").
//	When a NOTAM carries two or more dates, the first is taken as the
//	effective date and the second as the expiry date.
//
// Coordinates:
//
//	Degrees-minutes-seconds pairs: "404551N 0735906W" is 40°45'51" North,
//	073°59'06" West. Converted to signed decimal degrees, negative for
//	south latitude and west longitude.
//
// Severity classification:
//
//	Keyword occurrences are counted per severity bucket and the bucket with
//	the most hits wins; ties resolve to the more severe bucket. Confidence
//	scales with the hit count and is capped at 1.0:
//
//	  high:   closed, failure, out of service, unavailable, inoperative
//	  medium: reduced, limited, caution, warning, temporary
//	  low:    information, advisory, notice, scheduled, maintenance
//
//	No hits at all yields "medium" at confidence 0.3.
//
// Briefing categories:
//
//	RUNWAY, TAXIWAY, NAVIGATION, or GENERAL, assigned by the first matching
//	keyword rule. A closure mention (CLOSED, CLSD) raises severity to HIGH
//	regardless of which category matched. See [ClassifyNotam].
//
// # METAR Conventions
//
// Flight categories are derived from marker substrings in the raw
// observation rather than full numeric parsing: unlimited visibility and
// clear-sky groups (10SM, P6SM, 9999, CLR, SKC) indicate VFR, overcast or
// low-visibility groups (OVC, 1SM, 2SM) indicate IFR, anything else is
// treated as MVFR. See [DeriveFlightCategory].
//
// Altitude strings accept three shapes: flight levels ("FL350" → 35000 ft),
// explicit feet ("8000ft" → 8000), or bare digits ("8000" → 8000). Anything
// unparseable falls back to 10000 ft. See [ParseAltitude].
//
// # Summarization
//
// Summaries are extractive: sentences are scored by the mean corpus
// frequency of their non-stop-words and the top-scoring sentences are
// re-emitted in their original order. Text of two sentences or fewer is
// returned verbatim, and a summary that undershoots the caller's minimum
// length falls back to the original text. See [Summarize].
package domain
