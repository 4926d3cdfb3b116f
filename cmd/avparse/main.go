// Command avparse runs the rule-based text engines over aviation reports from
// the command line and prints the structured result as JSON. It uses the
// actual domain package, so output matches what the service returns when the
// model backend is down.
//
// Usage:
//
//	avparse -kind notam "A1234/24 NOTAMN KJFK RWY 04L/22R CLSD 2406121200-2406151200"
//	avparse -kind metar "KJFK 251651Z 18004KT 10SM FEW250 24/18 A3012"
//	avparse -kind category "KORD 251651Z 24018G35KT 2SM TSRA OVC008 19/17 A2965"
//	echo "Runway 22L closed for repairs. Use runway 22R." | avparse -kind summary
//	avparse -kind brief -departure KJFK -arrival KLAX -metar "KJFK 251651Z ..."
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/skybrief/aviation-nlp/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	kind := flag.String("kind", "notam", "engine to run: notam, metar, category, summary, or brief")
	airport := flag.String("airport", "", "airport code hint for NOTAM structuring")
	maxLength := flag.Int("max-length", 200, "summary length cap in characters")
	departure := flag.String("departure", "", "departure airport for -kind brief")
	arrival := flag.String("arrival", "", "arrival airport for -kind brief")
	altitude := flag.String("altitude", "FL350", "cruise altitude for -kind brief")
	metar := flag.String("metar", "", "departure METAR for -kind brief")
	flag.Parse()

	var out any
	if *kind == "brief" {
		if *departure == "" || *arrival == "" {
			return fmt.Errorf("-kind brief requires -departure and -arrival")
		}
		out = domain.BuildRouteBriefing(domain.RouteBriefingInput{
			Departure:      *departure,
			Arrival:        *arrival,
			Altitude:       *altitude,
			Metar:          *metar,
			IncludeEnroute: true,
		})
	} else {
		text, err := inputText()
		if err != nil {
			return err
		}

		switch *kind {
		case "notam":
			out = struct {
				domain.StructuredNotam
				Fields domain.ParsedNotam `json:"fields"`
			}{domain.StructureNotam(text, *airport), domain.ExtractNotamFields(text)}
		case "metar":
			out = struct {
				Explanation    string `json:"explanation"`
				FlightCategory string `json:"flight_category"`
				OriginalMetar  string `json:"original_metar"`
			}{domain.SummarizeMetar(text), domain.DeriveFlightCategory(text), text}
		case "category":
			out = domain.CategorizeWeather(text)
		case "summary":
			out = struct {
				Summary         string   `json:"summary"`
				KeyPoints       []string `json:"key_points"`
				Severity        string   `json:"severity"`
				Recommendations []string `json:"recommendations"`
			}{
				domain.Summarize(text, *maxLength, 0),
				domain.KeyPoints(text),
				domain.AssessSeverity(text),
				domain.Recommendations(text),
			}
		default:
			return fmt.Errorf("unknown -kind %q", *kind)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// inputText takes the report text from the remaining arguments, or from
// stdin when none are given.
func inputText() (string, error) {
	if args := flag.Args(); len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no input text: pass it as an argument or on stdin")
	}
	return text, nil
}
