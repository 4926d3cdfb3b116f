package briefing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skybrief/aviation-nlp/internal/domain"
)

// ProductData is the fetched payload for one weather product: the reports
// themselves, the raw text lines pulled out of them, and one summary per
// text. Data holds decoded report structs or bare raw strings depending on
// the request.
type ProductData struct {
	Success      bool     `json:"success"`
	Data         any      `json:"data"`
	RawTexts     []string `json:"raw_texts"`
	AISummaries  []string `json:"ai_summaries"`
	SummaryCount int      `json:"summary_count"`
	Error        string   `json:"error,omitempty"`
}

// ComprehensiveWeather bundles every product fetched for a route. Products
// fail independently; a product error never drops the others.
type ComprehensiveWeather struct {
	Route     string      `json:"route"`
	Stations  []string    `json:"stations"`
	Metar     ProductData `json:"metar"`
	Taf       ProductData `json:"taf"`
	Pirep     ProductData `json:"pirep"`
	Sigmet    ProductData `json:"sigmet"`
	Airmet    ProductData `json:"airmet"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// FetchMetarData fetches current observations for the stations and attaches
// per-report summaries. With decoded false, Data carries raw strings only.
func (s *Service) FetchMetarData(ctx context.Context, stations []string, hours int, decoded bool) (ProductData, error) {
	if !s.weatherReady() {
		return ProductData{}, ErrWeatherUnavailable
	}
	metars, err := s.weather.FetchMetars(ctx, stations, hours)
	if err != nil {
		return ProductData{}, err
	}

	raws := rawTexts(metars, func(m domain.Metar) string { return m.RawText })
	data := s.productData(ctx, domain.KindMetar, metars, raws, 200, 0)
	if !decoded {
		data.Data = raws
	}
	return data, nil
}

// FetchTafData fetches terminal forecasts for the stations and attaches
// per-report summaries. With decoded false, Data carries raw strings only.
func (s *Service) FetchTafData(ctx context.Context, stations []string, hours int, decoded bool) (ProductData, error) {
	if !s.weatherReady() {
		return ProductData{}, ErrWeatherUnavailable
	}
	tafs, err := s.weather.FetchTafs(ctx, stations, hours)
	if err != nil {
		return ProductData{}, err
	}

	raws := rawTexts(tafs, func(t domain.Taf) string { return t.RawText })
	data := s.productData(ctx, domain.KindTaf, tafs, raws, 200, 0)
	if !decoded {
		data.Data = raws
	}
	return data, nil
}

// FetchPirepData fetches pilot reports near the stations, or area-wide when
// no stations are given.
func (s *Service) FetchPirepData(ctx context.Context, stations []string, age, distanceNM int) (ProductData, error) {
	if !s.weatherReady() {
		return ProductData{}, ErrWeatherUnavailable
	}
	pireps, err := s.weather.FetchPireps(ctx, stations, age, distanceNM)
	if err != nil {
		return ProductData{}, err
	}

	raws := rawTexts(pireps, func(p domain.Pirep) string { return p.RawText })
	return s.productData(ctx, domain.KindPirep, pireps, raws, 200, 0), nil
}

// FetchSigmetData fetches active SIGMETs filtered by hazard and level.
func (s *Service) FetchSigmetData(ctx context.Context, hazard, level string) (ProductData, error) {
	if !s.weatherReady() {
		return ProductData{}, ErrWeatherUnavailable
	}
	sigmets, err := s.weather.FetchSigmets(ctx, hazard, level)
	if err != nil {
		return ProductData{}, err
	}

	raws := rawTexts(sigmets, func(a domain.AirSigmet) string { return a.RawText })
	return s.productData(ctx, domain.KindSigmet, sigmets, raws, 200, 0), nil
}

// FetchAirmetData fetches active AIRMETs filtered by hazard.
func (s *Service) FetchAirmetData(ctx context.Context, hazard string) (ProductData, error) {
	if !s.weatherReady() {
		return ProductData{}, ErrWeatherUnavailable
	}
	airmets, err := s.weather.FetchAirmets(ctx, hazard)
	if err != nil {
		return ProductData{}, err
	}

	raws := rawTexts(airmets, func(a domain.AirSigmet) string { return a.RawText })
	return s.productData(ctx, domain.KindAirmet, airmets, raws, 200, 0), nil
}

// ComprehensiveWeather fetches every product for the route stations. Only
// the first five texts per product are summarized, at a tighter length, to
// keep the response bounded on busy routes.
func (s *Service) ComprehensiveWeather(ctx context.Context, departure, arrival string, enroute []string) (ComprehensiveWeather, error) {
	if !s.weatherReady() {
		return ComprehensiveWeather{}, ErrWeatherUnavailable
	}

	stations := routeStations(departure, arrival, enroute)
	out := ComprehensiveWeather{
		Route:     departure + " -> " + arrival,
		Stations:  stations,
		FetchedAt: domain.Now(),
	}

	if metars, err := s.weather.FetchMetars(ctx, stations, 3); err != nil {
		out.Metar = failedProduct(err)
	} else {
		raws := rawTexts(metars, func(m domain.Metar) string { return m.RawText })
		out.Metar = s.productData(ctx, domain.KindMetar, metars, raws, 150, 5)
	}

	if tafs, err := s.weather.FetchTafs(ctx, stations, 3); err != nil {
		out.Taf = failedProduct(err)
	} else {
		raws := rawTexts(tafs, func(t domain.Taf) string { return t.RawText })
		out.Taf = s.productData(ctx, domain.KindTaf, tafs, raws, 150, 5)
	}

	if pireps, err := s.weather.FetchPireps(ctx, stations, 6, 100); err != nil {
		out.Pirep = failedProduct(err)
	} else {
		raws := rawTexts(pireps, func(p domain.Pirep) string { return p.RawText })
		out.Pirep = s.productData(ctx, domain.KindPirep, pireps, raws, 150, 5)
	}

	if sigmets, err := s.weather.FetchSigmets(ctx, "", "low"); err != nil {
		out.Sigmet = failedProduct(err)
	} else {
		raws := rawTexts(sigmets, func(a domain.AirSigmet) string { return a.RawText })
		out.Sigmet = s.productData(ctx, domain.KindSigmet, sigmets, raws, 150, 5)
	}

	if airmets, err := s.weather.FetchAirmets(ctx, ""); err != nil {
		out.Airmet = failedProduct(err)
	} else {
		raws := rawTexts(airmets, func(a domain.AirSigmet) string { return a.RawText })
		out.Airmet = s.productData(ctx, domain.KindAirmet, airmets, raws, 150, 5)
	}

	return out, nil
}

// APIStatus probes upstream endpoint availability and latency.
func (s *Service) APIStatus(ctx context.Context) (domain.APIStatus, error) {
	if !s.weatherReady() {
		return domain.APIStatus{}, ErrWeatherUnavailable
	}
	return s.weather.Status(ctx), nil
}

// productData assembles the common fetched-product shape. summaryLimit > 0
// caps how many texts are summarized; raw_texts always carries all of them.
func (s *Service) productData(ctx context.Context, kind domain.ReportKind, reports any, raws []string, maxLength, summaryLimit int) ProductData {
	data := ProductData{Success: true, Data: reports, RawTexts: raws}

	texts := raws
	if summaryLimit > 0 && len(texts) > summaryLimit {
		texts = texts[:summaryLimit]
	}
	data.AISummaries = s.summarizeTexts(ctx, kind, texts, maxLength)
	data.SummaryCount = len(data.AISummaries)
	return data
}

// summarizeTexts produces one summary per raw report line. A summary that
// comes back empty is replaced with an annotated raw-text prefix so callers
// always see one entry per report.
func (s *Service) summarizeTexts(ctx context.Context, kind domain.ReportKind, texts []string, maxLength int) []string {
	summaries := make([]string, 0, len(texts))
	for _, text := range texts {
		summary, _ := s.reportSummary(ctx, kind, text, maxLength)
		if summary == "" {
			summary = fmt.Sprintf("Raw %s: %.100s...", kind, text)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// rawTexts collects the non-empty raw text of each report.
func rawTexts[T any](reports []T, raw func(T) string) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		if s := raw(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// failedProduct marks one product of a comprehensive fetch as failed while
// keeping its shape renderable.
func failedProduct(err error) ProductData {
	return ProductData{
		RawTexts:    []string{},
		AISummaries: []string{},
		Error:       err.Error(),
	}
}

// routeStations builds the deduplicated, uppercased station list for a route.
func routeStations(departure, arrival string, enroute []string) []string {
	codes := make([]string, 0, len(enroute)+2)
	codes = append(codes, departure)
	codes = append(codes, enroute...)
	codes = append(codes, arrival)

	seen := make(map[string]struct{}, len(codes))
	stations := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		stations = append(stations, code)
	}
	return stations
}
