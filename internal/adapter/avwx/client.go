package avwx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skybrief/aviation-nlp/internal/domain"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

// Client fetches aviation weather products from the aviationweather.gov
// data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Aviation Weather Center data API client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchMetars returns current observations for the given stations covering
// the trailing window of hours.
func (c *Client) FetchMetars(ctx context.Context, stations []string, hours int) ([]domain.Metar, error) {
	params := url.Values{
		"ids":    {strings.Join(stations, ",")},
		"format": {"json"},
	}
	if hours > 0 {
		params.Set("hours", strconv.Itoa(hours))
	}

	var dtos []metarDTO
	if err := c.getJSON(ctx, "metar", params, &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.Metar, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// FetchTafs returns terminal forecasts for the given stations.
func (c *Client) FetchTafs(ctx context.Context, stations []string, hours int) ([]domain.Taf, error) {
	params := url.Values{
		"ids":    {strings.Join(stations, ",")},
		"format": {"json"},
	}
	if hours > 0 {
		params.Set("hours", strconv.Itoa(hours))
	}

	var dtos []tafDTO
	if err := c.getJSON(ctx, "taf", params, &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.Taf, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// FetchPireps returns pilot reports near the given stations. With no
// stations the query is area-wide. Age is the lookback in hours and
// distance the radial search in nautical miles.
func (c *Client) FetchPireps(ctx context.Context, stations []string, age, distanceNM int) ([]domain.Pirep, error) {
	params := url.Values{
		"format": {"json"},
	}
	if len(stations) > 0 {
		params.Set("id", strings.Join(stations, ","))
	}
	if age > 0 {
		params.Set("age", strconv.Itoa(age))
	}
	if distanceNM > 0 {
		params.Set("distance", strconv.Itoa(distanceNM))
	}

	var dtos []pirepDTO
	if err := c.getJSON(ctx, "pirep", params, &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.Pirep, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// FetchSigmets returns active SIGMETs, optionally filtered by hazard and level.
func (c *Client) FetchSigmets(ctx context.Context, hazard, level string) ([]domain.AirSigmet, error) {
	return c.fetchAirSigmets(ctx, "sigmet", hazard, level)
}

// FetchAirmets returns active AIRMETs, optionally filtered by hazard.
func (c *Client) FetchAirmets(ctx context.Context, hazard string) ([]domain.AirSigmet, error) {
	return c.fetchAirSigmets(ctx, "airmet", hazard, "")
}

func (c *Client) fetchAirSigmets(ctx context.Context, product, hazard, level string) ([]domain.AirSigmet, error) {
	params := url.Values{
		"format": {"json"},
		"type":   {product},
	}
	if h := hazardCode(hazard); h != "" {
		params.Set("hazard", h)
	}
	if level != "" {
		params.Set("level", level)
	}

	var dtos []airSigmetDTO
	if err := c.getJSON(ctx, "airsigmet", params, &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.AirSigmet, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Status probes every data endpoint with a minimal query and reports
// availability and latency for each.
func (c *Client) Status(ctx context.Context) domain.APIStatus {
	probes := []struct {
		product string
		params  url.Values
	}{
		{"metar", url.Values{"ids": {"KJFK"}, "format": {"json"}}},
		{"taf", url.Values{"ids": {"KJFK"}, "format": {"json"}}},
		{"pirep", url.Values{"id": {"KJFK"}, "format": {"json"}, "age": {"1"}}},
		{"airsigmet", url.Values{"format": {"json"}}},
	}

	status := domain.APIStatus{
		Endpoints: make(map[string]domain.EndpointStatus, len(probes)),
		CheckedAt: domain.Now(),
	}
	for _, p := range probes {
		start := time.Now()
		_, err := c.doRequest(ctx, p.product, p.params)
		es := domain.EndpointStatus{
			Available:      err == nil,
			ResponseTimeMS: time.Since(start).Seconds() * 1000,
		}
		if err != nil {
			es.Error = err.Error()
		}
		status.Endpoints[p.product] = es
	}
	return status
}

func (c *Client) getJSON(ctx context.Context, product string, params url.Values, v any) error {
	body, err := c.doRequest(ctx, product, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", product, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, product string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/api/data/%s?%s", c.baseURL, product, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(product, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", product, err)
	}
	defer resp.Body.Close()
	c.metrics.UpstreamDuration.WithLabelValues(product).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.UpstreamRequests.WithLabelValues(product, "error").Inc()
		return nil, fmt.Errorf("aviation weather API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(product, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", product, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(product, "success").Inc()
	c.logger.Debug("upstream fetch", "product", product, "elapsed", time.Since(start))
	return body, nil
}

// hazardCode translates briefing vocabulary to the API's hazard codes.
// AIRMET Sierra covers IFR conditions, Tango turbulence, and Zulu icing.
// Unknown values pass through lowercased so newer upstream codes keep working.
func hazardCode(hazard string) string {
	h := strings.ToLower(strings.TrimSpace(hazard))
	switch h {
	case "convective":
		return "conv"
	case "sierra":
		return "ifr"
	case "tango":
		return "turb"
	case "zulu":
		return "ice"
	}
	return h
}

// Aviation Weather Center API response types.

type metarDTO struct {
	ICAOId  string  `json:"icaoId"`
	ObsTime int64   `json:"obsTime"` // epoch seconds
	Temp    float64 `json:"temp"`
	Dewp    float64 `json:"dewp"`
	Wdir    any     `json:"wdir"`  // degrees, or "VRB"
	Wspd    float64 `json:"wspd"`  // kt
	Visib   any     `json:"visib"` // "10+" or a number
	Altim   float64 `json:"altim"` // hPa
	RawOb   string  `json:"rawOb"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	FltCat  string  `json:"fltCat"` // VFR, MVFR, IFR, LIFR
}

func (d metarDTO) toDomain() domain.Metar {
	return domain.Metar{
		StationID:      d.ICAOId,
		ObservedAt:     epochString(d.ObsTime),
		TempC:          d.Temp,
		DewpointC:      d.Dewp,
		WindDirDeg:     asFloat(d.Wdir),
		WindSpeedKt:    d.Wspd,
		Visibility:     asString(d.Visib),
		Altimeter:      d.Altim,
		FlightCategory: d.FltCat,
		StationName:    d.Name,
		Lat:            d.Lat,
		Lon:            d.Lon,
		RawText:        d.RawOb,
	}
}

type tafDTO struct {
	ICAOId        string  `json:"icaoId"`
	IssueTime     string  `json:"issueTime"`
	ValidTimeFrom int64   `json:"validTimeFrom"` // epoch seconds
	ValidTimeTo   int64   `json:"validTimeTo"`
	RawTAF        string  `json:"rawTAF"`
	Remarks       string  `json:"remarks"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

func (d tafDTO) toDomain() domain.Taf {
	return domain.Taf{
		StationID:   d.ICAOId,
		IssuedAt:    d.IssueTime,
		ValidFrom:   epochString(d.ValidTimeFrom),
		ValidTo:     epochString(d.ValidTimeTo),
		StationName: d.Name,
		Lat:         d.Lat,
		Lon:         d.Lon,
		RawText:     d.RawTAF,
		Remarks:     d.Remarks,
	}
}

type pirepDTO struct {
	ReceiptTime string  `json:"receiptTime"`
	AirepType   string  `json:"airepType"` // "PIREP" or "AIREP"
	AcType      string  `json:"acType"`
	FltLvl      string  `json:"fltLvl"` // hundreds of feet
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	RawOb       string  `json:"rawOb"`
}

func (d pirepDTO) toDomain() domain.Pirep {
	alt := 0
	if n, err := strconv.Atoi(strings.TrimSpace(d.FltLvl)); err == nil {
		alt = n * 100
	}
	return domain.Pirep{
		ReceiptTime: d.ReceiptTime,
		ReportType:  d.AirepType,
		AircraftRef: d.AcType,
		AltitudeFt:  alt,
		Lat:         d.Lat,
		Lon:         d.Lon,
		RawText:     d.RawOb,
	}
}

type airSigmetDTO struct {
	AirSigmetType string `json:"airSigmetType"` // "SIGMET" or "AIRMET"
	Hazard        string `json:"hazard"`
	Severity      any    `json:"severity"`      // numeric code or text
	ValidTimeFrom int64  `json:"validTimeFrom"` // epoch seconds
	ValidTimeTo   int64  `json:"validTimeTo"`
	AltitudeLow1  int    `json:"altitudeLow1"`
	AltitudeHi1   int    `json:"altitudeHi1"`
	RawAirSigmet  string `json:"rawAirSigmet"`
}

func (d airSigmetDTO) toDomain() domain.AirSigmet {
	return domain.AirSigmet{
		Product:      d.AirSigmetType,
		Hazard:       d.Hazard,
		Severity:     asString(d.Severity),
		ValidFrom:    epochString(d.ValidTimeFrom),
		ValidTo:      epochString(d.ValidTimeTo),
		AltitudeLoFt: d.AltitudeLow1,
		AltitudeHiFt: d.AltitudeHi1,
		RawText:      d.RawAirSigmet,
	}
}

func epochString(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// asFloat coerces mixed-type upstream fields (numbers, or strings like
// "VRB") to a float, defaulting to 0.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	}
	return 0
}

// asString renders mixed-type upstream fields ("10+", 4.97) as text.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
