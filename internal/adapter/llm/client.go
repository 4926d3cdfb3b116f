package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/skybrief/aviation-nlp/internal/domain"
)

// Summarizer is the model-backed text interface the cache decorator wraps.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
	SummarizeReport(ctx context.Context, kind domain.ReportKind, text string, maxLength int) (string, error)
	ParseNotam(ctx context.Context, notamText, airportCode string) (domain.StructuredNotam, error)
	ExplainMetar(ctx context.Context, metarText string) (string, error)
	HealthCheck(ctx context.Context) error
}

// System prompts for the briefing operations.
const (
	summarizeSystemPrompt = `You are an aviation weather briefer. Summarize the supplied briefing text for a pilot.

Instructions:
- Keep only operationally relevant facts: closures, hazards, ceilings, visibility, winds, and trends.
- Use plain language a pilot can scan quickly.
- Never invent conditions that are not in the input.
- Stay under the requested character limit.`

	parseNotamSystemPrompt = `You are a NOTAM analyst. Transform raw NOTAM text into structured JSON for flight briefing software.

Instructions:
- Extract only facts stated in the NOTAM; never invent identifiers, dates, or locations.
- Keep dates and times exactly as written in the NOTAM.
- The description field restates the operational effect in plain language a pilot can scan.
- Severity reflects operational impact: HIGH for closures and outages, MEDIUM for restrictions, LOW for advisories.
- Populate all fields exactly as specified in the schema.`

	explainMetarSystemPrompt = `You are an aviation weather instructor. Decode the supplied raw METAR into plain language.

Instructions:
- Expand every coded group: time, wind, visibility, present weather, clouds, temperature, dew point, altimeter.
- Keep the order of the original report.
- One short phrase per element, joined into a single readable line.
- Never invent elements that are not in the report.`
)

// notamSchema defines the JSON schema for structured NOTAM output.
var notamSchema = openai.ChatCompletionResponseFormatJSONSchema{
	Name:   "notam_parse",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"notam_id": {
				"type": ["string", "null"],
				"description": "NOTAM identifier such as A1234/24, null if absent"
			},
			"effective_date": {
				"type": ["string", "null"],
				"description": "Start of validity exactly as written in the NOTAM"
			},
			"expiry_date": {
				"type": ["string", "null"],
				"description": "End of validity exactly as written in the NOTAM"
			},
			"location": {
				"type": ["string", "null"],
				"description": "Four-letter ICAO identifier the notice applies to"
			},
			"subject": {
				"type": "string",
				"description": "Short subject, e.g. runway closure"
			},
			"description": {
				"type": "string",
				"description": "Plain-language restatement of the operational effect"
			},
			"altitude_affected": {
				"type": ["integer", "null"],
				"description": "Upper altitude affected in feet MSL, null if none stated"
			},
			"severity": {
				"type": "string",
				"enum": ["HIGH", "MEDIUM", "LOW"],
				"description": "Operational severity"
			},
			"category": {
				"type": "string",
				"enum": ["RUNWAY", "TAXIWAY", "NAVIGATION", "GENERAL"],
				"description": "Affected facility category"
			}
		},
		"required": ["notam_id", "effective_date", "expiry_date", "location", "subject", "description", "altitude_affected", "severity", "category"],
		"additionalProperties": false
	}`),
}

// reportStyle names each product for the report summarization prompt.
var reportStyle = map[domain.ReportKind]string{
	domain.KindMetar:  "a current surface observation (METAR)",
	domain.KindTaf:    "a terminal aerodrome forecast (TAF)",
	domain.KindPirep:  "a pilot report (PIREP)",
	domain.KindSigmet: "a significant meteorological advisory (SIGMET)",
	domain.KindAirmet: "an airman's meteorological advisory (AIRMET)",
	domain.KindNotam:  "a notice to air missions (NOTAM)",
}

// Client implements Summarizer against an OpenAI-compatible chat API.
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a chat-completion client. An empty baseURL uses the
// public OpenAI endpoint; setting it points the client at any compatible
// server.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Summarize condenses briefing text to at most maxLength characters.
func (c *Client) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	userPrompt := fmt.Sprintf("Summarize this aviation briefing text in at most %d characters (aim for at least %d):\n\n%s",
		maxLength, minLength, text)

	return c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   tokenBudget(maxLength),
	})
}

// SummarizeReport condenses one weather product, naming the product type so
// the model decodes its conventions.
func (c *Client) SummarizeReport(ctx context.Context, kind domain.ReportKind, text string, maxLength int) (string, error) {
	style, ok := reportStyle[kind]
	if !ok {
		style = "an aviation weather report"
	}
	userPrompt := fmt.Sprintf("The following text is %s. Summarize it for a pilot in at most %d characters:\n\n%s",
		style, maxLength, text)

	return c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   tokenBudget(maxLength),
	})
}

// ParseNotam extracts a structured NOTAM using schema-constrained output.
// Enum fields and identifiers the model misses are backfilled from the
// deterministic extractors so the result is always briefing-complete.
func (c *Client) ParseNotam(ctx context.Context, notamText, airportCode string) (domain.StructuredNotam, error) {
	userPrompt := fmt.Sprintf("Parse this NOTAM and return structured JSON:\n\n%s", notamText)
	if airportCode != "" {
		userPrompt += fmt.Sprintf("\n\nThe requesting airport is %s.", airportCode)
	}

	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parseNotamSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type:       openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &notamSchema,
		},
		Temperature: 0.2,
		MaxTokens:   600,
	})
	if err != nil {
		return domain.StructuredNotam{}, err
	}

	var parsed notamParseResult
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.StructuredNotam{}, fmt.Errorf("parse model response: %w", err)
	}

	return backfillNotam(parsed, notamText, airportCode), nil
}

// ExplainMetar decodes a raw METAR into plain language.
func (c *Client) ExplainMetar(ctx context.Context, metarText string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: explainMetarSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: metarText},
		},
		Temperature: 0.3,
		MaxTokens:   400,
	})
}

// HealthCheck verifies API connectivity with a minimal completion.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Test"},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("model health check failed: %w", err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in model response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// tokenBudget sizes the completion for a character limit, with headroom for
// the model to finish sentences.
func tokenBudget(maxLength int) int {
	budget := maxLength / 2
	if budget < 100 {
		return 100
	}
	if budget > 600 {
		return 600
	}
	return budget
}

// notamParseResult is the wire shape of the schema-constrained response.
type notamParseResult struct {
	NotamID          *string `json:"notam_id"`
	EffectiveDate    *string `json:"effective_date"`
	ExpiryDate       *string `json:"expiry_date"`
	Location         *string `json:"location"`
	Subject          string  `json:"subject"`
	Description      string  `json:"description"`
	AltitudeAffected *int    `json:"altitude_affected"`
	Severity         string  `json:"severity"`
	Category         string  `json:"category"`
}

// backfillNotam fills gaps and invalid enums in a model parse from the
// deterministic extractors, so callers always get a usable structure.
func backfillNotam(parsed notamParseResult, notamText, airportCode string) domain.StructuredNotam {
	fields := domain.ExtractNotamFields(notamText)

	out := domain.StructuredNotam{
		NotamID:          strVal(parsed.NotamID),
		EffectiveDate:    strVal(parsed.EffectiveDate),
		ExpiryDate:       strVal(parsed.ExpiryDate),
		Location:         strVal(parsed.Location),
		Subject:          parsed.Subject,
		Description:      parsed.Description,
		Coordinates:      fields.Coordinates,
		AltitudeAffected: parsed.AltitudeAffected,
		Severity:         parsed.Severity,
		Category:         parsed.Category,
	}

	if out.NotamID == "" {
		out.NotamID = fields.NotamID
	}
	if out.Location == "" {
		out.Location = airportCode
	}
	if out.Location == "" && len(fields.Airports) > 0 {
		out.Location = fields.Airports[0]
	}
	if out.Description == "" {
		out.Description = notamText
	}

	if !isValidSeverity(out.Severity) || !isValidCategory(out.Category) {
		category, severity := domain.ClassifyNotam(notamText)
		if !isValidSeverity(out.Severity) {
			out.Severity = severity
		}
		if !isValidCategory(out.Category) {
			out.Category = category
		}
	}
	if out.Subject == "" {
		out.Subject = out.Category
	}
	return out
}

func isValidSeverity(s string) bool {
	switch s {
	case "HIGH", "MEDIUM", "LOW":
		return true
	}
	return false
}

func isValidCategory(c string) bool {
	switch c {
	case "RUNWAY", "TAXIWAY", "NAVIGATION", "GENERAL":
		return true
	}
	return false
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
