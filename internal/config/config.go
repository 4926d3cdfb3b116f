package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FallbackMode controls degraded behavior: "tolerant" serves rule-based
	// output when the model backend fails, "strict" surfaces the failure.
	FallbackMode string
	CORSOrigins  []string

	// OpenAI model backend configuration.
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAIEnabled    bool
	OpenAITimeout    time.Duration
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration

	// Aviation Weather Center data API configuration.
	AvwxBaseURL string
	AvwxEnabled bool
	AvwxTimeout time.Duration
}

// defaultCORSOrigins covers the briefing frontend dev servers. Deployments
// set CORS_ORIGINS explicitly; "*" allows any origin.
const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://localhost:5000"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	openAITimeout, err := parseDurationEnv("OPENAI_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}

	avwxTimeout, err := parseDurationEnv("AVWX_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDurationEnv("SUMMARY_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	openAIEnabled := apiKey != ""
	if v := os.Getenv("OPENAI_ENABLED"); v != "" {
		openAIEnabled = v == "true"
	}

	avwxEnabled := true
	if v := os.Getenv("AVWX_ENABLED"); v != "" {
		avwxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		FallbackMode:    envOrDefault("FALLBACK_MODE", "tolerant"),
		CORSOrigins:     splitOrigins(envOrDefault("CORS_ORIGINS", defaultCORSOrigins)),

		OpenAIAPIKey:     apiKey,
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEnabled:    openAIEnabled,
		OpenAITimeout:    openAITimeout,
		SummaryCacheSize: parseSummaryCacheSize(),
		SummaryCacheTTL:  cacheTTL,

		AvwxBaseURL: envOrDefault("AVWX_BASE_URL", "https://aviationweather.gov"),
		AvwxEnabled: avwxEnabled,
		AvwxTimeout: avwxTimeout,
	}

	if cfg.FallbackMode != "strict" && cfg.FallbackMode != "tolerant" {
		return nil, errors.New(`FALLBACK_MODE must be "strict" or "tolerant"`)
	}
	if cfg.OpenAIEnabled && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_ENABLED is true but OPENAI_API_KEY is not set")
	}
	if cfg.AvwxBaseURL == "" {
		return nil, errors.New("AVWX_BASE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseSummaryCacheSize() int {
	if s := os.Getenv("SUMMARY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
