package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skybrief/aviation-nlp/internal/adapter/avwx"
	"github.com/skybrief/aviation-nlp/internal/adapter/httpapi"
	"github.com/skybrief/aviation-nlp/internal/adapter/llm"
	"github.com/skybrief/aviation-nlp/internal/briefing"
	"github.com/skybrief/aviation-nlp/internal/config"
	"github.com/skybrief/aviation-nlp/internal/observability"
)

func main() {
	// Local development reads a .env file; deployed environments set
	// variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	backends := briefing.Backends{
		SummarizerState: briefing.BackendDisabled,
		WeatherState:    briefing.BackendDisabled,
	}

	// Model backend (feature-flagged via OPENAI_ENABLED / OPENAI_API_KEY).
	if cfg.OpenAIEnabled {
		client := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITimeout, logger)
		backends.Summarizer = llm.NewCachedSummarizer(client, cfg.SummaryCacheSize, cfg.SummaryCacheTTL, metrics)
		backends.SummarizerState = briefing.BackendLoaded
		logger.Info("model summarizer enabled",
			"model", cfg.OpenAIModel, "cache_size", cfg.SummaryCacheSize, "timeout", cfg.OpenAITimeout)
	} else {
		logger.Info("model summarizer disabled, serving rule-based output")
	}

	// Live weather backend (feature-flagged via AVWX_ENABLED).
	if cfg.AvwxEnabled {
		backends.Weather = avwx.NewClient(cfg.AvwxBaseURL, cfg.AvwxTimeout, logger, metrics)
		backends.WeatherState = briefing.BackendLoaded
		logger.Info("aviation weather api enabled", "base_url", cfg.AvwxBaseURL, "timeout", cfg.AvwxTimeout)
	} else {
		logger.Info("aviation weather api disabled")
	}

	svc := briefing.New(backends, logger, metrics)
	srv := httpapi.NewServer(cfg, svc, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
