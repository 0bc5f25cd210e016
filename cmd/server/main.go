package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/gamertype/portrait-api/docs"
	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/config"
	"github.com/gamertype/portrait-api/internal/gate"
	"github.com/gamertype/portrait-api/internal/handlers"
	"github.com/gamertype/portrait-api/internal/llm"
	"github.com/gamertype/portrait-api/internal/logic"
	"github.com/gamertype/portrait-api/internal/steam"
	"github.com/gamertype/portrait-api/internal/telegram"
	"github.com/gamertype/portrait-api/internal/worker"
)

const (
	janitorInterval = 5 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache: Redis is optional, the local tier always exists
	cacheCfg := cache.Config{Logger: logger}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Invalid REDIS_URL", "error", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			sugar.Warnw("Redis unreachable at startup, serving from local cache", "error", err)
		}
		cacheCfg.Shared = cache.NewRedisTier(rdb)
	} else {
		sugar.Infow("REDIS_URL not set, using local cache only")
	}
	store := cache.New(cacheCfg)
	go store.RunJanitor(ctx, janitorInterval)

	registry := buildRegistry(cfg)
	if registry.Available() == 0 {
		sugar.Fatalw("No LLM provider configured", "error", llm.ErrNoProvider)
	}

	steamClient := steam.NewClient(steam.Config{
		APIKey:  cfg.SteamAPIKey,
		Timeout: cfg.SteamTimeout,
		Cache:   store,
		Logger:  logger,
	})

	calibration := logic.DefaultCalibration()
	calibration.DeckShareOfLinux = cfg.DeckShareOfLinux

	analysis := logic.NewAnalysisService(logic.AnalysisConfig{
		Steam: steamClient,
		Enricher: worker.NewEnricher(worker.EnricherConfig{
			Catalog:   steamClient,
			TopN:      cfg.EnrichTopN,
			BatchSize: cfg.EnrichBatchSize,
			Delay:     cfg.EnrichDelay,
			Logger:    logger,
		}),
		Sampler: worker.NewAchievementSampler(worker.SamplerConfig{
			Source:     steamClient,
			SampleSize: cfg.AchievementSample,
			Logger:     logger,
		}),
		Generator: llm.NewGenerator(llm.GeneratorConfig{
			Registry:  registry,
			MaxTokens: cfg.LLMMaxTokens,
			Logger:    logger,
		}),
		Cache:       store,
		MinGames:    cfg.MinGames,
		Calibration: &calibration,
		Logger:      logger,
	})

	tg := telegram.NewClient(telegram.Config{
		Token:     cfg.TelegramBotToken,
		ChannelID: cfg.TelegramChannelID,
		Logger:    logger,
	})
	if cfg.TelegramBotToken == "" {
		sugar.Warnw("TELEGRAM_BOT_TOKEN not set, gate confirmations will fail")
	}
	gateService := gate.NewService(gate.Config{
		Store:   store,
		Checker: tg,
		Logger:  logger,
	})
	bot := telegram.NewBot(telegram.BotConfig{
		Sender:     tg,
		Gate:       gateService,
		ChannelURL: telegram.ChannelURL(cfg.TelegramChannelID),
		Logger:     logger,
	})

	h := handlers.New(handlers.Config{
		Analysis:         analysis,
		Gate:             gateService,
		Bot:              bot,
		Providers:        registry,
		Cache:            store,
		Logger:           logger,
		RateLimitPerHour: cfg.RateLimitPerHour,
		BotUsername:      cfg.TelegramBotUsername,
		WebhookSecret:    cfg.TelegramWebhookSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      handlers.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sugar.Infow("Server starting", "port", cfg.Port, "env", cfg.Env, "providers", registry.Available())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildRegistry lists every known provider; only those with credentials
// are selectable.
func buildRegistry(cfg *config.Config) *llm.Registry {
	registry := llm.NewRegistry(cfg.LLMProvider)

	anthropic := llm.NewAnthropicProvider(llm.AnthropicConfig{
		APIKey:  cfg.AnthropicAPIKey,
		Model:   cfg.AnthropicModel,
		Timeout: cfg.LLMTimeout,
	})
	if cfg.AnthropicAPIKey != "" {
		registry.Register(anthropic)
	} else {
		registry.RegisterUnavailable(anthropic.ID(), anthropic.Name(), anthropic.Model())
	}

	openai := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.LLMTimeout,
	})
	if cfg.OpenAIAPIKey != "" {
		registry.Register(openai)
	} else {
		registry.RegisterUnavailable(openai.ID(), openai.Name(), openai.Model())
	}

	ollama := llm.NewOllamaProvider(llm.OllamaConfig{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
		Timeout: cfg.LLMTimeout,
	})
	if cfg.OllamaURL != "" {
		registry.Register(ollama)
	} else {
		registry.RegisterUnavailable(ollama.ID(), ollama.Name(), ollama.Model())
	}

	return registry
}
