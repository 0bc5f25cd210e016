package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Shared cache tier; empty means local-only
	RedisURL string

	// Steam
	SteamAPIKey  string
	SteamTimeout time.Duration

	// LLM providers
	LLMProvider     string
	LLMTimeout      time.Duration
	LLMMaxTokens    int
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OllamaURL       string
	OllamaModel     string

	// Enrichment
	EnrichTopN        int
	EnrichBatchSize   int
	EnrichDelay       time.Duration
	AchievementSample int

	// Analysis
	MinGames         int
	RateLimitPerHour int
	DeckShareOfLinux float64

	// Telegram gate
	TelegramBotToken      string
	TelegramBotUsername   string
	TelegramChannelID     string
	TelegramWebhookSecret string
}

// Load reads configuration from the environment, after an optional .env
// file. Only STEAM_API_KEY is required; a missing LLM credential is caught
// when the provider registry is built.
func Load() (*Config, error) {
	// A missing .env is the normal case in containers.
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		RedisURL: getEnv("REDIS_URL", ""),

		SteamTimeout: getEnvDuration("STEAM_TIMEOUT", 10*time.Second),

		LLMProvider:     getEnv("LLM_PROVIDER", ""),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 90*time.Second),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 4096),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "anthropic/claude-sonnet-4"),
		OllamaURL:       getEnv("OLLAMA_URL", ""),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.1"),

		EnrichTopN:        getEnvInt("ENRICH_TOP_N", 30),
		EnrichBatchSize:   getEnvInt("ENRICH_BATCH_SIZE", 5),
		EnrichDelay:       getEnvDuration("ENRICH_DELAY", 300*time.Millisecond),
		AchievementSample: getEnvInt("ACHIEVEMENT_SAMPLE", 10),

		MinGames:         getEnvInt("MIN_GAMES", 5),
		RateLimitPerHour: getEnvInt("RATE_LIMIT_PER_HOUR", 30),
		DeckShareOfLinux: getEnvFloat("DECK_SHARE_OF_LINUX", 0.3),

		TelegramBotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramBotUsername:   getEnv("TELEGRAM_BOT_USERNAME", "gamertype_bot"),
		TelegramChannelID:     getEnv("TELEGRAM_CHANNEL_ID", "@gamertyper"),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.SteamAPIKey, err = getEnvRequired("STEAM_API_KEY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the development logger should be used
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
