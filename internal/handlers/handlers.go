package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/logic"
	"github.com/gamertype/portrait-api/internal/models"
	"github.com/gamertype/portrait-api/internal/telegram"
)

// MaxBodySize limits the size of request bodies to 64KB
const MaxBodySize = 64 << 10

// GateService issues and reports on unlock tokens
type GateService interface {
	Issue(ctx context.Context, playerID, locale string) (*models.GateToken, error)
	Status(ctx context.Context, token string) (models.GateStatus, bool)
}

// UpdateHandler consumes one bot update
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd telegram.Update)
}

type ProviderLister interface {
	List() []models.ProviderInfo
}

type Config struct {
	Analysis  logic.AnalysisService
	Gate      GateService
	Bot       UpdateHandler
	Providers ProviderLister
	Cache     *cache.Store
	Logger    *zap.Logger

	// RateLimitPerHour caps analyze calls per client IP; zero disables it.
	RateLimitPerHour int
	BotUsername      string
	WebhookSecret    string
}

type Handler struct {
	analysis         logic.AnalysisService
	gate             GateService
	bot              UpdateHandler
	providers        ProviderLister
	cache            *cache.Store
	logger           *zap.SugaredLogger
	validator        *validator.Validate
	rateLimitPerHour int
	botUsername      string
	webhookSecret    string
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		analysis:         cfg.Analysis,
		gate:             cfg.Gate,
		bot:              cfg.Bot,
		providers:        cfg.Providers,
		cache:            cfg.Cache,
		logger:           cfg.Logger.Sugar(),
		validator:        validator.New(),
		rateLimitPerHour: cfg.RateLimitPerHour,
		botUsername:      cfg.BotUsername,
		webhookSecret:    cfg.WebhookSecret,
	}
}
