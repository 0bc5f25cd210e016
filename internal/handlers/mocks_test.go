package handlers

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/logic"
	"github.com/gamertype/portrait-api/internal/models"
	"github.com/gamertype/portrait-api/internal/telegram"
)

// MockAnalysisService implements logic.AnalysisService for testing
type MockAnalysisService struct {
	AnalyzeFunc func(ctx context.Context, req logic.AnalyzeParams) (*models.AnalyzeResponse, error)
	ResultFunc  func(ctx context.Context, steamID64, locale string) (*models.AnalysisResult, error)
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req logic.AnalyzeParams) (*models.AnalyzeResponse, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	return &models.AnalyzeResponse{SteamID64: "76561197960287930"}, nil
}

func (m *MockAnalysisService) Result(ctx context.Context, steamID64, locale string) (*models.AnalysisResult, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, steamID64, locale)
	}
	return &models.AnalysisResult{SteamID64: steamID64, Locale: locale}, nil
}

type MockGateService struct {
	IssueFunc  func(ctx context.Context, playerID, locale string) (*models.GateToken, error)
	StatusFunc func(ctx context.Context, token string) (models.GateStatus, bool)
}

func (m *MockGateService) Issue(ctx context.Context, playerID, locale string) (*models.GateToken, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, playerID, locale)
	}
	return &models.GateToken{Token: "abcdef0123456789", PlayerID: playerID, Locale: locale, Status: models.GateStatusPending}, nil
}

func (m *MockGateService) Status(ctx context.Context, token string) (models.GateStatus, bool) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, token)
	}
	return models.GateStatusPending, false
}

// MockUpdateHandler records delivered updates
type MockUpdateHandler struct {
	mu      sync.Mutex
	updates []telegram.Update
}

func (m *MockUpdateHandler) HandleUpdate(ctx context.Context, upd telegram.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, upd)
}

func (m *MockUpdateHandler) Updates() []telegram.Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]telegram.Update(nil), m.updates...)
}

type MockProviderLister struct {
	Providers []models.ProviderInfo
}

func (m *MockProviderLister) List() []models.ProviderInfo { return m.Providers }

// testHandler builds a Handler over mocks; fields left nil get defaults.
func testHandler(cfg Config) *Handler {
	if cfg.Analysis == nil {
		cfg.Analysis = &MockAnalysisService{}
	}
	if cfg.Gate == nil {
		cfg.Gate = &MockGateService{}
	}
	if cfg.Bot == nil {
		cfg.Bot = &MockUpdateHandler{}
	}
	if cfg.Providers == nil {
		cfg.Providers = &MockProviderLister{Providers: []models.ProviderInfo{
			{ID: "anthropic", Name: "Anthropic", Model: "claude", Available: true, Default: true},
		}}
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cache.Config{})
	}
	if cfg.BotUsername == "" {
		cfg.BotUsername = "gamertype_bot"
	}
	cfg.Logger = zap.NewNop()
	return New(cfg)
}
