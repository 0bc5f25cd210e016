package worker

import (
	"context"
	"sync"

	"github.com/gamertype/portrait-api/internal/models"
)

// MockCatalog
type MockCatalog struct {
	SteamSpyAppFunc func(ctx context.Context, appID int) (*models.SteamSpyApp, error)
	StoreAppFunc    func(ctx context.Context, appID int) (*models.StoreApp, error)

	mu         sync.Mutex
	spyCalls   []int
	storeCalls []int
}

func (m *MockCatalog) SteamSpyApp(ctx context.Context, appID int) (*models.SteamSpyApp, error) {
	m.mu.Lock()
	m.spyCalls = append(m.spyCalls, appID)
	m.mu.Unlock()
	if m.SteamSpyAppFunc != nil {
		return m.SteamSpyAppFunc(ctx, appID)
	}
	return &models.SteamSpyApp{AppID: appID}, nil
}

func (m *MockCatalog) StoreApp(ctx context.Context, appID int) (*models.StoreApp, error) {
	m.mu.Lock()
	m.storeCalls = append(m.storeCalls, appID)
	m.mu.Unlock()
	if m.StoreAppFunc != nil {
		return m.StoreAppFunc(ctx, appID)
	}
	return &models.StoreApp{}, nil
}

func (m *MockCatalog) StoreCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.storeCalls...)
}

func (m *MockCatalog) SpyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spyCalls)
}

// MockAchievementSource
type MockAchievementSource struct {
	PlayerAchievementsFunc func(ctx context.Context, steamID64 string, appID int) ([]models.PlayerAchievement, error)
	GlobalFunc             func(ctx context.Context, appID int) ([]models.GlobalAchievement, error)
}

func (m *MockAchievementSource) PlayerAchievements(ctx context.Context, steamID64 string, appID int) ([]models.PlayerAchievement, error) {
	if m.PlayerAchievementsFunc != nil {
		return m.PlayerAchievementsFunc(ctx, steamID64, appID)
	}
	return []models.PlayerAchievement{{APIName: "A", Achieved: 1}}, nil
}

func (m *MockAchievementSource) GlobalAchievementPercentages(ctx context.Context, appID int) ([]models.GlobalAchievement, error) {
	if m.GlobalFunc != nil {
		return m.GlobalFunc(ctx, appID)
	}
	return []models.GlobalAchievement{{Name: "A", Percent: 50}}, nil
}

func library(n int) []models.OwnedGame {
	games := make([]models.OwnedGame, n)
	for i := range games {
		games[i] = models.OwnedGame{AppID: i + 1, Name: "Game", PlaytimeForever: (i + 1) * 60}
	}
	return games
}
