package logic

import (
	"context"
	"sync/atomic"

	"github.com/gamertype/portrait-api/internal/llm"
	"github.com/gamertype/portrait-api/internal/models"
)

// MockSteamSource
type MockSteamSource struct {
	ResolveFunc       func(ctx context.Context, raw string) (string, error)
	PlayerSummaryFunc func(ctx context.Context, steamID64 string) (*models.SteamPlayer, error)
	OwnedGamesFunc    func(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error)
	RecentGamesFunc   func(ctx context.Context, steamID64 string) ([]models.OwnedGame, error)
	SteamLevelFunc    func(ctx context.Context, steamID64 string) (int, error)
	FriendsFunc       func(ctx context.Context, steamID64 string) ([]models.Friend, error)
	BadgesFunc        func(ctx context.Context, steamID64 string) (*models.BadgeSummary, error)
}

func (m *MockSteamSource) Resolve(ctx context.Context, raw string) (string, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, raw)
	}
	return testSteamID, nil
}

func (m *MockSteamSource) PlayerSummary(ctx context.Context, steamID64 string) (*models.SteamPlayer, error) {
	if m.PlayerSummaryFunc != nil {
		return m.PlayerSummaryFunc(ctx, steamID64)
	}
	return &models.SteamPlayer{
		SteamID:                  steamID64,
		PersonaName:              "tester",
		CommunityVisibilityState: models.VisibilityPublic,
		TimeCreated:              testNow.AddDate(-8, 0, 0).Unix(),
	}, nil
}

func (m *MockSteamSource) OwnedGames(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error) {
	if m.OwnedGamesFunc != nil {
		return m.OwnedGamesFunc(ctx, steamID64)
	}
	return ownedLibrary(12), nil
}

func (m *MockSteamSource) RecentGames(ctx context.Context, steamID64 string) ([]models.OwnedGame, error) {
	if m.RecentGamesFunc != nil {
		return m.RecentGamesFunc(ctx, steamID64)
	}
	return []models.OwnedGame{{AppID: 1, Name: "game 1", Playtime2Weeks: 300}}, nil
}

func (m *MockSteamSource) SteamLevel(ctx context.Context, steamID64 string) (int, error) {
	if m.SteamLevelFunc != nil {
		return m.SteamLevelFunc(ctx, steamID64)
	}
	return 25, nil
}

func (m *MockSteamSource) Friends(ctx context.Context, steamID64 string) ([]models.Friend, error) {
	if m.FriendsFunc != nil {
		return m.FriendsFunc(ctx, steamID64)
	}
	return nil, nil
}

func (m *MockSteamSource) Badges(ctx context.Context, steamID64 string) (*models.BadgeSummary, error) {
	if m.BadgesFunc != nil {
		return m.BadgesFunc(ctx, steamID64)
	}
	return &models.BadgeSummary{PlayerXP: 1200}, nil
}

// MockEnricher returns games with no catalog data
type MockEnricher struct {
	EnrichFunc func(ctx context.Context, games []models.OwnedGame) []models.EnrichedGame
}

func (m *MockEnricher) Enrich(ctx context.Context, games []models.OwnedGame) []models.EnrichedGame {
	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, games)
	}
	out := make([]models.EnrichedGame, len(games))
	for i, g := range games {
		out[i] = models.EnrichedGame{OwnedGame: g, Tags: map[string]int{}}
	}
	return out
}

type MockSampler struct {
	SampleFunc func(ctx context.Context, steamID64 string, games []models.OwnedGame) []models.AchievementSample
}

func (m *MockSampler) Sample(ctx context.Context, steamID64 string, games []models.OwnedGame) []models.AchievementSample {
	if m.SampleFunc != nil {
		return m.SampleFunc(ctx, steamID64, games)
	}
	return nil
}

// MockGenerator echoes the computed card values into a fixed portrait
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, in llm.GenerateInput) (*llm.Result, error)

	calls atomic.Int32
	last  atomic.Pointer[llm.GenerateInput]
}

func (m *MockGenerator) Generate(ctx context.Context, in llm.GenerateInput) (*llm.Result, error) {
	m.calls.Add(1)
	m.last.Store(&in)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, in)
	}
	p := testPortrait()
	p.Rarity = in.Rarity
	p.Stats = in.Stats
	p.Element = in.Identity.Element
	p.Creature = in.Identity.Creature
	return &llm.Result{Portrait: p, Provider: "mock", Attempts: 1}, nil
}

func (m *MockGenerator) Calls() int { return int(m.calls.Load()) }

func (m *MockGenerator) LastInput() *llm.GenerateInput { return m.last.Load() }

const testSteamID = "76561197960287930"

func ownedLibrary(n int) *models.OwnedLibrary {
	games := make([]models.OwnedGame, n)
	for i := range games {
		games[i] = models.OwnedGame{AppID: i + 1, Name: "game", PlaytimeForever: (n - i) * 600}
	}
	return &models.OwnedLibrary{GameCount: n, Games: games}
}

func testPortrait() models.Portrait {
	arch := models.Archetype{Name: "Collector", Description: "Buys everything", Color: "#112233"}
	roasts := make([]models.Roast, 5)
	for i := range roasts {
		roasts[i] = models.Roast{Icon: "🔥", Title: "t", Text: "x", Stat: "hoarding", Severity: models.SeverityRare, Source: "12 games"}
	}
	return models.Portrait{
		PrimaryArchetype:   arch,
		SecondaryArchetype: arch,
		ShadowArchetype:    arch,
		Title:              "The Hoarder",
		Emoji:              "📦",
		Roasts:             roasts,
		SpiritGame:         "game",
		SpiritAnimal:       models.SpiritAnimal{Name: "magpie", Description: "shiny things"},
		Lore:               "lore",
		Quote:              "one more",
		ArtMood:            "warm",
		ArtScene:           "a shelf",
	}
}
