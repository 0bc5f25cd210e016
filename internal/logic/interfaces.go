package logic

import (
	"context"

	"github.com/gamertype/portrait-api/internal/llm"
	"github.com/gamertype/portrait-api/internal/models"
)

// AnalysisService runs the full portrait pipeline for one player
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalyzeParams) (*models.AnalyzeResponse, error)
	Result(ctx context.Context, steamID64, locale string) (*models.AnalysisResult, error)
}

// SteamSource is the subset of the Steam client the pipeline reads from
type SteamSource interface {
	Resolve(ctx context.Context, raw string) (string, error)
	PlayerSummary(ctx context.Context, steamID64 string) (*models.SteamPlayer, error)
	OwnedGames(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error)
	RecentGames(ctx context.Context, steamID64 string) ([]models.OwnedGame, error)
	SteamLevel(ctx context.Context, steamID64 string) (int, error)
	Friends(ctx context.Context, steamID64 string) ([]models.Friend, error)
	Badges(ctx context.Context, steamID64 string) (*models.BadgeSummary, error)
}

type GameEnricher interface {
	Enrich(ctx context.Context, games []models.OwnedGame) []models.EnrichedGame
}

type AchievementSampler interface {
	Sample(ctx context.Context, steamID64 string, games []models.OwnedGame) []models.AchievementSample
}

type PortraitGenerator interface {
	Generate(ctx context.Context, in llm.GenerateInput) (*llm.Result, error)
}
