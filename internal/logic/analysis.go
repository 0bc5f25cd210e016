package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/llm"
	"github.com/gamertype/portrait-api/internal/models"
)

const defaultMinGames = 5

var (
	analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_analyses_total",
		Help: "Analysis requests by outcome",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portrait_analysis_duration_seconds",
		Help:    "End-to-end duration of uncached analyses",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 90, 120, 180},
	})
)

// AnalyzeParams is one analysis request after HTTP decoding
type AnalyzeParams struct {
	Input    string
	Locale   string
	Provider string
}

type AnalysisConfig struct {
	Steam       SteamSource
	Enricher    GameEnricher
	Sampler     AchievementSampler
	Generator   PortraitGenerator
	Cache       *cache.Store
	MinGames    int
	Calibration *Calibration
	Logger      *zap.Logger
	Now         func() time.Time
}

type analysisService struct {
	steam       SteamSource
	enricher    GameEnricher
	sampler     AchievementSampler
	generator   PortraitGenerator
	cache       *cache.Store
	minGames    int
	calibration *Calibration
	logger      *zap.SugaredLogger
	now         func() time.Time
}

func NewAnalysisService(cfg AnalysisConfig) AnalysisService {
	if cfg.MinGames <= 0 {
		cfg.MinGames = defaultMinGames
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &analysisService{
		steam:       cfg.Steam,
		enricher:    cfg.Enricher,
		sampler:     cfg.Sampler,
		generator:   cfg.Generator,
		cache:       cfg.Cache,
		minGames:    cfg.MinGames,
		calibration: cfg.Calibration,
		logger:      cfg.Logger.Sugar(),
		now:         cfg.Now,
	}
}

// fetched holds the concurrent Steam reads for one player
type fetched struct {
	player  *models.SteamPlayer
	library *models.OwnedLibrary
	recent  []models.OwnedGame
	level   int
	friends []models.Friend
	badges  *models.BadgeSummary
}

// Analyze resolves the input, serves a cached portrait when one exists for
// the locale, and otherwise runs the pipeline and caches its result.
func (s *analysisService) Analyze(ctx context.Context, req AnalyzeParams) (*models.AnalyzeResponse, error) {
	locale := i18n.Normalize(req.Locale)

	steamID, err := s.steam.Resolve(ctx, req.Input)
	if err != nil {
		analyses.WithLabelValues("error").Inc()
		return nil, err
	}

	var cached models.AnalysisResult
	switch err := s.cache.GetJSON(ctx, cache.PortraitKey(steamID, locale), &cached); {
	case err == nil:
		analyses.WithLabelValues("cached").Inc()
		s.logger.Debugw("Portrait cache hit", "steam_id", steamID, "locale", locale)
		return &models.AnalyzeResponse{SteamID64: steamID, Cached: true}, nil
	case !errors.Is(err, cache.ErrNotFound):
		s.logger.Warnw("Portrait cache read failed", "steam_id", steamID, "error", err)
	}

	start := time.Now()
	result, err := s.run(ctx, steamID, locale, req.Provider)
	if err != nil {
		analyses.WithLabelValues("error").Inc()
		return nil, err
	}
	analysisDuration.Observe(time.Since(start).Seconds())
	analyses.WithLabelValues("generated").Inc()

	if err := s.cache.SetJSON(ctx, cache.PortraitKey(steamID, locale), result, cache.PortraitTTL); err != nil {
		s.logger.Warnw("Failed to cache portrait", "steam_id", steamID, "error", err)
	}

	s.logger.Infow("Portrait generated",
		"steam_id", steamID,
		"locale", locale,
		"provider", result.Provider,
		"rarity", result.Rarity,
		"duration", time.Since(start),
	)
	return &models.AnalyzeResponse{SteamID64: steamID, Cached: false}, nil
}

func (s *analysisService) run(ctx context.Context, steamID, locale, provider string) (*models.AnalysisResult, error) {
	profile, err := s.profile(ctx, steamID)
	if err != nil {
		return nil, err
	}
	stats, rarity := Score(profile)
	identity := SelectIdentity(stats, profile)

	generated, err := s.generator.Generate(ctx, llm.GenerateInput{
		Profile:  profile,
		Stats:    stats,
		Rarity:   rarity,
		Identity: identity,
		Locale:   locale,
		Provider: provider,
	})
	if err != nil {
		return nil, generationFailure(err)
	}

	return &models.AnalysisResult{
		SteamID64:   steamID,
		Locale:      locale,
		Provider:    generated.Provider,
		Portrait:    generated.Portrait,
		Profile:     profile,
		Stats:       stats,
		Rarity:      rarity,
		Identity:    identity,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// profile returns the cached snapshot for the player, or fetches, gates,
// enriches and aggregates a new one and caches it.
func (s *analysisService) profile(ctx context.Context, steamID string) (models.AggregatedProfile, error) {
	var profile models.AggregatedProfile
	err := s.cache.GetJSON(ctx, cache.ProfileKey(steamID), &profile)
	if err == nil {
		s.logger.Debugw("Profile cache hit", "steam_id", steamID)
		return profile, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warnw("Profile cache read failed", "steam_id", steamID, "error", err)
	}

	data, err := s.fetch(ctx, steamID)
	if err != nil {
		return profile, err
	}
	if err := s.checkLibrary(data.library); err != nil {
		return profile, err
	}

	games := data.library.Games
	enriched := s.enricher.Enrich(ctx, games)
	samples := s.sampler.Sample(ctx, steamID, games)

	var badges models.BadgeSummary
	if data.badges != nil {
		badges = *data.badges
	}

	profile = Aggregate(AggregateInput{
		Player:       *data.player,
		Games:        enriched,
		Recent:       data.recent,
		Level:        data.level,
		Friends:      data.friends,
		Badges:       badges,
		Achievements: samples,
		Now:          s.now(),
		Calibration:  s.calibration,
	})
	if err := s.cache.SetJSON(ctx, cache.ProfileKey(steamID), profile, cache.ProfileTTL); err != nil {
		s.logger.Warnw("Failed to cache profile", "steam_id", steamID, "error", err)
	}
	return profile, nil
}

// fetch reads the six Steam sources concurrently. The first failure cancels
// the rest.
func (s *analysisService) fetch(ctx context.Context, steamID string) (*fetched, error) {
	out := &fetched{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		player, err := s.steam.PlayerSummary(ctx, steamID)
		if err != nil {
			return fmt.Errorf("player summary: %w", err)
		}
		out.player = player
		return nil
	})

	g.Go(func() error {
		library, err := s.steam.OwnedGames(ctx, steamID)
		if err != nil {
			return fmt.Errorf("owned games: %w", err)
		}
		out.library = library
		return nil
	})

	g.Go(func() error {
		recent, err := s.steam.RecentGames(ctx, steamID)
		if err != nil {
			return fmt.Errorf("recent games: %w", err)
		}
		out.recent = recent
		return nil
	})

	g.Go(func() error {
		level, err := s.steam.SteamLevel(ctx, steamID)
		if err != nil {
			return fmt.Errorf("steam level: %w", err)
		}
		out.level = level
		return nil
	})

	g.Go(func() error {
		friends, err := s.steam.Friends(ctx, steamID)
		if err != nil {
			return fmt.Errorf("friends: %w", err)
		}
		out.friends = friends
		return nil
	})

	g.Go(func() error {
		badges, err := s.steam.Badges(ctx, steamID)
		if err != nil {
			return fmt.Errorf("badges: %w", err)
		}
		out.badges = badges
		return nil
	})

	if err := g.Wait(); err != nil {
		if _, ok := models.AsAPIError(err); ok {
			return nil, err
		}
		return nil, models.Unavailable("Steam request failed", err)
	}
	return out, nil
}

func (s *analysisService) checkLibrary(lib *models.OwnedLibrary) error {
	switch {
	case lib.Hidden:
		return models.NewAPIError(models.ErrHiddenLibrary, "Game library is hidden")
	case lib.GameCount == 0 || len(lib.Games) == 0:
		return models.NewAPIError(models.ErrEmptyLibrary, "Game library is empty")
	case len(lib.Games) < s.minGames:
		return models.NewAPIError(models.ErrFewGames, fmt.Sprintf("At least %d games are needed, found %d", s.minGames, len(lib.Games)))
	}
	for _, g := range lib.Games {
		if g.PlaytimeForever > 0 {
			return nil
		}
	}
	return models.NewAPIError(models.ErrNoPlaytime, "No recorded playtime")
}

func generationFailure(err error) error {
	switch {
	case errors.Is(err, llm.ErrUnknownProvider):
		return &models.APIError{Code: models.ErrInvalidInput, Message: "Unknown provider", Err: err}
	case errors.Is(err, llm.ErrNoProvider):
		return &models.APIError{Code: models.ErrInternal, Message: "No LLM provider configured", Err: err}
	}
	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		return &models.APIError{Code: models.ErrGenerationFailed, Message: "Portrait generation failed", Transient: genErr.Transient, Err: err}
	}
	return &models.APIError{Code: models.ErrGenerationFailed, Message: "Portrait generation failed", Err: err}
}

// Result returns the cached analysis for the player and locale.
func (s *analysisService) Result(ctx context.Context, steamID64, locale string) (*models.AnalysisResult, error) {
	locale = i18n.Normalize(locale)

	var result models.AnalysisResult
	err := s.cache.GetJSON(ctx, cache.PortraitKey(steamID64, locale), &result)
	switch {
	case err == nil:
		return &result, nil
	case errors.Is(err, cache.ErrNotFound):
		return nil, models.NewAPIError(models.ErrProfileNotFound, "No portrait for this profile, analyze it first")
	default:
		return nil, &models.APIError{Code: models.ErrInternal, Message: "Result store unavailable", Transient: true, Err: err}
	}
}
