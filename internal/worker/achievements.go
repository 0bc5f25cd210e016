package worker

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gamertype/portrait-api/internal/models"
)

var achievementFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portrait_achievement_fetches_total",
	Help: "Per-game achievement fetches by outcome",
}, []string{"outcome"})

// AchievementSource provides per-player and global achievement data
type AchievementSource interface {
	PlayerAchievements(ctx context.Context, steamID64 string, appID int) ([]models.PlayerAchievement, error)
	GlobalAchievementPercentages(ctx context.Context, appID int) ([]models.GlobalAchievement, error)
}

type SamplerConfig struct {
	Source AchievementSource
	// SampleSize is how many of the most played games are sampled
	SampleSize int
	Logger     *zap.Logger
}

// AchievementSampler fetches achievements for a player's top games. Each
// game succeeds or fails on its own.
type AchievementSampler struct {
	config SamplerConfig
	logger *zap.SugaredLogger
}

func NewAchievementSampler(cfg SamplerConfig) *AchievementSampler {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &AchievementSampler{config: cfg, logger: cfg.Logger.Sugar()}
}

// Sample returns samples in playtime order for games with at least one
// achievement. Games whose fetch fails are skipped.
func (s *AchievementSampler) Sample(ctx context.Context, steamID64 string, games []models.OwnedGame) []models.AchievementSample {
	sorted := SortByPlaytime(games)
	if len(sorted) > s.config.SampleSize {
		sorted = sorted[:s.config.SampleSize]
	}

	slots := make([]*models.AchievementSample, len(sorted))
	var g errgroup.Group
	for i, game := range sorted {
		i, game := i, game
		g.Go(func() error {
			slots[i] = s.sampleGame(ctx, steamID64, game)
			return nil
		})
	}
	_ = g.Wait()

	samples := make([]models.AchievementSample, 0, len(slots))
	for _, sample := range slots {
		if sample != nil {
			samples = append(samples, *sample)
		}
	}
	return samples
}

func (s *AchievementSampler) sampleGame(ctx context.Context, steamID64 string, game models.OwnedGame) *models.AchievementSample {
	var (
		mine   []models.PlayerAchievement
		global []models.GlobalAchievement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mine, err = s.config.Source.PlayerAchievements(gctx, steamID64, game.AppID)
		return err
	})
	g.Go(func() error {
		var err error
		global, err = s.config.Source.GlobalAchievementPercentages(gctx, game.AppID)
		return err
	})
	if err := g.Wait(); err != nil {
		achievementFetches.WithLabelValues("skipped").Inc()
		s.logger.Debugw("Skipping achievements", "steam_id", steamID64, "appid", game.AppID, "error", err)
		return nil
	}
	if len(mine) == 0 {
		achievementFetches.WithLabelValues("empty").Inc()
		return nil
	}

	achievementFetches.WithLabelValues("ok").Inc()
	return &models.AchievementSample{AppID: game.AppID, Name: game.Name, Achievements: mine, Global: global}
}
