// Package worker runs the per-request fan-out jobs: catalog enrichment of
// a library and achievement sampling for its most played games.
package worker

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gamertype/portrait-api/internal/models"
	"github.com/gamertype/portrait-api/internal/steam"
)

// Prometheus metrics
var (
	gamesEnriched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_games_enriched_total",
		Help: "Games enriched by depth and outcome",
	}, []string{"depth", "outcome"})

	enrichDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portrait_enrich_duration_seconds",
		Help:    "Duration of enriching one library",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	})
)

// CatalogSource provides per-app catalog and store metadata
type CatalogSource interface {
	SteamSpyApp(ctx context.Context, appID int) (*models.SteamSpyApp, error)
	StoreApp(ctx context.Context, appID int) (*models.StoreApp, error)
}

// EnricherConfig configures the enrichment pipeline
type EnricherConfig struct {
	Catalog CatalogSource
	// TopN games by playtime get both catalog and store data
	TopN int
	// BatchSize games of the remainder are fetched concurrently
	BatchSize int
	// Delay spaces out calls to the third-party providers
	Delay  time.Duration
	Logger *zap.Logger
}

type Enricher struct {
	config EnricherConfig
	logger *zap.SugaredLogger
}

func NewEnricher(cfg EnricherConfig) *Enricher {
	if cfg.TopN <= 0 {
		cfg.TopN = 30
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Enricher{config: cfg, logger: cfg.Logger.Sugar()}
}

// SortByPlaytime returns a copy of games ordered by lifetime playtime, longest first.
func SortByPlaytime(games []models.OwnedGame) []models.OwnedGame {
	sorted := make([]models.OwnedGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlaytimeForever > sorted[j].PlaytimeForever
	})
	return sorted
}

// Enrich returns one EnrichedGame per input game, sorted by playtime.
// Provider failures leave that game's metadata empty and never fail the call.
// If ctx ends midway the remaining games are returned unenriched.
func (e *Enricher) Enrich(ctx context.Context, games []models.OwnedGame) []models.EnrichedGame {
	start := time.Now()
	defer func() { enrichDuration.Observe(time.Since(start).Seconds()) }()

	sorted := SortByPlaytime(games)
	out := make([]models.EnrichedGame, len(sorted))
	for i, g := range sorted {
		out[i] = bare(g)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if e.config.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(e.config.Delay), 1)
	}

	top := e.config.TopN
	if top > len(sorted) {
		top = len(sorted)
	}

	for i := 0; i < top; i++ {
		if err := limiter.Wait(ctx); err != nil {
			e.logger.Warnw("Enrichment cut short", "enriched", i, "total", len(sorted), "error", err)
			return out
		}
		out[i] = e.enrichFull(ctx, sorted[i])
	}

	for lo := top; lo < len(sorted); lo += e.config.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			e.logger.Warnw("Enrichment cut short", "enriched", lo, "total", len(sorted), "error", err)
			return out
		}
		hi := lo + e.config.BatchSize
		if hi > len(sorted) {
			hi = len(sorted)
		}

		var g errgroup.Group
		for i := lo; i < hi; i++ {
			i := i
			g.Go(func() error {
				out[i] = e.enrichPartial(ctx, sorted[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	return out
}

func bare(g models.OwnedGame) models.EnrichedGame {
	return models.EnrichedGame{OwnedGame: g, Tags: map[string]int{}, Genres: []string{}}
}

// enrichFull fetches catalog and store data side by side. Store price wins
// over the catalog's initial price.
func (e *Enricher) enrichFull(ctx context.Context, game models.OwnedGame) models.EnrichedGame {
	var (
		spy   *models.SteamSpyApp
		store *models.StoreApp
	)
	var g errgroup.Group
	g.Go(func() error {
		spy = e.fetchSpy(ctx, game.AppID)
		return nil
	})
	g.Go(func() error {
		store = e.fetchStore(ctx, game.AppID)
		return nil
	})
	_ = g.Wait()

	eg := bare(game)
	if spy != nil {
		if spy.Tags != nil {
			eg.Tags = spy.Tags
		}
		avg := spy.AverageForever
		eg.AverageForever = &avg
	}
	if store != nil {
		if store.Genres != nil {
			eg.Genres = store.Genres
		}
		eg.Price = store.Price
	}
	if eg.Price == nil {
		eg.Price = steam.SpyPrice(spy)
	}
	eg.IsFree = (store != nil && store.IsFree) || (spy != nil && spy.InitialPrice == "0" && eg.Price == nil)

	gamesEnriched.WithLabelValues("full", outcome(spy != nil && store != nil)).Inc()
	return eg
}

// enrichPartial uses the catalog only: price and average playtime, no tags.
func (e *Enricher) enrichPartial(ctx context.Context, game models.OwnedGame) models.EnrichedGame {
	spy := e.fetchSpy(ctx, game.AppID)

	eg := bare(game)
	if spy != nil {
		avg := spy.AverageForever
		eg.AverageForever = &avg
		eg.Price = steam.SpyPrice(spy)
		eg.IsFree = spy.InitialPrice == "0" && eg.Price == nil
	}

	gamesEnriched.WithLabelValues("partial", outcome(spy != nil)).Inc()
	return eg
}

func (e *Enricher) fetchSpy(ctx context.Context, appID int) *models.SteamSpyApp {
	spy, err := e.config.Catalog.SteamSpyApp(ctx, appID)
	if err != nil {
		e.logger.Debugw("SteamSpy lookup failed", "appid", appID, "error", err)
		return nil
	}
	return spy
}

func (e *Enricher) fetchStore(ctx context.Context, appID int) *models.StoreApp {
	store, err := e.config.Catalog.StoreApp(ctx, appID)
	if err != nil {
		e.logger.Debugw("Store lookup failed", "appid", appID, "error", err)
		return nil
	}
	return store
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}
