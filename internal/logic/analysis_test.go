package logic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/llm"
	"github.com/gamertype/portrait-api/internal/models"
)

func newTestAnalysis(steam *MockSteamSource, gen *MockGenerator) (AnalysisService, *cache.Store) {
	store := cache.New(cache.Config{})
	svc := NewAnalysisService(AnalysisConfig{
		Steam:     steam,
		Enricher:  &MockEnricher{},
		Sampler:   &MockSampler{},
		Generator: gen,
		Cache:     store,
		MinGames:  5,
		Now:       func() time.Time { return testNow },
	})
	return svc, store
}

func TestAnalyzeGeneratesThenServesCache(t *testing.T) {
	gen := &MockGenerator{}
	svc, _ := newTestAnalysis(&MockSteamSource{}, gen)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, AnalyzeParams{Input: "gabelogannewell", Locale: "en"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.SteamID64 != testSteamID || resp.Cached {
		t.Fatalf("first response = %+v, want uncached %s", resp, testSteamID)
	}

	resp, err = svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "en"})
	if err != nil {
		t.Fatalf("Analyze (cached): %v", err)
	}
	if !resp.Cached {
		t.Error("second response should be served from cache")
	}
	if gen.Calls() != 1 {
		t.Errorf("generator called %d times, want 1", gen.Calls())
	}

	result, err := svc.Result(ctx, testSteamID, "en")
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	in := gen.LastInput()
	if result.Rarity != in.Rarity || result.Stats != in.Stats || result.Identity != in.Identity {
		t.Errorf("cached card %v/%v/%v does not match computed %v/%v/%v",
			result.Rarity, result.Stats, result.Identity, in.Rarity, in.Stats, in.Identity)
	}
	if result.Profile.Stats.TotalGames != 12 {
		t.Errorf("profile total games = %d, want 12", result.Profile.Stats.TotalGames)
	}
	if result.Locale != "en" || result.Provider != "mock" {
		t.Errorf("result locale/provider = %s/%s", result.Locale, result.Provider)
	}
}

func TestAnalyzeCacheIsPerLocale(t *testing.T) {
	gen := &MockGenerator{}
	svc, _ := newTestAnalysis(&MockSteamSource{}, gen)
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "ru"}); err != nil {
		t.Fatalf("Analyze ru: %v", err)
	}
	resp, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "en"})
	if err != nil {
		t.Fatalf("Analyze en: %v", err)
	}
	if resp.Cached {
		t.Error("a portrait for another locale must not be served")
	}
	if gen.Calls() != 2 {
		t.Errorf("generator called %d times, want 2", gen.Calls())
	}
	if got := gen.LastInput().Locale; got != "en" {
		t.Errorf("generator locale = %q, want en", got)
	}
}

func TestAnalyzeUnsupportedLocaleFallsBackToDefault(t *testing.T) {
	gen := &MockGenerator{}
	svc, _ := newTestAnalysis(&MockSteamSource{}, gen)

	if _, err := svc.Analyze(context.Background(), AnalyzeParams{Input: testSteamID, Locale: "de"}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := gen.LastInput().Locale; got != "ru" {
		t.Errorf("locale = %q, want ru", got)
	}
}

func TestAnalyzeLibraryGates(t *testing.T) {
	zeroPlaytime := ownedLibrary(8)
	for i := range zeroPlaytime.Games {
		zeroPlaytime.Games[i].PlaytimeForever = 0
	}

	tests := []struct {
		name    string
		library *models.OwnedLibrary
		want    models.ErrorCode
	}{
		{"hidden", &models.OwnedLibrary{Hidden: true}, models.ErrHiddenLibrary},
		{"empty", &models.OwnedLibrary{GameCount: 0}, models.ErrEmptyLibrary},
		{"few games", ownedLibrary(3), models.ErrFewGames},
		{"no playtime", zeroPlaytime, models.ErrNoPlaytime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{}
			steam := &MockSteamSource{
				OwnedGamesFunc: func(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error) {
					return tt.library, nil
				},
			}
			svc, _ := newTestAnalysis(steam, gen)

			_, err := svc.Analyze(context.Background(), AnalyzeParams{Input: testSteamID})
			apiErr, ok := models.AsAPIError(err)
			if !ok {
				t.Fatalf("error = %v, want APIError", err)
			}
			if apiErr.Code != tt.want {
				t.Errorf("code = %s, want %s", apiErr.Code, tt.want)
			}
			if gen.Calls() != 0 {
				t.Error("generator must not run for a rejected library")
			}
		})
	}
}

func TestAnalyzeFetchErrors(t *testing.T) {
	tests := []struct {
		name          string
		steam         *MockSteamSource
		wantCode      models.ErrorCode
		wantTransient bool
	}{
		{
			name: "invalid input",
			steam: &MockSteamSource{ResolveFunc: func(ctx context.Context, raw string) (string, error) {
				return "", models.NewAPIError(models.ErrInvalidInput, "bad input")
			}},
			wantCode: models.ErrInvalidInput,
		},
		{
			name: "private profile",
			steam: &MockSteamSource{PlayerSummaryFunc: func(ctx context.Context, steamID64 string) (*models.SteamPlayer, error) {
				return nil, models.NewAPIError(models.ErrPrivateProfile, "private")
			}},
			wantCode: models.ErrPrivateProfile,
		},
		{
			name: "upstream outage",
			steam: &MockSteamSource{BadgesFunc: func(ctx context.Context, steamID64 string) (*models.BadgeSummary, error) {
				return nil, models.Unavailable("badges", errors.New("503"))
			}},
			wantCode:      models.ErrSteamUnavailable,
			wantTransient: true,
		},
		{
			name: "untyped failure",
			steam: &MockSteamSource{SteamLevelFunc: func(ctx context.Context, steamID64 string) (int, error) {
				return 0, errors.New("connection reset")
			}},
			wantCode:      models.ErrSteamUnavailable,
			wantTransient: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAnalysis(tt.steam, &MockGenerator{})
			_, err := svc.Analyze(context.Background(), AnalyzeParams{Input: testSteamID})
			apiErr, ok := models.AsAPIError(err)
			if !ok {
				t.Fatalf("error = %v, want APIError", err)
			}
			if apiErr.Code != tt.wantCode || apiErr.Transient != tt.wantTransient {
				t.Errorf("got %s transient=%v, want %s transient=%v", apiErr.Code, apiErr.Transient, tt.wantCode, tt.wantTransient)
			}
		})
	}
}

func TestAnalyzeGenerationErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      models.ErrorCode
		wantTransient bool
	}{
		{"transport", &llm.GenerationError{Provider: "mock", Attempts: 1, Transient: true, Err: errors.New("timeout")}, models.ErrGenerationFailed, true},
		{"invalid twice", &llm.GenerationError{Provider: "mock", Attempts: 2, Err: errors.New("schema")}, models.ErrGenerationFailed, false},
		{"unknown provider", fmt.Errorf("%w: nope", llm.ErrUnknownProvider), models.ErrInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{GenerateFunc: func(ctx context.Context, in llm.GenerateInput) (*llm.Result, error) {
				return nil, tt.err
			}}
			svc, _ := newTestAnalysis(&MockSteamSource{}, gen)

			_, err := svc.Analyze(context.Background(), AnalyzeParams{Input: testSteamID, Locale: "en"})
			apiErr, ok := models.AsAPIError(err)
			if !ok {
				t.Fatalf("error = %v, want APIError", err)
			}
			if apiErr.Code != tt.wantCode || apiErr.Transient != tt.wantTransient {
				t.Errorf("got %s transient=%v, want %s transient=%v", apiErr.Code, apiErr.Transient, tt.wantCode, tt.wantTransient)
			}

			if _, err := svc.Result(context.Background(), testSteamID, "en"); err == nil {
				t.Error("a failed generation must not leave a cached result")
			}
		})
	}
}

func TestAnalyzeCachesProfile(t *testing.T) {
	svc, store := newTestAnalysis(&MockSteamSource{}, &MockGenerator{})
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var profile models.AggregatedProfile
	if err := store.GetJSON(ctx, cache.ProfileKey(testSteamID), &profile); err != nil {
		t.Fatalf("profile not cached: %v", err)
	}
	if profile.Player.Name != "tester" {
		t.Errorf("cached profile player = %q", profile.Player.Name)
	}
}

func TestAnalyzeSecondLocaleReusesProfile(t *testing.T) {
	var fetches atomic.Int32
	steam := &MockSteamSource{
		OwnedGamesFunc: func(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error) {
			fetches.Add(1)
			return ownedLibrary(12), nil
		},
	}
	gen := &MockGenerator{}
	svc, _ := newTestAnalysis(steam, gen)
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "ru"}); err != nil {
		t.Fatalf("Analyze ru: %v", err)
	}
	first := gen.LastInput()
	if _, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "en"}); err != nil {
		t.Fatalf("Analyze en: %v", err)
	}
	second := gen.LastInput()

	if n := fetches.Load(); n != 1 {
		t.Errorf("owned games fetched %d times, want 1", n)
	}
	if first.Stats != second.Stats || first.Rarity != second.Rarity || first.Identity != second.Identity {
		t.Errorf("card differs between locales: %v/%v/%v vs %v/%v/%v",
			first.Stats, first.Rarity, first.Identity, second.Stats, second.Rarity, second.Identity)
	}
}

func TestAnalyzeUsesCachedProfile(t *testing.T) {
	steam := &MockSteamSource{
		OwnedGamesFunc: func(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error) {
			return nil, errors.New("steam must not be called")
		},
	}
	gen := &MockGenerator{}
	svc, store := newTestAnalysis(steam, gen)
	ctx := context.Background()

	cachedProfile := models.AggregatedProfile{}
	cachedProfile.Player.Name = "from cache"
	cachedProfile.Stats.TotalGames = 40
	if err := store.SetJSON(ctx, cache.ProfileKey(testSteamID), cachedProfile, cache.ProfileTTL); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if _, err := svc.Analyze(ctx, AnalyzeParams{Input: testSteamID, Locale: "en"}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := gen.LastInput().Profile.Player.Name; got != "from cache" {
		t.Errorf("generator profile player = %q, want the cached snapshot", got)
	}
}

func TestResultNotFound(t *testing.T) {
	svc, _ := newTestAnalysis(&MockSteamSource{}, &MockGenerator{})
	_, err := svc.Result(context.Background(), testSteamID, "ru")
	apiErr, ok := models.AsAPIError(err)
	if !ok || apiErr.Code != models.ErrProfileNotFound {
		t.Fatalf("error = %v, want PROFILE_NOT_FOUND", err)
	}
}
