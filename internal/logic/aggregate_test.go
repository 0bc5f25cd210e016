package logic

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamertype/portrait-api/internal/models"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func game(appID, minutes int, genres ...string) models.EnrichedGame {
	return models.EnrichedGame{
		OwnedGame: models.OwnedGame{AppID: appID, Name: "game", PlaytimeForever: minutes},
		Genres:    genres,
		Tags:      map[string]int{},
	}
}

func paidGame(appID, minutes int, price string) models.EnrichedGame {
	g := game(appID, minutes)
	p := decimal.RequireFromString(price)
	g.Price = &p
	return g
}

func TestGenreDistributionSumsToHundred(t *testing.T) {
	games := []models.EnrichedGame{
		game(1, 600, "Action", "RPG"),
		game(2, 300, "Action"),
		game(3, 100, "Strategy", "Indie", "RPG"),
		game(4, 0, "Horror"),
	}

	p := Aggregate(AggregateInput{Games: games, Now: testNow})

	sum := 0
	for _, g := range p.GenreDistribution {
		sum += g.Percentage
		if g.Genre == "Horror" {
			t.Error("unplayed game's genre must not be weighted")
		}
	}
	slack := len(p.GenreDistribution)
	if sum < 100-slack || sum > 100+slack {
		t.Errorf("genre sum = %d, want 100 ± %d", sum, slack)
	}
	if p.GenreDistribution[0].Genre != "Action" || p.GenreDistribution[0].Percentage != 60 {
		t.Errorf("top genre = %+v, want Action 60", p.GenreDistribution[0])
	}
}

func TestGenreDistributionEmptyWithoutPlaytime(t *testing.T) {
	games := []models.EnrichedGame{game(1, 0, "Action"), game(2, 0, "RPG")}

	p := Aggregate(AggregateInput{Games: games, Now: testNow})

	if len(p.GenreDistribution) != 0 {
		t.Errorf("got %d genre entries, want 0", len(p.GenreDistribution))
	}
}

func TestTagDistributionWeighted(t *testing.T) {
	a := game(1, 100)
	a.Tags = map[string]int{"Shooter": 300, "Action": 100}
	b := game(2, 100)
	b.Tags = map[string]int{"Action": 50}

	p := Aggregate(AggregateInput{Games: []models.EnrichedGame{a, b}, Now: testNow})

	want := map[string]float64{"Action": 62.5, "Shooter": 37.5}
	for _, tag := range p.TagDistribution {
		if want[tag.Tag] != tag.Percentage {
			t.Errorf("%s = %.1f, want %.1f", tag.Tag, tag.Percentage, want[tag.Tag])
		}
	}
}

func TestConcentrationRatio(t *testing.T) {
	tests := []struct {
		name  string
		games []models.EnrichedGame
		want  int
	}{
		{"single game holds all", []models.EnrichedGame{game(1, 500), game(2, 0), game(3, 0), game(4, 0)}, 100},
		{"no playtime", []models.EnrichedGame{game(1, 0), game(2, 0)}, 0},
		{"even split of four", []models.EnrichedGame{game(1, 100), game(2, 100), game(3, 100), game(4, 100)}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Aggregate(AggregateInput{Games: tt.games, Now: testNow})
			if p.Concentration != tt.want {
				t.Errorf("concentration = %d, want %d", p.Concentration, tt.want)
			}
		})
	}
}

func TestLibraryStats(t *testing.T) {
	games := []models.EnrichedGame{game(1, 60), game(2, 120), game(3, 180), game(4, 240), game(5, 0)}

	p := Aggregate(AggregateInput{Games: games, Now: testNow})

	if p.Stats.TotalPlaytimeHours != 10 {
		t.Errorf("total hours = %v, want 10", p.Stats.TotalPlaytimeHours)
	}
	if p.Stats.MedianPlaytimeHours != 3 {
		t.Errorf("median = %v, want 3 (upper median)", p.Stats.MedianPlaytimeHours)
	}
	if p.Stats.AvgPlaytimeHours != 2.5 {
		t.Errorf("avg = %v, want 2.5", p.Stats.AvgPlaytimeHours)
	}
	if p.Stats.UnplayedCount != 1 || p.Stats.UnplayedPercentage != 20 {
		t.Errorf("unplayed = %d (%d%%), want 1 (20%%)", p.Stats.UnplayedCount, p.Stats.UnplayedPercentage)
	}
}

func TestEconomics(t *testing.T) {
	tests := []struct {
		name     string
		games    []models.EnrichedGame
		wantBest *models.BestDeal
	}{
		{
			name:     "no paid game over two hours",
			games:    []models.EnrichedGame{paidGame(1, 60, "10.00"), paidGame(2, 0, "30.00")},
			wantBest: nil,
		},
		{
			name: "cheapest per hour wins",
			games: []models.EnrichedGame{
				paidGame(1, 600, "20.00"),
				paidGame(2, 300, "5.00"),
				paidGame(3, 0, "15.00"),
			},
			wantBest: &models.BestDeal{Name: "game", PricePerHour: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Aggregate(AggregateInput{Games: tt.games, Now: testNow}).Economics

			if e.WastedValue > e.TotalLibraryValue {
				t.Errorf("wasted %v > total %v", e.WastedValue, e.TotalLibraryValue)
			}
			if tt.wantBest == nil {
				if e.BestDeal != nil {
					t.Errorf("best deal = %+v, want nil", e.BestDeal)
				}
				return
			}
			if e.BestDeal == nil || e.BestDeal.PricePerHour != tt.wantBest.PricePerHour {
				t.Errorf("best deal = %+v, want %+v", e.BestDeal, tt.wantBest)
			}
		})
	}
}

func TestEconomicsTotals(t *testing.T) {
	free := game(4, 1000)
	free.IsFree = true
	games := []models.EnrichedGame{paidGame(1, 600, "19.99"), paidGame(2, 0, "9.99"), free}

	e := Aggregate(AggregateInput{Games: games, Now: testNow}).Economics

	if e.TotalLibraryValue != 29.98 {
		t.Errorf("total = %v, want 29.98", e.TotalLibraryValue)
	}
	if e.WastedValue != 9.99 {
		t.Errorf("wasted = %v, want 9.99", e.WastedValue)
	}
	if e.FreePercentage != 33 {
		t.Errorf("free = %d%%, want 33%%", e.FreePercentage)
	}
}

func TestMultiplayerRatio(t *testing.T) {
	mp := game(1, 300)
	mp.Tags = map[string]int{"Online PvP": 10}
	sp := game(2, 100)
	sp.Tags = map[string]int{"Singleplayer": 10}

	p := Aggregate(AggregateInput{Games: []models.EnrichedGame{mp, sp}, Now: testNow})
	if p.MultiplayerRatio != 75 || p.SingleplayerRatio != 25 {
		t.Errorf("split = %d/%d, want 75/25", p.MultiplayerRatio, p.SingleplayerRatio)
	}

	p = Aggregate(AggregateInput{Games: []models.EnrichedGame{game(1, 300, "Puzzle")}, Now: testNow})
	if p.MultiplayerRatio != 50 {
		t.Errorf("unmatched split = %d, want 50", p.MultiplayerRatio)
	}
}

func TestPlatformSplit(t *testing.T) {
	g := game(1, 1000)
	g.PlaytimeWindowsForever = 700
	g.PlaytimeLinuxForever = 300

	ps := Aggregate(AggregateInput{Games: []models.EnrichedGame{g}, Now: testNow}).Platforms

	if ps.WindowsPercentage != 70 || ps.LinuxPercentage != 21 || ps.DeckPercentage != 9 || ps.MacPercentage != 0 {
		t.Errorf("split = %+v, want 70/0/21/9", ps)
	}

	cal := DefaultCalibration()
	cal.DeckShareOfLinux = 0
	ps = Aggregate(AggregateInput{Games: []models.EnrichedGame{g}, Now: testNow, Calibration: &cal}).Platforms
	if ps.DeckPercentage != 0 || ps.LinuxPercentage != 30 {
		t.Errorf("recalibrated split = %+v", ps)
	}
}

func TestTimelineTrend(t *testing.T) {
	created := testNow.Add(-87660 * time.Hour).Unix() // ten years
	library := []models.EnrichedGame{game(1, 72000)}

	tests := []struct {
		name          string
		recentMinutes int
		want          models.Trend
	}{
		{"inactive", 0, models.TrendInactive},
		{"rising", 840, models.TrendRising},
		{"stable", 180, models.TrendStable},
		{"declining", 84, models.TrendDeclining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recent []models.OwnedGame
			if tt.recentMinutes > 0 {
				recent = []models.OwnedGame{{AppID: 1, Name: "game", Playtime2Weeks: tt.recentMinutes}}
			}
			p := Aggregate(AggregateInput{
				Player: models.SteamPlayer{TimeCreated: created},
				Games:  library,
				Recent: recent,
				Now:    testNow,
			})
			if p.Timeline.AccountAge != 10 {
				t.Fatalf("account age = %v, want 10", p.Timeline.AccountAge)
			}
			if p.Timeline.AvgMonthlyHours != 10 {
				t.Fatalf("avg monthly = %v, want 10", p.Timeline.AvgMonthlyHours)
			}
			if p.Timeline.Trend != tt.want {
				t.Errorf("trend = %s, want %s", p.Timeline.Trend, tt.want)
			}
		})
	}
}

func TestSocial(t *testing.T) {
	friends := []models.Friend{
		{SteamID: "b", FriendSince: 300},
		{SteamID: "a", FriendSince: 100},
		{SteamID: "c", FriendSince: 200},
	}

	s := Aggregate(AggregateInput{Games: []models.EnrichedGame{game(1, 10)}, Friends: friends, Now: testNow}).Social

	if s.OldestFriend.SteamID != "a" || s.NewestFriend.SteamID != "b" {
		t.Errorf("oldest/newest = %s/%s, want a/b", s.OldestFriend.SteamID, s.NewestFriend.SteamID)
	}
	if s.FriendsAddedPerYear != 3 {
		t.Errorf("per year with unknown account age = %v, want 3", s.FriendsAddedPerYear)
	}
}

func TestAchievements(t *testing.T) {
	samples := []models.AchievementSample{
		{
			AppID: 1,
			Name:  "game",
			Achievements: []models.PlayerAchievement{
				{APIName: "ACH_A", Achieved: 1},
				{APIName: "ACH_B", Achieved: 1},
				{APIName: "ACH_C", Achieved: 0},
				{APIName: "ACH_D", Achieved: 0},
			},
			Global: []models.GlobalAchievement{
				{Name: "ACH_A", Percent: 50},
				{Name: "ACH_B", Percent: 5},
				{Name: "ACH_C", Percent: 1},
			},
		},
		{AppID: 2, Name: "no achievements"},
	}

	p := Aggregate(AggregateInput{Games: []models.EnrichedGame{game(1, 600), game(2, 60)}, Achievements: samples, Now: testNow})

	if len(p.Achievements.TopGames) != 1 {
		t.Fatalf("got %d sampled games, want 1", len(p.Achievements.TopGames))
	}
	a := p.Achievements.TopGames[0]
	if a.CompletionRate != 50 {
		t.Errorf("completion = %v, want 50", a.CompletionRate)
	}
	if a.Rarest == nil || a.Rarest.Name != "ACH_B" {
		t.Errorf("rarest = %+v, want ACH_B", a.Rarest)
	}
	if p.Achievements.MeanCompletion != 0.5 {
		t.Errorf("mean = %v, want 0.5", p.Achievements.MeanCompletion)
	}
	if p.TopGames[0].AchievementPct == nil || *p.TopGames[0].AchievementPct != 50 {
		t.Error("top game should carry its achievement rate")
	}
}

func TestBadges(t *testing.T) {
	b := Aggregate(AggregateInput{
		Games: []models.EnrichedGame{game(1, 10)},
		Badges: models.BadgeSummary{Badges: []models.Badge{
			{BadgeID: 1, XP: 100, Scarcity: 5000},
			{BadgeID: 2, XP: 50, Scarcity: 12},
			{BadgeID: 3, XP: 25},
		}},
		Now: testNow,
	}).Badges

	if b.TotalCount != 3 || b.TotalXP != 175 {
		t.Errorf("badges = %+v", b)
	}
	if b.RarestBadge == nil || b.RarestBadge.BadgeID != 2 {
		t.Errorf("rarest = %+v, want badge 2", b.RarestBadge)
	}
}

func TestBingeStyle(t *testing.T) {
	tests := []struct {
		games []models.EnrichedGame
		want  models.BingeStyle
	}{
		{[]models.EnrichedGame{game(1, 900), game(2, 50), game(3, 50), game(4, 0)}, models.BingeStyleBinger},
		{[]models.EnrichedGame{game(1, 100), game(2, 100), game(3, 100), game(4, 100)}, models.BingeStyleBinger},
		{manyEvenGames(20), models.BingeStyleSampler},
		{manyEvenGames(6), models.BingeStyleBalanced},
	}

	for _, tt := range tests {
		p := Aggregate(AggregateInput{Games: tt.games, Now: testNow})
		if p.Patterns.BingeStyle != tt.want {
			t.Errorf("concentration %d: style = %s, want %s", p.Concentration, p.Patterns.BingeStyle, tt.want)
		}
	}
}

func manyEvenGames(n int) []models.EnrichedGame {
	out := make([]models.EnrichedGame, n)
	for i := range out {
		out[i] = game(i+1, 60)
	}
	return out
}

func TestAggregateEmptyLibraryIsTotal(t *testing.T) {
	p := Aggregate(AggregateInput{Now: testNow})

	if p.Stats.TotalGames != 0 || p.Concentration != 0 || len(p.TopGames) != 0 {
		t.Errorf("unexpected profile for empty input: %+v", p.Stats)
	}
	if p.Timeline.Trend != models.TrendInactive {
		t.Errorf("trend = %s, want inactive", p.Timeline.Trend)
	}
}

func TestBandsPercentile(t *testing.T) {
	bands := Bands{{0, 5}, {100, 20}, {500, 40}}
	tests := []struct {
		v    float64
		want int
	}{
		{-1, 0}, {0, 5}, {99.9, 5}, {100, 20}, {10000, 40},
	}
	for _, tt := range tests {
		if got := bands.Percentile(tt.v); got != tt.want {
			t.Errorf("Percentile(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
