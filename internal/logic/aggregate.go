package logic

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamertype/portrait-api/internal/models"
)

const (
	topGamesLimit      = 10
	topGameTagsLimit   = 10
	genreLimit         = 10
	tagLimit           = 20
	bestDealMinHours   = 2.0
	bingerThreshold    = 70
	samplerThreshold   = 30
	risingFactor       = 1.3
	decliningFactor    = 0.5
	daysPerYear        = 365.25
	iconURLTemplate    = "https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg"
	lastActivityLayout = "2006-01-02"
)

// Tag vocabularies used for multiplayer/singleplayer attribution
var (
	multiplayerTags = map[string]bool{
		"Multi-player": true, "Multiplayer": true, "Online Multi-Player": true,
		"Online PvP": true, "Online Co-Op": true, "Co-op": true, "MMO": true,
		"MMORPG": true, "PvP": true, "Battle Royale": true, "Massively Multiplayer": true,
	}
	singleplayerTags = map[string]bool{
		"Single-player": true, "Singleplayer": true,
	}
)

// AggregateInput is everything fetched for one player
type AggregateInput struct {
	Player       models.SteamPlayer
	Games        []models.EnrichedGame
	Recent       []models.OwnedGame
	Level        int
	Friends      []models.Friend
	Badges       models.BadgeSummary
	Achievements []models.AchievementSample
	// Now anchors age and trend computations; zero means time.Now().
	Now time.Time
	// Calibration overrides DefaultCalibration when non-nil.
	Calibration *Calibration
}

// Aggregate derives the full profile snapshot. It is pure and total: any
// input, including an empty library, yields a complete profile. Rejecting
// libraries that are too small is the caller's job.
func Aggregate(in AggregateInput) models.AggregatedProfile {
	cal := DefaultCalibration()
	if in.Calibration != nil {
		cal = *in.Calibration
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	games := in.Games
	sorted := make([]models.EnrichedGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PlaytimeForever != sorted[j].PlaytimeForever {
			return sorted[i].PlaytimeForever > sorted[j].PlaytimeForever
		}
		return sorted[i].AppID < sorted[j].AppID
	})

	totalMinutes := 0
	for _, g := range games {
		totalMinutes += g.PlaytimeForever
	}

	accountAge := accountAgeYears(in.Player.TimeCreated, now)
	stats := libraryStats(games, totalMinutes)
	achievements := aggregateAchievements(in.Achievements)
	genres := genreDistribution(games)
	tags := tagDistribution(games)
	concentration := concentrationRatio(sorted, totalMinutes)
	mp := multiplayerRatio(games)
	recent := recentActivity(in.Recent)

	p := models.AggregatedProfile{
		Player: models.PlayerInfo{
			Name:        in.Player.PersonaName,
			Avatar:      in.Player.AvatarFull,
			SteamLevel:  in.Level,
			SteamID64:   in.Player.SteamID,
			ProfileURL:  in.Player.ProfileURL,
			AccountAge:  accountAge,
			LastLogoff:  in.Player.LastLogoff,
			CountryCode: in.Player.LocCountryCode,
		},
		Stats:             stats,
		TopGames:          topGames(sorted, achievements),
		GenreDistribution: genres,
		TagDistribution:   tags,
		Concentration:     concentration,
		MultiplayerRatio:  mp,
		SingleplayerRatio: 100 - mp,
		RecentActivity:    recent,
		Economics:         economics(games, stats.TotalPlaytimeHours),
		Platforms:         platformSplit(games, cal.DeckShareOfLinux),
		Timeline:          timeline(games, stats.TotalPlaytimeHours, recent.HoursPlayed2Weeks, accountAge),
		Social:            social(in.Friends, accountAge),
		Achievements:      achievements,
		Badges:            badges(in.Badges),
		Patterns:          patterns(games, genres, concentration),
	}

	p.Ranks = models.Ranks{
		HoursPercentile:         cal.HoursBands.Percentile(stats.TotalPlaytimeHours),
		LibrarySizePercentile:   cal.LibraryBands.Percentile(float64(stats.TotalGames)),
		ConcentrationPercentile: cal.ConcentrationBands.Percentile(float64(concentration)),
		VeteranPercentile:       cal.VeteranBands.Percentile(accountAge),
	}
	return p
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func pct(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

func hours(minutes int) float64 { return float64(minutes) / 60 }

func accountAgeYears(created int64, now time.Time) float64 {
	if created <= 0 {
		return 0
	}
	age := now.Sub(time.Unix(created, 0)).Hours() / 24 / daysPerYear
	if age < 0 {
		return 0
	}
	return round1(age)
}

func libraryStats(games []models.EnrichedGame, totalMinutes int) models.LibraryStats {
	var positive []int
	for _, g := range games {
		if g.PlaytimeForever > 0 {
			positive = append(positive, g.PlaytimeForever)
		}
	}
	sort.Ints(positive)

	totalHours := round1(hours(totalMinutes))
	s := models.LibraryStats{
		TotalGames:         len(games),
		TotalPlaytimeHours: totalHours,
		UnplayedCount:      len(games) - len(positive),
	}
	if len(positive) > 0 {
		s.AvgPlaytimeHours = round1(totalHours / float64(len(positive)))
		s.MedianPlaytimeHours = round1(hours(positive[len(positive)/2]))
	}
	s.UnplayedPercentage = pct(float64(s.UnplayedCount), float64(len(games)))
	return s
}

func topGames(sorted []models.EnrichedGame, ach models.AchievementStats) []models.TopGame {
	completion := make(map[int]float64, len(ach.TopGames))
	for _, a := range ach.TopGames {
		completion[a.AppID] = a.CompletionRate
	}

	n := min(topGamesLimit, len(sorted))
	out := make([]models.TopGame, 0, n)
	for _, g := range sorted[:n] {
		h := round1(hours(g.PlaytimeForever))
		tg := models.TopGame{
			Name:          g.Name,
			AppID:         g.AppID,
			PlaytimeHours: h,
			Tags:          topTagNames(g.Tags, topGameTagsLimit),
			Genres:        g.Genres,
			IsFree:        g.IsFree,
		}
		if tg.Genres == nil {
			tg.Genres = []string{}
		}
		if g.ImgIconURL != "" {
			tg.IconURL = fmt.Sprintf(iconURLTemplate, g.AppID, g.ImgIconURL)
		}
		if g.AverageForever != nil && *g.AverageForever > 0 {
			vs := round1(float64(g.PlaytimeForever) / float64(*g.AverageForever))
			tg.VsAverage = &vs
		}
		if !g.IsFree && g.Price != nil && h >= bestDealMinHours {
			pph := round2(g.Price.InexactFloat64() / h)
			tg.PricePerHour = &pph
		}
		if rate, ok := completion[g.AppID]; ok {
			r := rate
			tg.AchievementPct = &r
		}
		out = append(out, tg)
	}
	return out
}

func topTagNames(weights map[string]int, limit int) []string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if weights[names[i]] != weights[names[j]] {
			return weights[names[i]] > weights[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// concentrationRatio is the share of playtime held by the three most played games.
func concentrationRatio(sorted []models.EnrichedGame, totalMinutes int) int {
	top3 := 0
	for _, g := range sorted[:min(3, len(sorted))] {
		top3 += g.PlaytimeForever
	}
	return pct(float64(top3), float64(totalMinutes))
}

// genreDistribution splits each played game's minutes evenly across its genres.
func genreDistribution(games []models.EnrichedGame) []models.GenreShare {
	scores := make(map[string]float64)
	for _, g := range games {
		if len(g.Genres) == 0 || g.PlaytimeForever == 0 {
			continue
		}
		per := float64(g.PlaytimeForever) / float64(len(g.Genres))
		for _, genre := range g.Genres {
			scores[genre] += per
		}
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}

	out := make([]models.GenreShare, 0, len(scores))
	for genre, v := range scores {
		out = append(out, models.GenreShare{Genre: genre, Percentage: pct(v, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Genre < out[j].Genre
	})
	if len(out) > genreLimit {
		out = out[:genreLimit]
	}
	return out
}

// tagDistribution weights each tag by its share of the game's total tag weight.
func tagDistribution(games []models.EnrichedGame) []models.TagShare {
	scores := make(map[string]float64)
	for _, g := range games {
		if len(g.Tags) == 0 || g.PlaytimeForever == 0 {
			continue
		}
		totalWeight := 0
		for _, w := range g.Tags {
			totalWeight += w
		}
		if totalWeight == 0 {
			continue
		}
		for tag, w := range g.Tags {
			scores[tag] += float64(w) / float64(totalWeight) * float64(g.PlaytimeForever)
		}
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}

	out := make([]models.TagShare, 0, len(scores))
	for tag, v := range scores {
		share := 0.0
		if total > 0 {
			share = round1(v / total * 100)
		}
		out = append(out, models.TagShare{Tag: tag, Percentage: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > tagLimit {
		out = out[:tagLimit]
	}
	return out
}

// multiplayerRatio attributes a game's minutes to every bucket it matches.
// With no match in either vocabulary the split is 50/50.
func multiplayerRatio(games []models.EnrichedGame) int {
	var mpMinutes, spMinutes float64
	for _, g := range games {
		isMP, isSP := false, false
		for tag := range g.Tags {
			isMP = isMP || multiplayerTags[tag]
			isSP = isSP || singleplayerTags[tag]
		}
		for _, genre := range g.Genres {
			isMP = isMP || multiplayerTags[genre]
			isSP = isSP || singleplayerTags[genre]
		}
		if isMP {
			mpMinutes += float64(g.PlaytimeForever)
		}
		if isSP {
			spMinutes += float64(g.PlaytimeForever)
		}
	}
	if mpMinutes+spMinutes == 0 {
		return 50
	}
	return pct(mpMinutes, mpMinutes+spMinutes)
}

func recentActivity(recent []models.OwnedGame) models.RecentActivity {
	minutes := 0
	names := make([]string, 0, len(recent))
	for _, g := range recent {
		minutes += g.Playtime2Weeks
		names = append(names, g.Name)
	}
	return models.RecentActivity{
		GamesPlayed2Weeks: len(recent),
		HoursPlayed2Weeks: round1(hours(minutes)),
		RecentGameNames:   names,
	}
}

func economics(games []models.EnrichedGame, totalHours float64) models.Economics {
	total := decimal.Zero
	wasted := decimal.Zero
	free := 0
	var best *models.BestDeal

	for _, g := range games {
		if g.IsFree {
			free++
			continue
		}
		if g.Price == nil || !g.Price.IsPositive() {
			continue
		}
		total = total.Add(*g.Price)
		if g.PlaytimeForever == 0 {
			wasted = wasted.Add(*g.Price)
			continue
		}
		h := hours(g.PlaytimeForever)
		if h < bestDealMinHours {
			continue
		}
		pph := g.Price.Div(decimal.NewFromFloat(h)).Round(2).InexactFloat64()
		if best == nil || pph < best.PricePerHour {
			best = &models.BestDeal{Name: g.Name, PricePerHour: pph}
		}
	}

	e := models.Economics{
		TotalLibraryValue: total.Round(2).InexactFloat64(),
		WastedValue:       wasted.Round(2).InexactFloat64(),
		BestDeal:          best,
		FreePercentage:    pct(float64(free), float64(len(games))),
	}
	if totalHours > 0 {
		e.PerHourCost = total.Div(decimal.NewFromFloat(totalHours)).Round(2).InexactFloat64()
	}
	return e
}

// platformSplit estimates handheld time as a share of linux time and reports
// the four platforms as percentages of all platform-attributed minutes.
func platformSplit(games []models.EnrichedGame, deckShare float64) models.PlatformSplit {
	var win, mac, linux float64
	for _, g := range games {
		win += float64(g.PlaytimeWindowsForever)
		mac += float64(g.PlaytimeMacForever)
		linux += float64(g.PlaytimeLinuxForever)
	}
	total := win + mac + linux
	deck := linux * deckShare
	return models.PlatformSplit{
		WindowsPercentage: pct(win, total),
		MacPercentage:     pct(mac, total),
		LinuxPercentage:   pct(linux-deck, total),
		DeckPercentage:    pct(deck, total),
	}
}

func timeline(games []models.EnrichedGame, totalHours, recentHours, accountAge float64) models.Timeline {
	t := models.Timeline{AccountAge: accountAge}
	if accountAge > 0 {
		t.AvgMonthlyHours = round1(totalHours / (accountAge * 12))
	}
	// Two-week window scaled to a 30-day month
	current := recentHours * 30 / 14
	t.CurrentMonthlyHours = round1(current)

	switch {
	case recentHours <= 0:
		t.Trend = models.TrendInactive
	case current > t.AvgMonthlyHours*risingFactor:
		t.Trend = models.TrendRising
	case current < t.AvgMonthlyHours*decliningFactor:
		t.Trend = models.TrendDeclining
	default:
		t.Trend = models.TrendStable
	}

	var last int64
	for _, g := range games {
		if g.RTimeLastPlayed > last {
			last = g.RTimeLastPlayed
		}
	}
	if last > 0 {
		d := time.Unix(last, 0).UTC().Format(lastActivityLayout)
		t.LastActivityDate = &d
	}
	return t
}

func social(friends []models.Friend, accountAge float64) models.Social {
	s := models.Social{FriendsCount: len(friends)}
	if len(friends) == 0 {
		return s
	}

	ordered := make([]models.Friend, len(friends))
	copy(ordered, friends)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FriendSince < ordered[j].FriendSince
	})
	oldest, newest := ordered[0], ordered[len(ordered)-1]
	s.OldestFriend = &models.FriendRef{SteamID: oldest.SteamID, Since: oldest.FriendSince}
	s.NewestFriend = &models.FriendRef{SteamID: newest.SteamID, Since: newest.FriendSince}

	if accountAge > 0 {
		s.FriendsAddedPerYear = round1(float64(len(friends)) / accountAge)
	} else {
		s.FriendsAddedPerYear = float64(len(friends))
	}
	return s
}

func aggregateAchievements(samples []models.AchievementSample) models.AchievementStats {
	out := models.AchievementStats{TopGames: []models.GameAchievements{}}
	sum := 0.0

	for _, sample := range samples {
		if len(sample.Achievements) == 0 {
			continue
		}
		global := make(map[string]float64, len(sample.Global))
		for _, g := range sample.Global {
			global[g.Name] = g.Percent
		}

		achieved := 0
		var rarest *models.RarestAchievement
		for _, a := range sample.Achievements {
			if a.Achieved == 0 {
				continue
			}
			achieved++
			p, ok := global[a.APIName]
			if !ok {
				continue
			}
			if rarest == nil || p < rarest.Percent {
				rarest = &models.RarestAchievement{Name: a.APIName, Percent: round1(p)}
			}
		}

		rate := float64(achieved) / float64(len(sample.Achievements))
		sum += rate
		out.TopGames = append(out.TopGames, models.GameAchievements{
			AppID:          sample.AppID,
			Name:           sample.Name,
			CompletionRate: round1(rate * 100),
			Rarest:         rarest,
		})
	}

	if len(out.TopGames) > 0 {
		out.MeanCompletion = sum / float64(len(out.TopGames))
	}
	return out
}

func badges(summary models.BadgeSummary) models.BadgeStats {
	b := models.BadgeStats{TotalCount: len(summary.Badges), TotalXP: summary.PlayerXP}
	xp := 0
	for _, badge := range summary.Badges {
		xp += badge.XP
		if badge.Scarcity <= 0 {
			continue
		}
		if b.RarestBadge == nil || badge.Scarcity < b.RarestBadge.Scarcity {
			b.RarestBadge = &models.RarestBadge{BadgeID: badge.BadgeID, Scarcity: badge.Scarcity}
		}
	}
	if b.TotalXP == 0 {
		b.TotalXP = xp
	}
	return b
}

func patterns(games []models.EnrichedGame, genres []models.GenreShare, concentration int) models.Patterns {
	p := models.Patterns{Top3Share: concentration}
	if len(genres) > 0 {
		p.GenreConcentration = genres[0].Percentage
	}

	switch {
	case concentration > bingerThreshold:
		p.BingeStyle = models.BingeStyleBinger
	case concentration < samplerThreshold:
		p.BingeStyle = models.BingeStyleSampler
	default:
		p.BingeStyle = models.BingeStyleBalanced
	}

	var indie, played float64
	for _, g := range games {
		if g.PlaytimeForever == 0 {
			continue
		}
		played += float64(g.PlaytimeForever)
		if isIndie(g) {
			indie += float64(g.PlaytimeForever)
		}
	}
	p.IndiePercentage = pct(indie, played)
	return p
}

func isIndie(g models.EnrichedGame) bool {
	for _, genre := range g.Genres {
		if strings.EqualFold(genre, "indie") {
			return true
		}
	}
	_, ok := g.Tags["Indie"]
	return ok
}
