package logic

import (
	"math"

	"github.com/gamertype/portrait-api/internal/models"
)

// Rarity thresholds are inclusive lower bounds on the weighted rarity score
var rarityThresholds = []struct {
	min    float64
	rarity models.Rarity
}{
	{1000, models.RarityLegendary},
	{600, models.RarityEpic},
	{300, models.RarityRare},
	{100, models.RarityUncommon},
}

// Score compresses a profile into card stats and a rarity tier.
// It has no hidden state: equal profiles always score equally.
func Score(p models.AggregatedProfile) (models.CardStats, models.Rarity) {
	return CardStatsFor(p), RarityFor(RarityScore(p.Stats.TotalPlaytimeHours, p.Stats.TotalGames, p.Player.SteamLevel))
}

func CardStatsFor(p models.AggregatedProfile) models.CardStats {
	totalHours := p.Stats.TotalPlaytimeHours
	unplayed := float64(p.Stats.UnplayedPercentage) / 100
	library := float64(p.Stats.TotalGames)
	concentration := float64(p.Concentration)

	return models.CardStats{
		Dedication: stat(
			0.6*ratio(totalHours, 5000) +
				0.4*(1-unplayed)),
		Mastery: stat(
			0.4*ratio(concentration, 80) +
				0.3*ratio(p.Stats.AvgPlaytimeHours, 50) +
				0.3*p.Achievements.MeanCompletion),
		Exploration: stat(
			0.4*ratio(library, 500) +
				0.3*ratio(float64(len(p.GenreDistribution)), 10) +
				0.3*(1-ratio(concentration, 100))),
		Hoarding: stat(
			0.6*unplayed +
				0.4*ratio(library, 500)),
		Social: stat(
			0.5*ratio(float64(p.Social.FriendsCount), 200) +
				0.5*float64(p.MultiplayerRatio)/100),
		Veteran: stat(
			0.5*ratio(p.Timeline.AccountAge, 15) +
				0.3*ratio(float64(p.Player.SteamLevel), 100) +
				0.2*ratio(float64(p.Badges.TotalCount), 50)),
	}
}

// RarityScore is 0.4*hours + 0.3*games + 0.3*level.
func RarityScore(totalHours float64, gameCount, level int) float64 {
	return 0.4*totalHours + 0.3*float64(gameCount) + 0.3*float64(level)
}

func RarityFor(score float64) models.Rarity {
	for _, t := range rarityThresholds {
		if score >= t.min {
			return t.rarity
		}
	}
	return models.RarityCommon
}

// ratio is v/ceiling capped to [0,1]
func ratio(v, ceiling float64) float64 {
	if ceiling <= 0 || v <= 0 {
		return 0
	}
	return math.Min(v/ceiling, 1)
}

// stat converts a [0,1] blend into a clamped integer score
func stat(blend float64) int {
	if math.IsNaN(blend) {
		return 0
	}
	v := int(math.Round(blend * 100))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
