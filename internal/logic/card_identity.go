package logic

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gamertype/portrait-api/internal/models"
)

const (
	dominantSpread = 20
	moderateSpread = 8
	elementGenres  = 5
	elementTags    = 10
)

// Each stat has an iconic, a variant and a hybrid creature
var statCreatures = map[string][3]models.Creature{
	"dedication":  {models.CreaturePhoenix, models.CreatureBear, models.CreatureStag},
	"mastery":     {models.CreatureDragon, models.CreatureTiger, models.CreatureFalcon},
	"exploration": {models.CreatureFox, models.CreatureGriffin, models.CreatureChimera},
	"hoarding":    {models.CreatureWraith, models.CreatureSerpent, models.CreatureHydra},
	"social":      {models.CreatureWolf, models.CreatureKraken, models.CreaturePanther},
	"veteran":     {models.CreatureOwl, models.CreatureSphinx, models.CreatureRaven},
}

// Checked in order; on equal scores the earlier element wins
var elementPatterns = []struct {
	pattern *regexp.Regexp
	element models.Element
}{
	{regexp.MustCompile(`(?i)shooter|fps|action`), models.ElementFire},
	{regexp.MustCompile(`(?i)strategy|tactical|tower defense|4x`), models.ElementIce},
	{regexp.MustCompile(`(?i)horror|stealth|noir|dark`), models.ElementShadow},
	{regexp.MustCompile(`(?i)rpg|survival|open world|adventure`), models.ElementNature},
	{regexp.MustCompile(`(?i)puzzle|indie|roguelike|platformer`), models.ElementArcane},
	{regexp.MustCompile(`(?i)racing|sports|fighting`), models.ElementStorm},
	{regexp.MustCompile(`(?i)space|sci-fi|cyberpunk`), models.ElementVoid},
	{regexp.MustCompile(`(?i)simulation|management|building`), models.ElementIron},
	{regexp.MustCompile(`(?i)souls-like|difficult|hardcore`), models.ElementBlood},
	{regexp.MustCompile(`(?i)relaxing|casual|visual novel|anime`), models.ElementCrystal},
}

// SelectIdentity picks the creature from the two strongest card stats and
// the element from the player's top genres and tags.
func SelectIdentity(stats models.CardStats, p models.AggregatedProfile) models.CardIdentity {
	return models.CardIdentity{
		Creature: selectCreature(stats),
		Element:  selectElement(p),
	}
}

func selectCreature(stats models.CardStats) models.Creature {
	ranked := []struct {
		name  string
		value int
	}{
		{"dedication", stats.Dedication},
		{"mastery", stats.Mastery},
		{"exploration", stats.Exploration},
		{"hoarding", stats.Hoarding},
		{"social", stats.Social},
		{"veteran", stats.Veteran},
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })

	spread := ranked[0].value - ranked[1].value
	switch {
	case spread > dominantSpread:
		return statCreatures[ranked[0].name][0]
	case spread > moderateSpread:
		return statCreatures[ranked[0].name][1]
	default:
		return statCreatures[ranked[1].name][2]
	}
}

func selectElement(p models.AggregatedProfile) models.Element {
	var signals []string
	for i, g := range p.GenreDistribution {
		if i == elementGenres {
			break
		}
		signals = append(signals, g.Genre)
	}
	for i, t := range p.TagDistribution {
		if i == elementTags {
			break
		}
		signals = append(signals, t.Tag)
	}
	combined := strings.Join(signals, " ")

	best := models.ElementArcane
	bestScore := 0
	for _, ep := range elementPatterns {
		if score := len(ep.pattern.FindAllStringIndex(combined, -1)); score > bestScore {
			best, bestScore = ep.element, score
		}
	}
	return best
}
