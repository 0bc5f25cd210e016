package llm

import (
	"fmt"
	"strings"

	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/models"
)

const responseShape = `{
  "primaryArchetype": { "name": "...", "description": "...", "color": "#RRGGBB" },
  "secondaryArchetype": { "name": "...", "description": "...", "color": "#RRGGBB" },
  "shadowArchetype": { "name": "...", "description": "...", "color": "#RRGGBB" },
  "title": "...",
  "emoji": "one emoji",
  "rarity": "COPY FROM CARD",
  "element": "COPY FROM CARD",
  "creature": "COPY FROM CARD",
  "stats": { "dedication": 0, "mastery": 0, "exploration": 0, "hoarding": 0, "social": 0, "veteran": 0 },
  "roasts": [
    { "icon": "one emoji", "title": "...", "text": "...", "stat": "dedication|mastery|exploration|hoarding|social|veteran", "severity": "critical|legendary|epic|rare", "source": "the exact number this roast is based on" }
  ],
  "spirit_game": "...",
  "spirit_animal": { "name": "...", "description": "..." },
  "lore": "...",
  "quote": "...",
  "art_mood": "...",
  "art_scene": "..."
}`

const systemPromptRU = `Ты — остроумный игровой психолог, который анализирует Steam-библиотеки.
Ты создаёшь развлекательный, слегка саркастичный, но добрый портрет игрока в виде коллекционной карты.
Отвечай ТОЛЬКО валидным JSON без markdown-обёрток. Все тексты на русском языке, ключи JSON на английском.

Формат ответа:
%s

Правила:
- rarity, element, creature и stats скопируй из блока КАРТА дословно. Не пересчитывай их.
- Характеристики: dedication — преданность и общее время в играх; mastery — глубина освоения любимых игр; exploration — широта вкусов; hoarding — склонность копить непройденное; social — мультиплеер и друзья; veteran — стаж аккаунта и уровень.
- primaryArchetype — главная черта игрока, secondaryArchetype — второстепенная, shadowArchetype — скрытая теневая сторона.
- roasts: 5 или 6 штук. Каждая шутка привязана к одной характеристике и цитирует конкретное число в source. severity: critical, legendary, epic или rare.
- spirit_game — игра-тотем из его библиотеки, spirit_animal — животное-тотем с объяснением.
- lore — короткая легенда о персонаже (3-4 предложения), quote — его фирменная фраза.
- art_mood и art_scene описывают настроение и сцену для иллюстрации карты, на английском.`

const systemPromptEN = `You are a witty gaming psychologist who analyzes Steam libraries.
You create an entertaining, slightly sarcastic but kind portrait of the player as a collectible card.
Respond with ONLY valid JSON, no markdown wrapping. All text in English.

Response format:
%s

Rules:
- Copy rarity, element, creature and stats verbatim from the CARD block. Never recompute them.
- Stats: dedication is commitment and total time played; mastery is depth in favorite games; exploration is breadth of taste; hoarding is the urge to collect unplayed games; social is multiplayer and friends; veteran is account age and level.
- primaryArchetype is the player's main trait, secondaryArchetype the supporting one, shadowArchetype the hidden dark side.
- roasts: exactly 5 or 6. Each roast targets one stat and cites a concrete number in source. severity is critical, legendary, epic or rare.
- spirit_game is a totem game from their library, spirit_animal a totem animal with a reason.
- lore is a short legend about the character (3-4 sentences), quote is their signature line.
- art_mood and art_scene describe the mood and scene for the card illustration.`

// SystemPrompt returns the locale-specific instruction fixing the response shape.
func SystemPrompt(locale string) string {
	if i18n.Normalize(locale) == i18n.English {
		return fmt.Sprintf(systemPromptEN, responseShape)
	}
	return fmt.Sprintf(systemPromptRU, responseShape)
}

// UserPrompt renders the profile plus the authoritative card values.
func UserPrompt(p models.AggregatedProfile, stats models.CardStats, rarity models.Rarity, identity models.CardIdentity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Player: %s (Steam Level %d, account age %.1f years)\n\n", p.Player.Name, p.Player.SteamLevel, p.Timeline.AccountAge)

	b.WriteString("CARD (authoritative, copy verbatim):\n")
	fmt.Fprintf(&b, "- rarity: %s\n- element: %s\n- creature: %s\n", rarity, identity.Element, identity.Creature)
	fmt.Fprintf(&b, "- stats: dedication=%d, mastery=%d, exploration=%d, hoarding=%d, social=%d, veteran=%d\n\n",
		stats.Dedication, stats.Mastery, stats.Exploration, stats.Hoarding, stats.Social, stats.Veteran)

	b.WriteString("STATS:\n")
	fmt.Fprintf(&b, "- Total games: %d\n", p.Stats.TotalGames)
	fmt.Fprintf(&b, "- Total playtime: %.1f hours\n", p.Stats.TotalPlaytimeHours)
	fmt.Fprintf(&b, "- Average per played game: %.1f hours, median %.1f hours\n", p.Stats.AvgPlaytimeHours, p.Stats.MedianPlaytimeHours)
	fmt.Fprintf(&b, "- Unplayed: %d games (%d%%)\n\n", p.Stats.UnplayedCount, p.Stats.UnplayedPercentage)

	b.WriteString("TOP GAMES BY PLAYTIME:\n")
	for i, g := range p.TopGames {
		fmt.Fprintf(&b, "%d. %s: %.1fh [%s] (%s)", i+1, g.Name, g.PlaytimeHours, strings.Join(g.Tags, ", "), strings.Join(g.Genres, ", "))
		if g.VsAverage != nil {
			fmt.Fprintf(&b, " x%.1f vs average player", *g.VsAverage)
		}
		if g.AchievementPct != nil {
			fmt.Fprintf(&b, ", achievements %.0f%%", *g.AchievementPct)
		}
		b.WriteString("\n")
	}

	genres := make([]string, 0, len(p.GenreDistribution))
	for _, g := range p.GenreDistribution {
		genres = append(genres, fmt.Sprintf("%s: %d%%", g.Genre, g.Percentage))
	}
	fmt.Fprintf(&b, "\nGENRE DISTRIBUTION: %s\n", strings.Join(genres, ", "))

	tags := make([]string, 0, 15)
	for i, t := range p.TagDistribution {
		if i == 15 {
			break
		}
		tags = append(tags, fmt.Sprintf("%s: %.1f%%", t.Tag, t.Percentage))
	}
	fmt.Fprintf(&b, "TAG DISTRIBUTION: %s\n\n", strings.Join(tags, ", "))

	b.WriteString("METRICS:\n")
	fmt.Fprintf(&b, "- Concentration (top-3 games share): %d%%, style: %s\n", p.Concentration, p.Patterns.BingeStyle)
	fmt.Fprintf(&b, "- Multiplayer: %d%% / Singleplayer: %d%%\n", p.MultiplayerRatio, p.SingleplayerRatio)
	fmt.Fprintf(&b, "- Indie share: %d%%\n", p.Patterns.IndiePercentage)
	fmt.Fprintf(&b, "- Recent activity (2 weeks): %d games, %.1fh, trend %s\n",
		p.RecentActivity.GamesPlayed2Weeks, p.RecentActivity.HoursPlayed2Weeks, p.Timeline.Trend)
	if len(p.RecentActivity.RecentGameNames) > 0 {
		fmt.Fprintf(&b, "- Recently played: %s\n", strings.Join(p.RecentActivity.RecentGameNames, ", "))
	}
	fmt.Fprintf(&b, "- Library value: $%.2f, wasted on unplayed: $%.2f, cost per hour: $%.2f\n",
		p.Economics.TotalLibraryValue, p.Economics.WastedValue, p.Economics.PerHourCost)
	if p.Economics.BestDeal != nil {
		fmt.Fprintf(&b, "- Best deal: %s at $%.2f/hour\n", p.Economics.BestDeal.Name, p.Economics.BestDeal.PricePerHour)
	}
	fmt.Fprintf(&b, "- Friends: %d, badges: %d\n", p.Social.FriendsCount, p.Badges.TotalCount)
	fmt.Fprintf(&b, "- Percentiles: hours %d, library %d, concentration %d, veteran %d\n",
		p.Ranks.HoursPercentile, p.Ranks.LibrarySizePercentile, p.Ranks.ConcentrationPercentile, p.Ranks.VeteranPercentile)

	return b.String()
}

// CorrectionPrompt asks the model to repair its previous answer.
func CorrectionPrompt(issues []string) string {
	return fmt.Sprintf("The JSON was invalid. Errors: %s. Fix and return ONLY valid JSON.", strings.Join(issues, "; "))
}
