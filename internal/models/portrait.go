package models

import "time"

type Archetype struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Color       string `json:"color" validate:"notblank"`
}

type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityLegendary Severity = "legendary"
	SeverityEpic      Severity = "epic"
	SeverityRare      Severity = "rare"
)

type Roast struct {
	Icon     string   `json:"icon" validate:"notblank"`
	Title    string   `json:"title" validate:"notblank"`
	Text     string   `json:"text" validate:"notblank"`
	Stat     string   `json:"stat" validate:"notblank"`
	Severity Severity `json:"severity" validate:"required,oneof=critical legendary epic rare"`
	Source   string   `json:"source" validate:"notblank"`
}

type SpiritAnimal struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// Portrait is the model-authored narrative document. Rarity, element,
// creature and stats are echoes of computed values.
// The notblank tag must be registered on the validator that checks it.
type Portrait struct {
	PrimaryArchetype   Archetype    `json:"primaryArchetype"`
	SecondaryArchetype Archetype    `json:"secondaryArchetype"`
	ShadowArchetype    Archetype    `json:"shadowArchetype"`
	Title              string       `json:"title" validate:"notblank"`
	Emoji              string       `json:"emoji" validate:"notblank"`
	Rarity             Rarity       `json:"rarity" validate:"required,oneof=common uncommon rare epic legendary"`
	Element            Element      `json:"element" validate:"required,oneof=fire ice shadow nature arcane storm void iron blood crystal"`
	Creature           Creature     `json:"creature" validate:"required,oneof=phoenix dragon fox wraith owl wolf serpent griffin raven bear tiger stag kraken chimera sphinx hydra falcon panther"`
	Stats              CardStats    `json:"stats"`
	Roasts             []Roast      `json:"roasts" validate:"min=5,max=6,dive"`
	SpiritGame         string       `json:"spirit_game" validate:"notblank"`
	SpiritAnimal       SpiritAnimal `json:"spirit_animal"`
	Lore               string       `json:"lore" validate:"notblank"`
	Quote              string       `json:"quote" validate:"notblank"`
	ArtMood            string       `json:"art_mood" validate:"notblank"`
	ArtScene           string       `json:"art_scene" validate:"notblank"`
}

// AnalysisResult is what gets cached per (player, locale)
type AnalysisResult struct {
	SteamID64   string            `json:"steamId64"`
	Locale      string            `json:"locale"`
	Provider    string            `json:"provider"`
	Portrait    Portrait          `json:"portrait"`
	Profile     AggregatedProfile `json:"profile"`
	Stats       CardStats         `json:"stats"`
	Rarity      Rarity            `json:"rarity"`
	Identity    CardIdentity      `json:"identity"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
