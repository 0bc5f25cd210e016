package models

// CardStats are six bounded play-style scores in [0,100]
type CardStats struct {
	Dedication  int `json:"dedication" validate:"min=0,max=100"`
	Mastery     int `json:"mastery" validate:"min=0,max=100"`
	Exploration int `json:"exploration" validate:"min=0,max=100"`
	Hoarding    int `json:"hoarding" validate:"min=0,max=100"`
	Social      int `json:"social" validate:"min=0,max=100"`
	Veteran     int `json:"veteran" validate:"min=0,max=100"`
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities in ascending order
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the ordinal position of r, or -1 when unknown.
func (r Rarity) Rank() int {
	for i, v := range Rarities {
		if v == r {
			return i
		}
	}
	return -1
}

type Creature string

const (
	CreaturePhoenix Creature = "phoenix"
	CreatureDragon  Creature = "dragon"
	CreatureFox     Creature = "fox"
	CreatureWraith  Creature = "wraith"
	CreatureOwl     Creature = "owl"
	CreatureWolf    Creature = "wolf"
	CreatureSerpent Creature = "serpent"
	CreatureGriffin Creature = "griffin"
	CreatureRaven   Creature = "raven"
	CreatureBear    Creature = "bear"
	CreatureTiger   Creature = "tiger"
	CreatureStag    Creature = "stag"
	CreatureKraken  Creature = "kraken"
	CreatureChimera Creature = "chimera"
	CreatureSphinx  Creature = "sphinx"
	CreatureHydra   Creature = "hydra"
	CreatureFalcon  Creature = "falcon"
	CreaturePanther Creature = "panther"
)

type Element string

const (
	ElementFire    Element = "fire"
	ElementIce     Element = "ice"
	ElementShadow  Element = "shadow"
	ElementNature  Element = "nature"
	ElementArcane  Element = "arcane"
	ElementStorm   Element = "storm"
	ElementVoid    Element = "void"
	ElementIron    Element = "iron"
	ElementBlood   Element = "blood"
	ElementCrystal Element = "crystal"
)

// CardIdentity is the presentational seed pair chosen from card stats and taste
type CardIdentity struct {
	Creature Creature `json:"creature"`
	Element  Element  `json:"element"`
}
