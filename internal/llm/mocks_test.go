package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gamertype/portrait-api/internal/models"
)

// MockProvider
type MockProvider struct {
	IDValue      string
	CompleteFunc func(ctx context.Context, req Request) (string, error)
	Requests     []Request
}

func (m *MockProvider) ID() string {
	if m.IDValue != "" {
		return m.IDValue
	}
	return "mock"
}

func (m *MockProvider) Name() string  { return "Mock " + m.ID() }
func (m *MockProvider) Model() string { return "mock-1" }

func (m *MockProvider) Complete(ctx context.Context, req Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return validPortraitJSON(5), nil
}

func validPortrait(roasts int) models.Portrait {
	p := models.Portrait{
		PrimaryArchetype:   models.Archetype{Name: "The Completionist", Description: "Finishes everything", Color: "#FFAA00"},
		SecondaryArchetype: models.Archetype{Name: "The Collector", Description: "Buys everything", Color: "#00AAFF"},
		ShadowArchetype:    models.Archetype{Name: "The Quitter", Description: "Abandons on day two", Color: "#333333"},
		Title:              "Lord of the Backlog",
		Emoji:              "🐉",
		Rarity:             models.RarityRare,
		Element:            models.ElementFire,
		Creature:           models.CreatureDragon,
		Stats:              models.CardStats{Dedication: 70, Mastery: 60, Exploration: 50, Hoarding: 40, Social: 30, Veteran: 20},
		SpiritGame:         "Dota 2",
		SpiritAnimal:       models.SpiritAnimal{Name: "Owl", Description: "Up at 3am"},
		Lore:               "Born in a LAN cafe.",
		Quote:              "One more match.",
		ArtMood:            "moody neon",
		ArtScene:           "a dragon atop a pile of unopened boxes",
	}
	for i := 0; i < roasts; i++ {
		p.Roasts = append(p.Roasts, models.Roast{
			Icon:     "🔥",
			Title:    fmt.Sprintf("Roast %d", i+1),
			Text:     "You own 400 games and play one.",
			Stat:     "hoarding",
			Severity: models.SeverityEpic,
			Source:   "400 games",
		})
	}
	return p
}

func validPortraitJSON(roasts int) string {
	b, err := json.Marshal(validPortrait(roasts))
	if err != nil {
		panic(err)
	}
	return string(b)
}

func portraitJSONWith(mutate func(m map[string]any)) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(validPortraitJSON(5)), &m); err != nil {
		panic(err)
	}
	mutate(m)
	b, _ := json.Marshal(m)
	return string(b)
}

func containsIssue(issues []string, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i, substr) {
			return true
		}
	}
	return false
}
