package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_SteamSpyStrings(t *testing.T) {
	input := `{"appid": "570", "name": "Dota 2", "average_forever": "2450", "initialprice": "0", "tags": {"Free to Play": 59000, "MOBA": 20000}}`

	var app SteamSpyApp
	if err := json.Unmarshal([]byte(input), &app); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if app.AppID != 570 {
		t.Errorf("AppID = %d, want 570", app.AppID)
	}
	if app.AverageForever != 2450 {
		t.Errorf("AverageForever = %d, want 2450", app.AverageForever)
	}
	if app.InitialPrice != "0" {
		t.Errorf("InitialPrice = %q, want 0", app.InitialPrice)
	}
	if app.Tags["MOBA"] != 20000 {
		t.Errorf("Tags[MOBA] = %d, want 20000", app.Tags["MOBA"])
	}
}

func TestFlexUnmarshal_EmptyTagArray(t *testing.T) {
	input := `{"appid": 10, "name": "Counter-Strike", "initialprice": 999, "tags": []}`

	var app SteamSpyApp
	if err := json.Unmarshal([]byte(input), &app); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if app.Name != "Counter-Strike" {
		t.Errorf("Name = %q", app.Name)
	}
	if len(app.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", app.Tags)
	}
	if app.InitialPrice != "999" {
		t.Errorf("InitialPrice = %q, want 999", app.InitialPrice)
	}
}

func TestFlexUnmarshal_GlobalPercentString(t *testing.T) {
	input := `[{"name": "ACH_WIN", "percent": "12.5"}, {"name": "ACH_LOSE", "percent": 87.1}]`

	var got []GlobalAchievement
	if err := json.Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if got[0].Percent != 12.5 {
		t.Errorf("Percent = %f, want 12.5", got[0].Percent)
	}
	if got[1].Percent != 87.1 {
		t.Errorf("Percent = %f, want 87.1", got[1].Percent)
	}
}

func TestFlexUnmarshal_Malformed(t *testing.T) {
	var app SteamSpyApp
	if err := json.Unmarshal([]byte(`not json`), &app); err == nil {
		t.Error("expected error for malformed payload")
	}
}
