package models

import "time"

type GateStatus string

const (
	GateStatusPending  GateStatus = "pending"
	GateStatusUnlocked GateStatus = "unlocked"
	GateStatusExpired  GateStatus = "expired"
)

// GateToken is the stored state of one unlock token
type GateToken struct {
	Token      string     `json:"token"`
	PlayerID   string     `json:"playerId"`
	Locale     string     `json:"locale"`
	Status     GateStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	ChatID     int64      `json:"chatId,omitempty"`
}
