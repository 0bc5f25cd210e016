package models

import "github.com/shopspring/decimal"

// Visibility state reported for a fully public community profile
const VisibilityPublic = 3

type SteamPlayer struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	AvatarFull               string `json:"avatarfull"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	PersonaState             int    `json:"personastate"`
	LastLogoff               int64  `json:"lastlogoff,omitempty"`
	TimeCreated              int64  `json:"timecreated,omitempty"`
	LocCountryCode           string `json:"loccountrycode,omitempty"`
}

// OwnedGame is one library entry; all playtimes are minutes
type OwnedGame struct {
	AppID                  int    `json:"appid"`
	Name                   string `json:"name"`
	PlaytimeForever        int    `json:"playtime_forever"`
	Playtime2Weeks         int    `json:"playtime_2weeks,omitempty"`
	PlaytimeWindowsForever int    `json:"playtime_windows_forever,omitempty"`
	PlaytimeMacForever     int    `json:"playtime_mac_forever,omitempty"`
	PlaytimeLinuxForever   int    `json:"playtime_linux_forever,omitempty"`
	RTimeLastPlayed        int64  `json:"rtime_last_played,omitempty"`
	ImgIconURL             string `json:"img_icon_url"`
}

// EnrichedGame is an OwnedGame plus catalog and store metadata
type EnrichedGame struct {
	OwnedGame
	Tags           map[string]int   `json:"tags"`
	Genres         []string         `json:"genres"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	IsFree         bool             `json:"is_free"`
	AverageForever *int             `json:"average_forever,omitempty"`
}

type Friend struct {
	SteamID      string `json:"steamid"`
	Relationship string `json:"relationship"`
	FriendSince  int64  `json:"friend_since"`
}

type Badge struct {
	BadgeID        int   `json:"badgeid"`
	Level          int   `json:"level"`
	CompletionTime int64 `json:"completion_time"`
	XP             int   `json:"xp"`
	Scarcity       int   `json:"scarcity"`
}

type BadgeSummary struct {
	Badges      []Badge `json:"badges"`
	PlayerXP    int     `json:"player_xp"`
	PlayerLevel int     `json:"player_level"`
}

type PlayerAchievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

type GlobalAchievement struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// AchievementSample is the per-game achievement data fetched for top games
type AchievementSample struct {
	AppID        int                 `json:"appid"`
	Name         string              `json:"name"`
	Achievements []PlayerAchievement `json:"achievements"`
	Global       []GlobalAchievement `json:"global"`
}

// SteamSpyApp is the catalog provider's appdetails payload.
// The provider is loose with types: prices arrive as strings and an empty
// tag set is encoded as [] rather than {}.
type SteamSpyApp struct {
	AppID          int            `json:"appid"`
	Name           string         `json:"name"`
	Developer      string         `json:"developer"`
	Publisher      string         `json:"publisher"`
	Owners         string         `json:"owners"`
	AverageForever int            `json:"average_forever"`
	InitialPrice   string         `json:"initialprice"`
	Price          string         `json:"price"`
	Tags           map[string]int `json:"tags"`
}

// StoreApp is the subset of store appdetails used for enrichment
type StoreApp struct {
	Genres []string         `json:"genres"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	IsFree bool             `json:"is_free"`
}

// OwnedLibrary is the owned-games response with its visibility signals.
// Hidden means the platform returned no games field at all, which is how
// a private game-details setting presents.
type OwnedLibrary struct {
	GameCount int         `json:"game_count"`
	Games     []OwnedGame `json:"games"`
	Hidden    bool        `json:"-"`
}
