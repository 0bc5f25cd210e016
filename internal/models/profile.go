package models

// AggregatedProfile is the per-player derived snapshot fed to scoring and generation
type AggregatedProfile struct {
	Player            PlayerInfo       `json:"player"`
	Stats             LibraryStats     `json:"stats"`
	TopGames          []TopGame        `json:"topGames"`
	GenreDistribution []GenreShare     `json:"genreDistribution"`
	TagDistribution   []TagShare       `json:"tagDistribution"`
	Concentration     int              `json:"concentrationRatio"`
	MultiplayerRatio  int              `json:"multiplayerRatio"`
	SingleplayerRatio int              `json:"singleplayerRatio"`
	RecentActivity    RecentActivity   `json:"recentActivity"`
	Economics         Economics        `json:"economics"`
	Platforms         PlatformSplit    `json:"platforms"`
	Timeline          Timeline         `json:"timeline"`
	Social            Social           `json:"social"`
	Achievements      AchievementStats `json:"achievements"`
	Badges            BadgeStats       `json:"badges"`
	Patterns          Patterns         `json:"patterns"`
	Ranks             Ranks            `json:"ranks"`
}

type PlayerInfo struct {
	Name        string  `json:"name"`
	Avatar      string  `json:"avatar"`
	SteamLevel  int     `json:"steamLevel"`
	SteamID64   string  `json:"steamId64"`
	ProfileURL  string  `json:"profileUrl"`
	AccountAge  float64 `json:"accountAge"`
	LastLogoff  int64   `json:"lastLogoff,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
}

type LibraryStats struct {
	TotalGames          int     `json:"totalGames"`
	TotalPlaytimeHours  float64 `json:"totalPlaytimeHours"`
	AvgPlaytimeHours    float64 `json:"avgPlaytimeHours"`
	MedianPlaytimeHours float64 `json:"medianPlaytimeHours"`
	UnplayedCount       int     `json:"unplayedCount"`
	UnplayedPercentage  int     `json:"unplayedPercentage"`
}

type TopGame struct {
	Name           string   `json:"name"`
	AppID          int      `json:"appid"`
	PlaytimeHours  float64  `json:"playtimeHours"`
	Tags           []string `json:"tags"`
	Genres         []string `json:"genres"`
	IconURL        string   `json:"iconUrl"`
	VsAverage      *float64 `json:"vsAverage,omitempty"`
	IsFree         bool     `json:"isFree"`
	PricePerHour   *float64 `json:"pricePerHour,omitempty"`
	AchievementPct *float64 `json:"achievementRate,omitempty"`
}

type GenreShare struct {
	Genre      string `json:"genre"`
	Percentage int    `json:"percentage"`
}

type TagShare struct {
	Tag        string  `json:"tag"`
	Percentage float64 `json:"percentage"`
}

type RecentActivity struct {
	GamesPlayed2Weeks int      `json:"gamesPlayed2Weeks"`
	HoursPlayed2Weeks float64  `json:"hoursPlayed2Weeks"`
	RecentGameNames   []string `json:"recentGameNames"`
}

type BestDeal struct {
	Name         string  `json:"name"`
	PricePerHour float64 `json:"pricePerHour"`
}

type Economics struct {
	TotalLibraryValue float64   `json:"totalLibraryValue"`
	WastedValue       float64   `json:"wastedValue"`
	PerHourCost       float64   `json:"perHourCost"`
	BestDeal          *BestDeal `json:"bestDeal"`
	FreePercentage    int       `json:"freePercentage"`
}

type PlatformSplit struct {
	WindowsPercentage int `json:"windowsPercentage"`
	MacPercentage     int `json:"macPercentage"`
	LinuxPercentage   int `json:"linuxPercentage"`
	DeckPercentage    int `json:"deckPercentage"`
}

// Trend classifies current play intensity against the lifetime average
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendInactive  Trend = "inactive"
)

type Timeline struct {
	AccountAge          float64 `json:"accountAge"`
	AvgMonthlyHours     float64 `json:"avgMonthlyHours"`
	CurrentMonthlyHours float64 `json:"currentMonthlyHours"`
	Trend               Trend   `json:"trend"`
	LastActivityDate    *string `json:"lastActivityDate"`
}

type FriendRef struct {
	SteamID string `json:"steamid"`
	Since   int64  `json:"since"`
}

type Social struct {
	FriendsCount        int        `json:"friendsCount"`
	OldestFriend        *FriendRef `json:"oldestFriend"`
	NewestFriend        *FriendRef `json:"newestFriend"`
	FriendsAddedPerYear float64    `json:"friendsAddedPerYear"`
}

type RarestAchievement struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

type GameAchievements struct {
	AppID          int                `json:"appid"`
	Name           string             `json:"name"`
	CompletionRate float64            `json:"completionRate"`
	Rarest         *RarestAchievement `json:"rarest"`
}

type AchievementStats struct {
	TopGames []GameAchievements `json:"topGames"`
	// MeanCompletion is the mean completion rate in [0,1] over sampled games
	MeanCompletion float64 `json:"meanCompletion"`
}

type RarestBadge struct {
	BadgeID  int `json:"badgeid"`
	Scarcity int `json:"scarcity"`
}

type BadgeStats struct {
	TotalCount  int          `json:"totalCount"`
	RarestBadge *RarestBadge `json:"rarestBadge"`
	TotalXP     int          `json:"totalXP"`
}

// BingeStyle is derived from the concentration ratio
type BingeStyle string

const (
	BingeStyleBinger   BingeStyle = "binger"
	BingeStyleSampler  BingeStyle = "sampler"
	BingeStyleBalanced BingeStyle = "balanced"
)

type Patterns struct {
	GenreConcentration int        `json:"genreConcentration"`
	Top3Share          int        `json:"top3Share"`
	BingeStyle         BingeStyle `json:"bingeStyle"`
	IndiePercentage    int        `json:"indiePercentage"`
}

type Ranks struct {
	HoursPercentile         int `json:"hoursPercentile"`
	LibrarySizePercentile   int `json:"librarySizePercentile"`
	ConcentrationPercentile int `json:"concentrationPercentile"`
	VeteranPercentile       int `json:"veteranPercentile"`
}
