package steam

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/models"
)

type vanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

// Resolve turns any accepted input form into a SteamID64.
func (c *Client) Resolve(ctx context.Context, raw string) (string, error) {
	in, err := ParseInput(raw)
	if err != nil {
		return "", err
	}
	if !in.NeedsLookup() {
		return in.Value, nil
	}
	return c.ResolveVanity(ctx, in.Value)
}

// ResolveVanity looks up a custom profile name. Successful lookups are cached.
func (c *Client) ResolveVanity(ctx context.Context, name string) (string, error) {
	return cache.GetOrLoad(ctx, c.cache, cache.VanityKey(name), cache.VanityTTL, func(ctx context.Context) (string, error) {
		params := url.Values{}
		params.Set("vanityurl", name)
		data, err := doRequest[vanityResponse](ctx, c, "resolve_vanity", c.apiURL("/ISteamUser/ResolveVanityURL/v1/", params))
		if err != nil {
			return "", err
		}
		if data.Response.Success != 1 || data.Response.SteamID == "" {
			return "", models.NewAPIError(models.ErrProfileNotFound, "Profile not found")
		}
		return data.Response.SteamID, nil
	})
}

type summariesResponse struct {
	Response struct {
		Players []models.SteamPlayer `json:"players"`
	} `json:"response"`
}

// PlayerSummary returns the public profile, or PROFILE_NOT_FOUND /
// PRIVATE_PROFILE.
func (c *Client) PlayerSummary(ctx context.Context, steamID64 string) (*models.SteamPlayer, error) {
	params := url.Values{}
	params.Set("steamids", steamID64)
	data, err := doRequest[summariesResponse](ctx, c, "player_summary", c.apiURL("/ISteamUser/GetPlayerSummaries/v2/", params))
	if err != nil {
		return nil, err
	}
	if len(data.Response.Players) == 0 {
		return nil, models.NewAPIError(models.ErrProfileNotFound, "Profile not found")
	}
	player := data.Response.Players[0]
	if player.CommunityVisibilityState != models.VisibilityPublic {
		return nil, models.NewAPIError(models.ErrPrivateProfile, "Profile is private")
	}
	return &player, nil
}

type ownedGamesResponse struct {
	Response struct {
		GameCount *int               `json:"game_count"`
		Games     []models.OwnedGame `json:"games"`
	} `json:"response"`
}

// OwnedGames returns the library including free games that were played.
func (c *Client) OwnedGames(ctx context.Context, steamID64 string) (*models.OwnedLibrary, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	data, err := doRequest[ownedGamesResponse](ctx, c, "owned_games", c.apiURL("/IPlayerService/GetOwnedGames/v1/", params))
	if err != nil {
		return nil, err
	}

	lib := &models.OwnedLibrary{Games: data.Response.Games}
	switch {
	case data.Response.GameCount != nil:
		lib.GameCount = *data.Response.GameCount
	case data.Response.Games == nil:
		lib.Hidden = true
	default:
		lib.GameCount = len(data.Response.Games)
	}
	return lib, nil
}

type recentResponse struct {
	Response struct {
		Games []models.OwnedGame `json:"games"`
	} `json:"response"`
}

func (c *Client) RecentGames(ctx context.Context, steamID64 string) ([]models.OwnedGame, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	data, err := doRequest[recentResponse](ctx, c, "recent_games", c.apiURL("/IPlayerService/GetRecentlyPlayedGames/v1/", params))
	if err != nil {
		return nil, err
	}
	return data.Response.Games, nil
}

type levelResponse struct {
	Response struct {
		PlayerLevel int `json:"player_level"`
	} `json:"response"`
}

func (c *Client) SteamLevel(ctx context.Context, steamID64 string) (int, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	data, err := doRequest[levelResponse](ctx, c, "steam_level", c.apiURL("/IPlayerService/GetSteamLevel/v1/", params))
	if err != nil {
		return 0, err
	}
	return data.Response.PlayerLevel, nil
}

type friendsResponse struct {
	FriendsList struct {
		Friends []models.Friend `json:"friends"`
	} `json:"friendslist"`
}

// Friends returns an empty list when the friend list is private.
func (c *Client) Friends(ctx context.Context, steamID64 string) ([]models.Friend, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	params.Set("relationship", "friend")
	data, err := doRequest[friendsResponse](ctx, c, "friends", c.apiURL("/ISteamUser/GetFriendList/v1/", params))
	if hasStatus(err, 401) {
		return []models.Friend{}, nil
	}
	if err != nil {
		return nil, err
	}
	return data.FriendsList.Friends, nil
}

type badgesResponse struct {
	Response models.BadgeSummary `json:"response"`
}

func (c *Client) Badges(ctx context.Context, steamID64 string) (*models.BadgeSummary, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	data, err := doRequest[badgesResponse](ctx, c, "badges", c.apiURL("/IPlayerService/GetBadges/v1/", params))
	if err != nil {
		return nil, err
	}
	return &data.Response, nil
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		Success      bool                       `json:"success"`
		Error        string                     `json:"error"`
		Achievements []models.PlayerAchievement `json:"achievements"`
	} `json:"playerstats"`
}

// ErrNoStats is returned for games that publish no achievements.
var ErrNoStats = errors.New("steam: game has no stats")

func (c *Client) PlayerAchievements(ctx context.Context, steamID64 string, appID int) ([]models.PlayerAchievement, error) {
	params := url.Values{}
	params.Set("steamid", steamID64)
	params.Set("appid", strconv.Itoa(appID))
	data, err := doRequest[playerAchievementsResponse](ctx, c, "player_achievements", c.apiURL("/ISteamUserStats/GetPlayerAchievements/v1/", params))
	if hasStatus(err, 400) {
		return nil, ErrNoStats
	}
	if err != nil {
		return nil, err
	}
	if !data.PlayerStats.Success {
		return nil, ErrNoStats
	}
	return data.PlayerStats.Achievements, nil
}

type globalAchievementsResponse struct {
	AchievementPercentages struct {
		Achievements []models.GlobalAchievement `json:"achievements"`
	} `json:"achievementpercentages"`
}

// GlobalAchievementPercentages needs no key and no player.
func (c *Client) GlobalAchievementPercentages(ctx context.Context, appID int) ([]models.GlobalAchievement, error) {
	params := url.Values{}
	params.Set("gameid", strconv.Itoa(appID))
	rawURL := c.cfg.APIBaseURL + "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v2/?" + params.Encode()
	data, err := doRequest[globalAchievementsResponse](ctx, c, "global_achievements", rawURL)
	if err != nil {
		return nil, err
	}
	return data.AchievementPercentages.Achievements, nil
}
