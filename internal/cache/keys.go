package cache

import (
	"strconv"
	"time"
)

// Key prefixes carry a version segment. Bump it on any incompatible change
// to the stored shape so stale entries are simply never read again.
const (
	PortraitPrefix  = "portrait:v3:"
	ProfilePrefix   = "profile:v2:"
	RateLimitPrefix = "ratelimit:v1:"
	GatePrefix      = "gate:v1:"
	SteamSpyPrefix  = "steam:spy:v1:"
	StorePrefix     = "steam:store:v1:"
	VanityPrefix    = "steam:vanity:v1:"
)

const (
	CatalogTTL   = 7 * 24 * time.Hour
	ProfileTTL   = 24 * time.Hour
	PortraitTTL  = 24 * time.Hour
	RateLimitTTL = time.Hour
	GateTTL      = time.Hour
	VanityTTL    = 24 * time.Hour
)

func PortraitKey(steamID64, locale string) string {
	return PortraitPrefix + steamID64 + ":" + locale
}

func ProfileKey(steamID64 string) string {
	return ProfilePrefix + steamID64
}

func RateLimitKey(ip string) string {
	return RateLimitPrefix + ip
}

func GateKey(token string) string {
	return GatePrefix + token
}

func SteamSpyKey(appID int) string {
	return SteamSpyPrefix + strconv.Itoa(appID)
}

func StoreKey(appID int) string {
	return StorePrefix + strconv.Itoa(appID)
}

func VanityKey(name string) string {
	return VanityPrefix + name
}
