package steam

import (
	"regexp"
	"strings"

	"github.com/gamertype/portrait-api/internal/models"
)

// InputKind tells how a user-supplied profile reference was written
type InputKind string

const (
	KindProfileURL InputKind = "profile_url"
	KindVanityURL  InputKind = "vanity_url"
	KindSteamID64  InputKind = "steamid64"
	KindVanityName InputKind = "vanity_name"
)

var (
	steamID64Pattern  = regexp.MustCompile(`^[0-9]{17}$`)
	profileURLPattern = regexp.MustCompile(`steamcommunity\.com/profiles/(\d{17})`)
	vanityURLPattern  = regexp.MustCompile(`steamcommunity\.com/id/([a-zA-Z0-9_-]+)`)
	vanityNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,32}$`)
)

type Input struct {
	Kind  InputKind
	Value string
}

// NeedsLookup reports whether the value is a vanity name rather than an id.
func (in Input) NeedsLookup() bool {
	return in.Kind == KindVanityURL || in.Kind == KindVanityName
}

// ParseInput classifies a profile URL, vanity URL, raw SteamID64 or vanity name.
func ParseInput(raw string) (Input, error) {
	s := strings.TrimSpace(raw)

	if m := profileURLPattern.FindStringSubmatch(s); m != nil {
		return Input{Kind: KindProfileURL, Value: m[1]}, nil
	}
	if m := vanityURLPattern.FindStringSubmatch(s); m != nil {
		return Input{Kind: KindVanityURL, Value: m[1]}, nil
	}
	if steamID64Pattern.MatchString(s) {
		return Input{Kind: KindSteamID64, Value: s}, nil
	}
	if vanityNamePattern.MatchString(s) {
		return Input{Kind: KindVanityName, Value: s}, nil
	}
	return Input{}, models.NewAPIError(models.ErrInvalidInput, "input is not a Steam profile URL, SteamID64 or vanity name")
}
