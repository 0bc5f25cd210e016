// Package i18n resolves the request locale and holds the bot reply catalog.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	Russian = "ru"
	English = "en"

	// LocaleParam is the query parameter used to select a locale.
	LocaleParam = "locale"
)

// Russian is listed first so the matcher falls back to it.
var supportedTags = []language.Tag{
	language.Russian,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the supported locale codes.
func Supported() []string {
	return []string{Russian, English}
}

// Default returns the default locale.
func Default() string {
	return Russian
}

// Normalize maps any BCP 47 value to a supported locale, or the default.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default()
	}
	matched, _, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return Default()
	}
	return code(matched)
}

// FromRequest resolves the locale from the query string, then Accept-Language.
func FromRequest(r *http.Request) string {
	if r == nil {
		return Default()
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LocaleParam)); v != "" {
		return Normalize(v)
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			matched, _, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return code(matched)
			}
		}
	}
	return Default()
}

func code(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == English {
		return English
	}
	return Russian
}
