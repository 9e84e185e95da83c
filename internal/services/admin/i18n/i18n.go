package i18n

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter that switches the dashboard language.
	LangParam = "lang"
	// LangCookieName remembers the switch across requests.
	LangCookieName = "paydesk_lang"

	langCookieMaxAge = 365 * 24 * time.Hour
)

// Every catalog locale is a supported language; the base locale comes first
// so the matcher falls back to it.
var (
	supportedTags = catalogTags(catalog.Default())
	tagMatcher    = language.NewMatcher(supportedTags)
)

func catalogTags(bundle *catalog.Bundle) []language.Tag {
	tags := []language.Tag{language.MustParse(catalog.BaseLocale)}
	for _, locale := range bundle.Locales() {
		if locale == catalog.BaseLocale {
			continue
		}
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Supported returns the languages with a message catalog.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// Default returns the catalog base language.
func Default() language.Tag {
	return supportedTags[0]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag picks the language for r from the lang query parameter, then the
// language cookie, then Accept-Language. The bool reports whether the choice
// came from the query and should be stored in the cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if tag, ok := match(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := match(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, _ := tagMatcher.Match(tags...)
			return supportedTags[index], false
		}
	}
	return Default(), false
}

// SetLanguageCookie stores tag as the language preference.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(langCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// match maps a requested language to a supported one. Only close matches
// count so an unknown value falls through to the next source.
func match(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	requested, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	_, index, confidence := tagMatcher.Match(requested)
	if confidence < language.High {
		return language.Tag{}, false
	}
	return supportedTags[index], true
}
