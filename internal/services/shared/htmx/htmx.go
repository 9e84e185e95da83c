// Package htmx holds request detection and response header helpers for
// htmx-driven pages.
package htmx

import (
	"encoding/json"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeaderKey is the HTMX request header used to detect partial updates.
	RequestHeaderKey = "HX-Request"
	// TriggerHeaderKey carries client-side events raised after a swap.
	TriggerHeaderKey = "HX-Trigger"
	// RedirectHeaderKey asks the HTMX client to perform a full navigation.
	RedirectHeaderKey = "HX-Redirect"
)

// Triggers maps client event names to their JSON detail payloads.
type Triggers map[string]any

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// AddTrigger merges one event into the HX-Trigger header already set on w.
func AddTrigger(w http.ResponseWriter, name string, detail any) {
	if w == nil || strings.TrimSpace(name) == "" {
		return
	}
	triggers := Triggers{}
	if existing := w.Header().Get(TriggerHeaderKey); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			triggers = Triggers{existing: nil}
		}
	}
	triggers[name] = detail
	SetTriggers(w, triggers)
}

// SetTriggers replaces the HX-Trigger header with the given events.
func SetTriggers(w http.ResponseWriter, triggers Triggers) {
	if w == nil || len(triggers) == 0 {
		return
	}
	payload, err := json.Marshal(triggers)
	if err != nil {
		log.Printf("encode hx-trigger: %v", err)
		return
	}
	w.Header().Set(TriggerHeaderKey, string(payload))
}

// Redirect sends a full-page navigation to location: HX-Redirect for HTMX
// requests, a 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMXRequest(r) {
		w.Header().Set(RedirectHeaderKey, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// RenderPage renders fragment for HTMX requests and full otherwise. When
// fragment is nil, full is used for both paths. The htmxTitle is prepended to
// fragment responses so history entries keep a meaningful title.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component, htmxTitle string) {
	if IsHTMXRequest(r) && fragment != nil {
		if htmxTitle != "" {
			fragment = templ.Join(templ.Raw(htmxTitle), fragment)
		}
		templ.Handler(fragment).ServeHTTP(w, r)
		return
	}
	if full == nil {
		full = fragment
	}
	if full == nil {
		return
	}
	templ.Handler(full).ServeHTTP(w, r)
}
