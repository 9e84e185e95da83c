package templates

import (
	"strings"

	"github.com/a-h/templ"
	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// htmxScript is the pinned htmx build loaded by every page.
const htmxScript = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

type navItem struct {
	path  string
	label string
	badge bool
}

var navItems = []navItem{
	{path: routepath.Root, label: "nav.dashboard"},
	{path: routepath.Payments, label: "nav.payments", badge: true},
	{path: routepath.Withdrawals, label: "nav.withdrawals"},
	{path: routepath.Members, label: "nav.members"},
	{path: routepath.Settings, label: "nav.settings"},
}

// PageTitle formats a document title.
func PageTitle(loc Localizer, key string) string {
	title := T(loc, key)
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// Layout wraps body in the admin document shell.
func Layout(page PageContext, titleKey string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		lang := page.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw(`<!doctype html><html`)
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(PageTitle(page.Loc, titleKey))
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"><script`)
		h.attr("src", htmxScript)
		h.raw(` defer></script><script src="/static/app.js" defer></script></head>`)
		if page.AdminEmail == "" {
			h.raw(`<body class="bare">`)
		} else {
			h.raw(`<body`)
			h.attr("data-live", routepath.Live)
			h.raw(`>`)
			h.component(header(page))
		}
		h.raw(`<div id="notifications" aria-live="polite"></div><main id="main">`)
		h.component(body)
		h.raw(`</main></body></html>`)
	})
}

func header(page PageContext) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="topbar"><a class="brand" href="/">`)
		h.text(AppName)
		h.raw(`</a><nav>`)
		for _, item := range navItems {
			h.raw(`<a`)
			h.attr("href", item.path)
			if isActive(page.CurrentPath, item.path) {
				h.raw(` class="active" aria-current="page"`)
			}
			h.raw(`>`)
			h.text(T(page.Loc, item.label))
			if item.badge {
				h.raw(` <span id="pending-badge" class="badge">`)
				h.text(page.PendingBadge)
				h.raw(`</span>`)
			}
			h.raw(`</a>`)
		}
		h.raw(`</nav><div class="account"><span class="email">`)
		h.text(page.AdminEmail)
		h.raw(`</span><form method="post"`)
		h.attr("action", routepath.Logout)
		h.raw(`><button type="submit" class="link">`)
		h.text(T(page.Loc, "nav.logout"))
		h.raw(`</button></form></div></header>`)
	})
}

func isActive(current, path string) bool {
	if path == routepath.Root {
		return current == routepath.Root
	}
	return current == path || strings.HasPrefix(current, path+"/")
}

// LoginPage renders the sign-in form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="login"><h1>`)
		h.text(AppName)
		h.raw(`</h1><p class="muted">`)
		h.text(T(loc, "login.subtitle"))
		h.raw(`</p>`)
		if view.Error != "" {
			h.raw(`<p class="alert error" role="alert">`)
			h.text(view.Error)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post"`)
		h.attr("action", routepath.Login)
		h.raw(`><label>`)
		h.text(T(loc, "login.email"))
		h.raw(`<input type="email" name="email" autocomplete="username" required`)
		h.attr("value", view.Email)
		h.raw(`></label><label>`)
		h.text(T(loc, "login.password"))
		h.raw(`<input type="password" name="password" autocomplete="current-password" required></label><button type="submit">`)
		h.text(T(loc, "login.submit"))
		h.raw(`</button></form></section>`)
	})
}
