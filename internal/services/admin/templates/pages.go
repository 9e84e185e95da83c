package templates

import "github.com/a-h/templ"

// DashboardPage is the landing page: stats, the review queue and recent
// payments. The stats and pending panels arrive pre-rendered so the first
// paint needs no extra round trip; later refreshes reload them in place.
func DashboardPage(stats, pending templ.Component, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(T(loc, "title.dashboard"))
		h.raw(`</h1>`)
		preloadedPanel(h, PanelStats, "panel.stats", stats, loc)
		preloadedPanel(h, PanelPending, "panel.pending", pending, loc)
		h.component(PanelContainer(PanelRecent, "panel.recent", loc))
	})
}

// PaymentsPage lists pending, approved and recent payments.
func PaymentsPage(loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(T(loc, "title.payments"))
		h.raw(`</h1>`)
		h.component(PanelContainer(PanelPending, "panel.pending", loc))
		h.component(PanelContainer(PanelApproved, "panel.approved", loc))
		h.component(PanelContainer(PanelRecent, "panel.recent", loc))
	})
}

// WithdrawalsPage lists pending withdrawals.
func WithdrawalsPage(loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(T(loc, "title.withdrawals"))
		h.raw(`</h1>`)
		h.component(PanelContainer(PanelWithdrawals, "panel.withdrawals", loc))
	})
}

// MembersPage lists members.
func MembersPage(loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(T(loc, "title.members"))
		h.raw(`</h1>`)
		h.component(PanelContainer(PanelMembers, "panel.members", loc))
	})
}

// SettingsPage wraps the settings form.
func SettingsPage(form templ.Component, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(T(loc, "title.settings"))
		h.raw(`</h1><section class="panel">`)
		h.component(form)
		h.raw(`</section>`)
	})
}

func preloadedPanel(h *htmlWriter, panel Panel, titleKey string, content templ.Component, loc Localizer) {
	h.raw(`<section class="panel"><h2>`)
	h.text(T(loc, titleKey))
	h.raw(`</h2><div`)
	h.attr("id", panel.ElementID())
	h.attr("hx-get", panelSources[panel])
	h.attr("hx-trigger", "panels:refresh from:body, live:"+string(panel)+" from:body")
	h.raw(` hx-swap="innerHTML">`)
	h.component(content)
	h.raw(`</div></section>`)
}
