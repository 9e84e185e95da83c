package templates

import (
	"github.com/a-h/templ"
	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// SettingsForm renders the payment settings form. A failed load renders one
// error placeholder instead of the form.
func SettingsForm(view SettingsView, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div`)
		h.attr("id", PanelSettings.ElementID())
		h.raw(`>`)
		if failed {
			h.raw(`<p class="placeholder error">`)
			h.text(T(loc, "panel.error"))
			h.raw(`</p></div>`)
			return
		}
		h.raw(`<form class="settings" method="post"`)
		h.attr("action", routepath.Settings)
		h.attr("hx-post", routepath.Settings)
		h.attr("hx-target", PanelSettings.Target())
		h.raw(` hx-swap="outerHTML">`)
		field(h, T(loc, "settings.price"), "price", "text", view.Price, `inputmode="decimal"`)
		field(h, T(loc, "settings.payment_number"), "payment_number", "text", view.PaymentNumber, `inputmode="tel"`)
		field(h, T(loc, "settings.payment_name"), "payment_name", "text", view.PaymentName, "")
		if view.UpdatedAt != "" {
			h.raw(`<p class="muted">`)
			h.text(T(loc, "settings.updated_at", view.UpdatedAt))
			h.raw(`</p>`)
		}
		h.raw(`<button type="submit" class="primary">`)
		h.text(T(loc, "settings.save"))
		h.raw(`</button></form></div>`)
	})
}

func field(h *htmlWriter, label, name, kind, value, extra string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input`)
	h.attr("type", kind)
	h.attr("name", name)
	h.attr("id", "settings-"+name)
	h.attr("value", value)
	if extra != "" {
		h.raw(" ", extra)
	}
	h.raw(`></label>`)
}
