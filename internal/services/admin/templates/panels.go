package templates

import (
	"github.com/a-h/templ"
	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// Panel names the refreshable dashboard panels. The names are shared with
// the live feed and the panels:refresh trigger.
type Panel string

const (
	PanelStats       Panel = "stats"
	PanelRecent      Panel = "recent"
	PanelPending     Panel = "pending"
	PanelApproved    Panel = "approved"
	PanelWithdrawals Panel = "withdrawals"
	PanelMembers     Panel = "members"
	PanelSettings    Panel = "settings"
)

// ElementID returns the DOM id of the panel container.
func (p Panel) ElementID() string {
	return "panel-" + string(p)
}

// Target returns the htmx selector of the panel container.
func (p Panel) Target() string {
	return "#" + p.ElementID()
}

var panelSources = map[Panel]string{
	PanelStats:       routepath.PanelStats,
	PanelRecent:      routepath.PanelRecentPayments,
	PanelPending:     routepath.PanelPendingPayments,
	PanelApproved:    routepath.PanelApprovedPayments,
	PanelWithdrawals: routepath.PanelWithdrawals,
	PanelMembers:     routepath.PanelMembers,
}

// PanelContainer renders an empty panel that loads itself and reloads on
// panels:refresh or a live update naming it.
func PanelContainer(panel Panel, titleKey string, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="panel"><h2>`)
		h.text(T(loc, titleKey))
		h.raw(`</h2><div`)
		h.attr("id", panel.ElementID())
		h.attr("hx-get", panelSources[panel])
		h.attr("hx-trigger", "load, panels:refresh from:body, live:"+string(panel)+" from:body")
		h.raw(` hx-swap="innerHTML"><p class="muted loading">`)
		h.text(T(loc, "panel.loading"))
		h.raw(`</p></div></section>`)
	})
}

// StatsPanel renders the header cards, or one error placeholder.
func StatsPanel(view StatsView, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		if failed {
			h.raw(`<p class="placeholder error">`)
			h.text(T(loc, "panel.error"))
			h.raw(`</p>`)
			return
		}
		h.raw(`<div class="cards">`)
		card(h, T(loc, "stats.total_revenue"), view.TotalRevenue)
		card(h, T(loc, "stats.today_revenue"), view.TodayRevenue)
		card(h, T(loc, "stats.pending_payments"), view.PendingPayments)
		card(h, T(loc, "stats.pending_withdrawals"), view.PendingWithdrawals)
		card(h, T(loc, "stats.active_members"), view.ActiveMembers)
		h.raw(`</div>`)
	})
}

func card(h *htmlWriter, label, value string) {
	h.raw(`<div class="card"><span class="label">`)
	h.text(label)
	h.raw(`</span><strong class="value">`)
	h.text(value)
	h.raw(`</strong></div>`)
}

// PendingPaymentsPanel renders the review queue with actions and updates the
// navigation badge out of band with the number of rows rendered.
func PendingPaymentsPanel(rows []PaymentRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		h.component(PendingPaymentsTable(rows, failed, loc))
		h.raw(`<span id="pending-badge" class="badge" hx-swap-oob="true">`)
		h.text(PendingBadge(len(rows), failed))
		h.raw(`</span>`)
	})
}

// PendingBadge is the navigation badge text for count pending rows.
func PendingBadge(count int, failed bool) string {
	if failed {
		return ""
	}
	return itoa(count)
}

// PendingPaymentsTable renders the review queue without the badge update.
func PendingPaymentsTable(rows []PaymentRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		if !failed && len(rows) > 0 {
			h.raw(`<div class="toolbar"><button type="button" class="primary"`)
			h.attr("hx-post", routepath.PaymentsApproveAll)
			h.attr("hx-target", PanelPending.Target())
			h.attr("hx-confirm", T(loc, "payments.approve_all_confirm", len(rows)))
			h.raw(`>`)
			h.text(T(loc, "payments.approve_all"))
			h.raw(`</button></div>`)
		}
		headers := []string{"payments.col.payer", "payments.col.amount", "payments.col.method", "payments.col.screenshot", "payments.col.submitted", "table.col.actions"}
		table(h, loc, headers, len(rows), failed, "payments.pending_empty", func() {
			for _, row := range rows {
				h.raw(`<tr`)
				h.attr("data-row", itoa64(row.ID))
				h.attr("data-status", row.Status)
				h.raw(`><td>`)
				h.text(row.Payer)
				h.raw(`</td><td class="num">`)
				h.text(row.Amount)
				h.raw(`</td><td>`)
				h.text(row.Method)
				h.raw(`</td><td>`)
				if row.ScreenshotURL != "" {
					h.raw(`<a target="_blank" rel="noopener noreferrer"`)
					h.url("href", row.ScreenshotURL)
					h.raw(`>`)
					h.text(T(loc, "payments.view_screenshot"))
					h.raw(`</a>`)
				} else {
					h.raw(`<span class="muted">-</span>`)
				}
				h.raw(`</td><td>`)
				h.text(row.CreatedAt)
				h.raw(`</td><td class="actions">`)
				approveForm(h, loc, row)
				rejectForm(h, loc, routepath.PaymentReject(row.ID), PanelPending, T(loc, "payments.reject_confirm"))
				h.raw(`</td></tr>`)
			}
		})
	})
}

func approveForm(h *htmlWriter, loc Localizer, row PaymentRow) {
	h.raw(`<form class="inline"`)
	h.attr("hx-post", routepath.PaymentApprove(row.ID))
	h.attr("hx-target", PanelPending.Target())
	h.attr("hx-confirm", T(loc, "payments.approve_confirm"))
	h.raw(`><input type="hidden" name="user_id"`)
	h.attr("value", row.UserID)
	h.raw(`><button type="submit" class="approve">`)
	h.text(T(loc, "action.approve"))
	h.raw(`</button></form>`)
}

func rejectForm(h *htmlWriter, loc Localizer, action string, panel Panel, confirm string) {
	h.raw(`<form class="inline"`)
	h.attr("hx-post", action)
	h.attr("hx-target", panel.Target())
	h.attr("hx-confirm", confirm)
	h.raw(`><input type="text" name="reason" maxlength="500"`)
	h.attr("placeholder", T(loc, "action.reason"))
	h.raw(`><button type="submit" class="reject">`)
	h.text(T(loc, "action.reject"))
	h.raw(`</button></form>`)
}

// RecentPaymentsPanel renders the latest payments of any status.
func RecentPaymentsPanel(rows []PaymentRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		headers := []string{"payments.col.payer", "payments.col.amount", "payments.col.method", "payments.col.status", "payments.col.submitted"}
		table(h, loc, headers, len(rows), failed, "payments.recent_empty", func() {
			for _, row := range rows {
				h.raw(`<tr`)
				h.attr("data-row", itoa64(row.ID))
				h.attr("data-status", row.Status)
				h.raw(`><td>`)
				h.text(row.Payer)
				h.raw(`</td><td class="num">`)
				h.text(row.Amount)
				h.raw(`</td><td>`)
				h.text(row.Method)
				h.raw(`</td><td><span`)
				h.attr("class", "status status-"+row.Status)
				h.raw(`>`)
				h.text(row.StatusLabel)
				h.raw(`</span></td><td>`)
				h.text(row.CreatedAt)
				h.raw(`</td></tr>`)
			}
		})
	})
}

// ApprovedPaymentsPanel renders recently approved payments.
func ApprovedPaymentsPanel(rows []PaymentRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		headers := []string{"payments.col.payer", "payments.col.amount", "payments.col.method", "payments.col.approved"}
		table(h, loc, headers, len(rows), failed, "payments.approved_empty", func() {
			for _, row := range rows {
				h.raw(`<tr`)
				h.attr("data-row", itoa64(row.ID))
				h.attr("data-status", row.Status)
				h.raw(`><td>`)
				h.text(row.Payer)
				h.raw(`</td><td class="num">`)
				h.text(row.Amount)
				h.raw(`</td><td>`)
				h.text(row.Method)
				h.raw(`</td><td>`)
				h.text(row.ApprovedAt)
				h.raw(`</td></tr>`)
			}
		})
	})
}

// WithdrawalsPanel renders pending withdrawals with actions.
func WithdrawalsPanel(rows []WithdrawalRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		headers := []string{"withdrawals.col.requester", "withdrawals.col.amount", "withdrawals.col.method", "withdrawals.col.requested", "table.col.actions"}
		table(h, loc, headers, len(rows), failed, "withdrawals.empty", func() {
			for _, row := range rows {
				h.raw(`<tr`)
				h.attr("data-row", itoa64(row.ID))
				h.raw(`><td>`)
				h.text(row.Requester)
				h.raw(`</td><td class="num">`)
				h.text(row.Amount)
				h.raw(`</td><td>`)
				h.text(row.Method)
				h.raw(`</td><td>`)
				h.text(row.CreatedAt)
				h.raw(`</td><td class="actions"><button type="button" class="approve"`)
				h.attr("hx-post", routepath.WithdrawalApprove(row.ID))
				h.attr("hx-target", PanelWithdrawals.Target())
				h.attr("hx-confirm", T(loc, "withdrawals.approve_confirm"))
				h.raw(`>`)
				h.text(T(loc, "action.approve"))
				h.raw(`</button>`)
				rejectForm(h, loc, routepath.WithdrawalReject(row.ID), PanelWithdrawals, T(loc, "withdrawals.reject_confirm"))
				h.raw(`</td></tr>`)
			}
		})
	})
}

// MembersPanel renders client and mentor profiles.
func MembersPanel(rows []MemberRow, failed bool, loc Localizer) templ.Component {
	return component(func(h *htmlWriter) {
		headers := []string{"members.col.name", "members.col.email", "members.col.role", "members.col.tier", "members.col.status", "members.col.joined", "table.col.actions"}
		table(h, loc, headers, len(rows), failed, "members.empty", func() {
			for _, row := range rows {
				h.raw(`<tr`)
				h.attr("data-row", row.ID)
				h.raw(`><td>`)
				h.text(row.Name)
				h.raw(`</td><td>`)
				h.text(row.Email)
				h.raw(`</td><td>`)
				h.text(row.Role)
				h.raw(`</td><td>`)
				h.text(row.Tier)
				h.raw(`</td><td>`)
				h.text(row.StatusLabel)
				h.raw(`</td><td>`)
				h.text(row.JoinedAt)
				h.raw(`</td><td class="actions"><button type="button"`)
				if row.Suspended {
					h.raw(` class="approve"`)
					h.attr("hx-post", routepath.MemberReactivate(row.ID))
					h.attr("hx-confirm", T(loc, "members.reactivate_confirm", row.Name))
				} else {
					h.raw(` class="reject"`)
					h.attr("hx-post", routepath.MemberSuspend(row.ID))
					h.attr("hx-confirm", T(loc, "members.suspend_confirm", row.Name))
				}
				h.attr("hx-target", PanelMembers.Target())
				h.raw(`>`)
				if row.Suspended {
					h.text(T(loc, "members.reactivate"))
				} else {
					h.text(T(loc, "members.suspend"))
				}
				h.raw(`</button></td></tr>`)
			}
		})
	})
}

// table writes a data table. Zero rows or a failed load render exactly one
// placeholder row spanning every column.
func table(h *htmlWriter, loc Localizer, headerKeys []string, count int, failed bool, emptyKey string, body func()) {
	h.raw(`<table class="data"><thead><tr>`)
	for _, key := range headerKeys {
		h.raw(`<th>`)
		h.text(T(loc, key))
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	switch {
	case failed:
		placeholder(h, len(headerKeys), "placeholder error", T(loc, "panel.error"))
	case count == 0:
		placeholder(h, len(headerKeys), "placeholder", T(loc, emptyKey))
	default:
		body()
	}
	h.raw(`</tbody></table>`)
}

func placeholder(h *htmlWriter, columns int, class, message string) {
	h.raw(`<tr`)
	h.attr("class", class)
	h.raw(`><td`)
	h.attr("colspan", itoa(columns))
	h.raw(`>`)
	h.text(message)
	h.raw(`</td></tr>`)
}
