package admin

import (
	"context"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/paydesk/internal/platform/fanout"
	"github.com/louisbranch/paydesk/internal/services/admin/service"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"golang.org/x/text/message"
)

func (h *Handler) loadStats(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	stats, err := h.service.Stats(ctx)
	return templates.StatsPanel(h.buildStatsView(stats, loc), err != nil, loc), err
}

func (h *Handler) loadRecentPayments(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	payments, err := h.service.RecentPayments(ctx)
	return templates.RecentPaymentsPanel(h.buildPaymentRows(payments, loc), err != nil, loc), err
}

// loadPendingPayments includes the out-of-band navigation badge.
func (h *Handler) loadPendingPayments(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	payments, err := h.service.PendingPayments(ctx)
	if err != nil {
		payments = nil
	}
	return templates.PendingPaymentsPanel(h.buildPaymentRows(payments, loc), err != nil, loc), err
}

func (h *Handler) loadApprovedPayments(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	payments, err := h.service.ApprovedPayments(ctx)
	return templates.ApprovedPaymentsPanel(h.buildPaymentRows(payments, loc), err != nil, loc), err
}

func (h *Handler) loadWithdrawals(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	withdrawals, err := h.service.PendingWithdrawals(ctx)
	return templates.WithdrawalsPanel(h.buildWithdrawalRows(withdrawals, loc), err != nil, loc), err
}

func (h *Handler) loadMembers(ctx context.Context, loc *message.Printer) (templ.Component, error) {
	members, err := h.service.Members(ctx)
	return templates.MembersPanel(h.buildMemberRows(members, loc), err != nil, loc), err
}

func (h *Handler) handleStatsPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelStats, h.loadStats)
}

func (h *Handler) handleRecentPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelRecent, h.loadRecentPayments)
}

func (h *Handler) handlePendingPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelPending, h.loadPendingPayments)
}

func (h *Handler) handleApprovedPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelApproved, h.loadApprovedPayments)
}

func (h *Handler) handleWithdrawalsPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelWithdrawals, h.loadWithdrawals)
}

func (h *Handler) handleMembersPanel(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, templates.PanelMembers, h.loadMembers)
}

// handleDashboard renders the landing page with stats and the review queue
// already filled in. A part that fails to load renders its placeholder while
// the other part still shows.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, lang := h.localizer(w, r)
	ctx, cancel := backendContext(r.Context())
	defer cancel()

	overview, err := h.service.Overview(ctx)
	failed := map[string]bool{}
	if err != nil {
		if h.sessionLost(w, r, err) {
			return
		}
		log.Printf("load dashboard overview: %v", err)
		names := fanout.Failed(err)
		if len(names) == 0 {
			names = []string{service.TaskStats, service.TaskPending}
		}
		for _, name := range names {
			failed[name] = true
		}
		notify(w, notifyError, loc.Sprintf("notify.panels_failed"))
	}
	pending := overview.Pending
	if failed[service.TaskPending] {
		pending = nil
	}

	page := h.pageContext(lang, loc, r)
	page.PendingBadge = templates.PendingBadge(len(pending), failed[service.TaskPending])
	body := templates.DashboardPage(
		templates.StatsPanel(h.buildStatsView(overview.Stats, loc), failed[service.TaskStats], loc),
		templates.PendingPaymentsTable(h.buildPaymentRows(pending, loc), failed[service.TaskPending], loc),
		loc,
	)
	h.renderPage(w, r, page, "title.dashboard", body)
}

func (h *Handler) handlePaymentsPage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, lang := h.localizer(w, r)
	h.renderPage(w, r, h.pageContext(lang, loc, r), "title.payments", templates.PaymentsPage(loc))
}

func (h *Handler) handleWithdrawalsPage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, lang := h.localizer(w, r)
	h.renderPage(w, r, h.pageContext(lang, loc, r), "title.withdrawals", templates.WithdrawalsPage(loc))
}

func (h *Handler) handleMembersPage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, lang := h.localizer(w, r)
	h.renderPage(w, r, h.pageContext(lang, loc, r), "title.members", templates.MembersPage(loc))
}

func (h *Handler) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, lang := h.localizer(w, r)
	ctx, cancel := backendContext(r.Context())
	defer cancel()

	settings, err := h.service.Settings(ctx)
	if err != nil {
		if h.sessionLost(w, r, err) {
			return
		}
		log.Printf("load settings: %v", err)
		notify(w, notifyError, loc.Sprintf(errorKey(err)))
	}
	form := templates.SettingsForm(h.buildSettingsView(settings), err != nil, loc)
	h.renderPage(w, r, h.pageContext(lang, loc, r), "title.settings", templates.SettingsPage(form, loc))
}
