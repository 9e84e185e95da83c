package admin

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/services/admin/service"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"golang.org/x/text/message"
)

// Every successful mutation re-renders the panel the form targets and asks
// the browser to reload the panels the change also touches.

func (h *Handler) handleApprovePayment(w http.ResponseWriter, r *http.Request, rawID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	paymentID, err := service.ParseID(rawID)
	if err != nil {
		h.mutationFailed(w, r, "approve payment", err, loc)
		return
	}
	ctx, cancel := backendContext(r.Context())
	err = h.service.ApprovePayment(ctx, paymentID, r.PostFormValue("user_id"))
	cancel()
	switch {
	case err == nil:
		notify(w, notifySuccess, loc.Sprintf("notify.payment_approved"))
	case apperrors.HasCode(err, apperrors.CodePartialFailure):
		log.Printf("approve payment %d: %v", paymentID, err)
		notify(w, notifyWarning, loc.Sprintf("notify.payment_partial"))
	default:
		h.mutationFailed(w, r, "approve payment", err, loc)
		return
	}
	refreshPanels(w, templates.PanelStats, templates.PanelRecent, templates.PanelApproved)
	h.writePanel(w, r, templates.PanelPending, h.loadPendingPayments, loc, false)
}

func (h *Handler) handleRejectPayment(w http.ResponseWriter, r *http.Request, rawID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	paymentID, err := service.ParseID(rawID)
	if err != nil {
		h.mutationFailed(w, r, "reject payment", err, loc)
		return
	}
	ctx, cancel := backendContext(r.Context())
	err = h.service.RejectPayment(ctx, paymentID, r.PostFormValue("reason"))
	cancel()
	if err != nil {
		h.mutationFailed(w, r, "reject payment", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.payment_rejected"))
	refreshPanels(w, templates.PanelStats, templates.PanelRecent)
	h.writePanel(w, r, templates.PanelPending, h.loadPendingPayments, loc, false)
}

// handleApproveAllPayments runs the bulk approval. It is bounded by the
// request context rather than a single backend call timeout, since it issues
// two writes per pending row.
func (h *Handler) handleApproveAllPayments(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	result, err := h.service.ApproveAllPending(r.Context())
	if err != nil {
		h.mutationFailed(w, r, "approve all payments", err, loc)
		return
	}
	if result.Err != nil && h.sessionLost(w, r, result.Err) {
		return
	}
	level, text := approveAllSummary(result, loc)
	if result.Err != nil {
		log.Printf("approve all payments: %v", result.Err)
	}
	notify(w, level, text)
	refreshPanels(w, templates.PanelStats, templates.PanelRecent, templates.PanelApproved)
	h.writePanel(w, r, templates.PanelPending, h.loadPendingPayments, loc, false)
}

func approveAllSummary(result service.BulkResult, loc *message.Printer) (string, string) {
	switch {
	case result.Err != nil && result.Approved == 0 && result.Failed == 0:
		return notifyError, loc.Sprintf(errorKey(result.Err))
	case result.Approved == 0 && result.Failed == 0:
		return notifyInfo, loc.Sprintf("notify.approve_all_empty")
	case result.Err != nil:
		return notifyWarning, loc.Sprintf("notify.approve_all_partial", result.Approved, result.Failed)
	default:
		return notifySuccess, loc.Sprintf("notify.approve_all", result.Approved)
	}
}

func (h *Handler) handleApproveWithdrawal(w http.ResponseWriter, r *http.Request, rawID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	withdrawalID, err := service.ParseID(rawID)
	if err != nil {
		h.mutationFailed(w, r, "approve withdrawal", err, loc)
		return
	}
	ctx, cancel := backendContext(r.Context())
	err = h.service.ApproveWithdrawal(ctx, withdrawalID)
	cancel()
	if err != nil {
		h.mutationFailed(w, r, "approve withdrawal", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.withdrawal_approved"))
	refreshPanels(w, templates.PanelStats)
	h.writePanel(w, r, templates.PanelWithdrawals, h.loadWithdrawals, loc, false)
}

func (h *Handler) handleRejectWithdrawal(w http.ResponseWriter, r *http.Request, rawID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	withdrawalID, err := service.ParseID(rawID)
	if err != nil {
		h.mutationFailed(w, r, "reject withdrawal", err, loc)
		return
	}
	ctx, cancel := backendContext(r.Context())
	err = h.service.RejectWithdrawal(ctx, withdrawalID, r.PostFormValue("reason"))
	cancel()
	if err != nil {
		h.mutationFailed(w, r, "reject withdrawal", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.withdrawal_rejected"))
	refreshPanels(w, templates.PanelStats)
	h.writePanel(w, r, templates.PanelWithdrawals, h.loadWithdrawals, loc, false)
}

func (h *Handler) handleSuspendMember(w http.ResponseWriter, r *http.Request, memberID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	ctx, cancel := backendContext(r.Context())
	err := h.service.SuspendMember(ctx, memberID)
	cancel()
	if err != nil {
		h.mutationFailed(w, r, "suspend member", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.member_suspended"))
	refreshPanels(w, templates.PanelStats)
	h.writePanel(w, r, templates.PanelMembers, h.loadMembers, loc, false)
}

func (h *Handler) handleReactivateMember(w http.ResponseWriter, r *http.Request, memberID string) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	ctx, cancel := backendContext(r.Context())
	err := h.service.ReactivateMember(ctx, memberID)
	cancel()
	if err != nil {
		h.mutationFailed(w, r, "reactivate member", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.member_reactivated"))
	refreshPanels(w, templates.PanelStats)
	h.writePanel(w, r, templates.PanelMembers, h.loadMembers, loc, false)
}

// handleSaveSettings stores the settings form and swaps in the saved values.
func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.beginMutation(w, r)
	if !ok {
		return
	}
	ctx, cancel := backendContext(r.Context())
	defer cancel()

	saved, err := h.service.SaveSettings(ctx, service.SettingsInput{
		Price:         r.PostFormValue("price"),
		PaymentNumber: r.PostFormValue("payment_number"),
		PaymentName:   r.PostFormValue("payment_name"),
	})
	if err != nil {
		h.mutationFailed(w, r, "save settings", err, loc)
		return
	}
	notify(w, notifySuccess, loc.Sprintf("notify.settings_saved"))
	templ.Handler(templates.SettingsForm(h.buildSettingsView(saved), false, loc)).ServeHTTP(w, r)
}
