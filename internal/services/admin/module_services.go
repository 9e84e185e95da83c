package admin

import (
	"net/http"
)

// Exported entry points for the route modules under module/.

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r)
}

func (h *Handler) HandleStatsPanel(w http.ResponseWriter, r *http.Request) {
	h.handleStatsPanel(w, r)
}

func (h *Handler) HandlePaymentsPage(w http.ResponseWriter, r *http.Request) {
	h.handlePaymentsPage(w, r)
}

func (h *Handler) HandleRecentPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.handleRecentPaymentsPanel(w, r)
}

func (h *Handler) HandlePendingPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.handlePendingPaymentsPanel(w, r)
}

func (h *Handler) HandleApprovedPaymentsPanel(w http.ResponseWriter, r *http.Request) {
	h.handleApprovedPaymentsPanel(w, r)
}

func (h *Handler) HandleApproveAllPayments(w http.ResponseWriter, r *http.Request) {
	h.handleApproveAllPayments(w, r)
}

func (h *Handler) HandleApprovePayment(w http.ResponseWriter, r *http.Request, paymentID string) {
	h.handleApprovePayment(w, r, paymentID)
}

func (h *Handler) HandleRejectPayment(w http.ResponseWriter, r *http.Request, paymentID string) {
	h.handleRejectPayment(w, r, paymentID)
}

func (h *Handler) HandleWithdrawalsPage(w http.ResponseWriter, r *http.Request) {
	h.handleWithdrawalsPage(w, r)
}

func (h *Handler) HandleWithdrawalsPanel(w http.ResponseWriter, r *http.Request) {
	h.handleWithdrawalsPanel(w, r)
}

func (h *Handler) HandleApproveWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalID string) {
	h.handleApproveWithdrawal(w, r, withdrawalID)
}

func (h *Handler) HandleRejectWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalID string) {
	h.handleRejectWithdrawal(w, r, withdrawalID)
}

func (h *Handler) HandleMembersPage(w http.ResponseWriter, r *http.Request) {
	h.handleMembersPage(w, r)
}

func (h *Handler) HandleMembersPanel(w http.ResponseWriter, r *http.Request) {
	h.handleMembersPanel(w, r)
}

func (h *Handler) HandleSuspendMember(w http.ResponseWriter, r *http.Request, memberID string) {
	h.handleSuspendMember(w, r, memberID)
}

func (h *Handler) HandleReactivateMember(w http.ResponseWriter, r *http.Request, memberID string) {
	h.handleReactivateMember(w, r, memberID)
}

func (h *Handler) HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	h.handleSettingsPage(w, r)
}

func (h *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	h.handleSaveSettings(w, r)
}
