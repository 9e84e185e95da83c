package payments

import (
	"net/http"
	"strings"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
	sharedroute "github.com/louisbranch/paydesk/internal/services/shared/route"
)

// Service defines payment route handlers consumed by this route module.
type Service interface {
	HandlePaymentsPage(w http.ResponseWriter, r *http.Request)
	HandleRecentPaymentsPanel(w http.ResponseWriter, r *http.Request)
	HandlePendingPaymentsPanel(w http.ResponseWriter, r *http.Request)
	HandleApprovedPaymentsPanel(w http.ResponseWriter, r *http.Request)
	HandleApproveAllPayments(w http.ResponseWriter, r *http.Request)
	HandleApprovePayment(w http.ResponseWriter, r *http.Request, paymentID string)
	HandleRejectPayment(w http.ResponseWriter, r *http.Request, paymentID string)
}

// RegisterRoutes wires payment routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Payments, service.HandlePaymentsPage)
	mux.HandleFunc(routepath.PanelRecentPayments, service.HandleRecentPaymentsPanel)
	mux.HandleFunc(routepath.PanelPendingPayments, service.HandlePendingPaymentsPanel)
	mux.HandleFunc(routepath.PanelApprovedPayments, service.HandleApprovedPaymentsPanel)
	mux.HandleFunc(routepath.PaymentsApproveAll, service.HandleApproveAllPayments)
	mux.HandleFunc(routepath.PaymentsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandlePaymentPath(w, r, service)
	})
}

// HandlePaymentPath parses payment action subroutes and dispatches to service handlers.
func HandlePaymentPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedroute.RedirectTrailingSlash(w, r) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, routepath.PaymentsPrefix)
	parts := sharedroute.SplitPathParts(path)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	switch parts[1] {
	case "approve":
		service.HandleApprovePayment(w, r, parts[0])
	case "reject":
		service.HandleRejectPayment(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
