package withdrawals

import (
	"net/http"
	"strings"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
	sharedroute "github.com/louisbranch/paydesk/internal/services/shared/route"
)

// Service defines withdrawal route handlers consumed by this route module.
type Service interface {
	HandleWithdrawalsPage(w http.ResponseWriter, r *http.Request)
	HandleWithdrawalsPanel(w http.ResponseWriter, r *http.Request)
	HandleApproveWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalID string)
	HandleRejectWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalID string)
}

// RegisterRoutes wires withdrawal routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Withdrawals, service.HandleWithdrawalsPage)
	mux.HandleFunc(routepath.PanelWithdrawals, service.HandleWithdrawalsPanel)
	mux.HandleFunc(routepath.WithdrawalsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleWithdrawalPath(w, r, service)
	})
}

// HandleWithdrawalPath parses withdrawal action subroutes and dispatches to service handlers.
func HandleWithdrawalPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedroute.RedirectTrailingSlash(w, r) {
		return
	}

	parts := sharedroute.SplitPathParts(strings.TrimPrefix(r.URL.Path, routepath.WithdrawalsPrefix))
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	switch parts[1] {
	case "approve":
		service.HandleApproveWithdrawal(w, r, parts[0])
	case "reject":
		service.HandleRejectWithdrawal(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
