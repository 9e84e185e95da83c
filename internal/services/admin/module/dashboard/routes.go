package dashboard

import (
	"net/http"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// Service defines dashboard route handlers consumed by this route module.
type Service interface {
	HandleDashboard(w http.ResponseWriter, r *http.Request)
	HandleStatsPanel(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires dashboard routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Root, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != routepath.Root {
			http.NotFound(w, r)
			return
		}
		service.HandleDashboard(w, r)
	})
	mux.HandleFunc(routepath.PanelStats, service.HandleStatsPanel)
}
