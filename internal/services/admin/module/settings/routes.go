package settings

import (
	"net/http"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// Service defines settings route handlers consumed by this route module.
type Service interface {
	HandleSettingsPage(w http.ResponseWriter, r *http.Request)
	HandleSaveSettings(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires settings routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Settings, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			service.HandleSettingsPage(w, r)
		case http.MethodPost:
			service.HandleSaveSettings(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}
