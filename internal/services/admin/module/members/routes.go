package members

import (
	"net/http"
	"strings"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
	sharedroute "github.com/louisbranch/paydesk/internal/services/shared/route"
)

// Service defines member route handlers consumed by this route module.
type Service interface {
	HandleMembersPage(w http.ResponseWriter, r *http.Request)
	HandleMembersPanel(w http.ResponseWriter, r *http.Request)
	HandleSuspendMember(w http.ResponseWriter, r *http.Request, memberID string)
	HandleReactivateMember(w http.ResponseWriter, r *http.Request, memberID string)
}

// RegisterRoutes wires member routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Members, service.HandleMembersPage)
	mux.HandleFunc(routepath.PanelMembers, service.HandleMembersPanel)
	mux.HandleFunc(routepath.MembersPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleMemberPath(w, r, service)
	})
}

// HandleMemberPath parses member action subroutes and dispatches to service handlers.
func HandleMemberPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	if sharedroute.RedirectTrailingSlash(w, r) {
		return
	}

	parts := sharedroute.SplitPathParts(strings.TrimPrefix(r.URL.Path, routepath.MembersPrefix))
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	switch parts[1] {
	case "suspend":
		service.HandleSuspendMember(w, r, parts[0])
	case "reactivate":
		service.HandleReactivateMember(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
