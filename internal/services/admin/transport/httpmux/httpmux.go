// Package httpmux mounts shared admin surfaces on the root mux.
package httpmux

import (
	"io/fs"
	"net/http"

	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
)

// MountStatic serves staticFS under the static prefix. wrap, when set, can
// adjust headers such as content type and caching.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS, wrap func(http.Handler) http.Handler) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	if wrap != nil {
		staticHandler = wrap(staticHandler)
	}
	rootMux.Handle(routepath.StaticPrefix, staticHandler)
}
