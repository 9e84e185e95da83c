package admin

import (
	"context"
	"log"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/platform/timeouts"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"github.com/louisbranch/paydesk/internal/services/shared/htmx"
	"golang.org/x/text/message"
)

// notifyEvent is the client event app.js renders as a toast.
const notifyEvent = "notify"

const (
	notifySuccess = "success"
	notifyWarning = "warning"
	notifyError   = "error"
	notifyInfo    = "info"
)

type notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func notify(w http.ResponseWriter, level, text string) {
	htmx.AddTrigger(w, notifyEvent, notification{Level: level, Message: text})
}

// refreshPanels asks the browser to reload panels other than the one being
// swapped by the current response.
func refreshPanels(w http.ResponseWriter, panels ...templates.Panel) {
	for _, panel := range panels {
		htmx.AddTrigger(w, "live:"+string(panel), nil)
	}
}

// errorKey maps an application error to its user-facing message key.
func errorKey(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return "error.not_found"
	case apperrors.CodeNotPending:
		return "error.not_pending"
	case apperrors.CodeInvalidInput:
		return "error.invalid_input"
	case apperrors.CodeBackendUnavailable:
		return "error.unavailable"
	case apperrors.CodeSessionExpired:
		return "error.session_expired"
	case apperrors.CodeAccessDenied:
		return "error.forbidden"
	default:
		return "error.generic"
	}
}

func backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.BackendRequest)
}

// sessionLost sends the browser back to the login form when the backend no
// longer accepts the admin's token.
func (h *Handler) sessionLost(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apperrors.HasCode(err, apperrors.CodeSessionExpired) {
		return false
	}
	h.redirectToLogin(w, r)
	return true
}

// panelLoader fetches one panel. On error it still returns the component to
// render, carrying the error placeholder.
type panelLoader func(ctx context.Context, loc *message.Printer) (templ.Component, error)

// servePanel handles a panel fragment request.
func (h *Handler) servePanel(w http.ResponseWriter, r *http.Request, panel templates.Panel, load panelLoader) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc, _ := h.localizer(w, r)
	h.writePanel(w, r, panel, load, loc, true)
}

// writePanel loads and renders panel. Failures are logged; notifyFailure adds
// an error toast, which mutation responses skip so their own outcome message
// is kept.
func (h *Handler) writePanel(w http.ResponseWriter, r *http.Request, panel templates.Panel, load panelLoader, loc *message.Printer, notifyFailure bool) {
	ctx, cancel := backendContext(r.Context())
	defer cancel()

	component, err := load(ctx, loc)
	if err != nil {
		if h.sessionLost(w, r, err) {
			return
		}
		log.Printf("load %s panel: %v", panel, err)
		if notifyFailure {
			notify(w, notifyError, loc.Sprintf(errorKey(err)))
		}
	}
	templ.Handler(component).ServeHTTP(w, r)
}

// beginMutation checks method, origin and form for a write request.
func (h *Handler) beginMutation(w http.ResponseWriter, r *http.Request) (*message.Printer, bool) {
	if !requireMethod(w, r, http.MethodPost) {
		return nil, false
	}
	loc, _ := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return nil, false
	}
	if err := r.ParseForm(); err != nil {
		h.mutationFailed(w, r, "parse form", apperrors.Wrap(apperrors.CodeInvalidInput, "parse form", err), loc)
		return nil, false
	}
	return loc, true
}

// mutationFailed leaves the page untouched: 204 plus an error toast.
func (h *Handler) mutationFailed(w http.ResponseWriter, r *http.Request, op string, err error, loc *message.Printer) {
	if h.sessionLost(w, r, err) {
		return
	}
	if status := apperrors.GetCode(err).HTTPStatus(); status >= http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
	}
	notify(w, notifyError, loc.Sprintf(errorKey(err)))
	w.WriteHeader(http.StatusNoContent)
}

// renderPage writes a full document, or just the body for htmx navigation.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page templates.PageContext, titleKey string, body templ.Component) {
	htmx.RenderPage(w, r, body, templates.Layout(page, titleKey, body), htmx.TitleTag(templates.PageTitle(page.Loc, titleKey)))
}
