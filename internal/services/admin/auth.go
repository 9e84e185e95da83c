package admin

import (
	"io/fs"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/platform/requestctx"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
	"github.com/louisbranch/paydesk/internal/services/admin/session"
	"github.com/louisbranch/paydesk/internal/services/admin/static"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"github.com/louisbranch/paydesk/internal/services/shared/htmx"
	"golang.org/x/text/message"
)

// requireAuth admits requests that carry a valid admin session cookie and
// attaches the admin and their backend token to the request context. Static
// assets, the login form and the health check stay public.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAuthExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		admin, ok := h.authenticate(r)
		if !ok {
			if r.URL.Path == routepath.Live {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			h.redirectToLogin(w, r)
			return
		}

		ctx := requestctx.WithAdmin(r.Context(), admin)
		ctx = backend.WithAccessToken(ctx, admin.AccessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAuthExempt returns true for paths that should bypass authentication.
func isAuthExempt(path string) bool {
	switch {
	case strings.HasPrefix(path, routepath.StaticPrefix):
		return true
	case path == routepath.Login, path == routepath.Up:
		return true
	default:
		return false
	}
}

func (h *Handler) authenticate(r *http.Request) (requestctx.Admin, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return requestctx.Admin{}, false
	}
	admin, err := h.sessions.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeSessionExpired) {
			log.Printf("authenticate admin session: %v", err)
		}
		return requestctx.Admin{}, false
	}
	return admin, true
}

// redirectToLogin clears the session cookie and navigates the whole page to
// the login form, including from inside an htmx fragment request.
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ClearCookie(h.secureCookies))
	htmx.Redirect(w, r, routepath.Login)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead, http.MethodPost) {
		return
	}
	loc, lang := h.localizer(w, r)

	if r.Method != http.MethodPost {
		if _, ok := h.authenticate(r); ok {
			http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
			return
		}
		h.renderLogin(w, r, lang, loc, templates.LoginView{}, http.StatusOK)
		return
	}

	if !requireSameOrigin(w, r, loc) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, lang, loc, templates.LoginView{Error: loc.Sprintf("login.error.missing")}, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLogin(w, r, lang, loc, templates.LoginView{Email: email, Error: loc.Sprintf("login.error.missing")}, http.StatusBadRequest)
		return
	}
	issued, err := h.sessions.Login(r.Context(), email, password)
	if err != nil {
		key, status := loginFailure(err)
		if status >= http.StatusInternalServerError {
			log.Printf("admin login: %v", err)
		}
		h.renderLogin(w, r, lang, loc, templates.LoginView{Email: email, Error: loc.Sprintf(key)}, status)
		return
	}

	http.SetCookie(w, session.Cookie(issued.Token, h.secureCookies))
	if h.live != nil {
		h.live.Start(h.background, issued.Session.AccessToken)
	}
	http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
}

func loginFailure(err error) (string, int) {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidCredentials:
		return "login.error.credentials", http.StatusUnauthorized
	case apperrors.CodeAccessDenied:
		return "login.error.denied", http.StatusForbidden
	default:
		return "login.error.unavailable", http.StatusServiceUnavailable
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, lang string, loc *message.Printer, view templates.LoginView, status int) {
	page := templates.PageContext{Lang: lang, Loc: loc, CurrentPath: routepath.Login}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := templates.Layout(page, "title.login", templates.LoginPage(view, loc)).Render(r.Context(), w); err != nil {
		log.Printf("render login page: %v", err)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	loc, _ := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	if admin, ok := requestctx.AdminFromContext(r.Context()); ok {
		if err := h.sessions.Logout(r.Context(), admin); err != nil {
			log.Printf("admin logout: %v", err)
		}
	}
	h.redirectToLogin(w, r)
}

// handleLive upgrades to the live websocket. The first browser to connect
// after the feed stopped restarts it with that admin's token.
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.live == nil {
		http.Error(w, "live updates are not configured", http.StatusServiceUnavailable)
		return
	}
	if admin, ok := requestctx.AdminFromContext(r.Context()); ok && !h.live.Running() {
		h.live.Start(h.background, admin.AccessToken)
	}
	h.live.Handler().ServeHTTP(w, r)
}

func staticAssets() fs.FS {
	return static.FS
}

func withStaticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch path := strings.ToLower(r.URL.Path); {
		case strings.HasSuffix(path, ".css"):
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case strings.HasSuffix(path, ".js"):
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		}
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}
