package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/requestctx"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/louisbranch/paydesk/internal/services/admin/i18n"
	dashboardmodule "github.com/louisbranch/paydesk/internal/services/admin/module/dashboard"
	membersmodule "github.com/louisbranch/paydesk/internal/services/admin/module/members"
	paymentsmodule "github.com/louisbranch/paydesk/internal/services/admin/module/payments"
	settingsmodule "github.com/louisbranch/paydesk/internal/services/admin/module/settings"
	withdrawalsmodule "github.com/louisbranch/paydesk/internal/services/admin/module/withdrawals"
	routepath "github.com/louisbranch/paydesk/internal/services/admin/routepath"
	"github.com/louisbranch/paydesk/internal/services/admin/service"
	"github.com/louisbranch/paydesk/internal/services/admin/session"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"github.com/louisbranch/paydesk/internal/services/admin/transport/httpmux"
	"golang.org/x/text/message"
)

const defaultCurrency = "KSh"

// DashboardService reads panels and applies review decisions.
type DashboardService interface {
	RecentPayments(ctx context.Context) ([]domain.Payment, error)
	PendingPayments(ctx context.Context) ([]domain.Payment, error)
	ApprovedPayments(ctx context.Context) ([]domain.Payment, error)
	PendingWithdrawals(ctx context.Context) ([]domain.Withdrawal, error)
	Members(ctx context.Context) ([]domain.Member, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Overview(ctx context.Context) (service.Overview, error)
	Settings(ctx context.Context) (domain.Settings, error)

	ApprovePayment(ctx context.Context, paymentID int64, userID string) error
	RejectPayment(ctx context.Context, paymentID int64, reason string) error
	ApproveAllPending(ctx context.Context) (service.BulkResult, error)
	ApproveWithdrawal(ctx context.Context, withdrawalID int64) error
	RejectWithdrawal(ctx context.Context, withdrawalID int64, reason string) error
	SuspendMember(ctx context.Context, memberID string) error
	ReactivateMember(ctx context.Context, memberID string) error
	SaveSettings(ctx context.Context, input service.SettingsInput) (domain.Settings, error)
}

// SessionGate signs admins in and recognises their cookies.
type SessionGate interface {
	Login(ctx context.Context, email, password string) (session.Issued, error)
	Authenticate(ctx context.Context, token string) (requestctx.Admin, error)
	Logout(ctx context.Context, admin requestctx.Admin) error
}

// LiveFeed is the realtime hub as the handlers see it.
type LiveFeed interface {
	Start(ctx context.Context, accessToken string)
	Running() bool
	Handler() http.Handler
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Service  DashboardService
	Sessions SessionGate
	Live     LiveFeed
	// Background parents work that outlives a request, such as the live
	// change feed started at sign-in.
	Background context.Context
	Currency   string
	Location   *time.Location
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Handler routes admin dashboard requests.
type Handler struct {
	service       DashboardService
	sessions      SessionGate
	live          LiveFeed
	background    context.Context
	currency      string
	location      *time.Location
	secureCookies bool
}

// NewHandler builds the HTTP handler for the admin dashboard.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	return h.routes(), nil
}

func newHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Service == nil {
		return nil, errors.New("dashboard service is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session gate is required")
	}
	if cfg.Background == nil {
		cfg.Background = context.Background()
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = defaultCurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Handler{
		service:       cfg.Service,
		sessions:      cfg.Sessions,
		live:          cfg.Live,
		background:    cfg.Background,
		currency:      strings.TrimSpace(cfg.Currency),
		location:      cfg.Location,
		secureCookies: cfg.SecureCookies,
	}, nil
}

// routes wires the HTTP routes for the admin handler.
func (h *Handler) routes() http.Handler {
	mux := http.NewServeMux()
	httpmux.MountStatic(mux, staticAssets(), withStaticCache)
	mux.HandleFunc(routepath.Up, handleUp)
	mux.HandleFunc(routepath.Login, h.handleLogin)
	mux.HandleFunc(routepath.Logout, h.handleLogout)
	mux.HandleFunc(routepath.Live, h.handleLive)
	dashboardmodule.RegisterRoutes(mux, h)
	paymentsmodule.RegisterRoutes(mux, h)
	withdrawalsmodule.RegisterRoutes(mux, h)
	membersmodule.RegisterRoutes(mux, h)
	settingsmodule.RegisterRoutes(mux, h)
	return h.requireAuth(mux)
}

func handleUp(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) pageContext(lang string, loc *message.Printer, r *http.Request) templates.PageContext {
	admin, _ := requestctx.AdminFromContext(r.Context())
	return templates.PageContext{
		Lang:        lang,
		Loc:         loc,
		CurrentPath: r.URL.Path,
		AdminEmail:  admin.Email,
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func requireSameOrigin(w http.ResponseWriter, r *http.Request, loc *message.Printer) bool {
	if r == nil {
		http.Error(w, loc.Sprintf("error.forbidden"), http.StatusForbidden)
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		if !sameOrigin(origin, r) {
			http.Error(w, loc.Sprintf("error.forbidden"), http.StatusForbidden)
			return false
		}
		return true
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		if !sameOrigin(referer, r) {
			http.Error(w, loc.Sprintf("error.forbidden"), http.StatusForbidden)
			return false
		}
		return true
	}
	http.Error(w, loc.Sprintf("error.forbidden"), http.StatusForbidden)
	return false
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	if !strings.EqualFold(parsed.Host, r.Host) {
		return false
	}
	if parsed.Scheme != "" {
		return strings.EqualFold(parsed.Scheme, requestScheme(r))
	}
	return true
}

func requestScheme(r *http.Request) string {
	if r == nil {
		return "http"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		parts := strings.Split(proto, ",")
		return strings.ToLower(strings.TrimSpace(parts[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
