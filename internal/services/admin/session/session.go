// Package session owns the admin session gate: password sign-in checked
// against the admin role, a signed cookie naming a server-side session
// record, and the 24 hour validity window.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/platform/id"
	"github.com/louisbranch/paydesk/internal/platform/requestctx"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/louisbranch/paydesk/internal/services/admin/storage"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "paydesk_session"
	// MaxAge is how long a login stays valid.
	MaxAge = 24 * time.Hour

	issuer = "paydesk-admin"
)

// Valid reports whether a login at loginAt is still within MaxAge at now.
func Valid(loginAt, now time.Time) bool {
	if loginAt.IsZero() {
		return false
	}
	return now.Sub(loginAt) <= MaxAge
}

// Backend is the subset of the backend the session gate uses.
type Backend interface {
	backend.Auth
	backend.Tables
}

// Config configures a Manager.
type Config struct {
	Backend Backend
	Store   storage.SessionStore
	Secret  []byte
	Now     func() time.Time
}

// Manager signs admins in, recognises their cookies and signs them out.
type Manager struct {
	backend Backend
	store   storage.SessionStore
	secret  []byte
	now     func() time.Time
}

// Issued is a freshly created session and the cookie token naming it.
type Issued struct {
	Token   string
	Session storage.Session
}

type claims struct {
	jwt.RegisteredClaims
}

// NewManager validates cfg and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Backend == nil {
		return nil, errors.New("session backend is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if len(cfg.Secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		backend: cfg.Backend,
		store:   cfg.Store,
		secret:  cfg.Secret,
		now:     cfg.Now,
	}, nil
}

// Login signs in at the backend and admits only profiles with the admin role.
// Non-admins are signed out again before the error is returned.
func (m *Manager) Login(ctx context.Context, email, password string) (Issued, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Issued{}, apperrors.New(apperrors.CodeInvalidCredentials, "email and password are required")
	}

	signedIn, err := m.backend.SignIn(ctx, email, password)
	if err != nil {
		var backendErr *backend.Error
		if errors.As(err, &backendErr) && backendErr.Status >= 400 && backendErr.Status < 500 {
			return Issued{}, apperrors.Wrap(apperrors.CodeInvalidCredentials, "sign in rejected", err)
		}
		return Issued{}, apperrors.Wrap(apperrors.CodeBackendUnavailable, "sign in", err)
	}

	role, err := m.role(backend.WithAccessToken(ctx, signedIn.AccessToken), signedIn.User.ID)
	if err != nil {
		m.signOut(ctx, signedIn.AccessToken)
		return Issued{}, err
	}
	if role != domain.RoleAdmin {
		m.signOut(ctx, signedIn.AccessToken)
		return Issued{}, apperrors.WithMetadata(apperrors.CodeAccessDenied, "profile is not an admin", map[string]string{"Role": string(role)})
	}

	sessionID, err := id.NewID()
	if err != nil {
		return Issued{}, fmt.Errorf("generate session id: %w", err)
	}
	record := storage.Session{
		ID:          sessionID,
		UserID:      signedIn.User.ID,
		Email:       signedIn.User.Email,
		AccessToken: signedIn.AccessToken,
		LoginAt:     m.now().UTC(),
	}
	if record.Email == "" {
		record.Email = email
	}
	if err := m.store.PutSession(ctx, record); err != nil {
		return Issued{}, fmt.Errorf("store session: %w", err)
	}
	token, err := m.sign(record)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: token, Session: record}, nil
}

// Authenticate resolves a cookie token to the signed-in admin. Any failure
// is reported as CodeSessionExpired; expired records are removed.
func (m *Manager) Authenticate(ctx context.Context, token string) (requestctx.Admin, error) {
	sessionID, err := m.parse(token)
	if err != nil {
		return requestctx.Admin{}, err
	}
	record, err := m.store.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return requestctx.Admin{}, apperrors.New(apperrors.CodeSessionExpired, "session record not found")
	}
	if err != nil {
		return requestctx.Admin{}, fmt.Errorf("load session: %w", err)
	}
	if !Valid(record.LoginAt, m.now()) {
		if err := m.store.DeleteSession(ctx, record.ID); err != nil {
			log.Printf("delete expired session: %v", err)
		}
		return requestctx.Admin{}, apperrors.New(apperrors.CodeSessionExpired, "session is older than 24h")
	}
	return requestctx.Admin{
		SessionID:   record.ID,
		UserID:      record.UserID,
		Email:       record.Email,
		AccessToken: record.AccessToken,
	}, nil
}

// Logout signs out at the backend and removes the session record.
func (m *Manager) Logout(ctx context.Context, admin requestctx.Admin) error {
	if admin.AccessToken != "" {
		m.signOut(ctx, admin.AccessToken)
	}
	if admin.SessionID == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, admin.SessionID)
}

// Prune removes session records past MaxAge.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	return m.store.DeleteSessionsBefore(ctx, m.now().Add(-MaxAge))
}

// Cookie builds the session cookie for token.
func Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) role(ctx context.Context, userID string) (domain.Role, error) {
	var profiles []domain.Member
	err := m.backend.Select(ctx, backend.Query{
		Table:   domain.TableProfiles,
		Columns: []string{"id", "role"},
		Filters: []backend.Filter{backend.Eq("id", userID)},
		Limit:   1,
	}, &profiles)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeBackendUnavailable, "load admin profile", err)
	}
	if len(profiles) == 0 {
		return "", apperrors.New(apperrors.CodeAccessDenied, "profile not found")
	}
	return profiles[0].Role, nil
}

func (m *Manager) signOut(ctx context.Context, accessToken string) {
	if err := m.backend.SignOut(ctx, accessToken); err != nil {
		log.Printf("backend sign out: %v", err)
	}
}

func (m *Manager) sign(record storage.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   record.UserID,
			ID:        record.ID,
			IssuedAt:  jwt.NewNumericDate(record.LoginAt),
			ExpiresAt: jwt.NewNumericDate(record.LoginAt.Add(MaxAge)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.New(apperrors.CodeSessionExpired, "session cookie is missing")
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionExpired, "session token is invalid", err)
	}
	if parsed.Issuer != issuer || parsed.ID == "" {
		return "", apperrors.New(apperrors.CodeSessionExpired, "session token claims are invalid")
	}
	if parsed.IssuedAt == nil || !Valid(parsed.IssuedAt.Time, m.now()) {
		return "", apperrors.New(apperrors.CodeSessionExpired, "session token is older than 24h")
	}
	return parsed.ID, nil
}
