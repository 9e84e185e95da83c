// Package backend defines the contract the dashboard uses to reach the hosted
// table, auth and change-feed service. Drivers live in subpackages.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// User is an authenticated backend account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a password sign-in.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Auth signs admins in and out.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	User(ctx context.Context, accessToken string) (User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Tables reads and writes rows. Select decodes matching rows into dest, which
// must be a pointer to a slice of JSON-tagged structs. Update returns the
// number of rows it changed.
type Tables interface {
	Select(ctx context.Context, query Query, dest any) error
	Update(ctx context.Context, table string, filters []Filter, values map[string]any) (int, error)
	Upsert(ctx context.Context, table string, onConflict string, values map[string]any) error
}

// ChangeEvent reports a row change on a watched table.
type ChangeEvent struct {
	Table string `json:"table"`
	Event string `json:"event"`
}

// Change event kinds.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Subscription is a live change feed. Events is closed when the feed ends,
// either through Close or because the connection dropped.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}

// Changes opens change feeds.
type Changes interface {
	Subscribe(ctx context.Context, tables ...string) (Subscription, error)
}

// Backend is everything the dashboard needs from the hosted service.
type Backend interface {
	Auth
	Tables
	Changes
}

// Error is a non-success response from the backend.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		code = http.StatusText(e.Status)
	}
	if e.Message == "" {
		return fmt.Sprintf("backend %d %s", e.Status, code)
	}
	return fmt.Sprintf("backend %d %s: %s", e.Status, code, e.Message)
}

// Unauthorized reports whether the backend rejected the credentials or token.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token to ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the access token attached to ctx.
func AccessTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table or column name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
