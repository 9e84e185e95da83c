package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/id"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an access token issued by SignIn stays valid.
const TokenTTL = 24 * time.Hour

// hashCost is a variable so tests can lower it.
var hashCost = bcrypt.DefaultCost

var errInvalidCredentials = &backend.Error{
	Status:  http.StatusBadRequest,
	Code:    "invalid_grant",
	Message: "invalid login credentials",
}

// CreateUser registers an auth account and returns its id.
func (s *Store) CreateUser(ctx context.Context, email, password string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO auth_users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		userID, email, string(hash), formatTime(s.now()),
	); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return userID, nil
}

// SignIn verifies the password and issues an access token.
func (s *Store) SignIn(ctx context.Context, email, password string) (backend.Session, error) {
	if err := s.ready(ctx); err != nil {
		return backend.Session{}, err
	}
	var user backend.User
	var hash string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM auth_users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&user.ID, &user.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.Session{}, errInvalidCredentials
	}
	if err != nil {
		return backend.Session{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return backend.Session{}, errInvalidCredentials
	}

	token, err := id.NewID()
	if err != nil {
		return backend.Session{}, fmt.Errorf("generate token: %w", err)
	}
	expiresAt := s.now().Add(TokenTTL)
	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO auth_tokens (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, user.ID, formatTime(expiresAt),
	); err != nil {
		return backend.Session{}, fmt.Errorf("store token: %w", err)
	}
	return backend.Session{AccessToken: token, ExpiresAt: expiresAt.UTC(), User: user}, nil
}

// User resolves the account behind an access token.
func (s *Store) User(ctx context.Context, accessToken string) (backend.User, error) {
	if err := s.ready(ctx); err != nil {
		return backend.User{}, err
	}
	if strings.TrimSpace(accessToken) == "" {
		return backend.User{}, unauthorized("access token is required")
	}
	var user backend.User
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT u.id, u.email
FROM auth_tokens t
JOIN auth_users u ON u.id = t.user_id
WHERE t.token = ? AND t.expires_at > ?`,
		accessToken, formatTime(s.now()),
	).Scan(&user.ID, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.User{}, unauthorized("access token is invalid or expired")
	}
	if err != nil {
		return backend.User{}, fmt.Errorf("load token: %w", err)
	}
	return user, nil
}

// SignOut revokes an access token. Unknown tokens are ignored.
func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE token = ?", accessToken); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Store) authorize(ctx context.Context) error {
	_, err := s.User(ctx, backend.AccessTokenFromContext(ctx))
	return err
}
