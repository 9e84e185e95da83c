package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/services/admin/backend"
)

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   int64        `json:"expires_at"`
	User        backend.User `json:"user"`
}

// SignIn exchanges an email and password for an access token.
func (c *Client) SignIn(ctx context.Context, email, password string) (backend.Session, error) {
	params := url.Values{"grant_type": []string{"password"}}
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/v1/token", params), "", body, nil, &resp); err != nil {
		return backend.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if resp.AccessToken == "" {
		return backend.Session{}, fmt.Errorf("sign in: response has no access token")
	}
	session := backend.Session{AccessToken: resp.AccessToken, User: resp.User}
	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
	case resp.ExpiresIn > 0:
		session.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}
	return session, nil
}

// User resolves the account behind an access token.
func (c *Client) User(ctx context.Context, accessToken string) (backend.User, error) {
	var user backend.User
	if err := c.do(ctx, http.MethodGet, c.endpoint("/auth/v1/user", nil), accessToken, nil, nil, &user); err != nil {
		return backend.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// SignOut revokes an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/v1/logout", nil), accessToken, nil, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
