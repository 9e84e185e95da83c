package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session record does not exist.
var ErrNotFound = errors.New("session not found")

// Session is a signed-in admin's server-side session record.
type Session struct {
	ID          string
	UserID      string
	Email       string
	AccessToken string
	LoginAt     time.Time
}

// SessionStore persists admin session records.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	// DeleteSessionsBefore removes sessions that logged in before cutoff and
	// reports how many were removed.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	SessionStore
	Close() error
}
