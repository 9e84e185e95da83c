package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/paydesk/internal/services/admin/storage"
	"github.com/louisbranch/paydesk/internal/services/admin/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// timeFormat keeps a fixed fraction width so stored values sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutSession inserts or replaces a session record.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if session.LoginAt.IsZero() {
		session.LoginAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO admin_sessions (session_id, user_id, email, access_token, login_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (session_id) DO UPDATE SET
    user_id = excluded.user_id,
    email = excluded.email,
    access_token = excluded.access_token,
    login_at = excluded.login_at`,
		session.ID,
		session.UserID,
		session.Email,
		session.AccessToken,
		session.LoginAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession loads a session record by id.
func (s *Store) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	var (
		session storage.Session
		loginAt string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT session_id, user_id, email, access_token, login_at FROM admin_sessions WHERE session_id = ?",
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.Email, &session.AccessToken, &loginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.LoginAt, err = time.Parse(timeFormat, loginAt)
	if err != nil {
		return storage.Session{}, fmt.Errorf("parse session login_at: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session record. Removing a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM admin_sessions WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsBefore removes sessions that logged in before cutoff.
func (s *Store) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM admin_sessions WHERE login_at < ?", cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

var _ storage.Store = (*Store)(nil)
