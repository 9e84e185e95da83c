package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/louisbranch/paydesk/internal/services/admin/backend/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// timeFormat keeps a fixed fraction width so stored values sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the local backend.
type Store struct {
	sqlDB   *sql.DB
	changes *broadcaster
	now     func() time.Time
}

// Open opens a local backend database at path and applies its schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("backend path is required")
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
	return &Store{
		sqlDB:   sqlDB,
		changes: newBroadcaster(),
		now:     time.Now,
	}, nil
}

// Close ends every open subscription and closes the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	s.changes.closeAll()
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("backend is not configured")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func unauthorized(message string) *backend.Error {
	return &backend.Error{Status: http.StatusUnauthorized, Code: "invalid_token", Message: message}
}

var _ backend.Backend = (*Store)(nil)
