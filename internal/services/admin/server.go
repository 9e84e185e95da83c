package admin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/paydesk/internal/platform/timeouts"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/louisbranch/paydesk/internal/services/admin/backend/rest"
	backendsqlite "github.com/louisbranch/paydesk/internal/services/admin/backend/sqlite"
	"github.com/louisbranch/paydesk/internal/services/admin/live"
	"github.com/louisbranch/paydesk/internal/services/admin/service"
	"github.com/louisbranch/paydesk/internal/services/admin/session"
	adminsqlite "github.com/louisbranch/paydesk/internal/services/admin/storage/sqlite"
)

const (
	// BackendREST talks to the hosted backend over HTTP.
	BackendREST = "rest"
	// BackendLocal serves the same tables from a local SQLite file.
	BackendLocal = "local"
)

// sessionPruneInterval sets how often expired session records are removed.
const sessionPruneInterval = time.Hour

// Config defines the inputs for the admin dashboard process.
type Config struct {
	HTTPAddr string
	// DBPath is the admin session store.
	DBPath        string
	Backend       string
	BackendURL    string
	BackendAPIKey string
	// BackendDBPath is used when Backend is BackendLocal.
	BackendDBPath string
	// SessionSecret signs session cookies. When empty a random secret is
	// generated and sessions do not survive a restart.
	SessionSecret string
	Currency      string
	Location      *time.Location
	SecureCookies bool
}

// Server hosts the admin dashboard.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	adminStore *adminsqlite.Store
	backend    io.Closer
	sessions   *session.Manager
	hub        *live.Hub
	closeOnce  sync.Once
}

// NewServer opens the stores, connects the backend and builds the handler.
// ctx parents the live change feed for the lifetime of the server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	srv := &Server{httpAddr: httpAddr}
	store, err := openAdminStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	srv.adminStore = store

	driver, closer, err := openBackend(cfg)
	if err != nil {
		srv.Close()
		return nil, err
	}
	srv.backend = closer

	secret, err := sessionSecret(cfg.SessionSecret)
	if err != nil {
		srv.Close()
		return nil, err
	}
	sessions, err := session.NewManager(session.Config{
		Backend: driver,
		Store:   store,
		Secret:  secret,
	})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("create session manager: %w", err)
	}
	srv.sessions = sessions

	svc, err := service.New(service.Config{Tables: driver, Location: cfg.Location})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("create dashboard service: %w", err)
	}
	srv.hub = live.NewHub(driver, live.Options{})

	handler, err := NewHandler(HandlerConfig{
		Service:       svc,
		Sessions:      sessions,
		Live:          srv.hub,
		Background:    ctx,
		Currency:      cfg.Currency,
		Location:      cfg.Location,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("create admin handler: %w", err)
	}
	srv.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return srv, nil
}

// ListenAndServe serves HTTP until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("admin server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go s.pruneSessions(pruneCtx, sessionPruneInterval)

	serveErr := make(chan error, 1)
	log.Printf("admin listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		s.hub.Close()
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the live feed and releases the stores.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.hub != nil {
			s.hub.Close()
		}
		if s.backend != nil {
			if err := s.backend.Close(); err != nil {
				log.Printf("close backend: %v", err)
			}
		}
		if s.adminStore != nil {
			if err := s.adminStore.Close(); err != nil {
				log.Printf("close admin store: %v", err)
			}
		}
	})
}

func (s *Server) pruneSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.Prune(ctx)
			if err != nil {
				log.Printf("prune admin sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("pruned %d expired admin sessions", n)
			}
		}
	}
}

func openAdminStore(path string) (*adminsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "admin.db")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	store, err := adminsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open admin sqlite store: %w", err)
	}
	return store, nil
}

// openBackend selects the backend driver. The closer releases it; the REST
// client holds nothing that needs closing.
func openBackend(cfg Config) (backend.Backend, io.Closer, error) {
	switch kind := strings.ToLower(strings.TrimSpace(cfg.Backend)); kind {
	case BackendREST:
		client, err := rest.New(rest.Config{BaseURL: cfg.BackendURL, APIKey: cfg.BackendAPIKey})
		if err != nil {
			return nil, nil, fmt.Errorf("create rest backend: %w", err)
		}
		return client, nil, nil
	case BackendLocal, "":
		path := strings.TrimSpace(cfg.BackendDBPath)
		if path == "" {
			path = filepath.Join("data", "backend.db")
		}
		if err := ensureDir(path); err != nil {
			return nil, nil, err
		}
		store, err := backendsqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open local backend: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	return nil
}

func sessionSecret(raw string) ([]byte, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		return []byte(raw), nil
	}
	log.Printf("session secret not set; generated one for this process")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, nil
}
