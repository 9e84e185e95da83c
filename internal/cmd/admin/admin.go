// Package admin parses admin dashboard command flags and runs the server.
package admin

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	entrypoint "github.com/louisbranch/paydesk/internal/platform/cmd"
	adminserver "github.com/louisbranch/paydesk/internal/services/admin"
)

// Config holds admin command configuration.
type Config struct {
	HTTPAddr      string `env:"PAYDESK_ADMIN_ADDR" envDefault:":8082"`
	DBPath        string `env:"PAYDESK_ADMIN_DB_PATH" envDefault:"data/admin.db"`
	Backend       string `env:"PAYDESK_BACKEND" envDefault:"local"`
	BackendURL    string `env:"PAYDESK_BACKEND_URL"`
	BackendAPIKey string `env:"PAYDESK_BACKEND_API_KEY"`
	BackendDBPath string `env:"PAYDESK_BACKEND_DB_PATH" envDefault:"data/backend.db"`
	SessionSecret string `env:"PAYDESK_SESSION_SECRET"`
	Currency      string `env:"PAYDESK_CURRENCY" envDefault:"KSh"`
	Timezone      string `env:"PAYDESK_TIMEZONE" envDefault:"Africa/Nairobi"`
	SecureCookies bool   `env:"PAYDESK_SECURE_COOKIES"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Admin session SQLite database path")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Backend driver (rest or local)")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Hosted backend base URL")
	fs.StringVar(&cfg.BackendDBPath, "backend-db-path", cfg.BackendDBPath, "Local backend SQLite database path")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "Currency label for amounts")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone for dates and the daily cutoff")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Mark session cookies Secure")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admin dashboard and serves until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	location, err := loadLocation(cfg.Timezone)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		server, err := adminserver.NewServer(ctx, adminserver.Config{
			HTTPAddr:      cfg.HTTPAddr,
			DBPath:        cfg.DBPath,
			Backend:       cfg.Backend,
			BackendURL:    cfg.BackendURL,
			BackendAPIKey: cfg.BackendAPIKey,
			BackendDBPath: cfg.BackendDBPath,
			SessionSecret: cfg.SessionSecret,
			Currency:      cfg.Currency,
			Location:      location,
			SecureCookies: cfg.SecureCookies,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return location, nil
}
