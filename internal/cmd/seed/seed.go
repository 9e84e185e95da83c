// Package seed parses seed command flags and fills a local backend database
// with an admin account and demo records.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/paydesk/internal/platform/cmd"
	"github.com/louisbranch/paydesk/internal/platform/id"
	backendsqlite "github.com/louisbranch/paydesk/internal/services/admin/backend/sqlite"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/shopspring/decimal"
)

// Config holds seed command configuration.
type Config struct {
	DBPath        string `env:"PAYDESK_BACKEND_DB_PATH" envDefault:"data/backend.db"`
	AdminEmail    string `env:"PAYDESK_SEED_ADMIN_EMAIL" envDefault:"admin@paydesk.local"`
	AdminPassword string `env:"PAYDESK_SEED_ADMIN_PASSWORD"`
	AdminName     string `env:"PAYDESK_SEED_ADMIN_NAME" envDefault:"Paydesk Admin"`
	Demo          bool   `env:"PAYDESK_SEED_DEMO" envDefault:"true"`
	Members       int    `env:"PAYDESK_SEED_MEMBERS" envDefault:"12"`
	Seed          int64
	Verbose       bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Local backend SQLite database path")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email of the admin account to create")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "Password of the admin account to create")
	fs.StringVar(&cfg.AdminName, "admin-name", cfg.AdminName, "Display name of the admin account")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "Insert demo members, payments and withdrawals")
	fs.IntVar(&cfg.Members, "members", cfg.Members, "Number of demo members to generate")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("db path is required")
	}
	if strings.TrimSpace(cfg.AdminEmail) == "" {
		return errors.New("admin email is required")
	}
	if cfg.AdminPassword == "" {
		return errors.New("admin password is required (-admin-password or PAYDESK_SEED_ADMIN_PASSWORD)")
	}
	if cfg.Members < 0 {
		return errors.New("-members must be >= 0")
	}
	return nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := validate(cfg); err != nil {
		return err
	}
	if dir := filepath.Dir(filepath.Clean(cfg.DBPath)); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := backendsqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(out, "Warning: close backend: %v\n", err)
		}
	}()

	s := seeder{
		store:   store,
		out:     out,
		verbose: cfg.Verbose,
		now:     time.Now().UTC(),
		rng:     rand.New(rand.NewSource(resolveSeed(cfg.Seed))),
	}
	adminID, err := s.admin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created admin %s (%s)\n", cfg.AdminEmail, adminID)
	if err := s.settings(ctx, cfg.AdminName); err != nil {
		return err
	}
	if !cfg.Demo {
		return nil
	}
	report, err := s.demo(ctx, cfg.Members)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d members, %d payments, %d withdrawals\n", report.Members, report.Payments, report.Withdrawals)
	return nil
}

func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// inserter is the trusted write path of the local backend.
type inserter interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	Insert(ctx context.Context, table string, values map[string]any) (int64, error)
}

type seeder struct {
	store   inserter
	out     io.Writer
	verbose bool
	now     time.Time
	rng     *rand.Rand
}

type demoReport struct {
	Members     int
	Payments    int
	Withdrawals int
}

func (s seeder) logf(format string, args ...any) {
	if s.verbose {
		fmt.Fprintf(s.out, format+"\n", args...)
	}
}

func (s seeder) admin(ctx context.Context, email, password, name string) (string, error) {
	userID, err := s.store.CreateUser(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("create admin user: %w", err)
	}
	if _, err := s.store.Insert(ctx, "profiles", map[string]any{
		"id":         userID,
		"full_name":  name,
		"username":   usernameFor(email),
		"email":      strings.ToLower(strings.TrimSpace(email)),
		"role":       string(domain.RoleAdmin),
		"verified":   true,
		"status":     string(domain.MemberActive),
		"created_at": s.now,
	}); err != nil {
		return "", fmt.Errorf("create admin profile: %w", err)
	}
	return userID, nil
}

func (s seeder) settings(ctx context.Context, paymentName string) error {
	if _, err := s.store.Insert(ctx, "settings", map[string]any{
		"id":             1,
		"key":            "payment",
		"price":          decimal.NewFromInt(500),
		"payment_number": "0700 000 000",
		"payment_name":   paymentName,
		"updated_at":     s.now,
	}); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}

var (
	firstNames = []string{"Amani", "Baraka", "Chebet", "Dalia", "Eli", "Faraji", "Imani", "Jabari", "Kamau", "Lulu", "Makena", "Nia", "Otieno", "Pendo", "Rehema", "Sefu", "Tumaini", "Wanjiru", "Zawadi"}
	lastNames  = []string{"Achieng", "Kariuki", "Mwangi", "Njoroge", "Odhiambo", "Wafula", "Kimani", "Mutua", "Chege", "Omondi"}
	methods    = []string{"mpesa", "airtel", "bank"}
)

var paymentStatuses = []domain.Status{
	domain.StatusPending, domain.StatusPending, domain.StatusApproved,
	domain.StatusApproved, domain.StatusCompleted, domain.StatusRejected,
}

var withdrawalStatuses = []domain.Status{
	domain.StatusPending, domain.StatusApproved, domain.StatusCompleted, domain.StatusRejected,
}

func (s seeder) demo(ctx context.Context, members int) (demoReport, error) {
	var report demoReport
	for i := 0; i < members; i++ {
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1)
		memberID, err := id.NewID()
		if err != nil {
			return report, fmt.Errorf("generate member id: %w", err)
		}
		role := domain.RoleClient
		if i%5 == 4 {
			role = domain.RoleMentor
		}
		status := domain.MemberActive
		if i%7 == 6 {
			status = domain.MemberSuspended
		}
		joined := s.now.Add(-time.Duration(s.rng.Intn(60*24)) * time.Hour)
		if _, err := s.store.Insert(ctx, "profiles", map[string]any{
			"id":         memberID,
			"full_name":  first + " " + last,
			"username":   usernameFor(email),
			"email":      email,
			"role":       string(role),
			"verified":   i%3 == 0,
			"status":     string(status),
			"created_at": joined,
		}); err != nil {
			return report, fmt.Errorf("create member %s: %w", email, err)
		}
		report.Members++
		s.logf("member %s (%s)", email, memberID)

		paymentStatus := paymentStatuses[s.rng.Intn(len(paymentStatuses))]
		if err := s.payment(ctx, memberID, email, paymentStatus); err != nil {
			return report, err
		}
		report.Payments++

		if i%2 == 1 {
			withdrawalStatus := withdrawalStatuses[s.rng.Intn(len(withdrawalStatuses))]
			if err := s.withdrawal(ctx, memberID, email, withdrawalStatus); err != nil {
				return report, err
			}
			report.Withdrawals++
		}
	}
	return report, nil
}

func (s seeder) payment(ctx context.Context, userID, email string, status domain.Status) error {
	created := s.recent()
	values := map[string]any{
		"user_id":        userID,
		"user_email":     email,
		"amount":         decimal.NewFromInt(int64(100 * (1 + s.rng.Intn(20)))),
		"payment_method": methods[s.rng.Intn(len(methods))],
		"status":         string(status),
		"created_at":     created,
		"updated_at":     created,
	}
	switch status {
	case domain.StatusApproved, domain.StatusCompleted:
		approved := created.Add(time.Duration(1+s.rng.Intn(90)) * time.Minute)
		values["approved_at"] = approved
		values["updated_at"] = approved
	case domain.StatusRejected:
		values["rejection_reason"] = "Screenshot does not match the payment."
	}
	rowID, err := s.store.Insert(ctx, "payment_requests", values)
	if err != nil {
		return fmt.Errorf("create payment for %s: %w", email, err)
	}
	s.logf("payment %d %s", rowID, status)
	return nil
}

func (s seeder) withdrawal(ctx context.Context, userID, email string, status domain.Status) error {
	created := s.recent()
	values := map[string]any{
		"user_id":    userID,
		"user_email": email,
		"amount":     decimal.NewFromInt(int64(50 * (1 + s.rng.Intn(30)))),
		"method":     methods[s.rng.Intn(len(methods))],
		"status":     string(status),
		"created_at": created,
		"updated_at": created,
	}
	if status == domain.StatusRejected {
		values["rejection_reason"] = "Account details are incomplete."
	}
	rowID, err := s.store.Insert(ctx, "withdrawal_requests", values)
	if err != nil {
		return fmt.Errorf("create withdrawal for %s: %w", email, err)
	}
	s.logf("withdrawal %d %s", rowID, status)
	return nil
}

// recent spreads activity over the last three days, with some of it today.
func (s seeder) recent() time.Time {
	return s.now.Add(-time.Duration(s.rng.Intn(72*60)) * time.Minute)
}

func usernameFor(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	return local
}
