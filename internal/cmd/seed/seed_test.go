package seed

import (
	"bytes"
	"context"
	"flag"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	backendsqlite "github.com/louisbranch/paydesk/internal/services/admin/backend/sqlite"
)

type recordingStore struct {
	users []string
	rows  map[string][]map[string]any
}

func (r *recordingStore) CreateUser(_ context.Context, email, _ string) (string, error) {
	r.users = append(r.users, email)
	return "admin-1", nil
}

func (r *recordingStore) Insert(_ context.Context, table string, values map[string]any) (int64, error) {
	if r.rows == nil {
		r.rows = map[string][]map[string]any{}
	}
	r.rows[table] = append(r.rows[table], values)
	return int64(len(r.rows[table])), nil
}

func newTestSeeder(store inserter) seeder {
	return seeder{
		store: store,
		out:   io.Discard,
		now:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		rng:   rand.New(rand.NewSource(7)),
	}
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-admin-password", "secret"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/backend.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.AdminEmail != "admin@paydesk.local" {
		t.Fatalf("expected default admin email, got %q", cfg.AdminEmail)
	}
	if !cfg.Demo || cfg.Members != 12 {
		t.Fatalf("expected demo defaults, got demo=%v members=%d", cfg.Demo, cfg.Members)
	}
}

func TestParseConfigRequiresPassword(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil || !strings.Contains(err.Error(), "password") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseConfigRejectsNegativeMembers(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-admin-password", "x", "-members", "-1"}); err == nil {
		t.Fatal("expected error for negative members")
	}
}

func TestAdminCreatesUserAndProfile(t *testing.T) {
	store := &recordingStore{}
	userID, err := newTestSeeder(store).admin(context.Background(), " Boss@Example.com ", "pw", "Boss")
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if userID != "admin-1" {
		t.Fatalf("user id = %q", userID)
	}
	profiles := store.rows["profiles"]
	if len(profiles) != 1 {
		t.Fatalf("profiles = %v", profiles)
	}
	profile := profiles[0]
	if profile["id"] != "admin-1" || profile["role"] != "admin" || profile["username"] != "boss" || profile["email"] != "boss@example.com" {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestDemoIsDeterministicForSeed(t *testing.T) {
	first := &recordingStore{}
	second := &recordingStore{}
	a, err := newTestSeeder(first).demo(context.Background(), 6)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	b, err := newTestSeeder(second).demo(context.Background(), 6)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if a != b {
		t.Fatalf("reports differ: %+v vs %+v", a, b)
	}
	if a.Members != 6 || a.Payments != 6 || a.Withdrawals != 3 {
		t.Fatalf("report = %+v", a)
	}
	for i, row := range first.rows["payment_requests"] {
		other := second.rows["payment_requests"][i]
		if row["status"] != other["status"] || row["payment_method"] != other["payment_method"] {
			t.Fatalf("payment %d differs: %+v vs %+v", i, row, other)
		}
	}
}

func TestDemoPaymentsCarryApprovalTime(t *testing.T) {
	store := &recordingStore{}
	if _, err := newTestSeeder(store).demo(context.Background(), 10); err != nil {
		t.Fatalf("demo: %v", err)
	}
	for _, row := range store.rows["payment_requests"] {
		_, approved := row["approved_at"]
		switch row["status"] {
		case "approved", "completed":
			if !approved {
				t.Fatalf("settled payment without approved_at: %+v", row)
			}
		default:
			if approved {
				t.Fatalf("unsettled payment with approved_at: %+v", row)
			}
		}
	}
}

func TestRunSeedsLocalBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backend.db")
	var out bytes.Buffer
	err := Run(context.Background(), Config{
		DBPath:        path,
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret",
		AdminName:     "Admin",
		Demo:          true,
		Members:       4,
		Seed:          1,
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Seeded 4 members, 4 payments, 2 withdrawals") {
		t.Fatalf("output = %q", out.String())
	}

	store, err := backendsqlite.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	session, err := store.SignIn(context.Background(), "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in seeded admin: %v", err)
	}
	ctx := backend.WithAccessToken(context.Background(), session.AccessToken)
	var rows []struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := store.Select(ctx, backend.Query{
		Table:   "profiles",
		Filters: []backend.Filter{backend.Eq("role", "admin")},
	}, &rows); err != nil {
		t.Fatalf("select admin profile: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != session.User.ID {
		t.Fatalf("admin profiles = %+v", rows)
	}
}

func TestRunRejectsDuplicateAdmin(t *testing.T) {
	cfg := Config{
		DBPath:        filepath.Join(t.TempDir(), "backend.db"),
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret",
	}
	if err := Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error when the admin already exists")
	}
}
