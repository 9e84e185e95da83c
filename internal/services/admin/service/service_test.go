package service

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/platform/fanout"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	localbackend "github.com/louisbranch/paydesk/internal/services/admin/backend/sqlite"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store *localbackend.Store
	ctx   context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := localbackend.Open(filepath.Join(t.TempDir(), "backend.db"))
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close backend: %v", err)
		}
	})
	ctx := context.Background()
	if _, err := store.CreateUser(ctx, "ops@example.com", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	session, err := store.SignIn(ctx, "ops@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return fixture{store: store, ctx: backend.WithAccessToken(ctx, session.AccessToken)}
}

func (f fixture) service(t *testing.T, tables backend.Tables) *Service {
	t.Helper()
	if tables == nil {
		tables = f.store
	}
	svc, err := New(Config{Tables: tables, Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func (f fixture) insert(t *testing.T, table string, values map[string]any) int64 {
	t.Helper()
	rowID, err := f.store.Insert(context.Background(), table, values)
	if err != nil {
		t.Fatalf("insert %s: %v", table, err)
	}
	return rowID
}

func (f fixture) payment(t *testing.T, userID, amount string, status domain.Status, createdAt time.Time) int64 {
	t.Helper()
	return f.insert(t, domain.TablePayments, map[string]any{
		"user_id":    userID,
		"amount":     decimal.RequireFromString(amount),
		"status":     string(status),
		"created_at": createdAt,
		"updated_at": createdAt,
	})
}

func (f fixture) profile(t *testing.T, id string, role domain.Role) {
	t.Helper()
	f.insert(t, domain.TableProfiles, map[string]any{
		"id":         id,
		"email":      id + "@example.com",
		"role":       string(role),
		"created_at": testNow.Add(-48 * time.Hour),
	})
}

func (f fixture) member(t *testing.T, svc *Service, id string) domain.Member {
	t.Helper()
	members, err := svc.Members(f.ctx)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	for _, member := range members {
		if member.ID == id {
			return member
		}
	}
	t.Fatalf("member %q not found", id)
	return domain.Member{}
}

// failingTables fails writes to one table and passes everything else through.
type failingTables struct {
	backend.Tables
	failUpdate string
	failSelect string
}

func (f failingTables) Select(ctx context.Context, query backend.Query, dest any) error {
	if query.Table == f.failSelect {
		return errors.New("connection reset")
	}
	return f.Tables.Select(ctx, query, dest)
}

func (f failingTables) Update(ctx context.Context, table string, filters []backend.Filter, values map[string]any) (int, error) {
	if table == f.failUpdate {
		return 0, &backend.Error{Status: 503, Code: "unavailable"}
	}
	return f.Tables.Update(ctx, table, filters, values)
}

func TestNewRequiresTables(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected missing tables error")
	}
}

func TestPendingPaymentsOnlyReturnsPending(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.payment(t, "u1", "500", domain.StatusPending, testNow.Add(-3*time.Hour))
	f.payment(t, "u2", "700", domain.StatusApproved, testNow.Add(-2*time.Hour))
	f.payment(t, "u3", "900", domain.StatusRejected, testNow.Add(-time.Hour))
	f.payment(t, "u4", "1200", domain.StatusPending, testNow)

	pending, err := svc.PendingPayments(f.ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d rows, want 2", len(pending))
	}
	for _, payment := range pending {
		if payment.Status != domain.StatusPending {
			t.Fatalf("payment %d status = %q, want pending", payment.ID, payment.Status)
		}
	}
	if pending[0].UserID != "u4" {
		t.Fatalf("first pending = %q, want newest u4", pending[0].UserID)
	}
}

func TestApprovePaymentVerifiesUser(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)
	paymentID := f.payment(t, "u1", "500", domain.StatusPending, testNow)

	if err := svc.ApprovePayment(f.ctx, paymentID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	approved, err := svc.ApprovedPayments(f.ctx)
	if err != nil {
		t.Fatalf("approved: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != paymentID {
		t.Fatalf("approved = %+v", approved)
	}
	if approved[0].ApprovedAt == nil || !approved[0].ApprovedAt.Equal(testNow) {
		t.Fatalf("approved_at = %v, want %s", approved[0].ApprovedAt, testNow)
	}
	if !f.member(t, svc, "u1").Verified {
		t.Fatal("expected user to be verified")
	}
}

func TestApprovePaymentPartialFailureKeepsApproval(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, failingTables{Tables: f.store, failUpdate: domain.TableProfiles})
	f.profile(t, "u1", domain.RoleClient)
	paymentID := f.payment(t, "u1", "500", domain.StatusPending, testNow)

	err := svc.ApprovePayment(f.ctx, paymentID, "u1")
	if !apperrors.HasCode(err, apperrors.CodePartialFailure) {
		t.Fatalf("approve error = %v, want partial failure", err)
	}

	pending, err := svc.PendingPayments(f.ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %d, want payment to stay approved", len(pending))
	}
	if f.member(t, svc, "u1").Verified {
		t.Fatal("user should not be verified after failed write")
	}
}

func TestApprovePaymentMissingProfileIsPartial(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	paymentID := f.payment(t, "ghost", "500", domain.StatusPending, testNow)

	if err := svc.ApprovePayment(f.ctx, paymentID, ""); !apperrors.HasCode(err, apperrors.CodePartialFailure) {
		t.Fatalf("approve error = %v, want partial failure", err)
	}
}

func TestApprovePaymentTwiceIsNotPending(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)
	paymentID := f.payment(t, "u1", "500", domain.StatusPending, testNow)

	if err := svc.ApprovePayment(f.ctx, paymentID, "u1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.ApprovePayment(f.ctx, paymentID, "u1"); !apperrors.HasCode(err, apperrors.CodeNotPending) {
		t.Fatalf("second approve error = %v, want not pending", err)
	}
	if err := svc.RejectPayment(f.ctx, paymentID, "late"); !apperrors.HasCode(err, apperrors.CodeNotPending) {
		t.Fatalf("reject after approve error = %v, want not pending", err)
	}
}

func TestApprovePaymentNotFound(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)

	if err := svc.ApprovePayment(f.ctx, 99, ""); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("approve lookup error = %v, want not found", err)
	}
	if err := svc.ApprovePayment(f.ctx, 99, "u1"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("approve error = %v, want not found", err)
	}
}

func TestRejectPaymentLeavesUserAlone(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)
	paymentID := f.payment(t, "u1", "500", domain.StatusPending, testNow)

	if err := svc.RejectPayment(f.ctx, paymentID, "  blurry screenshot "); err != nil {
		t.Fatalf("reject: %v", err)
	}

	recent, err := svc.RecentPayments(f.ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if recent[0].Status != domain.StatusRejected || recent[0].RejectionReason != "blurry screenshot" {
		t.Fatalf("payment = %+v", recent[0])
	}
	if recent[0].ApprovedAt != nil {
		t.Fatalf("approved_at = %v, want nil", recent[0].ApprovedAt)
	}
	if f.member(t, svc, "u1").Verified {
		t.Fatal("reject must not verify the user")
	}
}

func TestApproveAllPendingScenario(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)
	f.profile(t, "u2", domain.RoleClient)
	first := f.payment(t, "u1", "500", domain.StatusPending, testNow.Add(-time.Hour))
	f.payment(t, "u2", "1200", domain.StatusPending, testNow)

	pending, err := svc.PendingPayments(f.ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := svc.ApprovePayment(f.ctx, first, ""); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	pending, err = svc.PendingPayments(f.ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Amount.String() != "1200" {
		t.Fatalf("pending = %+v, want only the 1200 payment", pending)
	}

	result, err := svc.ApproveAllPending(f.ctx)
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if result.Approved != 1 || result.Failed != 0 || result.Err != nil {
		t.Fatalf("result = %+v", result)
	}
	if !f.member(t, svc, "u2").Verified {
		t.Fatal("expected u2 verified")
	}
}

func TestApproveAllPendingReportsPerRowFailures(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)
	f.payment(t, "u1", "500", domain.StatusPending, testNow.Add(-time.Hour))
	missing := f.payment(t, "ghost", "800", domain.StatusPending, testNow)

	result, err := svc.ApproveAllPending(f.ctx)
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if result.Approved != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.Err == nil || !strings.Contains(result.Err.Error(), "payment "+strconv.FormatInt(missing, 10)) {
		t.Fatalf("result err = %v, want failure naming payment %d", result.Err, missing)
	}
	if !apperrors.HasCode(result.Err, apperrors.CodePartialFailure) {
		t.Fatalf("result err = %v, want partial failure", result.Err)
	}
}

func TestWithdrawalDecisions(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	approveID := f.insert(t, domain.TableWithdrawals, map[string]any{
		"user_id": "u1", "amount": decimal.NewFromInt(300), "created_at": testNow, "updated_at": testNow,
	})
	rejectID := f.insert(t, domain.TableWithdrawals, map[string]any{
		"user_id": "u2", "amount": decimal.NewFromInt(150), "created_at": testNow, "updated_at": testNow,
	})

	if err := svc.ApproveWithdrawal(f.ctx, approveID); err != nil {
		t.Fatalf("approve withdrawal: %v", err)
	}
	if err := svc.RejectWithdrawal(f.ctx, rejectID, "duplicate"); err != nil {
		t.Fatalf("reject withdrawal: %v", err)
	}
	if err := svc.ApproveWithdrawal(f.ctx, rejectID); !apperrors.HasCode(err, apperrors.CodeNotPending) {
		t.Fatalf("approve rejected withdrawal error = %v, want not pending", err)
	}
	pending, err := svc.PendingWithdrawals(f.ctx)
	if err != nil {
		t.Fatalf("pending withdrawals: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending withdrawals = %d, want 0", len(pending))
	}
}

func TestMemberSuspension(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "u1", domain.RoleClient)

	if err := svc.ReactivateMember(f.ctx, "u1"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("reactivate active error = %v, want invalid input", err)
	}
	if err := svc.SuspendMember(f.ctx, "u1"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if !f.member(t, svc, "u1").Suspended() {
		t.Fatal("expected member suspended")
	}
	if err := svc.SuspendMember(f.ctx, "u1"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("suspend twice error = %v, want invalid input", err)
	}
	if err := svc.ReactivateMember(f.ctx, "u1"); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if f.member(t, svc, "u1").Suspended() {
		t.Fatal("expected member active")
	}
	if err := svc.SuspendMember(f.ctx, "nobody"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("suspend missing error = %v, want not found", err)
	}
}

func TestMembersExcludesAdmins(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.profile(t, "boss", domain.RoleAdmin)
	f.profile(t, "u1", domain.RoleClient)
	f.profile(t, "m1", domain.RoleMentor)

	members, err := svc.Members(f.ctx)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	for _, member := range members {
		if member.Role == domain.RoleAdmin {
			t.Fatalf("admin %q listed as member", member.ID)
		}
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.payment(t, "u1", "500", domain.StatusApproved, testNow.Add(-time.Hour))
	f.payment(t, "u2", "250.50", domain.StatusCompleted, testNow.Add(-72*time.Hour))
	f.payment(t, "u3", "900", domain.StatusPending, testNow)
	f.payment(t, "u4", "100", domain.StatusRejected, testNow)
	f.profile(t, "u1", domain.RoleClient)
	f.profile(t, "m1", domain.RoleMentor)
	f.insert(t, domain.TableWithdrawals, map[string]any{
		"user_id": "u1", "amount": decimal.NewFromInt(300), "created_at": testNow, "updated_at": testNow,
	})

	stats, err := svc.Stats(f.ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got := stats.TotalRevenue.String(); got != "750.5" {
		t.Fatalf("total revenue = %s, want 750.5", got)
	}
	if got := stats.TodayRevenue.String(); got != "500" {
		t.Fatalf("today revenue = %s, want 500", got)
	}
	if stats.PendingPayments != 1 || stats.PendingWithdrawals != 1 || stats.ActiveMembers != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestOverviewReportsFailedParts(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, failingTables{Tables: f.store, failSelect: domain.TableWithdrawals})
	f.payment(t, "u1", "500", domain.StatusPending, testNow)

	overview, err := svc.Overview(f.ctx)
	if err == nil {
		t.Fatal("expected overview error")
	}
	failed := fanout.Failed(err)
	if len(failed) != 1 || failed[0] != TaskStats {
		t.Fatalf("failed = %v, want [%s]", failed, TaskStats)
	}
	if len(overview.Pending) != 1 {
		t.Fatalf("pending = %d, want 1 despite stats failure", len(overview.Pending))
	}
	if !apperrors.HasCode(err, apperrors.CodeBackendUnavailable) {
		t.Fatalf("overview err = %v, want backend unavailable", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)

	empty, err := svc.Settings(f.ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if empty.PaymentNumber != "" || !empty.Price.IsZero() {
		t.Fatalf("empty settings = %+v", empty)
	}

	for _, price := range []string{"350", "400"} {
		if _, err := svc.SaveSettings(f.ctx, SettingsInput{PaymentNumber: "0700000000", PaymentName: "Admin", Price: price}); err != nil {
			t.Fatalf("save settings: %v", err)
		}
	}
	settings, err := svc.Settings(f.ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.Price.String() != "400" || settings.PaymentNumber != "0700000000" || settings.PaymentName != "Admin" {
		t.Fatalf("settings = %+v", settings)
	}
	if !settings.UpdatedAt.Equal(testNow) {
		t.Fatalf("updated_at = %s, want %s", settings.UpdatedAt, testNow)
	}
}

func TestSettingsFromLegacyBlob(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	f.insert(t, domain.TableSettings, map[string]any{
		"id":    7,
		"key":   domain.SettingsLegacyKey,
		"value": `{"price":400,"payment_number":"0700000000","payment_name":"Admin"}`,
	})

	settings, err := svc.Settings(f.ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.Price.String() != "400" || settings.PaymentNumber != "0700000000" || settings.PaymentName != "Admin" {
		t.Fatalf("settings = %+v", settings)
	}
}

func TestSaveSettingsRejectsBadPrice(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)

	_, err := svc.SaveSettings(f.ctx, SettingsInput{Price: "four hundred"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("save error = %v, want invalid input", err)
	}
}

func TestSaveSettingsBlankPriceIsZero(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)

	settings, err := svc.SaveSettings(f.ctx, SettingsInput{PaymentName: "Till", Price: "  "})
	if err != nil {
		t.Fatalf("save without price: %v", err)
	}
	if !settings.Price.IsZero() {
		t.Fatalf("price = %s, want 0", settings.Price)
	}
}

func TestBackendErrorClassification(t *testing.T) {
	expired := backendError("load", &backend.Error{Status: 401, Code: "invalid_token"})
	if !apperrors.HasCode(expired, apperrors.CodeSessionExpired) {
		t.Fatalf("401 error = %v, want session expired", expired)
	}
	down := backendError("load", errors.New("dial tcp: refused"))
	if !apperrors.HasCode(down, apperrors.CodeBackendUnavailable) {
		t.Fatalf("dial error = %v, want backend unavailable", down)
	}
	kept := backendError("load", apperrors.New(apperrors.CodeNotFound, "gone"))
	if !apperrors.HasCode(kept, apperrors.CodeNotFound) {
		t.Fatalf("coded error = %v, want code preserved", kept)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("ParseID = %d, %v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc"} {
		if _, err := ParseID(raw); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Fatalf("ParseID(%q) error = %v, want invalid input", raw, err)
		}
	}
}
