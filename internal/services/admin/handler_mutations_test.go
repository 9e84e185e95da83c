package admin

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/louisbranch/paydesk/internal/services/admin/service"
)

func TestApprovePaymentRerendersQueue(t *testing.T) {
	env := newTestEnv(t, &fakeDashboard{pending: []domain.Payment{pendingPayment(9)}})
	rec := env.do(authedPost("/payments/4/approve", url.Values{"user_id": {"user-4"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := env.svc.recorded(); !reflect.DeepEqual(got, []string{"approve payment 4 user-4"}) {
		t.Fatalf("calls = %v", got)
	}
	if n := notified(t, rec); n.Level != notifySuccess || n.Message != "Payment approved and member verified." {
		t.Fatalf("notification = %+v", n)
	}
	events := triggers(t, rec)
	for _, name := range []string{"live:stats", "live:recent", "live:approved"} {
		if _, ok := events[name]; !ok {
			t.Fatalf("missing %s trigger in %v", name, events)
		}
	}
	if _, ok := events["live:pending"]; ok {
		t.Fatal("the swapped panel must not be refreshed twice")
	}
	if body := rec.Body.String(); !strings.Contains(body, `data-row="9"`) || !strings.Contains(body, "pending-badge") {
		t.Fatalf("expected refreshed queue:\n%s", body)
	}
}

func TestApprovePaymentPartialFailureWarns(t *testing.T) {
	env := newTestEnv(t, &fakeDashboard{writeErr: apperrors.New(apperrors.CodePartialFailure, "verify user")})
	rec := env.do(authedPost("/payments/4/approve", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := notified(t, rec); n.Level != notifyWarning || n.Message != "Payment approved, but the member could not be verified." {
		t.Fatalf("notification = %+v", n)
	}
}

func TestMutationFailureLeavesPageUnchanged(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want string
	}{
		{name: "not pending", path: "/payments/4/approve", err: apperrors.New(apperrors.CodeNotPending, "settled"), want: "That request is no longer pending."},
		{name: "not found", path: "/withdrawals/2/reject", err: apperrors.New(apperrors.CodeNotFound, "gone"), want: "That record no longer exists."},
		{name: "backend down", path: "/members/m-1/suspend", err: apperrors.New(apperrors.CodeBackendUnavailable, "down"), want: "The service is unavailable. Try again shortly."},
		{name: "unknown", path: "/payments/approve-all", err: errors.New("boom"), want: "Something went wrong."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeDashboard{writeErr: tc.err})
			rec := env.do(authedPost(tc.path, nil))
			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want 204", rec.Code)
			}
			if rec.Body.Len() != 0 {
				t.Fatalf("expected empty body, got %q", rec.Body.String())
			}
			if n := notified(t, rec); n.Level != notifyError || n.Message != tc.want {
				t.Fatalf("notification = %+v", n)
			}
		})
	}
}

func TestMutationRejectsInvalidID(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(authedPost("/payments/abc/reject", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := notified(t, rec); n.Message != "The submitted value is not valid." {
		t.Fatalf("notification = %+v", n)
	}
	if calls := env.svc.recorded(); len(calls) != 0 {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestMutationRequiresPost(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(authedGet("/payments/4/approve"))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q", got)
	}
}

func TestMutationRejectsCrossOrigin(t *testing.T) {
	env := newTestEnv(t, nil)
	req := authedPost("/withdrawals/3/approve", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := env.do(req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if calls := env.svc.recorded(); len(calls) != 0 {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestMutationSessionExpiredRedirects(t *testing.T) {
	env := newTestEnv(t, &fakeDashboard{writeErr: apperrors.New(apperrors.CodeSessionExpired, "jwt expired")})
	rec := env.do(authedPost("/payments/4/reject", nil))
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Fatalf("HX-Redirect = %q", got)
	}
}

func TestRejectPaymentPassesReason(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(authedPost("/payments/5/reject", url.Values{"reason": {"blurry screenshot"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := env.svc.recorded(); !reflect.DeepEqual(got, []string{"reject payment 5 blurry screenshot"}) {
		t.Fatalf("calls = %v", got)
	}
	if _, ok := triggers(t, rec)["live:approved"]; ok {
		t.Fatal("a rejection does not change approved payments")
	}
}

func TestApproveAllSummaries(t *testing.T) {
	tests := []struct {
		name  string
		bulk  service.BulkResult
		level string
		want  string
	}{
		{name: "empty", level: notifyInfo, want: "There are no pending payments."},
		{name: "all approved", bulk: service.BulkResult{Approved: 3}, level: notifySuccess, want: "Approved 3 payments."},
		{name: "some failed", bulk: service.BulkResult{Approved: 2, Failed: 1, Err: errors.New("payment 9: down")}, level: notifyWarning, want: "Approved 2 payments; 1 failed."},
		{name: "stopped before any row", bulk: service.BulkResult{Err: apperrors.New(apperrors.CodeBackendUnavailable, "canceled")}, level: notifyError, want: "The service is unavailable. Try again shortly."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeDashboard{bulk: tc.bulk})
			rec := env.do(authedPost("/payments/approve-all", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if n := notified(t, rec); n.Level != tc.level || n.Message != tc.want {
				t.Fatalf("notification = %+v", n)
			}
		})
	}
}

func TestWithdrawalDecisions(t *testing.T) {
	env := newTestEnv(t, &fakeDashboard{withdrawals: []domain.Withdrawal{{ID: 11, UserEmail: "sam@example.com"}}})
	approve := env.do(authedPost("/withdrawals/3/approve", nil))
	if n := notified(t, approve); n.Message != "Withdrawal approved." {
		t.Fatalf("notification = %+v", n)
	}
	if !strings.Contains(approve.Body.String(), `data-row="11"`) {
		t.Fatalf("expected withdrawals panel:\n%s", approve.Body.String())
	}
	reject := env.do(authedPost("/withdrawals/3/reject", url.Values{"reason": {"duplicate"}}))
	if n := notified(t, reject); n.Message != "Withdrawal rejected." {
		t.Fatalf("notification = %+v", n)
	}
	want := []string{"approve withdrawal 3", "reject withdrawal 3 duplicate"}
	if got := env.svc.recorded(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestMemberStatusChanges(t *testing.T) {
	env := newTestEnv(t, nil)
	if n := notified(t, env.do(authedPost("/members/m-1/suspend", nil))); n.Message != "Member suspended." {
		t.Fatalf("notification = %+v", n)
	}
	if n := notified(t, env.do(authedPost("/members/m-1/reactivate", nil))); n.Message != "Member reactivated." {
		t.Fatalf("notification = %+v", n)
	}
	want := []string{"suspend m-1", "reactivate m-1"}
	if got := env.svc.recorded(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestSaveSettingsSwapsForm(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(authedPost("/settings", url.Values{
		"price":          {"750"},
		"payment_number": {"0712 345 678"},
		"payment_name":   {"Paydesk Ltd"},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := service.SettingsInput{Price: "750", PaymentNumber: "0712 345 678", PaymentName: "Paydesk Ltd"}
	if env.svc.lastInput != want {
		t.Fatalf("input = %+v, want %+v", env.svc.lastInput, want)
	}
	body := rec.Body.String()
	for _, want := range []string{`id="panel-settings"`, `value="750"`, "Last updated 2026-03-01 09:30"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if n := notified(t, rec); n.Message != "Settings saved." {
		t.Fatalf("notification = %+v", n)
	}
}

func TestSaveSettingsInvalidPrice(t *testing.T) {
	env := newTestEnv(t, &fakeDashboard{writeErr: apperrors.New(apperrors.CodeInvalidInput, "price is not a number")})
	rec := env.do(authedPost("/settings", url.Values{"price": {"lots"}}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := notified(t, rec); n.Level != notifyError || n.Message != "The submitted value is not valid." {
		t.Fatalf("notification = %+v", n)
	}
}
