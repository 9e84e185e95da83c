package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall    string
	lastPayment string
}

func (f *fakeService) HandlePaymentsPage(http.ResponseWriter, *http.Request) {
	f.lastCall = "payments_page"
}

func (f *fakeService) HandleRecentPaymentsPanel(http.ResponseWriter, *http.Request) {
	f.lastCall = "recent_panel"
}

func (f *fakeService) HandlePendingPaymentsPanel(http.ResponseWriter, *http.Request) {
	f.lastCall = "pending_panel"
}

func (f *fakeService) HandleApprovedPaymentsPanel(http.ResponseWriter, *http.Request) {
	f.lastCall = "approved_panel"
}

func (f *fakeService) HandleApproveAllPayments(http.ResponseWriter, *http.Request) {
	f.lastCall = "approve_all"
}

func (f *fakeService) HandleApprovePayment(_ http.ResponseWriter, _ *http.Request, paymentID string) {
	f.lastCall = "approve"
	f.lastPayment = paymentID
}

func (f *fakeService) HandleRejectPayment(_ http.ResponseWriter, _ *http.Request, paymentID string) {
	f.lastCall = "reject"
	f.lastPayment = paymentID
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		path        string
		method      string
		wantCode    int
		wantCall    string
		wantPayment string
	}{
		{path: "/payments", method: http.MethodGet, wantCode: http.StatusOK, wantCall: "payments_page"},
		{path: "/panels/payments/recent", method: http.MethodGet, wantCode: http.StatusOK, wantCall: "recent_panel"},
		{path: "/panels/payments/pending", method: http.MethodGet, wantCode: http.StatusOK, wantCall: "pending_panel"},
		{path: "/panels/payments/approved", method: http.MethodGet, wantCode: http.StatusOK, wantCall: "approved_panel"},
		{path: "/payments/approve-all", method: http.MethodPost, wantCode: http.StatusOK, wantCall: "approve_all"},
		{path: "/payments/12/approve", method: http.MethodPost, wantCode: http.StatusOK, wantCall: "approve", wantPayment: "12"},
		{path: "/payments/12/reject", method: http.MethodPost, wantCode: http.StatusOK, wantCall: "reject", wantPayment: "12"},
		{path: "/payments/12/refund", method: http.MethodPost, wantCode: http.StatusNotFound},
		{path: "/payments/12", method: http.MethodGet, wantCode: http.StatusNotFound},
		{path: "/payments/12/approve/", method: http.MethodPost, wantCode: http.StatusMovedPermanently},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			svc.lastCall = ""
			svc.lastPayment = ""

			mux.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if svc.lastCall != tc.wantCall {
				t.Fatalf("lastCall = %q, want %q", svc.lastCall, tc.wantCall)
			}
			if svc.lastPayment != tc.wantPayment {
				t.Fatalf("lastPayment = %q, want %q", svc.lastPayment, tc.wantPayment)
			}
		})
	}
}
