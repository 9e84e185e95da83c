package settings

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandleSettingsPage(http.ResponseWriter, *http.Request) {
	f.lastCall = "settings_page"
}

func (f *fakeService) HandleSaveSettings(http.ResponseWriter, *http.Request) {
	f.lastCall = "save_settings"
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		method   string
		wantCode int
		wantCall string
	}{
		{method: http.MethodGet, wantCode: http.StatusOK, wantCall: "settings_page"},
		{method: http.MethodPost, wantCode: http.StatusOK, wantCall: "save_settings"},
		{method: http.MethodDelete, wantCode: http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/settings", nil)
			rec := httptest.NewRecorder()
			svc.lastCall = ""

			mux.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if svc.lastCall != tc.wantCall {
				t.Fatalf("lastCall = %q, want %q", svc.lastCall, tc.wantCall)
			}
		})
	}
}
