package route

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestRedirectTrailingSlash(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantOK  bool
		wantLoc string
	}{
		{name: "no trailing slash", target: "/payments", wantOK: false},
		{name: "trailing slash", target: "/payments/", wantOK: true, wantLoc: "/payments"},
		{name: "keeps query", target: "/members/?lang=en", wantOK: true, wantLoc: "/members?lang=en"},
		{name: "root path", target: "/", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			w := httptest.NewRecorder()
			if got := RedirectTrailingSlash(w, r); got != tc.wantOK {
				t.Fatalf("RedirectTrailingSlash() = %v, want %v", got, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if w.Code != http.StatusMovedPermanently {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusMovedPermanently)
			}
			if got := w.Header().Get("Location"); got != tc.wantLoc {
				t.Fatalf("Location = %q, want %q", got, tc.wantLoc)
			}
		})
	}
}

func TestRedirectTrailingSlashNilInputs(t *testing.T) {
	if RedirectTrailingSlash(nil, nil) {
		t.Fatal("expected nil inputs to be ignored")
	}
}

func TestSplitPathParts(t *testing.T) {
	tests := map[string][]string{
		"":            {},
		"/":           {},
		"12/approve":  {"12", "approve"},
		"/12//reject": {"12", "reject"},
		" a / b ":     {"a", "b"},
	}
	for input, want := range tests {
		if got := SplitPathParts(input); !reflect.DeepEqual(got, want) {
			t.Fatalf("SplitPathParts(%q) = %v, want %v", input, got, want)
		}
	}
}
