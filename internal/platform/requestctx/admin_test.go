package requestctx

import (
	"context"
	"testing"
)

func TestWithAdminRoundTrip(t *testing.T) {
	ctx := WithAdmin(context.Background(), Admin{SessionID: "s1", UserID: "u1", Email: "ops@example.com", AccessToken: "tok"})
	admin, ok := AdminFromContext(ctx)
	if !ok {
		t.Fatal("expected admin in context")
	}
	if admin.UserID != "u1" || admin.AccessToken != "tok" {
		t.Fatalf("admin = %+v", admin)
	}
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Fatalf("UserIDFromContext() = %q, want %q", got, "u1")
	}
}

func TestAdminFromContextMissing(t *testing.T) {
	if _, ok := AdminFromContext(context.Background()); ok {
		t.Fatal("expected no admin in empty context")
	}
	if got := UserIDFromContext(nil); got != "" {
		t.Fatalf("UserIDFromContext(nil) = %q, want empty", got)
	}
}

func TestWithAdminNilContext(t *testing.T) {
	ctx := WithAdmin(nil, Admin{UserID: "u2"})
	if got := UserIDFromContext(ctx); got != "u2" {
		t.Fatalf("UserIDFromContext() = %q, want %q", got, "u2")
	}
}
