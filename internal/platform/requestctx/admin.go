package requestctx

import "context"

// adminContextKey is the context key for the authenticated admin identity.
type adminContextKey struct{}

// Admin is the signed-in operator carried through request handling.
type Admin struct {
	SessionID   string
	UserID      string
	Email       string
	AccessToken string
}

// WithAdmin stores the authenticated admin in context.
func WithAdmin(ctx context.Context, admin Admin) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminContextKey{}, admin)
}

// AdminFromContext returns the admin stored in context, if any.
func AdminFromContext(ctx context.Context) (Admin, bool) {
	if ctx == nil {
		return Admin{}, false
	}
	admin, ok := ctx.Value(adminContextKey{}).(Admin)
	return admin, ok
}

// UserIDFromContext returns the authenticated admin user identifier.
func UserIDFromContext(ctx context.Context) string {
	admin, _ := AdminFromContext(ctx)
	return admin.UserID
}
