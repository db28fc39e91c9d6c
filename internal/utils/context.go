package utils

import "context"

type contextKey string

const (
	AdminEmailKey contextKey = "admin_email"
	SessionIDKey  contextKey = "session_id"
)

// SetAdminContext marks the request as an authenticated admin (set by middleware).
func SetAdminContext(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, AdminEmailKey, email)
}

// GetAdminFromContext retrieves the admin email safely.
func GetAdminFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AdminEmailKey).(string)
	return email, ok && email != ""
}

// SetSessionContext attaches the storefront cart session id.
func SetSessionContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionFromContext retrieves the cart session id safely.
func GetSessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}
