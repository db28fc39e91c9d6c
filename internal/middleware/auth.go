package middleware

import (
	"net/http"
	"strings"

	"velvetvogue-be/internal/admin"
	"velvetvogue-be/internal/utils"
)

// AdminAuth rejects requests without a valid admin bearer token. Unlike a
// soft identity middleware this one terminates the request; everything it
// guards is staff-only.
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteJSONError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := admin.ParseToken(tokenStr)
		if err != nil || claims.Role != "admin" {
			utils.WriteJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetAdminContext(r.Context(), claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
