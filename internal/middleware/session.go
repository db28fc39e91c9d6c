package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"velvetvogue-be/internal/utils"
)

const sessionCookie = "vv_session"

// Session guarantees every storefront request carries a cart session id,
// minting a new one on first contact. The id lands in the request context
// so handlers never touch the cookie directly.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			sessionID = c.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := utils.SetSessionContext(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
