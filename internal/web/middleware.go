package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "upb_session"

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionMiddleware makes sure every request carries a visitor token. New
// visitors get a uuid cookie; everything session-scoped downstream keys off
// that token and never touches the backing store directly.
func SessionMiddleware(next http.Handler) http.Handler {
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

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the visitor token placed by SessionMiddleware.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
