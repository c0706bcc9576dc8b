package middleware

import (
	"context"
	"net/http"

	"github.com/friplass/booking-api/internal/api/handlers"
)

// SessionCookieName is the frontend session cookie carrying the anonymous
// booking session.
const SessionCookieName = "bookingfrontendsession"

// SessionHeaderName is the fallback for clients that cannot send cookies.
const SessionHeaderName = "X-Session-Id"

type sessionKey struct{}

// SessionFromContext returns the session id extracted by the middleware.
func SessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey{}).(string); ok {
		return v
	}
	return ""
}

// Session extracts the session id from the cookie or the fallback header and
// puts it on the request context. Requests without a session pass through;
// RequireSession gates the routes that need one.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = r.Header.Get(SessionHeaderName)
		}

		if sessionID != "" {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, sessionID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests that carry no session id.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == "" {
			handlers.RespondUnauthorized(w, "session is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
