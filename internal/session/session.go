package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the opaque cart session token. The token is trusted as given:
// anyone holding it can read and change that cart.
const Header = "X-Session-Id"

const maxLength = 60

type contextKey string

const sessionIDKey contextKey = "session_id"

// Middleware reads the session token, issuing a new uuid when the caller has none.
// A fresh token is echoed back so the caller can persist it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(Header)
		if sessionID == "" || len(sessionID) > maxLength {
			sessionID = uuid.NewString()
			w.Header().Set(Header, sessionID)
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sessionID)))
	})
}

func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
