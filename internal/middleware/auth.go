package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/food-menu-pos/api/internal/auth"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/google/uuid"
)

type contextKey string

const (
	claimsKey  contextKey = "claims"
	sessionKey contextKey = "session"
)

// SessionLookup resolves a session id to a live session.
// Satisfied by *session.Manager.
type SessionLookup interface {
	Get(id uuid.UUID) (*session.Session, error)
}

// Authenticate validates the bearer token and requires its session to still
// be open. Both the claims and the session are stored on the request context.
func Authenticate(jwtSecret string, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			sess, err := sessions.Get(claims.SessionID)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// WithSession returns a copy of ctx carrying sess and matching claims.
// Used by tests that bypass token validation.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, claimsKey, &auth.Claims{SessionID: sess.ID, Role: sess.Role})
	return context.WithValue(ctx, sessionKey, sess)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
