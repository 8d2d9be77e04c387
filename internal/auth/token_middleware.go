package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// BearerTokenMiddleware resolves API requests carrying a Bearer token
// to an admin principal. Requests without an Authorization header pass
// through untouched so session-based principals still apply; a present
// but invalid token is rejected outright.
type BearerTokenMiddleware struct {
	tokens TokenStore
}

func NewBearerTokenMiddleware(ts TokenStore) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts}
}

// Resolve validates the Bearer token, injects an admin principal on
// success, and fires an async last_used_at update.
func (m *BearerTokenMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		plaintext := strings.TrimPrefix(authHeader, "Bearer ")
		if plaintext == authHeader || plaintext == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}

		rec, err := m.tokens.GetByHash(r.Context(), HashToken(plaintext))
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}
		if rec.RevokedAt.Valid {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}
		if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}

		// Update last_used_at asynchronously to avoid write overhead on every read.
		go m.tokens.UpdateLastUsed(context.Background(), rec.ID)

		p := Principal{ID: rec.ID, DisplayName: rec.Name, Kind: KindAdmin}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
