package auth

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// Middleware resolves session-backed principals and gates routes by
// access level.
type Middleware struct {
	sessions *scs.SessionManager
}

func NewMiddleware(sm *scs.SessionManager) *Middleware {
	return &Middleware{sessions: sm}
}

// LoadPrincipal copies the session principal, if present, onto the
// request context. A bearer-token principal set by an earlier
// middleware takes precedence.
func (m *Middleware) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if p, ok := principalFromSession(r.Context(), m.sessions); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireReader rejects requests without any principal. Guests pass.
func (m *Middleware) RequireReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireWriter rejects requests without a non-guest principal. A guest
// session never authorizes a mutation, regardless of what the client
// asserts about itself.
func (m *Middleware) RequireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
			return
		}
		if !p.CanWrite() {
			writeAuthError(w, http.StatusForbidden, "guests may not modify the library", "FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
