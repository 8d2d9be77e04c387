package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/annalhq/arcane/internal/metrics"
)

const (
	cookieState        = "__auth_state"
	cookieCodeVerifier = "__auth_pkce"
)

// Handlers provides the HTTP handlers for the three authentication
// channels: admin password, OIDC, and ephemeral guest.
type Handlers struct {
	sessions      *scs.SessionManager
	provider      *Provider // nil when OIDC is not configured
	adminPassword string
}

func NewHandlers(sm *scs.SessionManager, provider *Provider, adminPassword string) *Handlers {
	return &Handlers{sessions: sm, provider: provider, adminPassword: adminPassword}
}

// OIDCEnabled reports whether the OIDC channel is configured.
func (h *Handlers) OIDCEnabled() bool { return h.provider != nil }

type loginRequest struct {
	Password string `json:"password"`
}

// Login establishes an admin session from the configured password.
// POST /auth/login
// The comparison is constant-time; the session token is renewed so a
// pre-login cookie can never be fixated into an admin session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if h.adminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		writeAuthError(w, http.StatusUnauthorized, "invalid password", "UNAUTHORIZED")
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		writeAuthError(w, http.StatusInternalServerError, "session error", "INTERNAL_ERROR")
		return
	}
	p := Principal{ID: "admin", DisplayName: "admin", Kind: KindAdmin}
	putPrincipal(r.Context(), h.sessions, p)
	writePrincipal(w, http.StatusOK, p)
}

// Guest establishes a read-only guest session with a random display
// name. Nothing about the guest is persisted beyond the session row.
// POST /auth/guest
func (h *Handlers) Guest(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		writeAuthError(w, http.StatusInternalServerError, "session error", "INTERNAL_ERROR")
		return
	}
	p := Principal{ID: uuid.New().String(), DisplayName: GenerateGuestName(), Kind: KindGuest}
	putPrincipal(r.Context(), h.sessions, p)
	metrics.GuestSessions.Inc()
	writePrincipal(w, http.StatusOK, p)
}

// Logout destroys the session.
// POST /auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		writeAuthError(w, http.StatusInternalServerError, "logout error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check reports the current principal, or 401 when unauthenticated.
// GET /auth/check
func (h *Handlers) Check(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFromSession(r.Context(), h.sessions)
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "UNAUTHORIZED")
		return
	}
	writePrincipal(w, http.StatusOK, p)
}

// OIDCLogin initiates the OIDC authorization code flow with PKCE.
// GET /auth/oidc/login
func (h *Handlers) OIDCLogin(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Store state and verifier in short-lived cookies
	setPreAuthCookie(w, cookieState, state)
	setPreAuthCookie(w, cookieCodeVerifier, verifier)

	http.Redirect(w, r, h.provider.AuthCodeURL(state, challenge), http.StatusFound)
}

// OIDCCallback handles the provider redirect: verifies state, exchanges
// the code, and promotes the verified identity to an admin-capable
// oauth principal.
// GET /auth/oidc/callback
func (h *Handlers) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	idToken, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		http.Error(w, "invalid claims", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	putPrincipal(r.Context(), h.sessions, Principal{ID: claims.Subject, DisplayName: name, Kind: KindOAuth})

	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)

	http.Redirect(w, r, "/", http.StatusFound)
}

func writePrincipal(w http.ResponseWriter, status int, p Principal) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(p)
}

func setPreAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300, // 5 minutes
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
