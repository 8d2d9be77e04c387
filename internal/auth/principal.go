package auth

import "context"

// Kind classifies how a principal authenticated.
type Kind string

const (
	// KindAdmin is the password-authenticated administrator (cookie
	// session or API token).
	KindAdmin Kind = "admin"

	// KindOAuth is an identity verified through the OIDC provider.
	// OAuth principals are admin-capable.
	KindOAuth Kind = "oauth"

	// KindGuest is an ephemeral client-session identity. Guests carry no
	// server-verifiable credential and may only read.
	KindGuest Kind = "guest"
)

// Principal is the authenticated identity associated with a request.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Kind        Kind   `json:"kind"`
}

// CanWrite reports whether the principal may perform mutating
// operations. Guest identities authenticate read access only.
func (p Principal) CanWrite() bool {
	return p.Kind != KindGuest
}

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the request principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
