package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annalhq/arcane/internal/auth"
	"github.com/annalhq/arcane/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
// BearerAuth and TokenStore are nil on the file backend, where the API
// token channel is unavailable.
type Deps struct {
	Store      store.Store
	Sessions   *scs.SessionManager
	Auth       *auth.Handlers
	Access     *auth.Middleware
	BearerAuth *auth.BearerTokenMiddleware
	TokenStore auth.TokenStore
}

// NewRouter builds the full application router: /auth for session
// establishment, /api/v1 for the library API, plus /healthz and
// /metrics.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(deps.Sessions.LoadAndSave)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.Auth.Login)
		r.Post("/guest", deps.Auth.Guest)
		r.Post("/logout", deps.Auth.Logout)
		r.Get("/check", deps.Auth.Check)
		if deps.Auth.OIDCEnabled() {
			r.Get("/oidc/login", deps.Auth.OIDCLogin)
			r.Get("/oidc/callback", deps.Auth.OIDCCallback)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		// All API responses are JSON.
		r.Use(jsonContentType)
		if deps.BearerAuth != nil {
			r.Use(deps.BearerAuth.Resolve)
		}
		r.Use(deps.Access.LoadPrincipal)

		// Reads: any principal, guests included.
		r.Group(func(r chi.Router) {
			r.Use(deps.Access.RequireReader)
			registerReadRoutes(r, deps.Store)
		})

		// Writes: non-guest principals only.
		r.Group(func(r chi.Router) {
			r.Use(deps.Access.RequireWriter)
			registerWriteRoutes(r, deps.Store)
			if deps.TokenStore != nil {
				registerTokenRoutes(r, deps.TokenStore)
			}
		})
	})

	return r
}

func registerReadRoutes(r chi.Router, s store.Store) {
	ch := &contentHandler{store: s}
	r.Get("/content", ch.List)
	r.Get("/content/grouped", ch.Grouped)
	r.Get("/search", (&searchHandler{store: s}).Search)
	r.Get("/tags", (&tagsHandler{store: s}).List)

	colh := &collectionsHandler{store: s}
	r.Get("/collections", colh.List)
}

func registerWriteRoutes(r chi.Router, s store.Store) {
	ch := &contentHandler{store: s}
	r.Post("/content", ch.Create)
	r.Put("/content/{id}", ch.Update)
	r.Delete("/content/{id}", ch.Delete)
	r.Post("/content/{id}/star", ch.ToggleStar)

	th := &tagsHandler{store: s}
	r.Post("/tags", th.Create)
	r.Delete("/tags/{name}", th.Delete)

	colh := &collectionsHandler{store: s}
	r.Post("/collections", colh.Create)
	r.Put("/collections/{id}", colh.Update)
	r.Delete("/collections/{id}", colh.Delete)
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
