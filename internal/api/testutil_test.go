package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annalhq/arcane/internal/api"
	"github.com/annalhq/arcane/internal/auth"
	"github.com/annalhq/arcane/internal/store"
	"github.com/annalhq/arcane/internal/testutil"
)

const testAdminPassword = "correct horse battery staple"

// testEnv holds the router and real stores needed for API integration
// tests. Sessions are in-memory; data lives in an in-memory SQLite DB.
type testEnv struct {
	Router     http.Handler
	Store      store.Store
	TokenStore *auth.SQLTokenStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.NewTestDB(t)

	dataStore := store.NewSQLStore(conn)
	tokens := auth.NewSQLTokenStore(conn)
	sessions := auth.NewSessionManager(nil, "", time.Hour)

	router := api.NewRouter(api.Deps{
		Store:      dataStore,
		Sessions:   sessions,
		Auth:       auth.NewHandlers(sessions, nil, testAdminPassword),
		Access:     auth.NewMiddleware(sessions),
		BearerAuth: auth.NewBearerTokenMiddleware(tokens),
		TokenStore: tokens,
	})

	return &testEnv{Router: router, Store: dataStore, TokenStore: tokens}
}

// seedToken creates a real API token and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := env.TokenStore.Create(context.Background(), "test-token", hash, nil); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// loginCookies performs an admin password login and returns the session cookies.
func loginCookies(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	body := `{"password":"` + testAdminPassword + `"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d; body: %s", rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies()
}

// guestCookies establishes a guest session and returns its cookies.
func guestCookies(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/auth/guest", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("guest login: status = %d; body: %s", rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies()
}

func withCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// seedContent creates a content item directly in the store.
func seedContent(t *testing.T, env *testEnv, title string, tags []string, collectionID string) *store.Content {
	t.Helper()
	c, err := env.Store.CreateContent(context.Background(), store.ContentDraft{
		Title:        title,
		URL:          "https://example.com/" + title,
		Description:  "seeded item",
		Tags:         tags,
		CollectionID: collectionID,
	})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	return c
}

// seedCollection creates a collection directly in the store.
func seedCollection(t *testing.T, env *testEnv, name, parentID string) *store.Collection {
	t.Helper()
	c, err := env.Store.CreateCollection(context.Background(), store.CollectionDraft{Name: name, ParentID: parentID})
	if err != nil {
		t.Fatalf("seed collection: %v", err)
	}
	return c
}
