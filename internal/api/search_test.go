package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/annalhq/arcane/internal/api"
)

func seedSearchLibrary(t *testing.T, env *testEnv) (inCollection string) {
	t.Helper()
	col := seedCollection(t, env, "papers", "")
	seedContent(t, env, "go-concurrency", []string{"go", "concurrency"}, "")
	seedContent(t, env, "sqlite-internals", []string{"db"}, col.ID)
	seedContent(t, env, "postgres-tuning", []string{"db", "postgres"}, col.ID)
	return col.ID
}

func doSearch(t *testing.T, env *testEnv, token, rawQuery string) api.ContentListResponse {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/search?"+rawQuery, nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.ContentListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestSearch_Text(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedSearchLibrary(t, env)

	resp := doSearch(t, env, token, "query=SQLITE")
	if len(resp.Content) != 1 || resp.Content[0].Title != "sqlite-internals" {
		t.Errorf("results = %+v", resp.Content)
	}
}

func TestSearch_TagsDefaultToAnyMatch(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedSearchLibrary(t, env)

	// Items carrying either tag match.
	resp := doSearch(t, env, token, "tags=go&tags=postgres")
	if len(resp.Content) != 2 {
		t.Errorf("got %d results, want 2: %+v", len(resp.Content), resp.Content)
	}
}

func TestSearch_TagModeAll(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedSearchLibrary(t, env)

	resp := doSearch(t, env, token, "tags=db&tags=postgres&tag_mode=all")
	if len(resp.Content) != 1 || resp.Content[0].Title != "postgres-tuning" {
		t.Errorf("results = %+v", resp.Content)
	}
}

func TestSearch_CollectionAndTagsCombine(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	colID := seedSearchLibrary(t, env)

	q := url.Values{}
	q.Set("collection_id", colID)
	q.Add("tags", "db")
	resp := doSearch(t, env, token, q.Encode())
	if len(resp.Content) != 2 {
		t.Errorf("got %d results, want 2: %+v", len(resp.Content), resp.Content)
	}

	q.Set("query", "tuning")
	resp = doSearch(t, env, token, q.Encode())
	if len(resp.Content) != 1 || resp.Content[0].Title != "postgres-tuning" {
		t.Errorf("results = %+v", resp.Content)
	}
}

func TestSearch_EmptyQueryReturnsEverything(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedSearchLibrary(t, env)

	resp := doSearch(t, env, token, "")
	if len(resp.Content) != 3 {
		t.Errorf("got %d results, want 3", len(resp.Content))
	}
}
