package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annalhq/arcane/internal/api"
	"github.com/annalhq/arcane/internal/store"
)

func TestContent_List_OK(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedContent(t, env, "first", []string{"go"}, "")

	req := httptest.NewRequest("GET", "/api/v1/content", nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp api.ContentListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Title != "first" {
		t.Errorf("content = %+v, want the seeded item", resp.Content)
	}
}

func TestContent_List_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("GET", "/api/v1/content", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestContent_List_GuestCanRead(t *testing.T) {
	env := newTestEnv(t)
	cookies := guestCookies(t, env)
	seedContent(t, env, "readable", []string{"go"}, "")

	req := httptest.NewRequest("GET", "/api/v1/content", nil)
	withCookies(req, cookies)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestContent_Create_Created(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)

	body := `{"title":"New item","url":"https://example.com","description":"notes","tags":["go","web"]}`
	req := httptest.NewRequest("POST", "/api/v1/content", bytes.NewBufferString(body))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp store.Content
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" || resp.Title != "New item" || len(resp.Tags) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestContent_Create_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)

	body := `{"title":"","description":"x","tags":["go"]}`
	req := httptest.NewRequest("POST", "/api/v1/content", bytes.NewBufferString(body))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "VALIDATION" {
		t.Errorf("code = %q, want VALIDATION", resp.Code)
	}
}

func TestContent_Create_InvalidCollectionRef(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)

	body := `{"title":"x","description":"x","tags":["go"],"collectionId":"ghost"}`
	req := httptest.NewRequest("POST", "/api/v1/content", bytes.NewBufferString(body))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != "INVALID_REFERENCE" {
		t.Errorf("code = %q, want INVALID_REFERENCE", resp.Code)
	}
}

func TestContent_Create_GuestForbidden(t *testing.T) {
	env := newTestEnv(t)
	cookies := guestCookies(t, env)

	body := `{"title":"x","description":"x","tags":["go"]}`
	req := httptest.NewRequest("POST", "/api/v1/content", bytes.NewBufferString(body))
	withCookies(req, cookies)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestContent_Update_OK(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	c := seedContent(t, env, "before", []string{"go"}, "")

	body := `{"title":"after","description":"edited","tags":["go","edited"]}`
	req := httptest.NewRequest("PUT", "/api/v1/content/"+c.ID, bytes.NewBufferString(body))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp store.Content
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Title != "after" || resp.ID != c.ID {
		t.Errorf("response = %+v", resp)
	}
	if !resp.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", c.CreatedAt, resp.CreatedAt)
	}
}

func TestContent_Update_WithoutStarredFieldKeepsStar(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	c := seedContent(t, env, "starred-item", []string{"go"}, "")

	req := httptest.NewRequest("POST", "/api/v1/content/"+c.ID+"/star", nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("star: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	// PUT with no starred field in the body.
	body := `{"title":"starred-item","description":"edited","tags":["go"]}`
	req = httptest.NewRequest("PUT", "/api/v1/content/"+c.ID, bytes.NewBufferString(body))
	authRequest(req, token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp store.Content
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Starred {
		t.Errorf("starred cleared by update")
	}
}

func TestContent_Update_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)

	body := `{"title":"x","description":"x","tags":["go"]}`
	req := httptest.NewRequest("PUT", "/api/v1/content/ghost", bytes.NewBufferString(body))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestContent_Delete_NoContent(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	c := seedContent(t, env, "doomed", []string{"go"}, "")

	req := httptest.NewRequest("DELETE", "/api/v1/content/"+c.ID, nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}
}

func TestContent_ToggleStar(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	c := seedContent(t, env, "starrable", []string{"go"}, "")

	req := httptest.NewRequest("POST", "/api/v1/content/"+c.ID+"/star", nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp store.Content
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Starred {
		t.Errorf("starred = false after toggle")
	}
}

func TestContent_Grouped(t *testing.T) {
	env := newTestEnv(t)
	token := seedToken(t, env)
	seedContent(t, env, "a", []string{"go", "web"}, "")
	seedContent(t, env, "b", []string{"go"}, "")

	req := httptest.NewRequest("GET", "/api/v1/content/grouped", nil)
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp api.GroupedContentResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Groups["go"]) != 2 || len(resp.Groups["web"]) != 1 {
		t.Errorf("groups = %+v", resp.Groups)
	}
}
