package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/annalhq/arcane/internal/auth"
)

// tokensHandler provides REST handlers for API token management.
// Tokens are only available on the SQL backend.
type tokensHandler struct {
	tokens auth.TokenStore
}

// registerTokenRoutes registers token management routes on r.
func registerTokenRoutes(r chi.Router, tokens auth.TokenStore) {
	h := &tokensHandler{tokens: tokens}
	r.Get("/tokens", h.List)
	r.Post("/tokens", h.Create)
	r.Delete("/tokens/{id}", h.Revoke)
}

// List returns all tokens without sensitive fields.
// GET /api/v1/tokens
func (h *tokensHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.tokens.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := TokenListResponse{Tokens: make([]TokenResponse, 0, len(records))}
	for _, rec := range records {
		resp.Tokens = append(resp.Tokens, toTokenResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new token and returns the plaintext once. The
// hash is all that persists; there is no way to recover the plaintext
// later.
// POST /api/v1/tokens
func (h *tokensHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "VALIDATION")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn != "" {
		d, err := time.ParseDuration(req.ExpiresIn)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "expires_in must be a positive duration", "VALIDATION")
			return
		}
		t := time.Now().UTC().Add(d)
		expiresAt = &t
	}

	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed", "INTERNAL_ERROR")
		return
	}

	rec, err := h.tokens.Create(r.Context(), req.Name, hash, expiresAt)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	item := toTokenResponse(rec)
	item.Token = plaintext
	writeJSON(w, http.StatusCreated, item)
}

// Revoke soft-deletes a token. Revoked tokens stay listed for audit.
// DELETE /api/v1/tokens/{id}
func (h *tokensHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTokenResponse(rec *auth.TokenRecord) TokenResponse {
	item := TokenResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}
	if rec.LastUsedAt.Valid {
		t := rec.LastUsedAt.Time
		item.LastUsedAt = &t
	}
	if rec.ExpiresAt.Valid {
		t := rec.ExpiresAt.Time
		item.ExpiresAt = &t
	}
	if rec.RevokedAt.Valid {
		t := rec.RevokedAt.Time
		item.RevokedAt = &t
	}
	return item
}
