package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/annalhq/arcane/internal/metrics"
	"github.com/annalhq/arcane/internal/store"
)

// tagsHandler provides REST handlers for the tag registry.
type tagsHandler struct {
	store store.Store
}

// List returns all registered tags sorted by name.
// GET /api/v1/tags
func (h *tagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// Create registers a new tag. Names are unique; a duplicate is a 409.
// POST /api/v1/tags
func (h *tagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", "VALIDATION")
		return
	}

	tag, err := h.store.CreateTag(r.Context(), strings.TrimSpace(req.Name), req.Color)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.Mutations.WithLabelValues("tag", "create").Inc()
	writeJSON(w, http.StatusCreated, tag)
}

// Delete removes a tag from the registry. Content keeps the tag string;
// only the registry entry (and its color) goes away.
// DELETE /api/v1/tags/{name}
func (h *tagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTag(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.Mutations.WithLabelValues("tag", "delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}
