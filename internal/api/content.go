package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/annalhq/arcane/internal/metrics"
	"github.com/annalhq/arcane/internal/query"
	"github.com/annalhq/arcane/internal/store"
)

// contentHandler provides REST handlers for content management.
type contentHandler struct {
	store store.Store
}

// List returns every item in the library in creation order.
// GET /api/v1/content
func (h *contentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListContent(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ContentListResponse{Content: items})
}

// Grouped returns the library bucketed by tag. An item with N tags
// appears under N keys.
// GET /api/v1/content/grouped
func (h *contentHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListContent(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GroupedContentResponse{Groups: query.GroupByTag(items)})
}

// Create adds a new item to the library.
// POST /api/v1/content
func (h *contentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	item, err := h.store.CreateContent(r.Context(), req.draft())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.Mutations.WithLabelValues("content", "create").Inc()
	writeJSON(w, http.StatusCreated, item)
}

// Update replaces the caller-editable fields of an item. The id,
// creation timestamp, and starred flag never change here; starring
// goes through the star endpoint.
// PUT /api/v1/content/{id}
func (h *contentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	item, err := h.store.UpdateContent(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.Mutations.WithLabelValues("content", "update").Inc()
	writeJSON(w, http.StatusOK, item)
}

// Delete removes an item.
// DELETE /api/v1/content/{id}
func (h *contentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteContent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.Mutations.WithLabelValues("content", "delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// ToggleStar flips the starred flag and returns the updated item.
// POST /api/v1/content/{id}/star
func (h *contentHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.ToggleStarred(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.Mutations.WithLabelValues("content", "star").Inc()
	writeJSON(w, http.StatusOK, item)
}
