package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/annalhq/arcane/internal/metrics"
	"github.com/annalhq/arcane/internal/query"
	"github.com/annalhq/arcane/internal/store"
)

// collectionsHandler provides REST handlers for collection management.
type collectionsHandler struct {
	store store.Store
}

// List returns collections. With no parameters the full set comes back;
// ?parent_id=X narrows to direct children of X and ?roots=true to the
// top level.
// GET /api/v1/collections
func (h *collectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	cols, err := h.store.ListCollections(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if parentID := r.URL.Query().Get("parent_id"); parentID != "" {
		cols = query.ChildrenOf(cols, parentID)
	} else if r.URL.Query().Get("roots") == "true" {
		cols = query.RootsOf(cols)
	}

	writeJSON(w, http.StatusOK, CollectionListResponse{Collections: cols})
}

// Create adds a new collection, optionally nested under a parent.
// POST /api/v1/collections
func (h *collectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	col, err := h.store.CreateCollection(r.Context(), req.draft())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.Mutations.WithLabelValues("collection", "create").Inc()
	writeJSON(w, http.StatusCreated, col)
}

// Update renames or reparents a collection. Reparenting is rejected
// when it would make the collection its own ancestor.
// PUT /api/v1/collections/{id}
func (h *collectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	col, err := h.store.UpdateCollection(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.Mutations.WithLabelValues("collection", "update").Inc()
	writeJSON(w, http.StatusOK, col)
}

// Delete removes a collection. Its content survives unfiled and its
// child collections move up to the deleted collection's parent.
// DELETE /api/v1/collections/{id}
func (h *collectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.Mutations.WithLabelValues("collection", "delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}
