package api

import (
	"net/http"

	"github.com/annalhq/arcane/internal/metrics"
	"github.com/annalhq/arcane/internal/query"
	"github.com/annalhq/arcane/internal/store"
)

// searchHandler serves filtered views of the library.
type searchHandler struct {
	store store.Store
}

// Search filters content by free text, tags, and collection.
// GET /api/v1/search?query=...&tags=a&tags=b&tag_mode=any|all&collection_id=...
//
// The text, tag, and collection filters AND together. Within the tag
// filter the default is OR (any selected tag matches); tag_mode=all
// switches to requiring every selected tag.
func (h *searchHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListContent(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	params := r.URL.Query()
	mode := query.MatchAny
	if params.Get("tag_mode") == string(query.MatchAll) {
		mode = query.MatchAll
	}

	results := query.Search(items, params.Get("query"), params["tags"], mode, params.Get("collection_id"))

	metrics.Searches.WithLabelValues(string(mode)).Inc()
	writeJSON(w, http.StatusOK, ContentListResponse{Content: results})
}
