package api

import (
	"time"

	"github.com/annalhq/arcane/internal/store"
)

// --- Content types ---

// ContentRequest is the request body for POST /api/v1/content and
// PUT /api/v1/content/{id}.
type ContentRequest struct {
	Title        string   `json:"title"`
	URL          string   `json:"url,omitempty"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	CollectionID string   `json:"collectionId,omitempty"`
	Starred      bool     `json:"starred"`
}

func (r ContentRequest) draft() store.ContentDraft {
	return store.ContentDraft{
		Title:        r.Title,
		URL:          r.URL,
		Description:  r.Description,
		Tags:         r.Tags,
		CollectionID: r.CollectionID,
		Starred:      r.Starred,
	}
}

// ContentListResponse wraps a list of content items.
type ContentListResponse struct {
	Content []store.Content `json:"content"`
}

// GroupedContentResponse is the tag-grouped view of the library.
type GroupedContentResponse struct {
	Groups map[string][]store.Content `json:"groups"`
}

// --- Collection types ---

// CollectionRequest is the request body for collection create/update.
type CollectionRequest struct {
	Name        string `json:"name"`
	ParentID    string `json:"parentId,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r CollectionRequest) draft() store.CollectionDraft {
	return store.CollectionDraft{Name: r.Name, ParentID: r.ParentID, Description: r.Description}
}

// CollectionListResponse wraps a list of collections.
type CollectionListResponse struct {
	Collections []store.Collection `json:"collections"`
}

// --- Tag types ---

// TagRequest is the request body for POST /api/v1/tags.
type TagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TagListResponse wraps a list of tags.
type TagListResponse struct {
	Tags []store.Tag `json:"tags"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string `json:"name"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// TokenResponse is the JSON representation of an API token. The
// plaintext Token field is populated only in the create response.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

// TokenListResponse wraps a list of tokens.
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}
