package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned when an entity references a
	// collection that does not exist.
	ErrInvalidReference = errors.New("referenced collection does not exist")

	// ErrTagExists is returned when creating a tag whose name is already taken.
	ErrTagExists = errors.New("tag name is already taken")

	// ErrStorageUnavailable is returned when the backing medium cannot be
	// read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Content is a single saved item in the library.
type Content struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	URL          string    `json:"url,omitempty" db:"url"`
	Description  string    `json:"description" db:"description"`
	Tags         []string  `json:"tags" db:"-"`
	CollectionID string    `json:"collectionId,omitempty" db:"collection_id"`
	Starred      bool      `json:"starred" db:"starred"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Tag is a named, colored label. The name is the natural key.
type Tag struct {
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}

// Collection is a named, optionally nested grouping of content.
// Collections form a forest: an empty ParentID means root.
type Collection struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ParentID    string    `json:"parentId,omitempty" db:"parent_id"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Store exposes all library data operations. No handler may touch the
// backing medium directly; all access goes through this interface.
// Implementations: SQLStore (sqlite/mysql/postgres) and FileStore
// (JSON snapshot files).
type Store interface {
	ListContent(ctx context.Context) ([]Content, error)
	CreateContent(ctx context.Context, draft ContentDraft) (*Content, error)
	UpdateContent(ctx context.Context, id string, draft ContentDraft) (*Content, error)
	DeleteContent(ctx context.Context, id string) error
	ToggleStarred(ctx context.Context, id string) (*Content, error)

	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, name, color string) (*Tag, error)
	DeleteTag(ctx context.Context, name string) error

	ListCollections(ctx context.Context) ([]Collection, error)
	CreateCollection(ctx context.Context, draft CollectionDraft) (*Collection, error)
	UpdateCollection(ctx context.Context, id string, draft CollectionDraft) (*Collection, error)
	DeleteCollection(ctx context.Context, id string) error
}
