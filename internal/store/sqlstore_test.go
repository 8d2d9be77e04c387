package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/annalhq/arcane/internal/testutil"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	return NewSQLStore(testutil.NewTestDB(t))
}

func TestSQLStore_ContentCRUD(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	created, err := s.CreateContent(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("create did not assign id/createdAt: %+v", created)
	}
	if !reflect.DeepEqual(created.Tags, []string{"go", "concurrency"}) {
		t.Errorf("tags = %v", created.Tags)
	}

	items, err := s.ListContent(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created item", items)
	}
	if !reflect.DeepEqual(items[0].Tags, created.Tags) {
		t.Errorf("list tags = %v, want %v", items[0].Tags, created.Tags)
	}

	d := validDraft()
	d.Title = "Updated title"
	d.Tags = []string{"memory"}
	updated, err := s.UpdateContent(ctx, created.ID, d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Updated title" {
		t.Errorf("title = %q", updated.Title)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"memory"}) {
		t.Errorf("tags not replaced: %v", updated.Tags)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("update changed createdAt: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	if err := s.DeleteContent(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = s.ListContent(ctx)
	if len(items) != 0 {
		t.Errorf("list after delete = %+v, want empty", items)
	}
}

func TestSQLStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	if _, err := s.UpdateContent(ctx, "nope", validDraft()); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteContent(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: err = %v, want ErrNotFound", err)
	}
	if _, err := s.ToggleStarred(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle: err = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateCollection(ctx, "nope", CollectionDraft{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update collection: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteCollection(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete collection: err = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_ToggleStarred(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	c, err := s.CreateContent(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	on, err := s.ToggleStarred(ctx, c.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !on.Starred {
		t.Errorf("starred = false after first toggle")
	}
	off, _ := s.ToggleStarred(ctx, c.ID)
	if off.Starred {
		t.Errorf("starred = true after second toggle")
	}
}

func TestSQLStore_UpdatePreservesStarred(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	c, err := s.CreateContent(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.ToggleStarred(ctx, c.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// A draft with the zero-valued Starred field must not unstar.
	updated, err := s.UpdateContent(ctx, c.ID, validDraft())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Starred {
		t.Errorf("starred cleared by update")
	}
}

func TestSQLStore_InvalidCollectionRef(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	d := validDraft()
	d.CollectionID = "ghost"
	if _, err := s.CreateContent(ctx, d); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("create: err = %v, want ErrInvalidReference", err)
	}
	if _, err := s.CreateCollection(ctx, CollectionDraft{Name: "x", ParentID: "ghost"}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("create collection: err = %v, want ErrInvalidReference", err)
	}
}

func TestSQLStore_TagUniqueness(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	if _, err := s.CreateTag(ctx, "go", "#00add8"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := s.CreateTag(ctx, "go", "#ffffff"); !errors.Is(err, ErrTagExists) {
		t.Errorf("err = %v, want ErrTagExists", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Color != "#00add8" {
		t.Errorf("tags = %+v, want the original record", tags)
	}
}

func TestSQLStore_CollectionCycleRejected(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	a, err := s.CreateCollection(ctx, CollectionDraft{Name: "a"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := s.CreateCollection(ctx, CollectionDraft{Name: "b", ParentID: a.ID})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	_, err = s.UpdateCollection(ctx, a.ID, CollectionDraft{Name: "a", ParentID: b.ID})
	if !errors.Is(err, ErrCollectionCycle) {
		t.Errorf("err = %v, want ErrCollectionCycle", err)
	}
}

func TestSQLStore_DuplicateCollectionNamesAllowed(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	a, err := s.CreateCollection(ctx, CollectionDraft{Name: "Reading"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	b, err := s.CreateCollection(ctx, CollectionDraft{Name: "Reading"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("duplicate names collided on id %q", a.ID)
	}
}

func TestSQLStore_DeleteCollectionOrphansAndReparents(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	root, _ := s.CreateCollection(ctx, CollectionDraft{Name: "root"})
	mid, _ := s.CreateCollection(ctx, CollectionDraft{Name: "mid", ParentID: root.ID})
	leaf, _ := s.CreateCollection(ctx, CollectionDraft{Name: "leaf", ParentID: mid.ID})

	d := validDraft()
	d.CollectionID = mid.ID
	c, err := s.CreateContent(ctx, d)
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	if err := s.DeleteCollection(ctx, mid.ID); err != nil {
		t.Fatalf("delete collection: %v", err)
	}

	items, _ := s.ListContent(ctx)
	if items[0].ID != c.ID || items[0].CollectionID != "" {
		t.Errorf("content not orphaned: %+v", items[0])
	}

	cols, _ := s.ListCollections(ctx)
	if len(cols) != 2 {
		t.Fatalf("len(collections) = %d, want 2", len(cols))
	}
	for _, col := range cols {
		if col.ID == leaf.ID && col.ParentID != root.ID {
			t.Errorf("leaf not reparented to grandparent: %+v", col)
		}
	}
}
