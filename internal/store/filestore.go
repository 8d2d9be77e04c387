package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	contentFile     = "content.json"
	tagsFile        = "tags.json"
	collectionsFile = "collections.json"
)

// FileStore keeps each entity type as a JSON array file under dir and
// rewrites the whole file on every mutation. A missing file reads as an
// empty snapshot; an unreadable one is ErrStorageUnavailable unless
// lenient reads are enabled, in which case the error is logged and an
// empty snapshot returned (legacy masking behavior, off by default).
//
// A single mutex serializes read-modify-write cycles within the
// process. The store assumes one logical writer; last writer wins on
// the whole snapshot.
type FileStore struct {
	dir     string
	lenient bool
	mu      sync.Mutex
}

func NewFileStore(dir string, lenientReads bool) *FileStore {
	return &FileStore{dir: dir, lenient: lenientReads}
}

// load reads one snapshot file into v. v must be a pointer to a slice.
func (s *FileStore) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return s.readFailure(name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return s.readFailure(name, err)
	}
	return nil
}

func (s *FileStore) readFailure(name string, err error) error {
	if s.lenient {
		logrus.WithError(err).WithField("file", name).Warn("masking unreadable snapshot as empty")
		return nil
	}
	return fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, name, err)
}

// save atomically replaces one snapshot file: write a temp file in the
// same directory, then rename over the target so a concurrent reader
// never observes a partial write.
func (s *FileStore) save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrStorageUnavailable, s.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrStorageUnavailable, name, err)
	}
	return nil
}

func (s *FileStore) loadContent() ([]Content, error) {
	var items []Content
	if err := s.load(contentFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FileStore) loadCollections() ([]Collection, error) {
	var cols []Collection
	if err := s.load(collectionsFile, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// ListContent returns the content snapshot in file order.
func (s *FileStore) ListContent(ctx context.Context) ([]Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadContent()
}

// CreateContent validates the draft, assigns an id and creation time,
// and appends the item to the snapshot.
func (s *FileStore) CreateContent(ctx context.Context, draft ContentDraft) (*Content, error) {
	if err := ValidateContentDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCollectionRef(draft.CollectionID); err != nil {
		return nil, err
	}
	items, err := s.loadContent()
	if err != nil {
		return nil, err
	}

	c := Content{
		ID:           uuid.New().String(),
		Title:        draft.Title,
		URL:          draft.URL,
		Description:  draft.Description,
		Tags:         NormalizeTags(draft.Tags),
		CollectionID: draft.CollectionID,
		Starred:      draft.Starred,
		CreatedAt:    time.Now().UTC(),
	}
	items = append(items, c)
	if err := s.save(contentFile, items); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContent replaces the editable fields of an existing item in
// place. Id, createdAt, and the starred flag are preserved; starring
// has its own operation.
func (s *FileStore) UpdateContent(ctx context.Context, id string, draft ContentDraft) (*Content, error) {
	if err := ValidateContentDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCollectionRef(draft.CollectionID); err != nil {
		return nil, err
	}
	items, err := s.loadContent()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Title = draft.Title
		items[i].URL = draft.URL
		items[i].Description = draft.Description
		items[i].Tags = NormalizeTags(draft.Tags)
		items[i].CollectionID = draft.CollectionID
		if err := s.save(contentFile, items); err != nil {
			return nil, err
		}
		c := items[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

// DeleteContent removes an item from the snapshot.
func (s *FileStore) DeleteContent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadContent()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, c := range items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}
	return s.save(contentFile, kept)
}

// ToggleStarred flips the starred flag on one item.
func (s *FileStore) ToggleStarred(ctx context.Context, id string) (*Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadContent()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Starred = !items[i].Starred
		if err := s.save(contentFile, items); err != nil {
			return nil, err
		}
		c := items[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

// ListTags returns the tag snapshot ordered by name, matching the SQL
// backend.
func (s *FileStore) ListTags(ctx context.Context) ([]Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tags []Tag
	if err := s.load(tagsFile, &tags); err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// CreateTag appends a tag record. Duplicate names return ErrTagExists.
func (s *FileStore) CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var tags []Tag
	if err := s.load(tagsFile, &tags); err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.Name == name {
			return nil, ErrTagExists
		}
	}
	tag := Tag{Name: name, Color: color}
	tags = append(tags, tag)
	if err := s.save(tagsFile, tags); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag record by name. Content tag references are
// left untouched.
func (s *FileStore) DeleteTag(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tags []Tag
	if err := s.load(tagsFile, &tags); err != nil {
		return err
	}
	kept := tags[:0]
	for _, t := range tags {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tags) {
		return ErrNotFound
	}
	return s.save(tagsFile, kept)
}

// ListCollections returns the collection snapshot in file order.
func (s *FileStore) ListCollections(ctx context.Context) ([]Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCollections()
}

// CreateCollection validates the draft and parent reference and appends
// a new collection with a random id.
func (s *FileStore) CreateCollection(ctx context.Context, draft CollectionDraft) (*Collection, error) {
	if err := ValidateCollectionDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := s.loadCollections()
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	if err := ValidateParentRef(cols, id, draft.ParentID); err != nil {
		return nil, err
	}
	c := Collection{
		ID:          id,
		Name:        draft.Name,
		ParentID:    draft.ParentID,
		Description: draft.Description,
		CreatedAt:   time.Now().UTC(),
	}
	cols = append(cols, c)
	if err := s.save(collectionsFile, cols); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCollection replaces name, parent, and description, rejecting
// parent changes that would create a cycle.
func (s *FileStore) UpdateCollection(ctx context.Context, id string, draft CollectionDraft) (*Collection, error) {
	if err := ValidateCollectionDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := s.loadCollections()
	if err != nil {
		return nil, err
	}
	if err := ValidateParentRef(cols, id, draft.ParentID); err != nil {
		return nil, err
	}
	for i := range cols {
		if cols[i].ID != id {
			continue
		}
		cols[i].Name = draft.Name
		cols[i].ParentID = draft.ParentID
		cols[i].Description = draft.Description
		if err := s.save(collectionsFile, cols); err != nil {
			return nil, err
		}
		c := cols[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

// DeleteCollection orphans referencing content, reparents direct
// children to the deleted collection's parent, then removes the record.
// Content is saved first: if the collections save then fails, the early
// orphaning is harmless, whereas the reverse order could leave content
// pointing at a collection that no longer exists.
func (s *FileStore) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := s.loadCollections()
	if err != nil {
		return err
	}
	var deleted *Collection
	for i := range cols {
		if cols[i].ID == id {
			deleted = &cols[i]
			break
		}
	}
	if deleted == nil {
		return ErrNotFound
	}

	items, err := s.loadContent()
	if err != nil {
		return err
	}
	if err := s.save(contentFile, OrphanContent(items, id)); err != nil {
		return err
	}

	cols = ReparentChildren(cols, id, deleted.ParentID)
	kept := cols[:0]
	for _, c := range cols {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.save(collectionsFile, kept)
}

// checkCollectionRef verifies that collectionID, when set, exists.
// Callers must hold the mutex.
func (s *FileStore) checkCollectionRef(collectionID string) error {
	if collectionID == "" {
		return nil
	}
	cols, err := s.loadCollections()
	if err != nil {
		return err
	}
	for _, c := range cols {
		if c.ID == collectionID {
			return nil
		}
	}
	return ErrInvalidReference
}
