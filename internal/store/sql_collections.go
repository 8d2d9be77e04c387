package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ListCollections returns the full collection snapshot in creation order.
func (s *SQLStore) ListCollections(ctx context.Context) ([]Collection, error) {
	var cols []Collection
	err := s.db.SelectContext(ctx, &cols, `SELECT * FROM collections ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func (s *SQLStore) getCollection(ctx context.Context, id string) (*Collection, error) {
	var c Collection
	err := s.db.GetContext(ctx, &c, s.q(`SELECT * FROM collections WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCollection validates the draft and parent reference and inserts
// a new collection with a random id. Ids are never derived from the
// name, so duplicate names cannot collide.
func (s *SQLStore) CreateCollection(ctx context.Context, draft CollectionDraft) (*Collection, error) {
	if err := ValidateCollectionDraft(draft); err != nil {
		return nil, err
	}
	cols, err := s.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	if err := ValidateParentRef(cols, id, draft.ParentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO collections (id, name, parent_id, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), id, draft.Name, draft.ParentID, draft.Description, now)
	if err != nil {
		return nil, err
	}
	return &Collection{ID: id, Name: draft.Name, ParentID: draft.ParentID, Description: draft.Description, CreatedAt: now}, nil
}

// UpdateCollection replaces name, parent, and description. A parent
// change that would make the collection its own transitive ancestor is
// rejected with ErrCollectionCycle.
func (s *SQLStore) UpdateCollection(ctx context.Context, id string, draft CollectionDraft) (*Collection, error) {
	if err := ValidateCollectionDraft(draft); err != nil {
		return nil, err
	}
	cols, err := s.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateParentRef(cols, id, draft.ParentID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE collections SET name = ?, parent_id = ?, description = ? WHERE id = ?
	`), draft.Name, draft.ParentID, draft.Description, id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.getCollection(ctx, id)
}

// DeleteCollection removes a collection as one logical unit: referencing
// content is orphaned (collection_id cleared), direct child collections
// are reparented to the deleted collection's parent, then the row is
// removed. All three steps share a transaction.
func (s *SQLStore) DeleteCollection(ctx context.Context, id string) error {
	col, err := s.getCollection(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`UPDATE content SET collection_id = '' WHERE collection_id = ?`), id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.q(`UPDATE collections SET parent_id = ? WHERE parent_id = ?`), col.ParentID, id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.q(`DELETE FROM collections WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return tx.Commit()
}
