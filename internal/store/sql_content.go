package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLStore is the sqlx-backed implementation of Store. It works against
// sqlite, MySQL, and PostgreSQL; queries are written with ? placeholders
// and rebound to the driver's native format.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

// contentTagRow represents a row in the content_tags join table. The
// position column preserves the caller's tag order.
type contentTagRow struct {
	ContentID string `db:"content_id"`
	TagName   string `db:"tag_name"`
	Position  int    `db:"position"`
}

// ListContent returns the full content snapshot in creation order, with
// each item's tags attached in their stored order.
func (s *SQLStore) ListContent(ctx context.Context) ([]Content, error) {
	var items []Content
	err := s.db.SelectContext(ctx, &items, `SELECT * FROM content ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	var tagRows []contentTagRow
	err = s.db.SelectContext(ctx, &tagRows, `SELECT * FROM content_tags ORDER BY content_id, position ASC`)
	if err != nil {
		return nil, err
	}
	tagsByContent := make(map[string][]string, len(items))
	for _, row := range tagRows {
		tagsByContent[row.ContentID] = append(tagsByContent[row.ContentID], row.TagName)
	}
	for i := range items {
		items[i].Tags = tagsByContent[items[i].ID]
	}
	return items, nil
}

// getContent returns a single content item with tags, or ErrNotFound.
func (s *SQLStore) getContent(ctx context.Context, id string) (*Content, error) {
	var c Content
	err := s.db.GetContext(ctx, &c, s.q(`SELECT * FROM content WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	err = s.db.SelectContext(ctx, &c.Tags, s.q(`
		SELECT tag_name FROM content_tags WHERE content_id = ? ORDER BY position ASC
	`), id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateContent validates the draft, assigns an id and creation time,
// and inserts the item together with its tag rows in one transaction.
func (s *SQLStore) CreateContent(ctx context.Context, draft ContentDraft) (*Content, error) {
	if err := ValidateContentDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkCollectionRef(ctx, draft.CollectionID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	tags := NormalizeTags(draft.Tags)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO content (id, title, url, description, collection_id, starred, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, draft.Title, draft.URL, draft.Description, draft.CollectionID, draft.Starred, now)
	if err != nil {
		return nil, err
	}
	if err := insertContentTags(ctx, tx, s.db, id, tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.getContent(ctx, id)
}

// UpdateContent replaces the editable fields of an existing item. The
// id, created_at, and starred flag are untouched — starring has its own
// operation; tags are replaced wholesale.
func (s *SQLStore) UpdateContent(ctx context.Context, id string, draft ContentDraft) (*Content, error) {
	if err := ValidateContentDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkCollectionRef(ctx, draft.CollectionID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE content SET title = ?, url = ?, description = ?, collection_id = ?
		WHERE id = ?
	`), draft.Title, draft.URL, draft.Description, draft.CollectionID, id)
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

	_, err = tx.ExecContext(ctx, s.q(`DELETE FROM content_tags WHERE content_id = ?`), id)
	if err != nil {
		return nil, err
	}
	if err := insertContentTags(ctx, tx, s.db, id, NormalizeTags(draft.Tags)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.getContent(ctx, id)
}

// DeleteContent removes an item by id. Tag rows go with it.
func (s *SQLStore) DeleteContent(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM content WHERE id = ?`), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	_, err = tx.ExecContext(ctx, s.q(`DELETE FROM content_tags WHERE content_id = ?`), id)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ToggleStarred flips the starred flag and leaves every other field
// untouched. Fetch-then-update keeps the flip portable across drivers.
func (s *SQLStore) ToggleStarred(ctx context.Context, id string) (*Content, error) {
	cur, err := s.getContent(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, s.q(`UPDATE content SET starred = ? WHERE id = ?`), !cur.Starred, id)
	if err != nil {
		return nil, err
	}
	return s.getContent(ctx, id)
}

// checkCollectionRef verifies that collectionID, when set, exists.
func (s *SQLStore) checkCollectionRef(ctx context.Context, collectionID string) error {
	if collectionID == "" {
		return nil
	}
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`SELECT COUNT(*) FROM collections WHERE id = ?`), collectionID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}

func insertContentTags(ctx context.Context, tx *sqlx.Tx, db *sqlx.DB, contentID string, tags []string) error {
	for i, name := range tags {
		_, err := tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO content_tags (content_id, tag_name, position) VALUES (?, ?, ?)
		`), contentID, name, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// isUniqueConstraintError checks whether err indicates a unique constraint
// violation. Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
