package store

import (
	"context"
	"strings"
)

// ListTags returns all tag records ordered by name.
func (s *SQLStore) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := s.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag inserts a new tag record. Name uniqueness is enforced by the
// primary key; a duplicate insert returns ErrTagExists.
func (s *SQLStore) CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO tags (name, color) VALUES (?, ?)`), name, color)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return &Tag{Name: name, Color: color}, nil
}

// DeleteTag removes a tag record by name. Content tag references are
// maintained independently and are left in place.
func (s *SQLStore) DeleteTag(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tags WHERE name = ?`), name)
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
	return nil
}
