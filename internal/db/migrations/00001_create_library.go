package migrations

// The library schema is a Go migration because the starred flag and
// timestamp columns differ by driver (INTEGER/TIMESTAMP for SQLite,
// BOOLEAN/TIMESTAMPTZ for PostgreSQL, TINYINT(1)/DATETIME for MySQL).

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLibrary, downCreateLibrary)
}

func upCreateLibrary(ctx context.Context, tx *sql.Tx) error {
	for _, ddl := range libraryUpStmts() {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create library schema: %w", err)
		}
	}
	return nil
}

func downCreateLibrary(ctx context.Context, tx *sql.Tx) error {
	for _, ddl := range []string{
		`DROP TABLE IF EXISTS content_tags`,
		`DROP TABLE IF EXISTS content`,
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS collections`,
	} {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

func libraryUpStmts() []string {
	var starredCol, timeCol string
	switch dialect {
	case "postgres":
		starredCol = "BOOLEAN NOT NULL DEFAULT FALSE"
		timeCol = "TIMESTAMPTZ NOT NULL"
	case "mysql":
		starredCol = "TINYINT(1) NOT NULL DEFAULT 0"
		timeCol = "DATETIME(6) NOT NULL"
	default: // sqlite3
		starredCol = "INTEGER NOT NULL DEFAULT 0"
		timeCol = "TIMESTAMP NOT NULL"
	}

	// MySQL cannot index unbounded TEXT columns, so keys use VARCHAR.
	idCol := "TEXT"
	nameKeyCol := "TEXT"
	if dialect == "mysql" {
		idCol = "VARCHAR(36)"
		nameKeyCol = "VARCHAR(191)"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS collections (
    id          ` + idCol + ` PRIMARY KEY,
    name        TEXT NOT NULL,
    parent_id   ` + idCol + ` NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    created_at  ` + timeCol + `
)`,
		`CREATE TABLE IF NOT EXISTS content (
    id            ` + idCol + ` PRIMARY KEY,
    title         TEXT NOT NULL,
    url           TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL,
    collection_id ` + idCol + ` NOT NULL DEFAULT '',
    starred       ` + starredCol + `,
    created_at    ` + timeCol + `
)`,
		`CREATE TABLE IF NOT EXISTS tags (
    name  ` + nameKeyCol + ` PRIMARY KEY,
    color TEXT NOT NULL DEFAULT ''
)`,
		`CREATE TABLE IF NOT EXISTS content_tags (
    content_id ` + idCol + ` NOT NULL,
    tag_name   ` + nameKeyCol + ` NOT NULL,
    position   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (content_id, tag_name)
)`,
		// MySQL has no CREATE INDEX IF NOT EXISTS; the migration runs once.
		indexStmt("content_collection_idx", "content", "collection_id"),
		indexStmt("collections_parent_idx", "collections", "parent_id"),
	}
}

func indexStmt(name, table, col string) string {
	if dialect == "mysql" {
		return `CREATE INDEX ` + name + ` ON ` + table + ` (` + col + `)`
	}
	return `CREATE INDEX IF NOT EXISTS ` + name + ` ON ` + table + ` (` + col + `)`
}
