package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAPITokens, downCreateAPITokens)
}

func upCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	var timeCol, nullTimeCol, idCol, hashCol string
	switch dialect {
	case "postgres":
		timeCol, nullTimeCol = "TIMESTAMPTZ NOT NULL", "TIMESTAMPTZ NULL"
		idCol, hashCol = "TEXT", "TEXT"
	case "mysql":
		timeCol, nullTimeCol = "DATETIME(6) NOT NULL", "DATETIME(6) NULL"
		idCol, hashCol = "VARCHAR(36)", "VARCHAR(64)"
	default: // sqlite3
		timeCol, nullTimeCol = "TIMESTAMP NOT NULL", "TIMESTAMP NULL"
		idCol, hashCol = "TEXT", "TEXT"
	}

	ddl := `CREATE TABLE IF NOT EXISTS api_tokens (
    id           ` + idCol + ` PRIMARY KEY,
    name         TEXT NOT NULL,
    token_hash   ` + hashCol + ` NOT NULL UNIQUE,
    last_used_at ` + nullTimeCol + `,
    expires_at   ` + nullTimeCol + `,
    created_at   ` + timeCol + `,
    revoked_at   ` + nullTimeCol + `
)`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create api_tokens table: %w", err)
	}
	return nil
}

func downCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS api_tokens`)
	return err
}
