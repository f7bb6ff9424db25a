// Package migrations applies the database schema in order at startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// statements run in order; each must be idempotent so restarting the app
// against an existing database is safe.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		kakao_id VARCHAR(64) NOT NULL UNIQUE,
		plusfriend_user_key VARCHAR(64) UNIQUE,
		app_user_id VARCHAR(64) UNIQUE,
		kakao_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_plusfriend_user_key ON users (plusfriend_user_key)`,
	`CREATE INDEX IF NOT EXISTS idx_users_app_user_id ON users (app_user_id)`,
}

// Apply executes all migrations against the database.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
