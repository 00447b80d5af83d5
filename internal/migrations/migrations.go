// Package migrations registers the schema migrations with goose. Importing
// it is enough; no migration files are read from disk.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const dialect = "postgres"

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Run executes a goose command such as status, down or reset.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.RunContext(ctx, command, db, ".", args...)
}
