package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateVehicles, downCreateVehicles)
}

func upCreateVehicles(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE vehicles (
			id           TEXT PRIMARY KEY,
			make         TEXT NOT NULL,
			model        TEXT NOT NULL,
			year         INTEGER NOT NULL,
			price        INTEGER NOT NULL DEFAULT 0,
			mileage      INTEGER NOT NULL DEFAULT 0,
			fuel         TEXT NOT NULL DEFAULT '',
			transmission TEXT NOT NULL DEFAULT '',
			body_type    TEXT NOT NULL DEFAULT '',
			color        TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			images       TEXT[] NOT NULL DEFAULT '{}',
			featured     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at   TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX vehicles_created_at_idx ON vehicles (created_at DESC, id);
		CREATE INDEX vehicles_make_idx ON vehicles (LOWER(make));
	`)
	return err
}

func downCreateVehicles(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS vehicles;`)
	return err
}
