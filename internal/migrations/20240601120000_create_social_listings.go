package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSocialListings, downCreateSocialListings)
}

func upCreateSocialListings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE social_listings (
			id           TEXT PRIMARY KEY,
			source       TEXT NOT NULL,
			images       TEXT[] NOT NULL DEFAULT '{}',
			description  TEXT NOT NULL,
			price        TEXT NOT NULL,
			created_time TIMESTAMP WITH TIME ZONE,
			permalink    TEXT NOT NULL,
			fetched_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX social_listings_created_time_idx ON social_listings (created_time DESC NULLS LAST, id);
	`)
	return err
}

func downCreateSocialListings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS social_listings;`)
	return err
}
