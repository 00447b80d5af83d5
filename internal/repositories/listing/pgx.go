package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

const table = "social_listings"

var columns = []string{"id", "source", "images", "description", "price", "created_time", "permalink"}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
	now    func() time.Time
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ListingRepo"),
		now:    time.Now,
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Upsert(ctx context.Context, l domain.ExtractedListing) (bool, error) {
	images := l.Images
	if images == nil {
		images = []string{}
	}

	// xmax is 0 only for rows written by a plain insert.
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("id", "source", "images", "description", "price", "created_time", "permalink", "fetched_at").
		Values(l.ID, l.Source, images, l.Description, l.Price, nullTime(l.CreatedTime), l.Permalink, p.now().UTC()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			images = EXCLUDED.images,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			created_time = EXCLUDED.created_time,
			permalink = EXCLUDED.permalink,
			fetched_at = EXCLUDED.fetched_at
			RETURNING (xmax = 0)`).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var created bool
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&created); err != nil {
		return false, fmt.Errorf("failed to upsert listing %s: %w", l.ID, err)
	}
	return created, nil
}

func (p *Pgx) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From(table).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = p.pg.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check listing %s: %w", id, err)
	}
	return true, nil
}

func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.ExtractedListing, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	l, err := scanListing(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return &l, nil
}

func (p *Pgx) GetLatest(ctx context.Context, limit int) ([]domain.ExtractedListing, error) {
	builder := repositories.SqBuilder.
		Select(columns...).
		From(table).
		OrderBy("created_time DESC NULLS LAST", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.ExtractedListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// CleanupOldRecords falls back to the fetch time for posts without a
// creation time.
func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := p.now().Add(-olderThan).UTC()

	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Expr("COALESCE(created_time, fetched_at) < ?", cutoff)).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old listings: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanListing(row pgx.Row) (domain.ExtractedListing, error) {
	var (
		l       domain.ExtractedListing
		created *time.Time
	)
	if err := row.Scan(&l.ID, &l.Source, &l.Images, &l.Description, &l.Price, &created, &l.Permalink); err != nil {
		return domain.ExtractedListing{}, err
	}
	if created != nil {
		l.CreatedTime = created.UTC()
	}
	return l, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
