package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

const table = "vehicles"

var columns = []string{
	"id", "make", "model", "year", "price", "mileage", "fuel", "transmission",
	"body_type", "color", "description", "images", "featured", "created_at", "updated_at",
}

type PgxRepository struct {
	pg          *pgxpool.Pool
	seedPath    string
	initialized atomic.Bool
	now         func() time.Time
	logger      logger.Logger
}

var _ Repository = (*PgxRepository)(nil)

func NewPgx(pg *pgxpool.Pool, seedPath string, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pg:       pg,
		seedPath: seedPath,
		now:      time.Now,
		logger:   logger.WithComponent("PgxInventory"),
	}
}

func (r *PgxRepository) Initialize(ctx context.Context) error {
	if r.initialized.Load() {
		return nil
	}

	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Serializes concurrent seeding across instances.
	if _, err := tx.Exec(ctx, "LOCK TABLE "+table+" IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return fmt.Errorf("failed to lock vehicles: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return fmt.Errorf("failed to count vehicles: %w", err)
	}

	if count == 0 {
		seed, err := LoadSeed(r.seedPath, r.now())
		if err != nil {
			return err
		}
		if len(seed) > 0 {
			builder := repositories.SqBuilder.Insert(table).Columns(columns...)
			for _, v := range seed {
				builder = builder.Values(values(v)...)
			}
			query, args, err := builder.ToSql()
			if err != nil {
				return repositories.ErrBadQuery
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to seed vehicles: %w", err)
			}
		}
		r.logger.Info("Seeded inventory", "count", len(seed))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	r.initialized.Store(true)
	return nil
}

func (r *PgxRepository) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}

	builder := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(filterConditions(filter)).
		OrderBy(orderBy(filter.Sort)...)
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *PgxRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	return r.get(ctx, r.pg, id, false)
}

func (r *PgxRepository) Create(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	if err := Validate(v); err != nil {
		return nil, err
	}

	v.ID = uuid.NewString()
	v.CreatedAt = r.now().UTC()
	v.UpdatedAt = v.CreatedAt
	if v.Images == nil {
		v.Images = []string{}
	}

	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(values(v)...).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	if _, err := r.pg.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return &v, nil
}

func (r *PgxRepository) Update(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	if err := Validate(v); err != nil {
		return nil, err
	}
	if v.Images == nil {
		v.Images = []string{}
	}

	query, args, err := repositories.SqBuilder.
		Update(table).
		SetMap(map[string]any{
			"make":         v.Make,
			"model":        v.Model,
			"year":         v.Year,
			"price":        v.Price,
			"mileage":      v.Mileage,
			"fuel":         v.Fuel,
			"transmission": v.Transmission,
			"body_type":    v.BodyType,
			"color":        v.Color,
			"description":  v.Description,
			"images":       v.Images,
			"featured":     v.Featured,
			"updated_at":   r.now().UTC(),
		}).
		Where(sq.Eq{"id": v.ID}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	updated, err := scanVehicle(r.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update vehicle %s: %w", v.ID, err)
	}
	return &updated, nil
}

func (r *PgxRepository) Delete(ctx context.Context, id string) error {
	if !r.initialized.Load() {
		return ErrNotInitialized
	}

	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pg.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgxRepository) ReorderImages(ctx context.Context, id string, images []string) (*domain.Vehicle, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}

	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	current, err := r.get(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := checkPermutation(current.Images, images); err != nil {
		return nil, err
	}

	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("images", append([]string{}, images...)).
		Set("updated_at", r.now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	updated, err := scanVehicle(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to reorder images of vehicle %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit image order: %w", err)
	}
	return &updated, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxRepository) get(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Vehicle, error) {
	builder := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	v, err := scanVehicle(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle %s: %w", id, err)
	}
	return &v, nil
}

// filterConditions mirrors domain.VehicleFilter.Matches in SQL.
func filterConditions(f domain.VehicleFilter) sq.And {
	conds := sq.And{}
	if f.Make != "" {
		conds = append(conds, sq.Expr("LOWER(make) = LOWER(?)", f.Make))
	}
	if f.Model != "" {
		conds = append(conds, sq.ILike{"model": repositories.Contains(f.Model)})
	}
	if f.Query != "" {
		conds = append(conds, sq.Expr("(make || ' ' || model || ' ' || description || ' ' || color) ILIKE ?",
			repositories.Contains(f.Query)))
	}
	if f.MinYear > 0 {
		conds = append(conds, sq.GtOrEq{"year": f.MinYear})
	}
	if f.MaxYear > 0 {
		conds = append(conds, sq.LtOrEq{"year": f.MaxYear})
	}
	if f.MinPrice > 0 {
		conds = append(conds, sq.GtOrEq{"price": f.MinPrice})
	}
	if f.MaxPrice > 0 {
		conds = append(conds, sq.LtOrEq{"price": f.MaxPrice})
	}
	if f.MaxMileage > 0 {
		conds = append(conds, sq.LtOrEq{"mileage": f.MaxMileage})
	}
	if f.Fuel != "" {
		conds = append(conds, sq.Expr("LOWER(fuel) = LOWER(?)", f.Fuel))
	}
	if f.Transmission != "" {
		conds = append(conds, sq.Expr("LOWER(transmission) = LOWER(?)", f.Transmission))
	}
	if f.BodyType != "" {
		conds = append(conds, sq.Expr("LOWER(body_type) = LOWER(?)", f.BodyType))
	}
	if f.FeaturedOnly {
		conds = append(conds, sq.Eq{"featured": true})
	}
	return conds
}

func orderBy(sort string) []string {
	switch sort {
	case domain.SortPriceAsc:
		return []string{"price ASC", "id"}
	case domain.SortPriceDesc:
		return []string{"price DESC", "id"}
	case domain.SortYearDesc:
		return []string{"year DESC", "id"}
	case domain.SortMileage:
		return []string{"mileage ASC", "id"}
	default:
		return []string{"created_at DESC", "id"}
	}
}

func values(v domain.Vehicle) []any {
	return []any{
		v.ID, v.Make, v.Model, v.Year, v.Price, v.Mileage, v.Fuel, v.Transmission,
		v.BodyType, v.Color, v.Description, v.Images, v.Featured, v.CreatedAt, v.UpdatedAt,
	}
}

func scanVehicle(row pgx.Row) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Price, &v.Mileage, &v.Fuel, &v.Transmission,
		&v.BodyType, &v.Color, &v.Description, &v.Images, &v.Featured, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
