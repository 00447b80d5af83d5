package listing

import (
	"context"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/pkg/errors"
)

var ErrNotFound = errors.NotFound("listing not found")

//go:generate go run go.uber.org/mock/mockgen -source=listing.go -destination=mocks/mock.go
type Repository interface {
	// Upsert stores the listing, replacing a stored listing with the same id.
	// created is true when the id was not stored before.
	Upsert(ctx context.Context, listing domain.ExtractedListing) (created bool, err error)

	Exists(ctx context.Context, id string) (bool, error)

	GetByID(ctx context.Context, id string) (*domain.ExtractedListing, error)

	// GetLatest returns up to limit listings, newest post first.
	GetLatest(ctx context.Context, limit int) ([]domain.ExtractedListing, error)

	// CleanupOldRecords deletes listings whose post is older than olderThan.
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
