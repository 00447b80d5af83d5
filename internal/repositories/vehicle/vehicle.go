package vehicle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	pkgerrors "github.com/orgball2608/vehicle-listing-feed/pkg/errors"
)

var (
	ErrNotFound       = pkgerrors.NotFound("vehicle not found")
	ErrNotInitialized = pkgerrors.Unavailable(pkgerrors.CodeNotInitialized, "inventory store not initialized")
)

// Repository is the inventory store. Every method except Initialize fails
// with ErrNotInitialized until Initialize has succeeded.
//
//go:generate go run go.uber.org/mock/mockgen -source=vehicle.go -destination=mocks/mock.go
type Repository interface {
	// Initialize seeds an empty store. Calling it again is a no-op.
	Initialize(ctx context.Context) error

	List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// Create assigns the id and timestamps.
	Create(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	Update(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id string) error

	// ReorderImages replaces the image order. images must hold exactly the
	// vehicle's current images.
	ReorderImages(ctx context.Context, id string, images []string) (*domain.Vehicle, error)
}

const minYear = 1900

// Validate checks the fields staff can edit.
func Validate(v domain.Vehicle) error {
	switch {
	case strings.TrimSpace(v.Make) == "":
		return pkgerrors.Invalid("make is required")
	case strings.TrimSpace(v.Model) == "":
		return pkgerrors.Invalid("model is required")
	case v.Year < minYear || v.Year > time.Now().Year()+1:
		return pkgerrors.Invalid(fmt.Sprintf("year must be between %d and %d", minYear, time.Now().Year()+1))
	case v.Price < 0:
		return pkgerrors.Invalid("price must not be negative")
	case v.Mileage < 0:
		return pkgerrors.Invalid("mileage must not be negative")
	}
	for _, img := range v.Images {
		if strings.TrimSpace(img) == "" {
			return pkgerrors.Invalid("images must not contain empty urls")
		}
	}
	return nil
}

func checkPermutation(current, next []string) error {
	if !isPermutation(current, next) {
		return pkgerrors.Invalid("images must be a permutation of the current images")
	}
	return nil
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}

func paginate(vs []domain.Vehicle, offset, limit int) []domain.Vehicle {
	if offset >= len(vs) {
		return []domain.Vehicle{}
	}
	if offset > 0 {
		vs = vs[offset:]
	}
	if limit > 0 && limit < len(vs) {
		vs = vs[:limit]
	}
	return vs
}
