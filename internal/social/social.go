package social

import (
	"context"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
)

// Source fetches the latest posts of one social account. Failures reaching
// the platform match errors.ErrUpstreamFetch from pkg/errors.
//
//go:generate go run go.uber.org/mock/mockgen -source=social.go -destination=mocks/mock.go
type Source interface {
	Name() string
	FetchPosts(ctx context.Context) ([]domain.RawPost, error)
}
