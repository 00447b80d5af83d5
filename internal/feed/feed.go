package feed

import (
	"context"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
)

// SourceResult summarizes one source during a refresh.
type SourceResult struct {
	Source   string `json:"source"`
	Fetched  int    `json:"fetched"`
	Listings int    `json:"listings"`
	Created  int    `json:"created"`
	Error    string `json:"error,omitempty"`
}

type Result struct {
	Sources []SourceResult `json:"sources"`
}

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go
type Service interface {
	// Refresh pulls every source and stores the listings found. Sources that
	// fail are skipped and their errors joined into the returned error.
	Refresh(ctx context.Context) (Result, error)

	// Listings returns the stored listings for display, or the fallback set
	// when nothing is stored and no refresh has fully succeeded.
	Listings(ctx context.Context) ([]domain.Listing, error)

	ScheduleRefresh(ctx context.Context) error
	ScheduleCleanup(ctx context.Context) error

	// Stop shuts the schedulers down, waiting for running jobs.
	Stop() error
}
