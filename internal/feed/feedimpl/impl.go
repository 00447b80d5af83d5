package feedimpl

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/extractor"
	"github.com/orgball2608/vehicle-listing-feed/internal/feed"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/listing"
	"github.com/orgball2608/vehicle-listing-feed/internal/social"
	"github.com/orgball2608/vehicle-listing-feed/internal/telegram"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

type Opts struct {
	fx.In

	Sources     []social.Source
	Extractor   *extractor.Extractor
	ListingRepo listing.Repository
	Telegram    telegram.Client
	Logger      logger.Logger
	Config      *config.Config
}

type FeedImpl struct {
	Sources     []social.Source
	Extractor   *extractor.Extractor
	ListingRepo listing.Repository
	Telegram    telegram.Client
	Logger      logger.Logger
	Config      *config.Config
	Scheduler   gocron.Scheduler

	refreshGroup singleflight.Group
	refreshedOK  atomic.Bool
	startOnce    sync.Once
	stopOnce     sync.Once
}

var _ feed.Service = (*FeedImpl)(nil)

func New(opts Opts) (*FeedImpl, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create feed scheduler: %w", err)
	}

	return &FeedImpl{
		Sources:     opts.Sources,
		Extractor:   opts.Extractor,
		ListingRepo: opts.ListingRepo,
		Telegram:    opts.Telegram,
		Logger:      opts.Logger.WithComponent("FeedService"),
		Config:      opts.Config,
		Scheduler:   scheduler,
	}, nil
}

// Listings never fails: storage errors are logged and the fallback set is
// served instead.
func (f *FeedImpl) Listings(ctx context.Context) ([]domain.Listing, error) {
	stored, err := f.ListingRepo.GetLatest(ctx, f.Config.Listings.Limit)
	if err != nil {
		f.Logger.Error("Failed to load stored listings, serving fallback", "error", err)
		return Fallback(), nil
	}

	if len(stored) == 0 && !f.refreshedOK.Load() {
		f.Logger.Debug("No stored listings yet, serving fallback")
		return Fallback(), nil
	}

	return lo.Map(stored, func(l domain.ExtractedListing, _ int) domain.Listing {
		return l.ToDisplay()
	}), nil
}

// Stop is safe to call more than once.
func (f *FeedImpl) Stop() error {
	var err error
	f.stopOnce.Do(func() {
		f.Logger.Info("Stopping feed scheduler")
		err = f.Scheduler.Shutdown()
	})
	return err
}
