package feedimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/orgball2608/vehicle-listing-feed/internal/feed"
	"github.com/orgball2608/vehicle-listing-feed/internal/social"
	pkgerrors "github.com/orgball2608/vehicle-listing-feed/pkg/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "internal/feed"

// Refresh pulls every source once. Callers arriving while a refresh is in
// flight wait for it and share its result.
func (f *FeedImpl) Refresh(ctx context.Context) (feed.Result, error) {
	v, err, shared := f.refreshGroup.Do("refresh", func() (any, error) {
		return f.refresh(ctx)
	})
	if shared {
		f.Logger.Debug("Joined in-flight feed refresh")
	}
	return v.(feed.Result), err
}

func (f *FeedImpl) refresh(ctx context.Context) (feed.Result, error) {
	if len(f.Sources) == 0 {
		f.Logger.Warn("No social sources configured, nothing to refresh")
		return feed.Result{Sources: []feed.SourceResult{}}, nil
	}

	// A first import into an empty store is not announced listing by listing.
	// When the store cannot be checked nothing is announced either.
	announce := false
	latest, err := f.ListingRepo.GetLatest(ctx, 1)
	if err != nil {
		f.Logger.Warn("Failed to check stored listings, new listings will not be announced", "error", err)
	} else {
		announce = len(latest) > 0
	}

	results := make([]feed.SourceResult, len(f.Sources))
	errs := make([]error, len(f.Sources))
	f.runWithAnts(ctx, func(i int, src social.Source) {
		results[i], errs[i] = f.refreshSource(ctx, src, announce)
	})

	err = errors.Join(errs...)
	f.refreshedOK.Store(err == nil)

	f.Logger.Info("Feed refresh finished", "sources", len(results), "failed", countFailed(results))
	return feed.Result{Sources: results}, err
}

// runWithAnts calls fn for every source on a bounded pool and waits.
func (f *FeedImpl) runWithAnts(ctx context.Context, fn func(i int, src social.Source)) {
	workers := f.Config.Listings.Workers
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		f.Logger.Error("Failed to create worker pool, refreshing sequentially", "error", err)
		for i, src := range f.Sources {
			fn(i, src)
		}
		return
	}
	defer pool.Release()

	for i, src := range f.Sources {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			fn(i, src)
		})
		if err != nil {
			wg.Done()
			f.Logger.Error("Failed to submit refresh job, running inline", "source", src.Name(), "error", err)
			fn(i, src)
		}
	}

	wg.Wait()
}

func (f *FeedImpl) refreshSource(ctx context.Context, src social.Source, announce bool) (feed.SourceResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "feed.refresh_source")
	defer span.End()
	span.SetAttributes(attribute.String("feed.source", src.Name()))

	res, err := f.importSource(ctx, src, announce)
	span.SetAttributes(
		attribute.Int("feed.fetched", res.Fetched),
		attribute.Int("feed.created", res.Created),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (f *FeedImpl) importSource(ctx context.Context, src social.Source, announce bool) (feed.SourceResult, error) {
	res := feed.SourceResult{Source: src.Name()}
	log := f.Logger.With("source", src.Name())

	posts, err := src.FetchPosts(ctx)
	if err != nil {
		log.Error("Failed to fetch posts", "error", err)
		f.alertStaff(ctx, fmt.Sprintf("Failed to fetch %s posts: %v", src.Name(), err))
		res.Error = pkgerrors.GetMessage(err)
		return res, fmt.Errorf("%s: %w", src.Name(), err)
	}
	res.Fetched = len(posts)

	listings := f.Extractor.Extract(posts)
	res.Listings = len(listings)

	var storeErrs []error
	for _, l := range listings {
		created, err := f.ListingRepo.Upsert(ctx, l)
		if err != nil {
			log.Error("Failed to store listing", "id", l.ID, "error", err)
			storeErrs = append(storeErrs, err)
			continue
		}
		if !created {
			continue
		}

		res.Created++
		if announce {
			if err := f.Telegram.SendListing(ctx, l); err != nil {
				log.Warn("Failed to announce listing", "id", l.ID, "error", err)
			}
		}
	}

	log.Info("Source refreshed", "fetched", res.Fetched, "listings", res.Listings, "created", res.Created)

	if len(storeErrs) > 0 {
		err := fmt.Errorf("%s: failed to store %d listings: %w", src.Name(), len(storeErrs), errors.Join(storeErrs...))
		res.Error = fmt.Sprintf("failed to store %d listings", len(storeErrs))
		return res, err
	}
	return res, nil
}

func (f *FeedImpl) alertStaff(ctx context.Context, text string) {
	if err := f.Telegram.NotifyStaff(ctx, text); err != nil {
		f.Logger.Warn("Failed to alert staff", "error", err)
	}
}

func countFailed(results []feed.SourceResult) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}
