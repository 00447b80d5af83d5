package feedimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	refreshTimeout = 5 * time.Minute
	cleanupTimeout = 5 * time.Minute
)

// ScheduleRefresh refreshes the feed right away and then every
// LISTINGS_REFRESH_INTERVAL. A run still going when the next one is due
// delays it instead of overlapping.
func (f *FeedImpl) ScheduleRefresh(ctx context.Context) error {
	interval := f.Config.Listings.RefreshInterval
	if interval <= 0 {
		return fmt.Errorf("invalid refresh interval %s", interval)
	}

	_, err := f.Scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				f.Logger.Info("Context cancelled, skipping feed refresh")
				return
			}

			taskCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
			defer cancel()

			if _, err := f.Refresh(taskCtx); err != nil {
				f.Logger.Error("Scheduled feed refresh failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithName("feed-refresh"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	f.Logger.Info("Feed refresh scheduled", "interval", interval.String())
	f.start(ctx)
	return nil
}

// ScheduleCleanup deletes listings older than LISTINGS_RETENTION every day
// at 03:00.
func (f *FeedImpl) ScheduleCleanup(ctx context.Context) error {
	retention := f.Config.Listings.Retention
	if retention <= 0 {
		f.Logger.Info("Listing retention disabled, cleanup not scheduled")
		return nil
	}

	_, err := f.Scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				f.Logger.Info("Context cancelled, skipping listing cleanup")
				return
			}
			f.cleanup(ctx, retention)
		}),
		gocron.WithName("listing-cleanup"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule listing cleanup: %w", err)
	}

	f.Logger.Info("Listing cleanup scheduled", "retention", retention.String())
	f.start(ctx)
	return nil
}

func (f *FeedImpl) cleanup(ctx context.Context, retention time.Duration) {
	cleanupCtx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	rowsDeleted, err := f.ListingRepo.CleanupOldRecords(cleanupCtx, retention)
	if err != nil {
		f.Logger.Error("Failed to clean up old listings", "error", err)
		return
	}
	f.Logger.Info("Listing cleanup completed", "rows_deleted", rowsDeleted)
}

// start runs the scheduler once and stops it when ctx is done.
func (f *FeedImpl) start(ctx context.Context) {
	f.startOnce.Do(func() {
		f.Scheduler.Start()

		go func() {
			<-ctx.Done()
			if err := f.Stop(); err != nil {
				f.Logger.Error("Failed to shut down feed scheduler", "error", err)
			}
		}()
	})
}
