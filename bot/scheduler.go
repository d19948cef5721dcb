package bot

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"chick-bot/interests"
	"chick-bot/models"
)

var (
	interestRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chick_interest_refreshes_total",
		Help: "The total number of interest feed fetches",
	}, []string{"result"})

	trackedInterests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chick_tracked_interests",
		Help: "The number of threads with a known interest",
	})
)

func countFetches(fetch interests.FetchFunc) interests.FetchFunc {
	return func(ctx context.Context) ([]models.FeedItem, error) {
		items, err := fetch(ctx)
		if err != nil {
			interestRefreshes.WithLabelValues("error").Inc()
			return nil, err
		}
		interestRefreshes.WithLabelValues("ok").Inc()
		return items, nil
	}
}

// startScheduler schedules the interests refresh and runs one right away
// so the store is filled shortly after startup.
func (b *Bot) startScheduler(ctx context.Context) error {
	// A refresh still running when the next tick fires is not doubled.
	b.cron = cron.New(
		cron.WithLocation(b.location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := b.cron.AddFunc(b.cfg.Interests.Schedule, func() {
		b.refreshInterests(ctx)
	})
	if err != nil {
		return fmt.Errorf("could not set up interests refresh: %w", err)
	}
	b.cron.Start()
	b.logger.Info("interests refresh scheduled", "schedule", b.cfg.Interests.Schedule)

	go b.refreshInterests(ctx)
	return nil
}

func (b *Bot) refreshInterests(ctx context.Context) {
	b.logger.Debug("refreshing interests")
	b.Interests.Refresh(ctx, b.fetcher)
	trackedInterests.Set(float64(b.Interests.Len()))
}

// stopScheduler stops the cron jobs and waits for a running refresh.
func (b *Bot) stopScheduler() {
	if b.cron == nil {
		return
	}
	<-b.cron.Stop().Done()
	b.logger.Info("scheduler stopped")
}
