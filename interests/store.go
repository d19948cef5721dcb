// Package interests tracks interest threads, the roles to notify about
// activity in them and when each was last notified.
package interests

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chick-bot/models"
)

// DefaultCooldown is the minimum time between two notifications of the
// same interest.
const DefaultCooldown = 24 * time.Hour

// FetchFunc returns the full current interests feed.
type FetchFunc func(ctx context.Context) ([]models.FeedItem, error)

// Reporter receives human readable error reports.
type Reporter interface {
	Report(ctx context.Context, message string)
}

// Merge builds the snapshot for payload. It holds exactly the payload's
// thread IDs; threads already in current keep their last notification
// time, new threads start without one. current is not modified.
func Merge(payload []models.FeedItem, current map[int64]models.Interest) map[int64]models.Interest {
	merged := make(map[int64]models.Interest, len(payload))
	for _, item := range payload {
		interest := models.Interest{ThreadID: item.ThreadID, RoleID: item.RoleID}
		if old, ok := current[item.ThreadID]; ok {
			interest.LastNotifiedAt = old.LastNotifiedAt
		}
		merged[item.ThreadID] = interest
	}
	return merged
}

// ShouldNotify reports whether interest may be notified at now. An
// interest never notified is always eligible, otherwise at least
// cooldown must have passed. A non-positive cooldown means
// DefaultCooldown.
func ShouldNotify(interest models.Interest, now time.Time, cooldown time.Duration) bool {
	if interest.LastNotifiedAt == nil {
		return true
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return now.Sub(*interest.LastNotifiedAt) >= cooldown
}

// Store owns the interests snapshot. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	interests map[int64]models.Interest

	cooldown time.Duration
	clock    Clock
	reporter Reporter
	logger   *slog.Logger
}

// NewStore creates an empty store. A nil clock means RealClock, a
// non-positive cooldown means DefaultCooldown, reporter may be nil.
func NewStore(clock Clock, cooldown time.Duration, reporter Reporter, logger *slog.Logger) *Store {
	if clock == nil {
		clock = RealClock()
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		interests: make(map[int64]models.Interest),
		cooldown:  cooldown,
		clock:     clock,
		reporter:  reporter,
		logger:    logger,
	}
}

// Refresh fetches the feed and replaces the snapshot with the merged
// result. The fetch runs without holding the lock. On failure the
// snapshot stays as it is and the error goes to the reporter.
func (s *Store) Refresh(ctx context.Context, fetch FetchFunc) {
	payload, err := fetch(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Error("failed to fetch interests", "error", err)
		if s.reporter != nil {
			s.reporter.Report(ctx, fmt.Sprintf("⚠️ Failed to fetch interests:\n\n```\n%s\n```", err))
		}
		return
	}

	s.mu.Lock()
	s.interests = Merge(payload, s.interests)
	count := len(s.interests)
	s.mu.Unlock()

	s.logger.Info("interests refreshed", "count", count)
}

// Get returns the interest tracked for threadID.
func (s *Store) Get(threadID int64) (models.Interest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interest, ok := s.interests[threadID]
	return interest, ok
}

// Len returns the number of tracked interests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interests)
}

// Cooldown returns the store's notification cooldown.
func (s *Store) Cooldown() time.Duration {
	return s.cooldown
}

// TryNotifyAt decides whether activity in threadID at now should notify
// its role and, if so, records now as the notification time. Lookup,
// decision and write happen under one lock, so of two concurrent calls
// only one can win. The caller performs the notification itself after
// this returns true.
func (s *Store) TryNotifyAt(threadID int64, now time.Time) (models.Interest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interest, ok := s.interests[threadID]
	if !ok || !ShouldNotify(interest, now, s.cooldown) {
		return interest, false
	}
	notifiedAt := now
	interest.LastNotifiedAt = &notifiedAt
	s.interests[threadID] = interest
	return interest, true
}

// TryNotify is TryNotifyAt with the store's clock.
func (s *Store) TryNotify(threadID int64) (models.Interest, bool) {
	return s.TryNotifyAt(threadID, s.clock.Now())
}
