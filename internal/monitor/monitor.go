package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace-phone-bot/internal/config"
	"marketplace-phone-bot/internal/filter"
	"marketplace-phone-bot/internal/models"
)

// Monitor owns the seen-set and drives the fetch-filter-notify cycle. It is
// the only goroutine touching its state, so no locking is needed.
type Monitor struct {
	source   ListingSource
	notifier Notifier
	cfg      *config.Config
	seen     map[string]struct{}
}

func New(source ListingSource, notifier Notifier, cfg *config.Config) *Monitor {
	return &Monitor{
		source:   source,
		notifier: notifier,
		cfg:      cfg,
		seen:     make(map[string]struct{}),
	}
}

// Run executes cycles forever, waiting cfg.Interval between the end of one
// cycle and the start of the next. It returns only when ctx is cancelled.
// A failed cycle is logged and skipped; it never stops the loop.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Starting monitoring loop", "interval", m.cfg.Interval)

	timer := time.NewTimer(m.cfg.Interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		newCount, err := m.RunCycle(ctx)
		switch {
		case err == nil:
			slog.Info("Cycle complete", "new_listings", newCount, "seen_total", len(m.seen))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, models.ErrSourceUnavailable):
			slog.Warn("Listing source unavailable, skipping cycle", "error", err)
		default:
			slog.Error("Cycle failed", "error", err)
		}

		timer.Reset(m.cfg.Interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle performs one full fetch-normalize-filter-dedup-notify pass and
// returns the number of newly notified listings. Dispatch order follows the
// source's listing order.
func (m *Monitor) RunCycle(ctx context.Context) (int, error) {
	raws, err := m.source.Fetch(ctx, m.cfg.SearchTerms(), m.cfg.Locations)
	if err != nil {
		return 0, err
	}
	slog.Debug("Fetched listings", "count", len(raws))

	// Reset the seen-set once it outgrows the ceiling; process lifetime is
	// the real bound, this just keeps long deployments from growing forever.
	if len(m.seen) > m.cfg.MaxSeenListings {
		slog.Info("Resetting seen listings cache", "size", len(m.seen))
		m.seen = make(map[string]struct{})
	}

	newCount := 0
	for _, raw := range raws {
		listing := filter.Normalize(raw)
		if listing == nil {
			slog.Debug("Dropped unparseable listing", "title", raw.Title)
			continue
		}
		if !filter.Matches(listing, m.cfg) {
			continue
		}
		if _, dup := m.seen[listing.ID]; dup {
			continue
		}

		// Insert before send: at-most-once delivery. A failed delivery is
		// never retried for this listing.
		m.seen[listing.ID] = struct{}{}
		newCount++

		if err := m.notifier.Notify(ctx, *listing); err != nil {
			slog.Error("Notification delivery failed",
				"title", listing.Title, "price", listing.Price, "error", err)
			continue
		}
		slog.Info("New listing notified",
			"title", listing.Title, "price", listing.Price, "location", listing.Location)
	}

	return newCount, nil
}

// SeenCount reports the current size of the seen-set.
func (m *Monitor) SeenCount() int {
	return len(m.seen)
}
