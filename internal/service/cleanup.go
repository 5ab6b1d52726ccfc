package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// Cleaner deletes bills older than the retention period.
type Cleaner struct {
	store     storage.Store
	metrics   *metrics.Metrics
	retention time.Duration
	now       func() time.Time
}

// NewCleaner creates a Cleaner. A zero retention keeps bills forever.
func NewCleaner(store storage.Store, m *metrics.Metrics, retention time.Duration) *Cleaner {
	return &Cleaner{store: store, metrics: m, retention: retention, now: time.Now}
}

// PurgeExpired deletes bills created before now - retention.
func (c *Cleaner) PurgeExpired(ctx context.Context) (int64, error) {
	if c.retention <= 0 {
		return 0, nil
	}

	n, err := c.store.PurgeBillsBefore(ctx, c.now().Add(-c.retention))
	if err != nil {
		return 0, err
	}
	if c.metrics != nil {
		c.metrics.BillsPurged.Add(float64(n))
	}
	if n > 0 {
		slog.Info("Expired bills purged", "count", n, "retention", c.retention)
	}
	return n, nil
}

// Run purges once immediately and then every interval until ctx is done.
func (c *Cleaner) Run(ctx context.Context, interval time.Duration) {
	if c.retention <= 0 {
		slog.Info("Bill retention disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Failed to purge expired bills", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
