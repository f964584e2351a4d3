// Package watch implements the fixed-interval pollers behind the storefront:
// the customer-side order status watcher and the admin pending-count watcher.
package watch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

// DefaultStatusInterval is the order status poll cadence.
const DefaultStatusInterval = 5 * time.Second

// StatusFunc fetches the current status of one order.
type StatusFunc func(ctx context.Context, orderID uuid.UUID) (models.OrderStatus, error)

// StatusWatcher polls one order's status on a fixed interval and reports each
// observation. The loop stops on the first terminal status or the first fetch
// error; there is no retry or backoff.
type StatusWatcher struct {
	fetch    StatusFunc
	interval time.Duration
}

func NewStatusWatcher(fetch StatusFunc, interval time.Duration) *StatusWatcher {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &StatusWatcher{fetch: fetch, interval: interval}
}

// Watch polls until the order reaches a terminal status, a fetch fails, or
// ctx is cancelled. onStatus is called once per observation, including the
// terminal one. The terminal status is returned; a fetch error is returned
// as-is after stopping.
func (w *StatusWatcher) Watch(ctx context.Context, orderID uuid.UUID, onStatus func(models.OrderStatus)) (models.OrderStatus, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		status, err := w.fetch(ctx, orderID)
		if err != nil {
			return "", err
		}
		if onStatus != nil {
			onStatus(status)
		}
		if status.Terminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
