package watch

import (
	"context"
	"time"
)

// DefaultPendingInterval is the admin pending-count poll cadence.
const DefaultPendingInterval = 15 * time.Second

// CountFunc fetches the current number of pending orders.
type CountFunc func(ctx context.Context) (int64, error)

// PendingCountWatcher polls the pending order count on a fixed interval and
// notifies once each time the count rises above the last observed value. A
// falling count resets the baseline silently. Fetch errors skip the tick.
type PendingCountWatcher struct {
	fetch    CountFunc
	interval time.Duration
}

func NewPendingCountWatcher(fetch CountFunc, interval time.Duration) *PendingCountWatcher {
	if interval <= 0 {
		interval = DefaultPendingInterval
	}
	return &PendingCountWatcher{fetch: fetch, interval: interval}
}

// Watch polls until ctx is cancelled. onIncrease is called with the new count
// exactly once per observed increase.
func (w *PendingCountWatcher) Watch(ctx context.Context, onIncrease func(count int64)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last, err := w.fetch(ctx)
	if err != nil {
		last = 0
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		count, err := w.fetch(ctx)
		if err != nil {
			continue
		}
		if count > last && onIncrease != nil {
			onIncrease(count)
		}
		last = count
	}
}
