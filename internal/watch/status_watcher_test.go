package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"curepharmax/internal/models"
)

func TestStatusWatcher_StopsOnTerminalStatus(t *testing.T) {
	orderID := uuid.New()
	var calls int32

	fetch := func(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
		assert.Equal(t, orderID, id)
		if atomic.AddInt32(&calls, 1) < 3 {
			return models.OrderStatusPending, nil
		}
		return models.OrderStatusApproved, nil
	}

	var observed []models.OrderStatus
	w := NewStatusWatcher(fetch, time.Millisecond)
	status, err := w.Watch(context.Background(), orderID, func(s models.OrderStatus) {
		observed = append(observed, s)
	})

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, status)
	assert.Equal(t, []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusPending,
		models.OrderStatusApproved,
	}, observed)
}

func TestStatusWatcher_ImmediateTerminalSkipsTicker(t *testing.T) {
	fetch := func(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
		return models.OrderStatusRejected, nil
	}

	// A long interval proves the first fetch happens before any tick.
	w := NewStatusWatcher(fetch, time.Hour)

	done := make(chan struct{})
	var status models.OrderStatus
	var err error
	go func() {
		status, err = w.Watch(context.Background(), uuid.New(), nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not return on an immediately terminal status")
	}
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, status)
}

func TestStatusWatcher_StopsOnFetchError(t *testing.T) {
	fetchErr := errors.New("order vanished")
	var calls int32

	fetch := func(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return models.OrderStatusPending, nil
		}
		return "", fetchErr
	}

	w := NewStatusWatcher(fetch, time.Millisecond)
	status, err := w.Watch(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, models.OrderStatus(""), status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStatusWatcher_ContextCancellation(t *testing.T) {
	fetch := func(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
		return models.OrderStatusPending, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewStatusWatcher(fetch, time.Hour)
	status, err := w.Watch(ctx, uuid.New(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.OrderStatusPending, status)
}

func TestStatusWatcher_DefaultInterval(t *testing.T) {
	w := NewStatusWatcher(nil, 0)
	assert.Equal(t, DefaultStatusInterval, w.interval)

	w = NewStatusWatcher(nil, -time.Second)
	assert.Equal(t, DefaultStatusInterval, w.interval)
}
