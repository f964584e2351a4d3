package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedCounts returns a CountFunc that replays the script one entry per
// call and holds the last entry forever. The WaitGroup completes once every
// scripted entry has been consumed.
func scriptedCounts(script []int64, errAt map[int]error) (CountFunc, *sync.WaitGroup) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(len(script))
	call := 0

	fetch := func(ctx context.Context) (int64, error) {
		mu.Lock()
		defer mu.Unlock()
		idx := call
		if idx < len(script) {
			call++
			wg.Done()
		} else {
			idx = len(script) - 1
		}
		if err, ok := errAt[idx]; ok {
			return 0, err
		}
		return script[idx], nil
	}
	return fetch, &wg
}

func runWatcher(t *testing.T, fetch CountFunc, wg *sync.WaitGroup) []int64 {
	t.Helper()

	var mu sync.Mutex
	var increases []int64

	ctx, cancel := context.WithCancel(context.Background())
	w := NewPendingCountWatcher(fetch, time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = w.Watch(ctx, func(count int64) {
			mu.Lock()
			increases = append(increases, count)
			mu.Unlock()
		})
		close(done)
	}()

	scriptDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(scriptDone)
	}()
	select {
	case <-scriptDone:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not consume the scripted counts in time")
	}
	// One extra tick so the last observation is fully processed.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return append([]int64(nil), increases...)
}

func TestPendingCountWatcher_NotifiesOncePerIncrease(t *testing.T) {
	fetch, wg := scriptedCounts([]int64{2, 2, 3, 3, 5}, nil)

	increases := runWatcher(t, fetch, wg)

	assert.Equal(t, []int64{3, 5}, increases)
}

func TestPendingCountWatcher_FallingCountResetsBaseline(t *testing.T) {
	// 4 -> 1 is silent; 1 -> 2 notifies even though 2 < 4.
	fetch, wg := scriptedCounts([]int64{4, 1, 2}, nil)

	increases := runWatcher(t, fetch, wg)

	assert.Equal(t, []int64{2}, increases)
}

func TestPendingCountWatcher_FetchErrorSkipsTick(t *testing.T) {
	fetch, wg := scriptedCounts([]int64{1, 0, 2}, map[int]error{1: errors.New("redis down")})

	increases := runWatcher(t, fetch, wg)

	assert.Equal(t, []int64{2}, increases)
}

func TestPendingCountWatcher_InitialFetchErrorBaselinesAtZero(t *testing.T) {
	fetch, wg := scriptedCounts([]int64{0, 1}, map[int]error{0: errors.New("redis down")})

	increases := runWatcher(t, fetch, wg)

	assert.Equal(t, []int64{1}, increases)
}

func TestPendingCountWatcher_StopsOnCancel(t *testing.T) {
	fetch := func(ctx context.Context) (int64, error) { return 0, nil }

	ctx, cancel := context.WithCancel(context.Background())
	w := NewPendingCountWatcher(fetch, time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestPendingCountWatcher_DefaultInterval(t *testing.T) {
	w := NewPendingCountWatcher(nil, 0)
	assert.Equal(t, DefaultPendingInterval, w.interval)
}
