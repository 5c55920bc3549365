package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/notify"
)

// captureDispatcher records notifications, optionally blocking until
// released so buffer-full behavior can be driven deterministically.
type captureDispatcher struct {
	mu      sync.Mutex
	sent    []notify.Notification
	block   chan struct{}
	failErr error
}

func (d *captureDispatcher) Dispatch(ctx context.Context, n notify.Notification) error {
	if d.block != nil {
		<-d.block
	}
	if d.failErr != nil {
		return d.failErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

func (d *captureDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func note(kind notify.Kind) notify.Notification {
	return notify.Notification{
		Kind:        kind,
		TenantID:    uuid.New(),
		RecipientID: uuid.New(),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestAsyncDispatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delivers in the background", func(t *testing.T) {
		t.Parallel()

		next := &captureDispatcher{}
		async := notify.NewAsyncDispatcher(next, 8)
		defer async.Close()

		require.NoError(t, async.Dispatch(ctx, note(notify.KindBookingCreated)))
		require.NoError(t, async.Dispatch(ctx, note(notify.KindBookingConfirmed)))

		require.Eventually(t, func() bool {
			return next.count() == 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		t.Parallel()

		next := &captureDispatcher{block: make(chan struct{})}
		async := notify.NewAsyncDispatcher(next, 1)

		// First enqueue occupies the worker, second fills the buffer, third
		// must be dropped without blocking the caller.
		for range 3 {
			require.NoError(t, async.Dispatch(ctx, note(notify.KindBookingCreated)))
		}

		close(next.block)
		require.NoError(t, async.Close())
		require.LessOrEqual(t, next.count(), 2)
	})

	t.Run("close drains the queue", func(t *testing.T) {
		t.Parallel()

		next := &captureDispatcher{}
		async := notify.NewAsyncDispatcher(next, 16)

		for range 5 {
			require.NoError(t, async.Dispatch(ctx, note(notify.KindBookingCancelled)))
		}

		require.NoError(t, async.Close())
		require.Equal(t, 5, next.count())
	})

	t.Run("dispatch after close", func(t *testing.T) {
		t.Parallel()

		async := notify.NewAsyncDispatcher(&captureDispatcher{}, 1)
		require.NoError(t, async.Close())

		err := async.Dispatch(ctx, note(notify.KindBookingCreated))
		require.ErrorIs(t, err, notify.ErrDispatcherClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		async := notify.NewAsyncDispatcher(&captureDispatcher{}, 1)
		require.NoError(t, async.Close())
		require.NoError(t, async.Close())
	})

	t.Run("dispatch racing close does not panic", func(t *testing.T) {
		t.Parallel()

		async := notify.NewAsyncDispatcher(&captureDispatcher{}, 4)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					err := async.Dispatch(ctx, note(notify.KindBookingCreated))
					if err != nil {
						require.ErrorIs(t, err, notify.ErrDispatcherClosed)
					}
				}
			}()
		}

		require.NoError(t, async.Close())
		wg.Wait()
	})

	t.Run("downstream failures never reach the caller", func(t *testing.T) {
		t.Parallel()

		next := &captureDispatcher{failErr: errors.New("smtp down")}
		async := notify.NewAsyncDispatcher(next, 4)

		require.NoError(t, async.Dispatch(ctx, note(notify.KindBookingCreated)))
		require.NoError(t, async.Close())
	})
}

func TestMultiDispatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	failing := &captureDispatcher{failErr: errors.New("boom")}
	working := &captureDispatcher{}

	multi := notify.NewMultiDispatcher([]notify.Dispatcher{failing, working})

	require.NoError(t, multi.Dispatch(ctx, note(notify.KindBookingCreated)))
	require.Equal(t, 1, working.count(), "failure of one channel must not stop the others")
}
