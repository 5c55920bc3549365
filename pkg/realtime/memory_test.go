package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/realtime"
)

func TestHub(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	recv := func(t *testing.T, sub *realtime.Subscriber) realtime.Event {
		t.Helper()
		select {
		case ev, ok := <-sub.Receive():
			require.True(t, ok, "subscriber closed unexpectedly")
			return ev
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
			return realtime.Event{}
		}
	}

	t.Run("tenant events reach tenant subscribers", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(4)
		defer hub.Close()

		tenantID := uuid.New()
		sub := hub.SubscribeTenant(ctx, tenantID)

		require.NoError(t, hub.EmitTenant(ctx, tenantID, "booking.created", map[string]any{"booking_id": "b1"}))

		ev := recv(t, sub)
		require.Equal(t, "booking.created", ev.Name)
		require.Equal(t, "b1", ev.Payload["booking_id"])
	})

	t.Run("topics are isolated", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(4)
		defer hub.Close()

		tenantA := uuid.New()
		tenantB := uuid.New()
		subA := hub.SubscribeTenant(ctx, tenantA)
		subB := hub.SubscribeTenant(ctx, tenantB)

		require.NoError(t, hub.EmitTenant(ctx, tenantA, "booking.created", nil))

		recv(t, subA)
		select {
		case ev := <-subB.Receive():
			t.Fatalf("tenant B received foreign event %q", ev.Name)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("user events reach only that user", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(4)
		defer hub.Close()

		userID := uuid.New()
		sub := hub.SubscribeUser(ctx, userID)

		require.NoError(t, hub.EmitUser(ctx, userID, "booking.confirmed", nil))
		require.Equal(t, "booking.confirmed", recv(t, sub).Name)

		// Same ID as a tenant topic must not cross over.
		require.NoError(t, hub.EmitTenant(ctx, userID, "booking.created", nil))
		select {
		case ev := <-sub.Receive():
			t.Fatalf("user subscriber received tenant event %q", ev.Name)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("slow subscribers are dropped, not waited on", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(1)
		defer hub.Close()

		tenantID := uuid.New()
		slow := hub.SubscribeTenant(ctx, tenantID)

		// Fill the buffer, then keep emitting; emission must never block.
		for range 5 {
			require.NoError(t, hub.EmitTenant(ctx, tenantID, "booking.created", nil))
		}

		recv(t, slow)

		// The subscriber was evicted; its channel eventually closes.
		require.Eventually(t, func() bool {
			select {
			case _, ok := <-slow.Receive():
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(4)

		tenantID := uuid.New()
		subCtx, cancel := context.WithCancel(ctx)
		sub := hub.SubscribeTenant(subCtx, tenantID)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-sub.Receive():
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, hub.Close())
	})

	t.Run("close is idempotent and closes subscribers", func(t *testing.T) {
		t.Parallel()

		hub := realtime.NewHub(4)
		sub := hub.SubscribeTenant(ctx, uuid.New())

		require.NoError(t, hub.Close())
		require.NoError(t, hub.Close())

		_, ok := <-sub.Receive()
		require.False(t, ok)

		// Emitting into a closed hub is a no-op, not a panic.
		require.NoError(t, hub.EmitTenant(ctx, uuid.New(), "booking.created", nil))
	})
}
