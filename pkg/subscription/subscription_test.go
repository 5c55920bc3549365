package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/subscription"
)

func TestSubscriptionStatus(t *testing.T) {
	t.Parallel()

	t.Run("only past due blocks writes", func(t *testing.T) {
		t.Parallel()

		blocks := map[subscription.Status]bool{
			subscription.StatusTrialing:  false,
			subscription.StatusActive:    false,
			subscription.StatusPastDue:   true,
			subscription.StatusCancelled: false,
		}
		for status, want := range blocks {
			sub := &subscription.Subscription{Status: status}
			require.Equal(t, want, sub.BlocksWrites(), "status %s", status)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.True(t, subscription.StatusActive.Valid())
		require.False(t, subscription.Status("expired").Valid())
	})
}

func TestMemStoreCurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns the most recently created row", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := subscription.NewMemStore()

		old := &subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "free",
			Status: subscription.StatusCancelled, CreatedAt: base,
		}
		latest := &subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "pro",
			Status: subscription.StatusActive, CreatedAt: base.Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, old))
		require.NoError(t, store.Save(ctx, latest))

		got, err := store.Current(ctx, tenantID)
		require.NoError(t, err)
		require.Equal(t, latest.ID, got.ID)
		require.Equal(t, "pro", got.PlanID)
	})

	t.Run("skips deleted rows", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		store := subscription.NewMemStore()

		deletedAt := base.Add(2 * time.Hour)
		require.NoError(t, store.Save(ctx, &subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "pro",
			Status: subscription.StatusActive, CreatedAt: base.Add(time.Hour),
			DeletedAt: &deletedAt,
		}))
		kept := &subscription.Subscription{
			ID: uuid.New(), TenantID: tenantID, PlanID: "free",
			Status: subscription.StatusActive, CreatedAt: base,
		}
		require.NoError(t, store.Save(ctx, kept))

		got, err := store.Current(ctx, tenantID)
		require.NoError(t, err)
		require.Equal(t, kept.ID, got.ID)
	})

	t.Run("no subscription", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewMemStore().Current(ctx, uuid.New())
		require.ErrorIs(t, err, subscription.ErrNoActiveSubscription)
	})

	t.Run("save rejects unknown statuses", func(t *testing.T) {
		t.Parallel()

		err := subscription.NewMemStore().Save(ctx, &subscription.Subscription{
			ID: uuid.New(), TenantID: uuid.New(), Status: subscription.Status("limbo"),
		})
		require.ErrorIs(t, err, subscription.ErrInvalidStatus)
	})
}

func TestPlanTrial(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("trial window", func(t *testing.T) {
		t.Parallel()

		plan := subscription.Plan{ID: "pro", TrialDays: 14}
		require.Equal(t, start.AddDate(0, 0, 14), plan.TrialEndsAt(start))
		require.True(t, plan.IsTrialActive(start, start.AddDate(0, 0, 13)))
		require.False(t, plan.IsTrialActive(start, start.AddDate(0, 0, 14)))
	})

	t.Run("no trial", func(t *testing.T) {
		t.Parallel()

		plan := subscription.Plan{ID: "free"}
		require.Equal(t, start, plan.TrialEndsAt(start))
		require.False(t, plan.IsTrialActive(start, start))
	})
}
