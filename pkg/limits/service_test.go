package limits_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/clock"
	"github.com/slotwise/bookingkit/pkg/limits"
	"github.com/slotwise/bookingkit/pkg/subscription"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T, plans map[string]subscription.Plan, subs subscription.Store, counters limits.CounterRegistry) *limits.Service {
	t.Helper()

	svc, err := limits.NewService(context.Background(),
		subscription.NewInMemSource(plans), subs, counters,
		limits.WithClock(clock.NewMock(testNow)),
	)
	require.NoError(t, err)
	return svc
}

func subscribe(t *testing.T, subs *subscription.MemStore, tenantID uuid.UUID, planID string, status subscription.Status) {
	t.Helper()
	require.NoError(t, subs.Save(context.Background(), &subscription.Subscription{
		ID:        uuid.New(),
		TenantID:  tenantID,
		PlanID:    planID,
		Status:    status,
		CreatedAt: testNow.Add(-time.Hour),
	}))
}

func staticCounter(n int64) limits.CounterFunc {
	return func(ctx context.Context, tenantID uuid.UUID, w limits.Window) (int64, error) {
		return n, nil
	}
}

func TestServiceCheckLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	plans := map[string]subscription.Plan{
		"starter":   {ID: "starter", Name: "Starter", MaxServices: 3, MaxBookingsPerMonth: 5},
		"unlimited": {ID: "unlimited", Name: "Unlimited"},
	}

	t.Run("allows under the limit", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

		reg := limits.NewRegistry()
		reg.Register(limits.ResourceBookingsPerMonth, staticCounter(4))

		svc := newService(t, plans, subs, reg)

		d, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, int64(4), d.Current)
		require.Equal(t, int64(5), d.Limit)
		require.Equal(t, "Starter", d.PlanName)
	})

	t.Run("denies at the limit", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

		reg := limits.NewRegistry()
		reg.Register(limits.ResourceBookingsPerMonth, staticCounter(5))

		svc := newService(t, plans, subs, reg)

		d, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
		require.NoError(t, err)
		require.False(t, d.Allowed)
		require.Equal(t, int64(5), d.Current)
	})

	t.Run("non-positive caps are unlimited and skip counting", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "unlimited", subscription.StatusActive)

		// No counter registered: unlimited checks must not need one.
		svc := newService(t, plans, subs, limits.NewRegistry())

		d, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	})

	t.Run("cancelled subscriptions still resolve their plan", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "starter", subscription.StatusCancelled)

		reg := limits.NewRegistry()
		reg.Register(limits.ResourceBookingsPerMonth, staticCounter(0))

		svc := newService(t, plans, subs, reg)

		d, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, "Starter", d.PlanName)
	})

	t.Run("missing subscription propagates", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, plans, subscription.NewMemStore(), limits.NewRegistry())

		_, err := svc.CheckLimit(ctx, uuid.New(), limits.ResourceBookingsPerMonth)
		require.ErrorIs(t, err, subscription.ErrNoActiveSubscription)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "legacy-gold", subscription.StatusActive)

		svc := newService(t, plans, subs, limits.NewRegistry())

		_, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
		require.ErrorIs(t, err, limits.ErrPlanNotFound)
	})

	t.Run("missing counter for a capped resource", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

		svc := newService(t, plans, subs, limits.NewRegistry())

		_, err := svc.CheckLimit(ctx, tenantID, limits.ResourceServices)
		require.ErrorIs(t, err, limits.ErrNoCounterRegistered)
	})

	t.Run("invalid resource", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, plans, subscription.NewMemStore(), limits.NewRegistry())

		_, err := svc.CheckLimit(ctx, uuid.New(), limits.Resource("widgets"))
		require.ErrorIs(t, err, limits.ErrInvalidResource)
	})

	t.Run("counter failures are wrapped", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		subs := subscription.NewMemStore()
		subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

		reg := limits.NewRegistry()
		reg.Register(limits.ResourceServices, func(ctx context.Context, tenantID uuid.UUID, w limits.Window) (int64, error) {
			return 0, errors.New("connection refused")
		})

		svc := newService(t, plans, subs, reg)

		_, err := svc.CheckLimit(ctx, tenantID, limits.ResourceServices)
		require.ErrorIs(t, err, limits.ErrFailedToCountUsage)
	})
}

func TestServiceCanCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	plans := map[string]subscription.Plan{
		"starter": {ID: "starter", Name: "Starter", MaxServices: 2},
	}

	tenantID := uuid.New()
	subs := subscription.NewMemStore()
	subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

	reg := limits.NewRegistry()
	reg.Register(limits.ResourceServices, staticCounter(2))

	svc := newService(t, plans, subs, reg)

	err := svc.CanCreate(ctx, tenantID, limits.ResourceServices)
	require.ErrorIs(t, err, limits.ErrLimitExceeded)

	var limitErr *limits.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, limits.ResourceServices, limitErr.Resource)
	require.Equal(t, int64(2), limitErr.Current)
	require.Equal(t, int64(2), limitErr.Limit)
	require.Equal(t, "Starter", limitErr.PlanName)
}

func TestServiceWindowedCounting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	plans := map[string]subscription.Plan{
		"starter": {ID: "starter", Name: "Starter", MaxBookingsPerMonth: 10, MaxServices: 3},
	}

	tenantID := uuid.New()
	subs := subscription.NewMemStore()
	subscribe(t, subs, tenantID, "starter", subscription.StatusActive)

	var bookingWindow, servicesWindow limits.Window
	reg := limits.NewRegistry()
	reg.Register(limits.ResourceBookingsPerMonth, func(ctx context.Context, tenantID uuid.UUID, w limits.Window) (int64, error) {
		bookingWindow = w
		return 0, nil
	})
	reg.Register(limits.ResourceServices, func(ctx context.Context, tenantID uuid.UUID, w limits.Window) (int64, error) {
		servicesWindow = w
		return 0, nil
	})

	svc := newService(t, plans, subs, reg)

	_, err := svc.CheckLimit(ctx, tenantID, limits.ResourceBookingsPerMonth)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), bookingWindow.Start)
	require.Equal(t, testNow, bookingWindow.End)

	// Gauge resources get the zero window.
	_, err = svc.CheckLimit(ctx, tenantID, limits.ResourceServices)
	require.NoError(t, err)
	require.True(t, servicesWindow.IsZero())
}

func TestServiceHasFeature(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	plans := map[string]subscription.Plan{
		"pro": {ID: "pro", Name: "Pro", Features: []subscription.Feature{subscription.FeatureRealtime}},
	}

	tenantID := uuid.New()
	subs := subscription.NewMemStore()
	subscribe(t, subs, tenantID, "pro", subscription.StatusActive)

	svc := newService(t, plans, subs, limits.NewRegistry())

	require.True(t, svc.HasFeature(ctx, tenantID, subscription.FeatureRealtime))
	require.False(t, svc.HasFeature(ctx, tenantID, subscription.Feature("sso")))
	require.False(t, svc.HasFeature(ctx, uuid.New(), subscription.FeatureRealtime), "unknown tenant reads as disabled")
}

func TestMonthWindow(t *testing.T) {
	t.Parallel()

	w := limits.MonthWindow(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC))
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)

	// Zone-shifted inputs normalize to UTC before the month is derived.
	zone := time.FixedZone("UTC+5", 5*3600)
	w = limits.MonthWindow(time.Date(2026, 3, 1, 2, 0, 0, 0, zone)) // Feb 28 21:00 UTC
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
}
