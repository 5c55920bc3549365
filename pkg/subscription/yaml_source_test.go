package subscription_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/subscription"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("parses a catalog", func(t *testing.T) {
		t.Parallel()

		path := writeCatalog(t, `
plans:
  - id: free
    name: Free
    max_users: 3
    max_services: 2
    max_bookings_per_month: 20
    public: true
  - id: pro
    name: Pro
    description: For growing teams
    max_users: 0
    max_services: 0
    max_bookings_per_month: 500
    features: [reminders, realtime]
    public: true
    trial_days: 14
`)

		plans, err := subscription.NewYAMLSource(path).Load(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 2)

		free := plans["free"]
		require.Equal(t, "Free", free.Name)
		require.Equal(t, int64(20), free.MaxBookingsPerMonth)
		require.True(t, free.Public)
		require.False(t, subscription.IsUnlimited(free.MaxBookingsPerMonth))

		pro := plans["pro"]
		require.True(t, subscription.IsUnlimited(pro.MaxUsers))
		require.True(t, pro.HasFeature(subscription.FeatureRealtime))
		require.False(t, pro.HasFeature(subscription.FeatureExport))
		require.Equal(t, 14, pro.TrialDays)
	})

	t.Run("rejects plans without id", func(t *testing.T) {
		t.Parallel()

		path := writeCatalog(t, "plans:\n  - name: Nameless\n")

		_, err := subscription.NewYAMLSource(path).Load(ctx)
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects duplicate plan ids", func(t *testing.T) {
		t.Parallel()

		path := writeCatalog(t, `
plans:
  - id: free
    name: Free
  - id: free
    name: Also Free
`)

		_, err := subscription.NewYAMLSource(path).Load(ctx)
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects negative trial days", func(t *testing.T) {
		t.Parallel()

		path := writeCatalog(t, "plans:\n  - id: free\n    trial_days: -1\n")

		_, err := subscription.NewYAMLSource(path).Load(ctx)
		require.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.NewYAMLSource("/nonexistent/plans.yml").Load(ctx)
		require.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeCatalog(t, "plans: [")

		_, err := subscription.NewYAMLSource(path).Load(ctx)
		require.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})
}
