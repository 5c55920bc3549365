package audit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/bookingkit/pkg/audit"
)

func TestSinkRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stamps id and timestamp", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemStorage()
		sink := audit.NewSink(storage)

		err := sink.Record(ctx, audit.Record{
			TenantID:   uuid.New(),
			ActorID:    uuid.New(),
			Action:     "booking.create",
			EntityType: "booking",
			EntityID:   uuid.New().String(),
			After:      map[string]any{"status": "pending"},
		})
		require.NoError(t, err)

		recs := storage.Records()
		require.Len(t, recs, 1)
		require.NotEmpty(t, recs[0].ID)
		require.False(t, recs[0].CreatedAt.IsZero())
		require.Equal(t, "booking.create", recs[0].Action)
	})

	t.Run("rejects records without action", func(t *testing.T) {
		t.Parallel()

		sink := audit.NewSink(audit.NewMemStorage())

		err := sink.Record(ctx, audit.Record{EntityType: "booking"})
		require.ErrorIs(t, err, audit.ErrRecordValidation)
	})

	t.Run("rejects records without entity type", func(t *testing.T) {
		t.Parallel()

		sink := audit.NewSink(audit.NewMemStorage())

		err := sink.Record(ctx, audit.Record{Action: "booking.create"})
		require.ErrorIs(t, err, audit.ErrRecordValidation)
	})
}
