package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/limits"
)

// RegisterCounters wires the store's usage queries into the limit registry:
// services as a gauge, bookings as a monthly-windowed counter. The users
// counter lives with whatever owns user storage and is registered there.
func RegisterCounters(reg limits.CounterRegistry, store Store) {
	reg.Register(limits.ResourceServices, func(ctx context.Context, tenantID uuid.UUID, _ limits.Window) (int64, error) {
		return store.CountServices(ctx, tenantID)
	})
	reg.Register(limits.ResourceBookingsPerMonth, func(ctx context.Context, tenantID uuid.UUID, w limits.Window) (int64, error) {
		return store.CountBookingsCreatedBetween(ctx, tenantID, w.Start, w.End)
	})
}
