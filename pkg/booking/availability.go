package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AvailabilityChecker decides whether a candidate interval is free for a
// service. The predicate is pure over store state: calling it repeatedly
// without intervening writes yields the same answer.
//
// Correctness note: the orchestrator always evaluates this inside the
// store's slot lock so the answer cannot go stale between check and write.
// Calling IsAvailable outside that scope is only useful for advisory UI
// checks.
type AvailabilityChecker struct {
	store Store
}

// NewAvailabilityChecker creates a checker over the given store.
func NewAvailabilityChecker(store Store) *AvailabilityChecker {
	return &AvailabilityChecker{store: store}
}

// IsAvailable reports whether [start, end) is free for the service.
// Intervals are half-open: a booking ending exactly at start is no conflict.
// excludeID, when non-nil, ignores that booking so a reschedule does not
// collide with itself.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, tenantID, serviceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidInterval
	}

	conflict, err := c.store.AnyOverlapping(ctx, tenantID, serviceID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}
