package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows booking listings. Zero values mean "no constraint".
// Soft-deleted rows are always excluded.
type ListFilter struct {
	UserID   *uuid.UUID
	Statuses []Status
	From     *time.Time // bookings starting at or after
	To       *time.Time // bookings starting before
	Limit    int
	Offset   int
}

// Store is the persistence boundary of the booking core.
//
// Implementations must exclude soft-deleted rows from every read, and must
// treat cross-tenant lookups as not found. WithSlotLock is the concurrency
// primitive the orchestrator builds its critical section on: all calls for
// the same (tenantID, serviceID) key are serialized against each other,
// while unrelated keys proceed fully in parallel. Store methods invoked from
// inside fn must observe, and be atomic with, the protected scope (the
// PostgreSQL implementation threads a transaction through ctx).
type Store interface {
	GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*Booking, error)
	InsertBooking(ctx context.Context, b *Booking) error
	UpdateBooking(ctx context.Context, b *Booking) error
	SoftDeleteBooking(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error

	// AnyOverlapping reports whether a non-cancelled, non-deleted booking of
	// the service intersects the half-open interval [start, end). A non-nil
	// excludeID ignores that booking (used on reschedule).
	AnyOverlapping(ctx context.Context, tenantID, serviceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// CountBookingsCreatedBetween counts non-deleted bookings created within
	// [start, end], both bounds inclusive, feeding the monthly plan-limit
	// meter. The end bound is "now" at check time, so a booking created in
	// the same instant must still count.
	CountBookingsCreatedBetween(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error)

	GetService(ctx context.Context, tenantID, id uuid.UUID) (*Service, error)
	CountServices(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// WithSlotLock runs fn with writes for (tenantID, serviceID) serialized.
	// If fn returns an error nothing inside the scope is persisted.
	WithSlotLock(ctx context.Context, tenantID, serviceID uuid.UUID, fn func(ctx context.Context) error) error
}
