package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status represents a booking's position in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Blocking reports whether a booking in this status occupies its slot.
// Only cancelled bookings free their interval; completed and no-show
// bookings are in the past and never conflict with future slots anyway.
func (s Status) Blocking() bool {
	return s != StatusCancelled
}

// Booking represents a reserved interval of a Service for a User within a Tenant.
// StartAt/EndAt are UTC instants forming a half-open interval [StartAt, EndAt).
type Booking struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ServiceID    uuid.UUID
	UserID       uuid.UUID
	StartAt      time.Time
	EndAt        time.Time
	Status       Status
	Notes        string
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Overlaps reports whether the booking's interval intersects [start, end).
// Half-open semantics: a booking ending exactly when another starts does not
// conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndAt) && end.After(b.StartAt)
}

// Duration returns the booked interval length.
func (b *Booking) Duration() time.Duration {
	return b.EndAt.Sub(b.StartAt)
}

// snapshot captures the mutable fields for audit before/after records.
func (b *Booking) snapshot() map[string]any {
	return map[string]any{
		"status":   string(b.Status),
		"start_at": b.StartAt,
		"end_at":   b.EndAt,
		"notes":    b.Notes,
	}
}

// Service is a bookable offering. The booking core reads it: Duration feeds
// the derived end time, Active and DeletedAt gate creation.
type Service struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	PriceCents int64
	Duration   time.Duration
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// Bookable reports whether new bookings may target this service.
func (s *Service) Bookable() bool {
	return s.Active && s.DeletedAt == nil
}

// Actor identifies the caller of an operation. Admin is precomputed by the
// caller's authorization layer; the core never queries permissions itself.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

// CanManage reports whether the actor may mutate the given booking.
func (a Actor) CanManage(b *Booking) bool {
	return a.Admin || a.ID == b.UserID
}
