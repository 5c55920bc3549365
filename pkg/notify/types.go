package notify

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a booking lifecycle notification.
type Kind string

const (
	KindBookingCreated        Kind = "booking.created"
	KindBookingConfirmed      Kind = "booking.confirmed"
	KindBookingCancelled      Kind = "booking.cancelled"
	KindBookingRescheduled    Kind = "booking.rescheduled"
	KindBookingAdminNew       Kind = "booking.admin-new"
	KindBookingAdminCancelled Kind = "booking.admin-cancelled"
)

// Notification is a single message to a recipient user.
type Notification struct {
	Kind        Kind           `json:"kind"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	RecipientID uuid.UUID      `json:"recipient_id"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
