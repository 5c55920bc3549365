package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription binds a tenant to a plan with a billing period.
// A tenant may accumulate several rows over its lifetime; the current one is
// the most recently created, non-deleted row.
type Subscription struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	PlanID             string
	Status             Status
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CancelledAt        *time.Time
	DeletedAt          *time.Time
}

// IsActive returns true if the subscription is active (paid).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsTrialing returns true if the subscription is in trial status.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// IsCancelled returns true if the subscription is cancelled.
// A cancelled subscription still resolves to its (typically downgraded) plan
// for limit evaluation; cancellation itself does not block writes.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// BlocksWrites reports whether write operations should be refused for this
// subscription. Only past-due subscriptions block writes.
func (s *Subscription) BlocksWrites() bool {
	return s.Status == StatusPastDue
}

// PeriodContains reports whether t falls inside the current billing period.
func (s *Subscription) PeriodContains(t time.Time) bool {
	return !t.Before(s.CurrentPeriodStart) && t.Before(s.CurrentPeriodEnd)
}
