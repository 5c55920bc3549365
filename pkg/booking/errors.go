package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound covers both absent and cross-tenant bookings;
	// the two cases are deliberately indistinguishable to callers.
	ErrBookingNotFound = errors.New("booking: booking not found")

	// ErrServiceUnavailable is returned when the target service does not
	// exist in the tenant, is inactive, or is soft-deleted.
	ErrServiceUnavailable = errors.New("booking: service unavailable")

	// ErrForbidden is returned when the actor neither owns the booking nor is an admin.
	ErrForbidden = errors.New("booking: actor is not allowed to perform this operation")

	// ErrPastDate is returned when a booking would start in the past.
	ErrPastDate = errors.New("booking: start time is in the past")

	// ErrImmutableBooking is returned when mutating a booking in a terminal state.
	ErrImmutableBooking = errors.New("booking: booking is in a terminal state")

	// ErrAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrAlreadyCancelled = errors.New("booking: booking is already cancelled")

	// ErrSlotConflict is returned when the requested interval overlaps an
	// existing non-cancelled booking for the same service. Both the checked
	// conflict and the store-level constraint violation map here.
	ErrSlotConflict = errors.New("booking: slot conflicts with an existing booking")

	// ErrSubscriptionPastDue is returned when the tenant's subscription is
	// past due; write operations are blocked until payment is resolved.
	ErrSubscriptionPastDue = errors.New("booking: subscription is past due, writes are blocked")

	// ErrTransientStore wraps retryable store failures (lock timeouts,
	// serialization failures). The orchestrator retries once; callers seeing
	// this error may retry the whole operation.
	ErrTransientStore = errors.New("booking: transient store failure")

	// ErrInvalidInterval is returned when an interval has a non-positive length.
	ErrInvalidInterval = errors.New("booking: end time must be after start time")
)

// InvalidTransitionError reports a lifecycle event fired from a state that
// does not admit it. Matches ErrImmutableBooking under errors.Is when the
// originating state is terminal.
type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking: cannot %s a %s booking", e.Event, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrImmutableBooking && e.From.Terminal()
}
