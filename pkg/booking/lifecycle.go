package booking

// Event triggers a lifecycle transition.
type Event string

const (
	EventCreate     Event = "create"
	EventConfirm    Event = "confirm"
	EventReschedule Event = "reschedule"
	EventCancel     Event = "cancel"
	EventComplete   Event = "complete"
	EventNoShow     Event = "no_show"
)

// transitions is the lifecycle table. Bookings persist their own state, so
// the machine is a stateless validator: given (current status, event) it
// yields the next status or rejects. Reschedule is status-preserving.
// Terminal states have no entries and reject everything.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventConfirm:    StatusConfirmed,
		EventReschedule: StatusPending,
		EventCancel:     StatusCancelled,
		EventComplete:   StatusCompleted,
		EventNoShow:     StatusNoShow,
	},
	StatusConfirmed: {
		EventReschedule: StatusConfirmed,
		EventCancel:     StatusCancelled,
		EventComplete:   StatusCompleted,
		EventNoShow:     StatusNoShow,
	},
}

// adminOnlyEvents require an admin actor regardless of booking ownership.
var adminOnlyEvents = map[Event]bool{
	EventComplete: true,
	EventNoShow:   true,
}

// CanFire reports whether the event is legal from the given status.
func CanFire(from Status, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}

// NextStatus resolves the status after firing ev from from.
//
// Rejections carry the most specific error the caller can act on:
// cancelling twice is ErrAlreadyCancelled, anything fired at a terminal
// booking is an InvalidTransitionError (matching ErrImmutableBooking), and
// the rest are plain invalid transitions.
func NextStatus(from Status, ev Event) (Status, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}

	if from == StatusCancelled && ev == EventCancel {
		return "", ErrAlreadyCancelled
	}

	return "", &InvalidTransitionError{From: from, Event: ev}
}

// guard validates the actor against the event and booking per the
// capability contract: ownership or admin for most events, admin only for
// completion outcomes. Authorization inputs are precomputed by the caller.
func guard(actor Actor, ev Event, b *Booking) error {
	if adminOnlyEvents[ev] && !actor.Admin {
		return ErrForbidden
	}
	if !actor.CanManage(b) {
		return ErrForbidden
	}
	return nil
}
