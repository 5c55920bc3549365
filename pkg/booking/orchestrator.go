package booking

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/audit"
	"github.com/slotwise/bookingkit/pkg/clock"
	"github.com/slotwise/bookingkit/pkg/limits"
	"github.com/slotwise/bookingkit/pkg/notify"
	"github.com/slotwise/bookingkit/pkg/realtime"
	"github.com/slotwise/bookingkit/pkg/subscription"
)

// LimitChecker gates resource creation against the tenant's plan.
// Satisfied by *limits.Service.
type LimitChecker interface {
	CheckLimit(ctx context.Context, tenantID uuid.UUID, res limits.Resource) (limits.Decision, error)
}

// AdminDirectory lists the admin users of a tenant for admin-facing
// notifications. Role storage itself lives outside the core.
type AdminDirectory interface {
	AdminIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
}

// Orchestrator composes limit evaluation, availability checking and the
// booking lifecycle into the public write operations, owning the concurrency
// discipline: every check-then-write sequence runs inside the store's slot
// lock, and side effects are dispatched after the write, never inside it.
type Orchestrator struct {
	store    Store
	subs     subscription.Store
	limits   LimitChecker
	checker  *AvailabilityChecker
	notifier notify.Dispatcher
	emitter  realtime.Emitter
	auditor  audit.Sink
	admins   AdminDirectory
	clock    clock.Clock
	log      *slog.Logger

	retryBase     time.Duration
	retryJitter   time.Duration
	effectTimeout time.Duration
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithNotifier sets the notification dispatcher.
func WithNotifier(d notify.Dispatcher) OrchestratorOption {
	return func(o *Orchestrator) {
		if d != nil {
			o.notifier = d
		}
	}
}

// WithEmitter sets the realtime event emitter.
func WithEmitter(e realtime.Emitter) OrchestratorOption {
	return func(o *Orchestrator) {
		if e != nil {
			o.emitter = e
		}
	}
}

// WithAuditSink sets the audit sink.
func WithAuditSink(s audit.Sink) OrchestratorOption {
	return func(o *Orchestrator) {
		if s != nil {
			o.auditor = s
		}
	}
}

// WithAdminDirectory sets the source of tenant admin IDs for notifications.
func WithAdminDirectory(d AdminDirectory) OrchestratorOption {
	return func(o *Orchestrator) {
		if d != nil {
			o.admins = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(c clock.Clock) OrchestratorOption {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithRetryBackoff tunes the single internal retry on transient store errors.
func WithRetryBackoff(base, jitter time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if base > 0 {
			o.retryBase = base
		}
		if jitter > 0 {
			o.retryJitter = jitter
		}
	}
}

// NewOrchestrator creates the booking façade. Collaborators default to
// no-ops so the core works without notification, realtime or audit wiring.
func NewOrchestrator(store Store, subs subscription.Store, lim LimitChecker, opts ...OrchestratorOption) *Orchestrator {
	if store == nil {
		panic("booking: store cannot be nil")
	}
	if subs == nil {
		panic("booking: subscription store cannot be nil")
	}
	if lim == nil {
		panic("booking: limit checker cannot be nil")
	}

	o := &Orchestrator{
		store:         store,
		subs:          subs,
		limits:        lim,
		checker:       NewAvailabilityChecker(store),
		notifier:      notify.NoopDispatcher{},
		emitter:       realtime.NoopEmitter{},
		auditor:       noopAudit{},
		admins:        noAdmins{},
		clock:         clock.System(),
		log:           slog.Default(),
		retryBase:     50 * time.Millisecond,
		retryJitter:   100 * time.Millisecond,
		effectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateParams are the inputs to Create.
type CreateParams struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	ServiceID uuid.UUID
	StartAt   time.Time
	Notes     string
	Actor     Actor
}

// Create books a slot. Admission order: service gate, past-date gate,
// subscription gate, then plan limit and availability inside the slot lock,
// then the insert. The end time derives from the service duration.
func (o *Orchestrator) Create(ctx context.Context, p CreateParams) (*Booking, error) {
	svc, err := o.store.GetService(ctx, p.TenantID, p.ServiceID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrServiceUnavailable) {
			return nil, ErrServiceUnavailable
		}
		return nil, err
	}
	if !svc.Bookable() {
		return nil, ErrServiceUnavailable
	}

	now := o.clock.Now()
	startAt := p.StartAt.UTC()
	if startAt.Before(now) {
		return nil, ErrPastDate
	}

	if err := o.checkWritable(ctx, p.TenantID); err != nil {
		return nil, err
	}

	b := &Booking{
		ID:        uuid.New(),
		TenantID:  p.TenantID,
		ServiceID: p.ServiceID,
		UserID:    p.UserID,
		StartAt:   startAt,
		EndAt:     startAt.Add(svc.Duration),
		Status:    StatusPending,
		Notes:     p.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = o.retryTransient(ctx, func(ctx context.Context) error {
		return o.store.WithSlotLock(ctx, p.TenantID, p.ServiceID, func(ctx context.Context) error {
			// Plan limit and availability are evaluated under the same lock
			// as the insert so neither decision can go stale.
			decision, err := o.limits.CheckLimit(ctx, p.TenantID, limits.ResourceBookingsPerMonth)
			if err != nil {
				return err
			}
			if !decision.Allowed {
				return &limits.LimitExceededError{
					Resource: limits.ResourceBookingsPerMonth,
					Current:  decision.Current,
					Limit:    decision.Limit,
					PlanName: decision.PlanName,
				}
			}

			free, err := o.checker.IsAvailable(ctx, p.TenantID, p.ServiceID, b.StartAt, b.EndAt, nil)
			if err != nil {
				return err
			}
			if !free {
				return ErrSlotConflict
			}

			return o.store.InsertBooking(ctx, b)
		})
	})
	if err != nil {
		return nil, err
	}

	o.afterCreate(b, p.Actor)
	return b, nil
}

// Reschedule moves a booking to a new start time, keeping its duration and
// status. The new slot passes the same future-date and availability checks
// as creation, with the booking itself excluded from the overlap test.
func (o *Orchestrator) Reschedule(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor, newStartAt time.Time) (*Booking, error) {
	b, err := o.store.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := guard(actor, EventReschedule, b); err != nil {
		return nil, err
	}
	if _, err := NextStatus(b.Status, EventReschedule); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	startAt := newStartAt.UTC()
	if startAt.Before(now) {
		return nil, ErrPastDate
	}

	if err := o.checkWritable(ctx, tenantID); err != nil {
		return nil, err
	}

	duration := b.Duration()
	endAt := startAt.Add(duration)

	err = o.retryTransient(ctx, func(ctx context.Context) error {
		return o.store.WithSlotLock(ctx, tenantID, b.ServiceID, func(ctx context.Context) error {
			free, err := o.checker.IsAvailable(ctx, tenantID, b.ServiceID, startAt, endAt, &b.ID)
			if err != nil {
				return err
			}
			if !free {
				return ErrSlotConflict
			}

			b.StartAt = startAt
			b.EndAt = endAt
			b.UpdatedAt = now
			return o.store.UpdateBooking(ctx, b)
		})
	})
	if err != nil {
		return nil, err
	}

	o.afterReschedule(b, actor)
	return b, nil
}

// Confirm moves a pending booking to confirmed. Owner or admin.
func (o *Orchestrator) Confirm(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor) (*Booking, error) {
	b, err := o.transition(ctx, tenantID, bookingID, actor, EventConfirm)
	if err != nil {
		return nil, err
	}

	after := b.snapshot()
	o.async(func(ctx context.Context) {
		o.dispatch(ctx, notify.Notification{
			Kind:        notify.KindBookingConfirmed,
			TenantID:    b.TenantID,
			RecipientID: b.UserID,
			Payload:     eventPayload(b),
			CreatedAt:   o.clock.Now(),
		})
		o.emit(ctx, b, "booking.confirmed")
		o.record(ctx, b, actor, "booking.confirm", nil, after)
	})
	return b, nil
}

// Cancel releases a booking's slot. Owner or admin; cancelling twice is
// AlreadyCancelled, cancelling a completed or no-show booking is immutable.
func (o *Orchestrator) Cancel(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor) error {
	b, err := o.transition(ctx, tenantID, bookingID, actor, EventCancel)
	if err != nil {
		return err
	}

	o.afterCancel(b, actor)
	return nil
}

// Complete marks a booking as completed. Admin only.
func (o *Orchestrator) Complete(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor) (*Booking, error) {
	return o.adminOutcome(ctx, tenantID, bookingID, actor, EventComplete, "booking.complete")
}

// NoShow marks a booking as a no-show. Admin only.
func (o *Orchestrator) NoShow(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor) (*Booking, error) {
	return o.adminOutcome(ctx, tenantID, bookingID, actor, EventNoShow, "booking.no_show")
}

// Remove soft-deletes a booking. Admin only. This is a data-lifecycle
// operation, not a lifecycle transition: the status is left untouched and
// the state machine is not consulted.
func (o *Orchestrator) Remove(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor) error {
	if !actor.Admin {
		return ErrForbidden
	}

	b, err := o.store.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return err
	}

	now := o.clock.Now()
	if err := o.store.SoftDeleteBooking(ctx, tenantID, bookingID, now); err != nil {
		return err
	}

	before := b.snapshot()
	o.async(func(ctx context.Context) {
		o.record(ctx, b, actor, "booking.remove", before, nil)
	})
	return nil
}

// Get returns a booking within its tenant. Cross-tenant IDs read as not found.
func (o *Orchestrator) Get(ctx context.Context, tenantID, bookingID uuid.UUID) (*Booking, error) {
	return o.store.GetBooking(ctx, tenantID, bookingID)
}

// List returns the tenant's bookings matching the filter.
func (o *Orchestrator) List(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*Booking, error) {
	return o.store.ListBookings(ctx, tenantID, f)
}

// transition runs the shared fetch-guard-fire-persist sequence.
func (o *Orchestrator) transition(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor, ev Event) (*Booking, error) {
	b, err := o.store.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := guard(actor, ev, b); err != nil {
		return nil, err
	}

	next, err := NextStatus(b.Status, ev)
	if err != nil {
		return nil, err
	}

	b.Status = next
	b.UpdatedAt = o.clock.Now()

	err = o.retryTransient(ctx, func(ctx context.Context) error {
		return o.store.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (o *Orchestrator) adminOutcome(ctx context.Context, tenantID, bookingID uuid.UUID, actor Actor, ev Event, action string) (*Booking, error) {
	b, err := o.transition(ctx, tenantID, bookingID, actor, ev)
	if err != nil {
		return nil, err
	}

	after := b.snapshot()
	o.async(func(ctx context.Context) {
		o.emit(ctx, b, action)
		o.record(ctx, b, actor, action, nil, after)
	})
	return b, nil
}

// checkWritable enforces the subscription gate on write operations: no
// subscription is fatal, past due blocks writes. Cancelled subscriptions
// pass; their downgraded plan limits apply instead.
func (o *Orchestrator) checkWritable(ctx context.Context, tenantID uuid.UUID) error {
	sub, err := o.subs.Current(ctx, tenantID)
	if err != nil {
		return err
	}
	if sub.BlocksWrites() {
		return ErrSubscriptionPastDue
	}
	return nil
}

// retryTransient runs fn and retries exactly once, after a jittered pause,
// when the failure is transient. The whole closure re-runs because the
// availability decision may have changed since the first attempt.
func (o *Orchestrator) retryTransient(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !errors.Is(err, ErrTransientStore) {
		return err
	}

	backoff := o.retryBase + time.Duration(rand.Int64N(int64(o.retryJitter)))
	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn(ctx)
}
