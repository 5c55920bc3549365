package booking

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/audit"
	"github.com/slotwise/bookingkit/pkg/logger"
	"github.com/slotwise/bookingkit/pkg/notify"
)

// Side effects of successful operations: notifications, realtime events and
// audit records. Everything here is fire-and-forget. Each effect batch runs
// on its own goroutine with a fresh context so a cancelled request context
// cannot abort delivery, and failures are logged, never returned.

// async runs fn on a background context detached from the request.
func (o *Orchestrator) async(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.effectTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (o *Orchestrator) afterCreate(b *Booking, actor Actor) {
	after := b.snapshot()
	o.async(func(ctx context.Context) {
		o.dispatch(ctx, notify.Notification{
			Kind:        notify.KindBookingCreated,
			TenantID:    b.TenantID,
			RecipientID: b.UserID,
			Payload:     eventPayload(b),
			CreatedAt:   o.clock.Now(),
		})
		o.notifyAdmins(ctx, b, actor, notify.KindBookingAdminNew)
		o.emit(ctx, b, "booking.created")
		o.record(ctx, b, actor, "booking.create", nil, after)
	})
}

func (o *Orchestrator) afterReschedule(b *Booking, actor Actor) {
	after := b.snapshot()
	o.async(func(ctx context.Context) {
		o.dispatch(ctx, notify.Notification{
			Kind:        notify.KindBookingRescheduled,
			TenantID:    b.TenantID,
			RecipientID: b.UserID,
			Payload:     eventPayload(b),
			CreatedAt:   o.clock.Now(),
		})
		// A confirmed booking stays confirmed through a reschedule, so the
		// owner gets a fresh confirmation for the new time.
		if b.Status == StatusConfirmed {
			o.dispatch(ctx, notify.Notification{
				Kind:        notify.KindBookingConfirmed,
				TenantID:    b.TenantID,
				RecipientID: b.UserID,
				Payload:     eventPayload(b),
				CreatedAt:   o.clock.Now(),
			})
		}
		o.emit(ctx, b, "booking.rescheduled")
		o.record(ctx, b, actor, "booking.reschedule", nil, after)
	})
}

func (o *Orchestrator) afterCancel(b *Booking, actor Actor) {
	after := b.snapshot()
	o.async(func(ctx context.Context) {
		o.dispatch(ctx, notify.Notification{
			Kind:        notify.KindBookingCancelled,
			TenantID:    b.TenantID,
			RecipientID: b.UserID,
			Payload:     eventPayload(b),
			CreatedAt:   o.clock.Now(),
		})
		o.notifyAdmins(ctx, b, actor, notify.KindBookingAdminCancelled)
		o.emit(ctx, b, "booking.cancelled")
		o.record(ctx, b, actor, "booking.cancel", nil, after)
	})
}

// notifyAdmins fans a notification out to the tenant's admins, skipping the
// acting admin so nobody is notified about their own action.
func (o *Orchestrator) notifyAdmins(ctx context.Context, b *Booking, actor Actor, kind notify.Kind) {
	ids, err := o.admins.AdminIDs(ctx, b.TenantID)
	if err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to resolve tenant admins",
			logger.TenantID(b.TenantID),
			logger.Error(err),
		)
		return
	}
	for _, id := range ids {
		if id == actor.ID {
			continue
		}
		o.dispatch(ctx, notify.Notification{
			Kind:        kind,
			TenantID:    b.TenantID,
			RecipientID: id,
			Payload:     eventPayload(b),
			CreatedAt:   o.clock.Now(),
		})
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, n notify.Notification) {
	if err := o.notifier.Dispatch(ctx, n); err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to dispatch notification",
			slog.String("kind", string(n.Kind)),
			logger.TenantID(n.TenantID),
			logger.UserID(n.RecipientID),
			logger.Error(err),
		)
	}
}

// emit publishes the event to the tenant topic and the booking owner's topic.
func (o *Orchestrator) emit(ctx context.Context, b *Booking, event string) {
	payload := eventPayload(b)
	if err := o.emitter.EmitTenant(ctx, b.TenantID, event, payload); err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to emit tenant event",
			slog.String("event", event),
			logger.TenantID(b.TenantID),
			logger.Error(err),
		)
	}
	if err := o.emitter.EmitUser(ctx, b.UserID, event, payload); err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to emit user event",
			slog.String("event", event),
			logger.UserID(b.UserID),
			logger.Error(err),
		)
	}
}

func (o *Orchestrator) record(ctx context.Context, b *Booking, actor Actor, action string, before, after map[string]any) {
	err := o.auditor.Record(ctx, audit.Record{
		TenantID:   b.TenantID,
		ActorID:    actor.ID,
		Action:     action,
		EntityType: "booking",
		EntityID:   b.ID.String(),
		Before:     before,
		After:      after,
	})
	if err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to record audit entry",
			slog.String("action", action),
			logger.BookingID(b.ID),
			logger.Error(err),
		)
	}
}

// eventPayload is the shared wire shape of notification and realtime payloads.
func eventPayload(b *Booking) map[string]any {
	return map[string]any{
		"booking_id": b.ID.String(),
		"service_id": b.ServiceID.String(),
		"user_id":    b.UserID.String(),
		"start_at":   b.StartAt,
		"end_at":     b.EndAt,
		"status":     string(b.Status),
	}
}

// noopAudit drops every record. Default when no sink is wired.
type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, rec audit.Record) error { return nil }

// noAdmins reports no admin users. Default when no directory is wired.
type noAdmins struct{}

func (noAdmins) AdminIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
