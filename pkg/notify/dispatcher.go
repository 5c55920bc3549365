package notify

import (
	"context"
	"log/slog"

	"github.com/slotwise/bookingkit/pkg/logger"
)

// Dispatcher delivers a notification to its recipient.
// Delivery is best-effort: the booking core never blocks an admission
// decision on delivery success, and delivery failures never surface to the
// caller of a booking operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// MultiDispatcher fans a notification out to several channels.
// Each channel failure is logged and skipped; delivery continues.
type MultiDispatcher struct {
	dispatchers []Dispatcher
	log         *slog.Logger
}

// MultiOption configures a MultiDispatcher.
type MultiOption func(*MultiDispatcher)

// WithMultiLogger sets the logger for the MultiDispatcher.
func WithMultiLogger(log *slog.Logger) MultiOption {
	return func(m *MultiDispatcher) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMultiDispatcher creates a multi-channel dispatcher.
func NewMultiDispatcher(dispatchers []Dispatcher, opts ...MultiOption) *MultiDispatcher {
	m := &MultiDispatcher{
		dispatchers: dispatchers,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dispatch sends the notification through all configured channels.
func (m *MultiDispatcher) Dispatch(ctx context.Context, n Notification) error {
	for i, d := range m.dispatchers {
		if err := d.Dispatch(ctx, n); err != nil {
			m.log.LogAttrs(ctx, slog.LevelError, "failed to dispatch notification",
				slog.String("kind", string(n.Kind)),
				logger.TenantID(n.TenantID),
				logger.UserID(n.RecipientID),
				slog.Int("dispatcher_index", i),
				logger.Error(err),
			)
			continue
		}
	}
	return nil
}

// NoopDispatcher drops every notification. Useful for tests and for tenants
// with notifications disabled.
type NoopDispatcher struct{}

func (NoopDispatcher) Dispatch(ctx context.Context, n Notification) error {
	return nil
}
