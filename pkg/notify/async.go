package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/slotwise/bookingkit/pkg/logger"
)

// AsyncDispatcher decouples notification delivery from the caller: Dispatch
// enqueues and returns immediately, a background worker drains the queue.
// When the buffer is full the notification is dropped and logged. No queued
// retry semantics are promised; retry policy, if any, belongs to the
// downstream channel.
type AsyncDispatcher struct {
	next    Dispatcher
	queue   chan Notification
	log     *slog.Logger
	timeout time.Duration

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// AsyncOption configures an AsyncDispatcher.
type AsyncOption func(*AsyncDispatcher)

// WithAsyncLogger sets the logger used for dropped and failed deliveries.
func WithAsyncLogger(log *slog.Logger) AsyncOption {
	return func(a *AsyncDispatcher) {
		if log != nil {
			a.log = log
		}
	}
}

// WithDeliveryTimeout bounds each downstream delivery attempt.
func WithDeliveryTimeout(d time.Duration) AsyncOption {
	return func(a *AsyncDispatcher) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAsyncDispatcher wraps next with a buffered fire-and-forget queue.
func NewAsyncDispatcher(next Dispatcher, bufferSize int, opts ...AsyncOption) *AsyncDispatcher {
	if next == nil {
		panic("notify: next dispatcher cannot be nil")
	}

	a := &AsyncDispatcher{
		next:    next,
		queue:   make(chan Notification, max(bufferSize, 1)),
		log:     slog.Default(),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.wg.Add(1)
	go a.worker()
	return a
}

// Dispatch enqueues the notification and returns immediately.
// Returns ErrDispatcherClosed after Close; a full buffer drops the
// notification silently apart from a log line.
func (a *AsyncDispatcher) Dispatch(ctx context.Context, n Notification) error {
	// The read lock pairs with the write lock in Close so no send can race
	// the queue being closed. The send below never blocks, so the lock is
	// held only briefly.
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrDispatcherClosed
	}

	select {
	case a.queue <- n:
		return nil
	default:
		a.log.LogAttrs(ctx, slog.LevelWarn, "notification buffer full, dropping",
			slog.String("kind", string(n.Kind)),
			logger.TenantID(n.TenantID),
			logger.UserID(n.RecipientID),
		)
		return nil
	}
}

// Close stops the worker after draining already-queued notifications.
func (a *AsyncDispatcher) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.queue)
	})
	a.wg.Wait()
	return nil
}

func (a *AsyncDispatcher) worker() {
	defer a.wg.Done()

	for n := range a.queue {
		// A fresh context isolates delivery from request lifetimes:
		// a cancelled HTTP request must not cancel its notifications.
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Dispatch(ctx, n); err != nil {
			a.log.LogAttrs(ctx, slog.LevelError, "notification delivery failed",
				slog.String("kind", string(n.Kind)),
				logger.TenantID(n.TenantID),
				logger.UserID(n.RecipientID),
				logger.Error(err),
			)
		}
		cancel()
	}
}
