package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/logger"
)

// Sink records audit entries. The booking core treats it as best-effort:
// a failing sink is logged and never fails the audited operation.
type Sink interface {
	Record(ctx context.Context, rec Record) error
}

// Storage persists audit records.
type Storage interface {
	Store(ctx context.Context, rec Record) error
	StoreBatch(ctx context.Context, recs []Record) error
}

// sink stamps records and forwards them to storage.
type sink struct {
	storage Storage
	log     *slog.Logger
}

// Option configures a sink.
type Option func(*sink)

// WithLogger sets the logger used for storage failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *sink) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSink creates an audit sink over the given storage.
func NewSink(storage Storage, opts ...Option) Sink {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	s := &sink{storage: storage, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sink) Record(ctx context.Context, rec Record) error {
	rec.ID = uuid.New().String()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if err := rec.Validate(); err != nil {
		return err
	}

	if err := s.storage.Store(ctx, rec); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to store audit record",
			slog.String("action", rec.Action),
			slog.String("entity_type", rec.EntityType),
			slog.String("entity_id", rec.EntityID),
			logger.TenantID(rec.TenantID),
			logger.Error(err),
		)
		return err
	}
	return nil
}
