package bookingpg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/bookingkit/pkg/booking"
	"github.com/slotwise/bookingkit/pkg/pg"
)

// Store is the PostgreSQL implementation of booking.Store.
//
// The slot lock is a transaction-scoped advisory lock keyed on the
// (tenant, service) pair. The schema additionally carries a range-exclusion
// constraint on blocking bookings, so even a code path that skips the lock
// cannot double-book: the constraint violation maps to a slot conflict.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("bookingpg: pool cannot be nil")
	}
	return &Store{pool: pool}
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// db returns the transaction bound to ctx by WithSlotLock, or the pool.
// Store methods called inside the locked scope thereby join its transaction.
func (s *Store) db(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithSlotLock serializes fn against other writers of the same
// (tenantID, serviceID) slot. It opens a transaction, takes an advisory lock
// scoped to it, binds the transaction into ctx and commits only if fn
// succeeds. Retryable failures (serialization, deadlock, lock timeout)
// surface as booking.ErrTransientStore.
func (s *Store) WithSlotLock(ctx context.Context, tenantID, serviceID uuid.UUID, fn func(ctx context.Context) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// hashtextextended folds the composite key into the bigint the advisory
	// lock API wants. The lock releases automatically at transaction end.
	lockKey := tenantID.String() + ":" + serviceID.String()
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", lockKey); err != nil {
		return classify(err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps driver errors onto the booking core's error vocabulary.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsExclusionViolationError(err):
		return booking.ErrSlotConflict
	case pg.IsRetryableError(err):
		return errors.Join(booking.ErrTransientStore, err)
	default:
		return err
	}
}
