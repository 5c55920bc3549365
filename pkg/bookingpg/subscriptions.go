package bookingpg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/bookingkit/pkg/pg"
	"github.com/slotwise/bookingkit/pkg/subscription"
)

// SubscriptionStore is the PostgreSQL implementation of subscription.Store.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a SubscriptionStore over the given pool.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	if pool == nil {
		panic("bookingpg: pool cannot be nil")
	}
	return &SubscriptionStore{pool: pool}
}

func (s *SubscriptionStore) Current(ctx context.Context, tenantID uuid.UUID) (*subscription.Subscription, error) {
	query := `SELECT id, tenant_id, plan_id, status,
		current_period_start, current_period_end,
		created_at, updated_at, cancelled_at, deleted_at
		FROM subscriptions
		WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		sub    subscription.Subscription
		status string
	)
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(
		&sub.ID, &sub.TenantID, &sub.PlanID, &status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.CreatedAt, &sub.UpdatedAt, &sub.CancelledAt, &sub.DeletedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, subscription.ErrNoActiveSubscription
		}
		return nil, err
	}
	sub.Status = subscription.Status(status)
	return &sub, nil
}

func (s *SubscriptionStore) Save(ctx context.Context, sub *subscription.Subscription) error {
	query := `INSERT INTO subscriptions (
		id, tenant_id, plan_id, status,
		current_period_start, current_period_end,
		created_at, updated_at, cancelled_at, deleted_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE SET
		plan_id = EXCLUDED.plan_id,
		status = EXCLUDED.status,
		current_period_start = EXCLUDED.current_period_start,
		current_period_end = EXCLUDED.current_period_end,
		updated_at = EXCLUDED.updated_at,
		cancelled_at = EXCLUDED.cancelled_at,
		deleted_at = EXCLUDED.deleted_at`

	_, err := s.pool.Exec(ctx, query,
		sub.ID, sub.TenantID, sub.PlanID, string(sub.Status),
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CreatedAt, sub.UpdatedAt, sub.CancelledAt, sub.DeletedAt,
	)
	return err
}
