package bookingpg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/booking"
	"github.com/slotwise/bookingkit/pkg/pg"
)

func (s *Store) GetService(ctx context.Context, tenantID, id uuid.UUID) (*booking.Service, error) {
	query := `SELECT id, tenant_id, name, price_cents, duration_seconds,
		active, created_at, updated_at, deleted_at
		FROM services WHERE id = $1 AND tenant_id = $2`

	var (
		svc     booking.Service
		seconds int64
	)
	err := s.db(ctx).QueryRow(ctx, query, id, tenantID).Scan(
		&svc.ID, &svc.TenantID, &svc.Name, &svc.PriceCents, &seconds,
		&svc.Active, &svc.CreatedAt, &svc.UpdatedAt, &svc.DeletedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, booking.ErrServiceUnavailable
		}
		return nil, classify(err)
	}
	svc.Duration = time.Duration(seconds) * time.Second
	return &svc, nil
}

func (s *Store) CountServices(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM services WHERE tenant_id = $1 AND deleted_at IS NULL`

	var n int64
	if err := s.db(ctx).QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}
