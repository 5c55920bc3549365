package bookingpg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/slotwise/bookingkit/pkg/booking"
	"github.com/slotwise/bookingkit/pkg/pg"
)

const bookingColumns = `id, tenant_id, service_id, user_id, start_at, end_at,
	status, notes, reminder_sent, created_at, updated_at, deleted_at`

func (s *Store) GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*booking.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, bookingColumns)

	b, err := scanBooking(s.db(ctx).QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, classify(err)
	}
	return b, nil
}

func (s *Store) ListBookings(ctx context.Context, tenantID uuid.UUID, f booking.ListFilter) ([]*booking.Booking, error) {
	var (
		conds = []string{"tenant_id = $1", "deleted_at IS NULL"}
		args  = []any{tenantID}
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("start_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("start_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY start_at`,
		bookingColumns, strings.Join(conds, " AND "))
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", f.Offset)
	}

	rows, err := s.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (s *Store) InsertBooking(ctx context.Context, b *booking.Booking) error {
	query := `INSERT INTO bookings (
		id, tenant_id, service_id, user_id, start_at, end_at,
		status, notes, reminder_sent, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := s.db(ctx).Exec(ctx, query,
		b.ID, b.TenantID, b.ServiceID, b.UserID, b.StartAt, b.EndAt,
		string(b.Status), b.Notes, b.ReminderSent, b.CreatedAt, b.UpdatedAt,
	)
	return classify(err)
}

func (s *Store) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	query := `UPDATE bookings SET
		start_at = $3, end_at = $4, status = $5, notes = $6,
		reminder_sent = $7, updated_at = $8
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	tag, err := s.db(ctx).Exec(ctx, query,
		b.ID, b.TenantID, b.StartAt, b.EndAt,
		string(b.Status), b.Notes, b.ReminderSent, b.UpdatedAt,
	)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (s *Store) SoftDeleteBooking(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	query := `UPDATE bookings SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	tag, err := s.db(ctx).Exec(ctx, query, id, tenantID, at)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (s *Store) AnyOverlapping(ctx context.Context, tenantID, serviceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	// Half-open interval test. Cancelled and soft-deleted rows do not block.
	query := `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE tenant_id = $1 AND service_id = $2
			AND deleted_at IS NULL AND status <> 'cancelled'
			AND start_at < $4 AND end_at > $3
			AND ($5::uuid IS NULL OR id <> $5)
	)`

	var exists bool
	if err := s.db(ctx).QueryRow(ctx, query, tenantID, serviceID, start, end, excludeID).Scan(&exists); err != nil {
		return false, classify(err)
	}
	return exists, nil
}

func (s *Store) CountBookingsCreatedBetween(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings
		WHERE tenant_id = $1 AND deleted_at IS NULL
			AND created_at >= $2 AND created_at <= $3`

	var n int64
	if err := s.db(ctx).QueryRow(ctx, query, tenantID, start, end).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		b      booking.Booking
		status string
	)
	err := row.Scan(
		&b.ID, &b.TenantID, &b.ServiceID, &b.UserID, &b.StartAt, &b.EndAt,
		&status, &b.Notes, &b.ReminderSent, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = booking.Status(status)
	return &b, nil
}
