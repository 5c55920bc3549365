package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// slotKey identifies the serialization scope of booking writes.
type slotKey struct {
	tenantID  uuid.UUID
	serviceID uuid.UUID
}

// MemStore is an in-memory Store for tests and single-process setups.
// WithSlotLock serializes writers per (tenant, service) with a mutex map,
// and both InsertBooking and UpdateBooking enforce the overlap constraint
// themselves, mirroring the database exclusion constraint so last-resort
// conflict handling is exercisable without PostgreSQL.
type MemStore struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*Booking
	services map[uuid.UUID]*Service

	slotMu sync.Mutex
	slots  map[slotKey]*sync.Mutex
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		bookings: make(map[uuid.UUID]*Booking),
		services: make(map[uuid.UUID]*Service),
		slots:    make(map[slotKey]*sync.Mutex),
	}
}

// PutService seeds or replaces a service.
func (s *MemStore) PutService(svc *Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *svc
	s.services[svc.ID] = &cp
}

func (s *MemStore) GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok || b.TenantID != tenantID || b.DeletedAt != nil {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemStore) ListBookings(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Booking
	for _, b := range s.bookings {
		if b.TenantID != tenantID || b.DeletedAt != nil {
			continue
		}
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
			continue
		}
		if f.From != nil && b.StartAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.StartAt.Before(*f.To) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemStore) InsertBooking(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirrors the database exclusion constraint: reject the insert itself if
	// a blocking booking already intersects the interval.
	for _, other := range s.bookings {
		if other.TenantID != b.TenantID || other.ServiceID != b.ServiceID {
			continue
		}
		if other.DeletedAt != nil || !other.Status.Blocking() {
			continue
		}
		if other.Overlaps(b.StartAt, b.EndAt) {
			return ErrSlotConflict
		}
	}

	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *MemStore) UpdateBooking(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.bookings[b.ID]
	if !ok || cur.TenantID != b.TenantID || cur.DeletedAt != nil {
		return ErrBookingNotFound
	}

	// The exclusion constraint guards updates too: a blocking row may not be
	// moved onto an interval another blocking booking holds.
	if b.Status.Blocking() {
		for _, other := range s.bookings {
			if other.ID == b.ID || other.TenantID != b.TenantID || other.ServiceID != b.ServiceID {
				continue
			}
			if other.DeletedAt != nil || !other.Status.Blocking() {
				continue
			}
			if other.Overlaps(b.StartAt, b.EndAt) {
				return ErrSlotConflict
			}
		}
	}

	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *MemStore) SoftDeleteBooking(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.TenantID != tenantID || b.DeletedAt != nil {
		return ErrBookingNotFound
	}
	t := at
	b.DeletedAt = &t
	return nil
}

func (s *MemStore) AnyOverlapping(ctx context.Context, tenantID, serviceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.TenantID != tenantID || b.ServiceID != serviceID {
			continue
		}
		if b.DeletedAt != nil || !b.Status.Blocking() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) CountBookingsCreatedBetween(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.bookings {
		if b.TenantID != tenantID || b.DeletedAt != nil {
			continue
		}
		if !b.CreatedAt.Before(start) && !b.CreatedAt.After(end) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) GetService(ctx context.Context, tenantID, id uuid.UUID) (*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok || svc.TenantID != tenantID {
		return nil, ErrServiceUnavailable
	}
	cp := *svc
	return &cp, nil
}

func (s *MemStore) CountServices(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, svc := range s.services {
		if svc.TenantID == tenantID && svc.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) WithSlotLock(ctx context.Context, tenantID, serviceID uuid.UUID, fn func(ctx context.Context) error) error {
	mu := s.slotLock(slotKey{tenantID: tenantID, serviceID: serviceID})
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

func (s *MemStore) slotLock(key slotKey) *sync.Mutex {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	mu, ok := s.slots[key]
	if !ok {
		mu = &sync.Mutex{}
		s.slots[key] = mu
	}
	return mu
}

func containsStatus(ss []Status, st Status) bool {
	for _, s := range ss {
		if s == st {
			return true
		}
	}
	return false
}
