package subscription

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store implementation for tests and development.
type MemStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*Subscription // by subscription ID
}

// NewMemStore creates an empty in-memory subscription store.
func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[uuid.UUID]*Subscription)}
}

// Current returns the most recently created, non-deleted subscription for the tenant.
func (s *MemStore) Current(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *Subscription
	for _, row := range s.rows {
		if row.TenantID != tenantID || row.DeletedAt != nil {
			continue
		}
		if current == nil || row.CreatedAt.After(current.CreatedAt) {
			current = row
		}
	}
	if current == nil {
		return nil, ErrNoActiveSubscription
	}

	cp := *current
	return &cp, nil
}

// Save creates or updates a subscription by ID.
func (s *MemStore) Save(ctx context.Context, sub *Subscription) error {
	if !sub.Status.Valid() {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sub
	s.rows[sub.ID] = &cp
	return nil
}
