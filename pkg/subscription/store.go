package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store defines subscription persistence.
type Store interface {
	// Current retrieves the tenant's current subscription: the most recently
	// created, non-deleted row. Returns ErrNoActiveSubscription if none exists.
	Current(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// Save creates or updates a subscription by ID.
	Save(ctx context.Context, sub *Subscription) error
}

// Source defines how the plan catalog is loaded.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}
