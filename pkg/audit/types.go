package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a single audit trail entry for a booking-core mutation.
// Before/After carry entity snapshots for change tracking; either may be nil
// (create has no before, delete has no after).
type Record struct {
	ID         string         `json:"id" bson:"_id"`
	TenantID   uuid.UUID      `json:"tenant_id" bson:"tenant_id"`
	ActorID    uuid.UUID      `json:"actor_id" bson:"actor_id"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Before     map[string]any `json:"before,omitempty" bson:"before,omitempty"`
	After      map[string]any `json:"after,omitempty" bson:"after,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// Validate checks required fields.
func (r *Record) Validate() error {
	if r.Action == "" {
		return fmt.Errorf("%w: action is required", ErrRecordValidation)
	}
	if r.EntityType == "" {
		return fmt.Errorf("%w: entity type is required", ErrRecordValidation)
	}
	return nil
}
