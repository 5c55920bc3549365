package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a live-update message for UI consumers.
type Event struct {
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload,omitempty"`
	EmittedAt time.Time      `json:"emitted_at"`
}

// Emitter publishes events to live subscribers after successful booking
// lifecycle transitions. Emission is asynchronous best-effort: failures are
// the emitter's problem, never the booking operation's.
type Emitter interface {
	// EmitTenant publishes an event to everyone watching the tenant.
	EmitTenant(ctx context.Context, tenantID uuid.UUID, event string, payload map[string]any) error

	// EmitUser publishes an event to a single user's live sessions.
	EmitUser(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error
}

// Topic naming shared by the in-memory hub and the Redis adapter.
func tenantTopic(id uuid.UUID) string { return "tenant:" + id.String() }
func userTopic(id uuid.UUID) string   { return "user:" + id.String() }

// NoopEmitter discards every event.
type NoopEmitter struct{}

func (NoopEmitter) EmitTenant(ctx context.Context, tenantID uuid.UUID, event string, payload map[string]any) error {
	return nil
}

func (NoopEmitter) EmitUser(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error {
	return nil
}
