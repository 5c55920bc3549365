package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the pub/sub channels used by the Redis emitter.
const channelPrefix = "realtime:"

// RedisEmitter publishes events over Redis pub/sub so multiple app instances
// can fan out live updates to their own websocket/SSE sessions.
type RedisEmitter struct {
	client *redis.Client
}

// NewRedisEmitter wraps an already-connected Redis client.
func NewRedisEmitter(client *redis.Client) (*RedisEmitter, error) {
	if client == nil {
		return nil, errors.New("realtime: redis client cannot be nil")
	}
	return &RedisEmitter{client: client}, nil
}

func (e *RedisEmitter) EmitTenant(ctx context.Context, tenantID uuid.UUID, event string, payload map[string]any) error {
	return e.publish(ctx, tenantTopic(tenantID), event, payload)
}

func (e *RedisEmitter) EmitUser(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error {
	return e.publish(ctx, userTopic(userID), event, payload)
}

func (e *RedisEmitter) publish(ctx context.Context, topic, event string, payload map[string]any) error {
	body, err := json.Marshal(Event{Name: event, Payload: payload, EmittedAt: time.Now().UTC()})
	if err != nil {
		return errors.Join(ErrEncodeEvent, err)
	}
	if err := e.client.Publish(ctx, channelPrefix+topic, body).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Subscribe returns a Redis subscription for a tenant's channel. The caller
// owns the returned PubSub and must close it.
func (e *RedisEmitter) Subscribe(ctx context.Context, tenantID uuid.UUID) *redis.PubSub {
	return e.client.Subscribe(ctx, channelPrefix+tenantTopic(tenantID))
}
