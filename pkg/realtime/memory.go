package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Subscriber receives events for one topic.
type Subscriber struct {
	ch     chan Event
	closed bool
	mu     sync.RWMutex
}

// Receive returns the subscriber's event channel.
func (s *Subscriber) Receive() <-chan Event {
	return s.ch
}

// Close closes the subscriber. Idempotent.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

func (s *Subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Hub is an in-memory Emitter with topic-scoped subscriptions. Sends are
// non-blocking: a subscriber whose buffer is full misses the event and is
// dropped from the topic, so one slow UI session cannot stall emission.
type Hub struct {
	topics     map[string]map[*Subscriber]struct{}
	bufferSize int
	closed     bool
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup
}

// NewHub creates an in-memory hub. A minimum buffer size of 1 is enforced to
// keep sends non-blocking.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		topics:     make(map[string]map[*Subscriber]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

// SubscribeTenant subscribes to all events of a tenant.
// The subscription is cleaned up when ctx is cancelled.
func (h *Hub) SubscribeTenant(ctx context.Context, tenantID uuid.UUID) *Subscriber {
	return h.subscribe(ctx, tenantTopic(tenantID))
}

// SubscribeUser subscribes to events addressed to a single user.
func (h *Hub) SubscribeUser(ctx context.Context, userID uuid.UUID) *Subscriber {
	return h.subscribe(ctx, userTopic(userID))
}

func (h *Hub) subscribe(ctx context.Context, topic string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{ch: make(chan Event, h.bufferSize)}
	if h.closed {
		sub.Close()
		return sub
	}

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			<-ctx.Done()
			h.unsubscribe(topic, sub)
		}()
	}

	return sub
}

func (h *Hub) EmitTenant(ctx context.Context, tenantID uuid.UUID, event string, payload map[string]any) error {
	h.publish(tenantTopic(tenantID), Event{Name: event, Payload: payload, EmittedAt: time.Now().UTC()})
	return nil
}

func (h *Hub) EmitUser(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error {
	h.publish(userTopic(userID), Event{Name: event, Payload: payload, EmittedAt: time.Now().UTC()})
	return nil
}

func (h *Hub) publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for sub := range h.topics[topic] {
		if !sub.send(ev) {
			// Slow or closed subscriber; removed asynchronously to keep the
			// publish path free of write-lock contention.
			go h.unsubscribe(topic, sub)
		}
	}
}

// Close shuts down the hub and closes all subscribers. Idempotent.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for _, subs := range h.topics {
		for sub := range subs {
			sub.Close()
		}
	}
	clear(h.topics)
	h.mu.Unlock()

	h.cleanupWg.Wait()
	return nil
}

func (h *Hub) unsubscribe(topic string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	sub.Close()
}
