package events

import (
	"context"
	"sync"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

const subscriberBuffer = 100

// MemoryEventBus is an in-process EventBus for single-instance deployments
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.FormEvent]struct{}
	closed      bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.FormEvent]struct{}),
	}
}

// Publish delivers event to every current subscriber of channel. Slow
// subscribers miss events rather than block the publisher.
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.FormEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			observability.LoggerFromContext(ctx).Warn().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("subscriber channel full, skipping event")
		}
	}
	return nil
}

// Subscribe subscribes to events on a channel until ctx ends
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FormEvent, error) {
	eventChan := make(chan *entities.FormEvent, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(eventChan)
		return eventChan, nil
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.FormEvent]struct{})
	}
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, eventChan chan *entities.FormEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.subscribers[channel]
	if !ok {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}
	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe drops every subscriber of channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close drops every subscriber. Later subscriptions receive a closed channel.
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}
