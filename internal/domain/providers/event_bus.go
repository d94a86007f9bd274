package providers

import (
	"context"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to form events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.FormEvent) error

	// Subscribe subscribes to events on a channel. The returned channel is
	// closed when ctx ends or the bus is closed.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FormEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSessionPrefix is the prefix for per-session channels
const EventChannelSessionPrefix = "forms:session:"

// GetSessionChannel returns the channel name for one visitor session
func GetSessionChannel(sessionID string) string {
	return EventChannelSessionPrefix + sessionID
}
