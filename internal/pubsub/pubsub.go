// Package pubsub carries host events (chat lines, overlay displays) to
// whoever is watching the world: the CLI, tests, or other tooling.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "world.chat").
	Topic string
	// ActorID identifies the actor the event concerns, if any.
	ActorID string
	// Payload contains the JSON-encoded event.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context (e.g., world tick).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with
	// the handler in the background until ctx is canceled or the bus closes.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
