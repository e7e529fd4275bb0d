package websockets

import (
	"context"

	"github.com/chris/artwork-auctions/pkg/events"
)

// EventNotifier forwards domain events to WebSocket clients.
type EventNotifier struct {
	Publisher Publisher
}

// NewEventNotifier creates an EventNotifier on top of publisher.
func NewEventNotifier(publisher Publisher) *EventNotifier {
	return &EventNotifier{Publisher: publisher}
}

// Make sure we conform to the interface
var _ events.Publisher = (*EventNotifier)(nil)

// Publish converts event to a client message and broadcasts it.
func (n *EventNotifier) Publish(ctx context.Context, event events.Event) error {
	return n.Publisher.Publish(ctx, FromEvent(event))
}
