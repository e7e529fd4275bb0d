package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned when an Async publisher has no room for another event.
var ErrQueueFull = errors.New("event queue full")

const asyncDeliveryTimeout = 10 * time.Second

// Async delivers events to next from a background worker, so Publish returns
// as soon as the event is queued. Events are delivered in order.
type Async struct {
	next   Publisher
	queue  chan Event
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsync starts a worker that drains a queue of size events into next.
func NewAsync(next Publisher, size int, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = 1
	}
	a := &Async{
		next:   next,
		queue:  make(chan Event, size),
		logger: logger,
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Make sure we conform to the interface
var _ Publisher = (*Async)(nil)

// Publish queues event without waiting for delivery.
func (a *Async) Publish(ctx context.Context, event Event) error {
	select {
	case a.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queue is drained or ctx ends.
// Publish must not be called after Close.
func (a *Async) Close(ctx context.Context) error {
	a.closeOnce.Do(func() { close(a.queue) })
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) run() {
	defer close(a.done)
	for event := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), asyncDeliveryTimeout)
		if err := a.next.Publish(ctx, event); err != nil {
			a.logger.Warn("failed to deliver event", "type", event.Type, "session_id", event.SessionId, "error", err)
		}
		cancel()
	}
}
