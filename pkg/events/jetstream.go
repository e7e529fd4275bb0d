package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName is the JetStream stream auction events are archived to.
const StreamName = "AUCTION_EVENTS"

// JetStreamAPI is the subset of jetstream.JetStream used by JetStreamPublisher.
type JetStreamAPI interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStreamPublisher archives events on the subject auction.events.<session id>.
type JetStreamPublisher struct {
	js      JetStreamAPI
	timeout time.Duration
}

// NewJetStreamPublisher ensures the archival stream exists and returns a publisher bound to it.
func NewJetStreamPublisher(ctx context.Context, nc *nats.Conn, maxAge time.Duration) (*JetStreamPublisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Auction session events archival",
		Subjects:    []string{"auction.events.*"},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      maxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create/update stream: %w", err)
	}

	return NewJetStreamPublisherFrom(js), nil
}

// NewJetStreamPublisherFrom wraps an existing JetStream context.
func NewJetStreamPublisherFrom(js JetStreamAPI) *JetStreamPublisher {
	return &JetStreamPublisher{js: js, timeout: 5 * time.Second}
}

var _ Publisher = (*JetStreamPublisher)(nil)

// Publish waits for the server acknowledgment so the event is persisted before returning.
// The event id doubles as the message id, which makes redelivery of the same event idempotent.
func (p *JetStreamPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	subject := fmt.Sprintf("auction.events.%s", event.SessionId)
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.Id)); err != nil {
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	return nil
}
