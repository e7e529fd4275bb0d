package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/artwork-auctions/pkg/events/mocks"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testEvent() Event {
	session := &models.AuctionSession{Id: "session-1", ArtworkId: "artwork-1", CreatorId: "creator", Status: models.ACTIVE, CurrentPrice: 150}
	event := ForSession(BidPlaced, session, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	event.BidderId = "alice"
	event.Amount = 150
	return event
}

func TestSQSPublisher(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := new(mocks.SQSAPI)
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var decoded Event
			if err := json.Unmarshal([]byte(*in.MessageBody), &decoded); err != nil {
				return false
			}
			return *in.QueueUrl == "https://queue" && decoded.Type == BidPlaced && decoded.BidderId == "alice"
		})).Return(&sqs.SendMessageOutput{}, nil)

		p := NewSQSPublisher(client, "https://queue")
		assert.NoError(t, p.Publish(context.Background(), testEvent()))
		client.AssertExpectations(t)
	})

	t.Run("Send Error", func(t *testing.T) {
		client := new(mocks.SQSAPI)
		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

		p := NewSQSPublisher(client, "https://queue")
		err := p.Publish(context.Background(), testEvent())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
	})
}

type fakeJetStream struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeJetStream) Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subject
	f.data = payload
	return &jetstream.PubAck{Stream: StreamName, Sequence: 1}, nil
}

func TestJetStreamPublisher(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		js := &fakeJetStream{}
		p := NewJetStreamPublisherFrom(js)

		assert.NoError(t, p.Publish(context.Background(), testEvent()))
		assert.Equal(t, "auction.events.session-1", js.subject)
		assert.Contains(t, string(js.data), `"type":"bid_placed"`)
	})

	t.Run("Publish Error", func(t *testing.T) {
		p := NewJetStreamPublisherFrom(&fakeJetStream{err: errors.New("no responders")})

		err := p.Publish(context.Background(), testEvent())
		assert.ErrorContains(t, err, "failed to publish to JetStream")
	})
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMulti(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("down")}
	healthy := &recordingPublisher{}

	err := Multi{failing, healthy, NoOpPublisher{}}.Publish(context.Background(), testEvent())

	assert.ErrorContains(t, err, "down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}
