package websockets_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/chris/artwork-auctions/pkg/events"
	handler "github.com/chris/artwork-auctions/pkg/handlers/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisherFunc func(ctx context.Context, event events.Event) error

func (f publisherFunc) Publish(ctx context.Context, event events.Event) error { return f(ctx, event) }

func record(t *testing.T, id string, event events.Event) lambdaevents.SQSMessage {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return lambdaevents.SQSMessage{MessageId: id, Body: string(body)}
}

func TestHandleSQSEvent(t *testing.T) {
	var delivered []string
	publisher := publisherFunc(func(ctx context.Context, event events.Event) error {
		if event.SessionId == "unreachable" {
			return errors.New("gateway timeout")
		}
		delivered = append(delivered, event.SessionId)
		return nil
	})

	n := handler.NewNotifier(publisher, nil)
	resp, err := n.HandleSQSEvent(context.Background(), lambdaevents.SQSEvent{Records: []lambdaevents.SQSMessage{
		record(t, "m1", events.Event{Type: events.BidPlaced, SessionId: "s1"}),
		{MessageId: "m2", Body: "not json"},
		record(t, "m3", events.Event{Type: events.SessionEnded, SessionId: "unreachable"}),
		record(t, "m4", events.Event{Type: events.Outbid, SessionId: "s2"}),
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, delivered)
	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, "m3", resp.BatchItemFailures[0].ItemIdentifier)
}
