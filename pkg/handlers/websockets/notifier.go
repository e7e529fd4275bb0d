package websockets

import (
	"context"
	"encoding/json"
	"log/slog"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/chris/artwork-auctions/pkg/events"
)

// Notifier relays auction events delivered through SQS to connected clients.
type Notifier struct {
	publisher events.Publisher
	logger    *slog.Logger
}

// NewNotifier creates a Notifier that forwards to publisher.
func NewNotifier(publisher events.Publisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{publisher: publisher, logger: logger}
}

// HandleSQSEvent publishes every record and reports the ones that failed so SQS redelivers only those.
// Records that cannot be decoded are dropped, since redelivery would never fix them.
func (n *Notifier) HandleSQSEvent(ctx context.Context, sqsEvent lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var response lambdaevents.SQSEventResponse

	for _, message := range sqsEvent.Records {
		var event events.Event
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			n.logger.Error("failed to unmarshal auction event", "messageId", message.MessageId, "error", err)
			continue
		}

		if err := n.publisher.Publish(ctx, event); err != nil {
			n.logger.Error("failed to notify clients", "messageId", message.MessageId, "eventType", event.Type, "sessionId", event.SessionId, "error", err)
			response.BatchItemFailures = append(response.BatchItemFailures, lambdaevents.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}

		n.logger.Info("notified clients", "messageId", message.MessageId, "eventType", event.Type, "sessionId", event.SessionId)
	}

	return response, nil
}
