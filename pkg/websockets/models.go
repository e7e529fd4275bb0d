package websockets

import (
	"time"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/models"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeSessionUpdate is for session lifecycle changes.
	MessageTypeSessionUpdate MessageType = "sessionUpdate"
	// MessageTypeBidPlaced is for newly accepted bids.
	MessageTypeBidPlaced MessageType = "bidPlaced"
	// MessageTypeOutbid tells a bidder they no longer hold the highest bid.
	MessageTypeOutbid MessageType = "outbid"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SessionUpdatePayload is the payload for a sessionUpdate message.
type SessionUpdatePayload struct {
	Event        events.Type          `json:"event"`
	SessionID    string               `json:"session_id"`
	ArtworkID    string               `json:"artwork_id"`
	Status       models.SessionStatus `json:"status"`
	CurrentPrice int64                `json:"current_price"`
	WinnerID     string               `json:"winner_id,omitempty"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

// BidPayload is the payload for bidPlaced and outbid messages.
type BidPayload struct {
	SessionID    string    `json:"session_id"`
	BidderID     string    `json:"bidder_id,omitempty"`
	Amount       int64     `json:"amount"`
	CurrentPrice int64     `json:"current_price"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// FromEvent converts a domain event into a client message.
// Bidder identities of mysterious sessions never leave the server.
func FromEvent(event events.Event) Message {
	bidder := event.BidderId
	if event.MysteriousMode {
		bidder = ""
	}

	switch event.Type {
	case events.BidPlaced, events.Outbid:
		msgType := MessageTypeBidPlaced
		if event.Type == events.Outbid {
			msgType = MessageTypeOutbid
		}
		return Message{
			Type: msgType,
			Payload: BidPayload{
				SessionID:    event.SessionId,
				BidderID:     bidder,
				Amount:       event.Amount,
				CurrentPrice: event.CurrentPrice,
				OccurredAt:   event.OccurredAt,
			},
		}
	default:
		return Message{
			Type: MessageTypeSessionUpdate,
			Payload: SessionUpdatePayload{
				Event:        event.Type,
				SessionID:    event.SessionId,
				ArtworkID:    event.ArtworkId,
				Status:       event.Status,
				CurrentPrice: event.CurrentPrice,
				WinnerID:     bidder,
				OccurredAt:   event.OccurredAt,
			},
		}
	}
}
