// Package events carries auction domain events to downstream consumers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	SessionCreated   Type = "session_created"
	SessionActivated Type = "session_activated"
	SessionEnded     Type = "session_ended"
	SessionCancelled Type = "session_cancelled"
	BidPlaced        Type = "bid_placed"
	Outbid           Type = "outbid"
)

// Event is a single state change of an auction session.
type Event struct {
	Id             string               `json:"id"`
	Type           Type                 `json:"type"`
	SessionId      string               `json:"session_id"`
	ArtworkId      string               `json:"artwork_id"`
	CreatorId      string               `json:"creator_id"`
	Status         models.SessionStatus `json:"status"`
	CurrentPrice   int64                `json:"current_price"`
	BidderId       string               `json:"bidder_id,omitempty"`
	Amount         int64                `json:"amount,omitempty"`
	MysteriousMode bool                 `json:"mysterious_mode"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// ForSession builds an event describing session's current state.
func ForSession(t Type, session *models.AuctionSession, at time.Time) Event {
	return Event{
		Id:             uuid.New().String(),
		Type:           t,
		SessionId:      session.Id,
		ArtworkId:      session.ArtworkId,
		CreatorId:      session.CreatorId,
		Status:         session.Status,
		CurrentPrice:   session.CurrentPrice,
		MysteriousMode: session.MysteriousMode,
		OccurredAt:     at,
	}
}

// Publisher defines the interface for emitting domain events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoOpPublisher drops every event.
type NoOpPublisher struct{}

// Publish does nothing.
func (NoOpPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// Multi publishes each event to every publisher, even when some of them fail.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
