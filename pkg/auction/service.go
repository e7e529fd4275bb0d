// Package auction creates, cancels and takes bids on auction sessions.
package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
)

// DefaultMaxBidAttempts bounds the optimistic retries of a single PlaceBid call.
const DefaultMaxBidAttempts = 5

// Funds moves money in and out of bidder wallets. *ledger.Ledger satisfies it.
type Funds interface {
	Debit(ctx context.Context, userID string, amount int64, reference, description string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, reference, description string) (int64, error)
}

// ArtworkReader looks up the artwork a session is opened for.
type ArtworkReader interface {
	GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error)
}

// Options holds the optional collaborators of a Service.
type Options struct {
	Publisher      events.Publisher
	Logger         *slog.Logger
	Clock          func() time.Time
	MaxBidAttempts int
}

// Service is the write side of auction sessions.
type Service struct {
	sessions       storage.SessionStore
	artworks       ArtworkReader
	funds          Funds
	publisher      events.Publisher
	logger         *slog.Logger
	now            func() time.Time
	maxBidAttempts int
}

// NewService creates a Service. Zero-valued options fall back to defaults.
func NewService(sessions storage.SessionStore, artworks ArtworkReader, funds Funds, opts Options) *Service {
	s := &Service{
		sessions:       sessions,
		artworks:       artworks,
		funds:          funds,
		publisher:      opts.Publisher,
		logger:         opts.Logger,
		now:            opts.Clock,
		maxBidAttempts: opts.MaxBidAttempts,
	}
	if s.publisher == nil {
		s.publisher = events.NoOpPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxBidAttempts <= 0 {
		s.maxBidAttempts = DefaultMaxBidAttempts
	}
	return s
}

// CreateSessionInput describes a new auction session.
type CreateSessionInput struct {
	ArtworkId      string
	CreatorId      string
	StartTime      time.Time
	EndTime        time.Time
	InitialPrice   int64
	MysteriousMode bool
}

// CreateSession validates the input and stores a new PENDING session.
func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*models.AuctionSession, error) {
	now := s.now()
	if !in.EndTime.After(in.StartTime) || !in.EndTime.After(now) {
		return nil, ErrInvalidWindow
	}
	if in.InitialPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	artwork, err := s.artworks.GetArtwork(ctx, in.ArtworkId)
	if err != nil {
		return nil, err
	}
	if artwork.OwnerId != in.CreatorId {
		return nil, ErrNotArtworkOwner
	}
	open, err := s.hasOpenSession(ctx, in.ArtworkId)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrArtworkInAuction
	}

	session := &models.AuctionSession{
		ArtworkId:      in.ArtworkId,
		CreatorId:      in.CreatorId,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		InitialPrice:   in.InitialPrice,
		CurrentPrice:   in.InitialPrice,
		Status:         models.PENDING,
		MysteriousMode: in.MysteriousMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.sessions.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	s.logger.Info("session created", "session_id", session.Id, "artwork_id", session.ArtworkId, "creator_id", session.CreatorId)
	s.publish(ctx, events.ForSession(events.SessionCreated, session, now))
	return session, nil
}

func (s *Service) hasOpenSession(ctx context.Context, artworkID string) (bool, error) {
	for _, status := range []models.SessionStatus{models.PENDING, models.ACTIVE} {
		sessions, err := s.sessions.ListSessionsByStatus(ctx, status)
		if err != nil {
			return false, fmt.Errorf("failed to list %s sessions: %w", status, err)
		}
		for _, session := range sessions {
			if session.ArtworkId == artworkID {
				return true, nil
			}
		}
	}
	return false, nil
}

// CancelSession withdraws a PENDING session on behalf of its creator.
func (s *Service) CancelSession(ctx context.Context, sessionID, requesterID string) (*models.AuctionSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatorId != requesterID {
		return nil, ErrNotOwner
	}
	if session.Status != models.PENDING {
		return nil, ErrNotPending
	}

	now := s.now()
	cancelled, err := s.sessions.UpdateIfStatus(ctx, sessionID, models.PENDING, func(session *models.AuctionSession) error {
		session.Status = models.CANCELLED
		session.UpdatedAt = now
		return nil
	})
	if errors.Is(err, storage.ErrConflict) {
		// The scheduler activated it, or another cancel won.
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("session cancelled", "session_id", sessionID)
	s.publish(ctx, events.ForSession(events.SessionCancelled, cancelled, now))
	return cancelled, nil
}

// GetSession returns a session by ID.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*models.AuctionSession, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

// ListBids returns the accepted bids of a session in acceptance order.
func (s *Service) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.sessions.ListBids(ctx, sessionID)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.Type, "session_id", event.SessionId, "error", err)
	}
}
