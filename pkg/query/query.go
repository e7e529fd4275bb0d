// Package query builds read-only views of auction sessions for presentation layers.
package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
)

// Service projects sessions and bids without mutating anything.
type Service struct {
	sessions storage.SessionReader
}

// NewService creates a Service.
func NewService(sessions storage.SessionReader) *Service {
	return &Service{sessions: sessions}
}

// CreatorSessions splits a creator's sessions by state.
type CreatorSessions struct {
	Active []models.AuctionSession `json:"active"`
	Ended  []models.AuctionSession `json:"ended"`
}

// ActiveNotCreatedBy lists ACTIVE sessions a user can bid on, redacted for that user.
func (s *Service) ActiveNotCreatedBy(ctx context.Context, userID string) ([]models.AuctionSession, error) {
	active, err := s.sessions.ListSessionsByStatus(ctx, models.ACTIVE)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	out := make([]models.AuctionSession, 0, len(active))
	for _, session := range active {
		if session.CreatorId != userID {
			out = append(out, ViewFor(session, userID))
		}
	}
	return out, nil
}

// CreatedBy returns the ACTIVE and ENDED sessions of a creator.
func (s *Service) CreatedBy(ctx context.Context, userID string) (*CreatorSessions, error) {
	grouped, err := s.GroupedByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CreatorSessions{
		Active: nonNil(grouped[models.ACTIVE]),
		Ended:  nonNil(grouped[models.ENDED]),
	}, nil
}

// GroupedByStatus returns every session of a creator keyed by status, each group ordered by end time.
func (s *Service) GroupedByStatus(ctx context.Context, userID string) (map[models.SessionStatus][]models.AuctionSession, error) {
	sessions, err := s.sessions.ListSessionsByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions of %s: %w", userID, err)
	}
	sortByEndTime(sessions)

	grouped := make(map[models.SessionStatus][]models.AuctionSession)
	for _, session := range sessions {
		grouped[session.Status] = append(grouped[session.Status], session)
	}
	return grouped, nil
}

// Session returns one session as seen by viewerID.
func (s *Service) Session(ctx context.Context, sessionID, viewerID string) (*models.AuctionSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := ViewFor(*session, viewerID)
	return &view, nil
}

// BidHistory lists a session's bids in acceptance order as seen by viewerID.
func (s *Service) BidHistory(ctx context.Context, sessionID, viewerID string) ([]models.Bid, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bids, err := s.sessions.ListBids(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids of session %s: %w", sessionID, err)
	}

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].PlacedAt.Before(bids[j].PlacedAt) })
	if session.MysteriousMode {
		for i := range bids {
			if bids[i].BidderId != viewerID {
				bids[i].BidderId = ""
			}
		}
	}
	return nonNil(bids), nil
}

// ViewFor hides the highest bidder of a mysterious session from everyone but that bidder.
func ViewFor(session models.AuctionSession, viewerID string) models.AuctionSession {
	if session.MysteriousMode && session.HighestBidderId != viewerID {
		session.HighestBidderId = ""
	}
	return session
}

func sortByEndTime(sessions []models.AuctionSession) {
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].EndTime.Before(sessions[j].EndTime) })
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
