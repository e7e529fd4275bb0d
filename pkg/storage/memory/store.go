// Package memory is an in-process implementation of storage.Storage for local development and tests.
// A single mutex makes every method, including the multi-record writes, atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// Store implements the Storage interface with maps guarded by one mutex.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]models.AuctionSession
	bids        map[string][]models.Bid
	wallets     map[string]models.Wallet
	ledger      []models.LedgerEntry
	artworks    map[string]models.Artwork
	connections map[string]struct{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sessions:    make(map[string]models.AuctionSession),
		bids:        make(map[string][]models.Bid),
		wallets:     make(map[string]models.Wallet),
		artworks:    make(map[string]models.Artwork),
		connections: make(map[string]struct{}),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) InsertSession(ctx context.Context, session *models.AuctionSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Id == "" {
		session.Id = uuid.New().String()
	}
	if _, ok := s.sessions[session.Id]; ok {
		return "", fmt.Errorf("session %s: %w", session.Id, storage.ErrAlreadyExists)
	}
	s.sessions[session.Id] = *session
	return session.Id, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.AuctionSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session with ID %s: %w", sessionID, storage.ErrNotFound)
	}
	return &session, nil
}

func (s *Store) ListSessionsByStatus(ctx context.Context, status models.SessionStatus) ([]models.AuctionSession, error) {
	return s.filterSessions(func(session models.AuctionSession) bool { return session.Status == status }), nil
}

func (s *Store) ListSessionsByCreator(ctx context.Context, creatorID string) ([]models.AuctionSession, error) {
	return s.filterSessions(func(session models.AuctionSession) bool { return session.CreatorId == creatorID }), nil
}

func (s *Store) filterSessions(keep func(models.AuctionSession) bool) []models.AuctionSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AuctionSession
	for _, session := range s.sessions {
		if keep(session) {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out
}

func (s *Store) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := make([]models.Bid, len(s.bids[sessionID]))
	copy(bids, s.bids[sessionID])
	return bids, nil
}

func (s *Store) UpdateIfStatus(ctx context.Context, sessionID string, expected models.SessionStatus, mutate storage.Mutator) (*models.AuctionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session with ID %s: %w", sessionID, storage.ErrNotFound)
	}
	if current.Status != expected {
		return nil, fmt.Errorf("session %s is %s, expected %s: %w", sessionID, current.Status, expected, storage.ErrConflict)
	}

	updated := current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(updated.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, updated.Status, storage.ErrInvalidTransition)
	}
	updated.Id = current.Id
	updated.Version = current.Version + 1
	s.sessions[sessionID] = updated
	return &updated, nil
}

func (s *Store) CommitBid(ctx context.Context, observed *models.AuctionSession, bid *models.Bid) (*models.AuctionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[observed.Id]
	if !ok {
		return nil, fmt.Errorf("session with ID %s: %w", observed.Id, storage.ErrNotFound)
	}
	if current.Status != models.ACTIVE || current.Version != observed.Version {
		return nil, fmt.Errorf("session %s changed before bid %s: %w", observed.Id, bid.Id, storage.ErrConflict)
	}

	if current.HasWinner() {
		refund := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Reference:   current.Id,
			AccountID:   current.HighestBidderId,
			Credit:      current.CurrentPrice,
			Description: fmt.Sprintf("Outbid refund for session %s", current.Id),
			Timestamp:   bid.PlacedAt,
			GSI1PK:      models.LedgerPartition,
		}
		s.creditLocked(refund)
	}

	current.CurrentPrice = bid.Amount
	current.HighestBidderId = bid.BidderId
	current.BidCount++
	current.Version++
	current.UpdatedAt = bid.PlacedAt
	s.sessions[current.Id] = current
	s.bids[current.Id] = append(s.bids[current.Id], *bid)
	return &current, nil
}

func (s *Store) FinalizeSession(ctx context.Context, observed *models.AuctionSession, endedAt time.Time) (*models.AuctionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[observed.Id]
	if !ok {
		return nil, fmt.Errorf("session with ID %s: %w", observed.Id, storage.ErrNotFound)
	}
	if current.Status != models.ACTIVE || current.Version != observed.Version {
		return nil, fmt.Errorf("session %s changed before finalization: %w", observed.Id, storage.ErrConflict)
	}

	if current.HasWinner() {
		artwork, ok := s.artworks[current.ArtworkId]
		if !ok {
			return nil, fmt.Errorf("artwork with ID %s: %w", current.ArtworkId, storage.ErrNotFound)
		}
		if artwork.OwnerId != current.CreatorId {
			return nil, fmt.Errorf("artwork %s no longer owned by %s: %w", artwork.Id, current.CreatorId, storage.ErrConflict)
		}
		proceeds := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Reference:   current.Id,
			AccountID:   current.CreatorId,
			Credit:      current.CurrentPrice,
			Description: fmt.Sprintf("Sale of artwork %s in session %s", current.ArtworkId, current.Id),
			Timestamp:   endedAt,
			GSI1PK:      models.LedgerPartition,
		}
		s.creditLocked(proceeds)
		artwork.OwnerId = current.HighestBidderId
		artwork.UpdatedAt = endedAt
		s.artworks[artwork.Id] = artwork
	}

	current.Status = models.ENDED
	current.Version++
	current.UpdatedAt = endedAt
	s.sessions[current.Id] = current
	return &current, nil
}

// creditLocked must be called with s.mu held. A missing wallet is created.
func (s *Store) creditLocked(entry models.LedgerEntry) {
	wallet, ok := s.wallets[entry.AccountID]
	if !ok {
		wallet = models.Wallet{UserId: entry.AccountID, CreatedAt: entry.Timestamp}
	}
	wallet.Balance += entry.Credit
	wallet.Version++
	s.wallets[wallet.UserId] = wallet
	s.ledger = append(s.ledger, entry)
}
