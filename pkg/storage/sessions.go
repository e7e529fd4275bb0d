package storage

import (
	"context"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
)

// Mutator edits a copy of a session inside a conditional update.
// Returning an error aborts the update without writing anything.
type Mutator func(session *models.AuctionSession) error

// SessionReader defines the interface for reading auction sessions and their bids.
type SessionReader interface {
	// GetSession retrieves a session by its ID.
	GetSession(ctx context.Context, sessionID string) (*models.AuctionSession, error)

	// ListSessionsByStatus retrieves all sessions currently in the given status.
	ListSessionsByStatus(ctx context.Context, status models.SessionStatus) ([]models.AuctionSession, error)

	// ListSessionsByCreator retrieves all sessions created by a user.
	ListSessionsByCreator(ctx context.Context, creatorID string) ([]models.AuctionSession, error)

	// ListBids retrieves the accepted bids of a session in placement order.
	ListBids(ctx context.Context, sessionID string) ([]models.Bid, error)
}

// SessionWriter defines the conditional write operations on auction sessions.
// Every write is conditioned on the status and version the caller last observed.
type SessionWriter interface {
	// InsertSession stores a new session and returns its ID.
	InsertSession(ctx context.Context, session *models.AuctionSession) (string, error)

	// UpdateIfStatus applies mutate to the session only if it is still in expected status.
	// It returns ErrConflict when the status or version moved underneath the caller.
	UpdateIfStatus(ctx context.Context, sessionID string, expected models.SessionStatus, mutate Mutator) (*models.AuctionSession, error)

	// CommitBid atomically raises the price of an ACTIVE session to bid.Amount, records the bid,
	// and credits the previous highest bidder with the escrow they are released from.
	// observed is the session state the bid was validated against.
	CommitBid(ctx context.Context, observed *models.AuctionSession, bid *models.Bid) (*models.AuctionSession, error)

	// FinalizeSession atomically moves an ACTIVE session to ENDED. When the session has a winner,
	// the artwork is transferred to them and the creator is credited with the final price.
	FinalizeSession(ctx context.Context, observed *models.AuctionSession, endedAt time.Time) (*models.AuctionSession, error)
}

// SessionStore combines the reader and writer interfaces.
type SessionStore interface {
	SessionReader
	SessionWriter
}
