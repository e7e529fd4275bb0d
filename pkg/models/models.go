package models

import (
	"time"
)

// SessionStatus defines the possible states of an auction session.
type SessionStatus string

const (
	PENDING   SessionStatus = "PENDING"
	ACTIVE    SessionStatus = "ACTIVE"
	ENDED     SessionStatus = "ENDED"
	CANCELLED SessionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible from s.
func (s SessionStatus) IsTerminal() bool {
	return s == ENDED || s == CANCELLED
}

// CanTransitionTo reports whether moving from s to next respects the session state machine:
// PENDING -> ACTIVE -> ENDED, and PENDING/ACTIVE -> CANCELLED. Staying in place is allowed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case PENDING:
		return next == ACTIVE || next == CANCELLED
	case ACTIVE:
		return next == ENDED || next == CANCELLED
	default:
		return false
	}
}

// AuctionSession is a time-boxed bidding event for a single artwork.
// Amounts are minor currency units.
type AuctionSession struct {
	Id              string        `json:"id" dynamodbav:"id"`
	ArtworkId       string        `json:"artwork_id" dynamodbav:"artwork_id"`
	CreatorId       string        `json:"creator_id" dynamodbav:"creator_id"`
	StartTime       time.Time     `json:"start_time" dynamodbav:"start_time"`
	EndTime         time.Time     `json:"end_time" dynamodbav:"end_time"`
	InitialPrice    int64         `json:"initial_price" dynamodbav:"initial_price"`
	CurrentPrice    int64         `json:"current_price" dynamodbav:"current_price"`
	Status          SessionStatus `json:"status" dynamodbav:"status"`
	HighestBidderId string        `json:"highest_bidder_id,omitempty" dynamodbav:"highest_bidder_id,omitempty"`
	MysteriousMode  bool          `json:"mysterious_mode" dynamodbav:"mysterious_mode"`
	BidCount        int64         `json:"bid_count" dynamodbav:"bid_count"`
	Version         int64         `json:"version" dynamodbav:"version"`
	CreatedAt       time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// HasWinner reports whether a bid has been accepted on the session.
func (s *AuctionSession) HasWinner() bool {
	return s.HighestBidderId != ""
}

// AcceptsBidsAt reports whether the session is open for bids at t.
func (s *AuctionSession) AcceptsBidsAt(t time.Time) bool {
	return s.Status == ACTIVE && !t.Before(s.StartTime) && !t.After(s.EndTime)
}

// Bid is an accepted offer on an auction session.
type Bid struct {
	Id        string    `json:"id" dynamodbav:"bid_id"`
	SessionId string    `json:"session_id" dynamodbav:"session_id"`
	BidderId  string    `json:"bidder_id" dynamodbav:"bidder_id"`
	Amount    int64     `json:"amount" dynamodbav:"amount"`
	PlacedAt  time.Time `json:"placed_at" dynamodbav:"placed_at"`
}

// Wallet represents the internal domain model for a user's spendable balance.
type Wallet struct {
	UserId    string    `json:"user_id" dynamodbav:"user_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Balance   int64     `json:"balance" dynamodbav:"balance"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// LedgerEntry represents a single balance movement on a wallet.
type LedgerEntry struct {
	EntryID     string    `json:"entry_id" dynamodbav:"entry_id"`
	Reference   string    `json:"reference" dynamodbav:"reference"`
	AccountID   string    `json:"account_id" dynamodbav:"account_id"`
	Debit       int64     `json:"debit,omitempty" dynamodbav:"debit,omitempty"`
	Credit      int64     `json:"credit,omitempty" dynamodbav:"credit,omitempty"`
	Description string    `json:"description" dynamodbav:"description"`
	Timestamp   time.Time `json:"timestamp" dynamodbav:"timestamp"`
	GSI1PK      string    `json:"-" dynamodbav:"gsi1pk"`
}

// LedgerPartition is the constant partition key used to list all ledger entries by time.
const LedgerPartition = "LEDGER_ENTRIES"

// Artwork is the minimal view of a catalog item the auction core needs.
type Artwork struct {
	Id        string    `json:"id" dynamodbav:"id"`
	Title     string    `json:"title" dynamodbav:"title"`
	OwnerId   string    `json:"owner_id" dynamodbav:"owner_id"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
