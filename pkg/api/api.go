// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SessionStatus is the lifecycle state of a session as exposed over HTTP.
type SessionStatus string

// NewSession is the body of POST /sessions. The creator is the calling user.
type NewSession struct {
	ArtworkId      openapi_types.UUID `json:"artwork_id"`
	StartTime      time.Time          `json:"start_time"`
	EndTime        time.Time          `json:"end_time"`
	InitialPrice   int64              `json:"initial_price"`
	MysteriousMode bool               `json:"mysterious_mode"`
}

// Session is an auction session as seen by the calling user.
type Session struct {
	Id              openapi_types.UUID `json:"id"`
	ArtworkId       openapi_types.UUID `json:"artwork_id"`
	CreatorId       string             `json:"creator_id"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	InitialPrice    int64              `json:"initial_price"`
	CurrentPrice    int64              `json:"current_price"`
	Status          SessionStatus      `json:"status"`
	HighestBidderId *string            `json:"highest_bidder_id,omitempty"`
	MysteriousMode  bool               `json:"mysterious_mode"`
	BidCount        int64              `json:"bid_count"`
}

// CreatorSessions is the body of GET /users/{userId}/sessions.
type CreatorSessions struct {
	Active []*Session `json:"active"`
	Ended  []*Session `json:"ended"`
}

// NewBid is the body of POST /sessions/{sessionId}/bids.
type NewBid struct {
	Amount int64 `json:"amount"`
}

// Bid is an accepted bid.
type Bid struct {
	Id        openapi_types.UUID `json:"id"`
	SessionId openapi_types.UUID `json:"session_id"`
	BidderId  *string            `json:"bidder_id,omitempty"`
	Amount    int64              `json:"amount"`
	PlacedAt  time.Time          `json:"placed_at"`
}

// BidReceipt is returned for an accepted bid.
type BidReceipt struct {
	Bid      *Bid     `json:"bid"`
	Session  *Session `json:"session"`
	Attempts int      `json:"attempts"`
}

// NewWallet is the body of POST /wallets.
type NewWallet struct {
	UserId string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

// Wallet is a user's spendable balance.
type Wallet struct {
	UserId  string `json:"user_id"`
	Name    string `json:"name,omitempty"`
	Balance int64  `json:"balance"`
	Version int64  `json:"version"`
}

// Deposit is the body of POST /wallets/{userId}/deposits.
type Deposit struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// NewArtwork is the body of POST /artworks. The owner is the calling user.
type NewArtwork struct {
	Title string `json:"title"`
}

// Artwork is a catalog item.
type Artwork struct {
	Id        openapi_types.UUID `json:"id"`
	Title     string             `json:"title"`
	OwnerId   string             `json:"owner_id"`
	CreatedAt time.Time          `json:"created_at"`
}

// LedgerEntry is a single balance movement.
type LedgerEntry struct {
	EntryId     string    `json:"entry_id"`
	Reference   string    `json:"reference"`
	AccountId   string    `json:"account_id"`
	Debit       *int64    `json:"debit,omitempty"`
	Credit      *int64    `json:"credit,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Message string `json:"message"`
}

// ListLedgerEntriesParams are the query parameters of GET /ledger.
type ListLedgerEntriesParams struct {
	Limit *int32 `form:"limit,omitempty" json:"limit,omitempty"`
}
