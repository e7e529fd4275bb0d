package auction

import (
	"errors"

	"github.com/chris/artwork-auctions/pkg/storage"
)

// Validation errors returned by CreateSession.
var (
	ErrInvalidWindow    = errors.New("session must end after it starts and in the future")
	ErrInvalidPrice     = errors.New("initial price must be positive")
	ErrNotArtworkOwner  = errors.New("only the artwork owner can auction it")
	ErrArtworkInAuction = errors.New("artwork already has an open session")
)

// Bid rejections returned by PlaceBid.
var (
	ErrInvalidAmount     = errors.New("bid amount must be positive")
	ErrNotActive         = errors.New("session is not accepting bids")
	ErrSelfBid           = errors.New("creator cannot bid on their own session")
	ErrTooLow            = errors.New("bid must exceed the current price")
	ErrInsufficientFunds = storage.ErrInsufficientFunds
	ErrBusy              = errors.New("session is busy, try again")
)

// Errors returned by CancelSession.
var (
	ErrNotOwner   = errors.New("only the creator can cancel a session")
	ErrNotPending = errors.New("only pending sessions can be cancelled")
)

// ErrNotFound is returned when the session or artwork does not exist.
var ErrNotFound = storage.ErrNotFound

// outcome labels a PlaceBid result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrNotActive):
		return "not_active"
	case errors.Is(err, ErrSelfBid):
		return "self_bid"
	case errors.Is(err, ErrTooLow):
		return "too_low"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
