// Package respond writes JSON responses and maps domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/auction"
	"github.com/chris/artwork-auctions/pkg/ledger"
	"github.com/chris/artwork-auctions/pkg/middleware"
	"github.com/chris/artwork-auctions/pkg/storage"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Error writes an api.Error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, api.Error{Message: message})
}

// Decode reads a JSON request body into v, answering 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// UserID returns the calling user, answering 401 when the request carries none.
func UserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(middleware.UserIDHeader)
	if userID == "" {
		Error(w, http.StatusUnauthorized, fmt.Sprintf("Missing %s header", middleware.UserIDHeader))
		return "", false
	}
	return userID, true
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auction.ErrNotOwner),
		errors.Is(err, auction.ErrNotArtworkOwner):
		return http.StatusForbidden
	case errors.Is(err, auction.ErrInvalidWindow),
		errors.Is(err, auction.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, auction.ErrNotPending),
		errors.Is(err, auction.ErrArtworkInAuction),
		errors.Is(err, auction.ErrBusy),
		errors.Is(err, ledger.ErrBusy),
		errors.Is(err, storage.ErrConflict),
		errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrNotActive),
		errors.Is(err, auction.ErrSelfBid),
		errors.Is(err, auction.ErrTooLow),
		errors.Is(err, storage.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with the status StatusFor picks. Internal errors hide their detail.
func FromError(w http.ResponseWriter, action string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		Error(w, status, fmt.Sprintf("Failed to %s", action))
		return
	}
	Error(w, status, err.Error())
}
