package ledger

import (
	"net/http"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/handlers/respond"
	"github.com/chris/artwork-auctions/pkg/mapping"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
)

const (
	defaultLimit = int32(20)
	maxLimit     = int32(200)
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

// ListLedgerEntries returns the most recent entries across all wallets.
func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams) {
	limit := defaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit <= 0 || limit > maxLimit {
		respond.Error(w, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}

	domainEntries, err := h.Store.ListLedgerEntries(r.Context(), limit)
	if err != nil {
		respond.FromError(w, "retrieve ledger entries", err)
		return
	}

	respond.JSON(w, http.StatusOK, toApiEntries(domainEntries))
}

// ListAccountEntries returns every entry recorded against one wallet.
func (h *LedgerHandler) ListAccountEntries(w http.ResponseWriter, r *http.Request, userId string) {
	domainEntries, err := h.Store.ListLedgerEntriesByAccount(r.Context(), userId)
	if err != nil {
		respond.FromError(w, "retrieve ledger entries", err)
		return
	}

	respond.JSON(w, http.StatusOK, toApiEntries(domainEntries))
}

func toApiEntries(entries []models.LedgerEntry) []*api.LedgerEntry {
	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}
	return apiEntries
}
