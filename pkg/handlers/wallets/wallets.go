package wallets

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/handlers/respond"
	"github.com/chris/artwork-auctions/pkg/mapping"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// Depositor credits funds to a wallet. *ledger.Ledger satisfies it.
type Depositor interface {
	Credit(ctx context.Context, userID string, amount int64, reference, description string) (int64, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store storage.WalletStore
	Funds Depositor
	Now   func() time.Time
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore, funds Depositor) *WalletsHandler {
	return &WalletsHandler{Store: store, Funds: funds, Now: time.Now}
}

// CreateWallet handles the logic for creating a new, empty wallet.
func (h *WalletsHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var newWallet api.NewWallet
	if !respond.Decode(w, r, &newWallet) {
		return
	}
	if newWallet.UserId == "" {
		respond.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	createdWallet, err := h.Store.CreateWallet(r.Context(), mapping.ToDomainNewWallet(&newWallet, h.Now()))
	if err != nil {
		respond.FromError(w, "create wallet", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiWallet(createdWallet))
}

// DeleteWallet handles the logic for deleting a user's wallet.
func (h *WalletsHandler) DeleteWallet(w http.ResponseWriter, r *http.Request, userId string) {
	if err := h.Store.DeleteWallet(r.Context(), userId); err != nil {
		respond.FromError(w, "delete wallet", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListWallets handles the logic for retrieving all wallets, newest first.
func (h *WalletsHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	domainWallets, err := h.Store.ListWallets(r.Context())
	if err != nil {
		respond.FromError(w, "retrieve wallets", err)
		return
	}

	sort.Slice(domainWallets, func(i, j int) bool {
		return domainWallets[i].CreatedAt.After(domainWallets[j].CreatedAt)
	})

	apiWallets := make([]*api.Wallet, len(domainWallets))
	for i := range domainWallets {
		apiWallets[i] = mapping.ToApiWallet(&domainWallets[i])
	}

	respond.JSON(w, http.StatusOK, apiWallets)
}

// GetWalletByUserId handles the logic for retrieving a user's wallet.
func (h *WalletsHandler) GetWalletByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	domainWallet, err := h.Store.GetWallet(r.Context(), userId)
	if err != nil {
		respond.FromError(w, "retrieve wallet", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiWallet(domainWallet))
}

// Deposit credits external funds to a user's wallet through the ledger.
func (h *WalletsHandler) Deposit(w http.ResponseWriter, r *http.Request, userId string) {
	var deposit api.Deposit
	if !respond.Decode(w, r, &deposit) {
		return
	}
	if deposit.Reference == "" {
		deposit.Reference = uuid.New().String()
	}

	if _, err := h.Funds.Credit(r.Context(), userId, deposit.Amount, deposit.Reference, fmt.Sprintf("Deposit %s", deposit.Reference)); err != nil {
		respond.FromError(w, "deposit funds", err)
		return
	}

	domainWallet, err := h.Store.GetWallet(r.Context(), userId)
	if err != nil {
		respond.FromError(w, "retrieve wallet", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiWallet(domainWallet))
}
