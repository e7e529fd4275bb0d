package storage

import (
	"context"

	"github.com/chris/artwork-auctions/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)

	// ListLedgerEntriesByAccount retrieves all entries recorded against one wallet.
	ListLedgerEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
}
