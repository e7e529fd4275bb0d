package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
)

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[wallet.UserId]; ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, storage.ErrAlreadyExists)
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now()
	}
	s.wallets[wallet.UserId] = *wallet
	return wallet, nil
}

func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}
	return &wallet, nil
}

func (s *Store) DeleteWallet(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[userID]; !ok {
		return fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}
	delete(s.wallets, userID)
	return nil
}

func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallets := make([]models.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].UserId < wallets[j].UserId })
	return wallets, nil
}

func (s *Store) ApplyBalanceChange(ctx context.Context, userID string, delta int64, expectedVersion int64, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}
	if wallet.Version != expectedVersion {
		return fmt.Errorf("wallet for user ID %s at version %d, expected %d: %w", userID, wallet.Version, expectedVersion, storage.ErrConflict)
	}
	if wallet.Balance+delta < 0 {
		return storage.ErrInsufficientFunds
	}

	wallet.Balance += delta
	wallet.Version++
	s.wallets[userID] = wallet
	if entry != nil {
		s.ledger = append(s.ledger, *entry)
	}
	return nil
}

func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}
	entries := make([]models.LedgerEntry, 0, limit)
	for i := len(s.ledger) - 1; i >= 0 && int32(len(entries)) < limit; i-- {
		entries = append(entries, s.ledger[i])
	}
	return entries, nil
}

func (s *Store) ListLedgerEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.LedgerEntry
	for _, e := range s.ledger {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
