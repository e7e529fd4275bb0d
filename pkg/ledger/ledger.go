// Package ledger owns spendable wallet balances. Every balance movement goes through Debit or Credit,
// is serialized per user, and leaves a ledger entry behind.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds the optimistic read/write loop of a single mutation.
const DefaultMaxAttempts = 5

var (
	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrBusy is returned when the wallet kept changing underneath every attempt.
	ErrBusy = errors.New("wallet busy, try again")
)

// Ledger applies balance changes to wallets held in a storage.WalletStore.
type Ledger struct {
	store       storage.WalletStore
	locks       *keyedMutex
	now         func() time.Time
	maxAttempts int
}

// New creates a Ledger. A nil clock defaults to time.Now.
func New(store storage.WalletStore, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		store:       store,
		locks:       newKeyedMutex(),
		now:         now,
		maxAttempts: DefaultMaxAttempts,
	}
}

// Balance returns the user's current spendable balance.
func (l *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	wallet, err := l.store.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Debit removes amount from the user's wallet and returns the new balance.
// It fails with storage.ErrInsufficientFunds, leaving the wallet untouched, when the balance is short.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, reference, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return l.apply(ctx, userID, -amount, reference, description)
}

// Credit adds amount to the user's wallet and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, userID string, amount int64, reference, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return l.apply(ctx, userID, amount, reference, description)
}

func (l *Ledger) apply(ctx context.Context, userID string, delta int64, reference, description string) (int64, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		wallet, err := l.store.GetWallet(ctx, userID)
		if err != nil {
			return 0, err
		}
		if wallet.Balance+delta < 0 {
			return 0, fmt.Errorf("balance %d cannot cover %d: %w", wallet.Balance, -delta, storage.ErrInsufficientFunds)
		}

		entry := &models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Reference:   reference,
			AccountID:   userID,
			Description: description,
			Timestamp:   l.now(),
			GSI1PK:      models.LedgerPartition,
		}
		if delta < 0 {
			entry.Debit = -delta
		} else {
			entry.Credit = delta
		}

		err = l.store.ApplyBalanceChange(ctx, userID, delta, wallet.Version, entry)
		switch {
		case err == nil:
			return wallet.Balance + delta, nil
		case errors.Is(err, storage.ErrConflict):
			// Credits applied inside auction transactions bump the version without taking our lock.
			continue
		default:
			return 0, err
		}
	}

	return 0, ErrBusy
}
