package auction

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/ledger"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage/memory"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Type
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store  *memory.Store
	ledger *ledger.Ledger
	svc    *Service
	clock  *fakeClock
	events *recorder
}

var startingBalances = map[string]int64{"creator": 0, "alice": 10000, "bob": 10000, "carol": 50}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.New(), clock: &fakeClock{t: t0.Add(-time.Minute)}, events: &recorder{}}

	for user, balance := range startingBalances {
		_, err := f.store.CreateWallet(ctx, &models.Wallet{UserId: user, Balance: balance})
		require.NoError(t, err)
	}
	_, err := f.store.CreateArtwork(ctx, &models.Artwork{Id: "artwork-1", OwnerId: "creator"})
	require.NoError(t, err)

	f.ledger = ledger.New(f.store, f.clock.Now)
	f.svc = NewService(f.store, f.store, f.ledger, Options{
		Publisher: f.events,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     f.clock.Now,
	})
	return f
}

func (f *fixture) input() CreateSessionInput {
	return CreateSessionInput{
		ArtworkId:    "artwork-1",
		CreatorId:    "creator",
		StartTime:    t0,
		EndTime:      t0.Add(time.Hour),
		InitialPrice: 1000,
	}
}

// openSession creates a session and activates it the way the scheduler would, then moves the clock inside the window.
func (f *fixture) openSession(t *testing.T) *models.AuctionSession {
	t.Helper()
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, f.input())
	require.NoError(t, err)

	active, err := f.store.UpdateIfStatus(ctx, session.Id, models.PENDING, func(s *models.AuctionSession) error {
		s.Status = models.ACTIVE
		return nil
	})
	require.NoError(t, err)
	f.clock.Set(t0.Add(time.Second))
	return active
}

func (f *fixture) balance(t *testing.T, user string) int64 {
	t.Helper()
	balance, err := f.ledger.Balance(context.Background(), user)
	require.NoError(t, err)
	return balance
}

// totalMoney sums every wallet plus the escrow held by the sessions.
func (f *fixture) totalMoney(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	wallets, err := f.store.ListWallets(ctx)
	require.NoError(t, err)

	var total int64
	for _, w := range wallets {
		total += w.Balance
	}
	active, err := f.store.ListSessionsByStatus(ctx, models.ACTIVE)
	require.NoError(t, err)
	for _, s := range active {
		if s.HasWinner() {
			total += s.CurrentPrice
		}
	}
	return total
}
