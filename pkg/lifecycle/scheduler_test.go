package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/chris/artwork-auctions/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
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

type fixture struct {
	store     *memory.Store
	clock     *fakeClock
	events    *recorder
	scheduler *Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.New(), clock: &fakeClock{t: t0.Add(-time.Minute)}, events: &recorder{}}

	for _, user := range []string{"creator", "alice"} {
		_, err := f.store.CreateWallet(ctx, &models.Wallet{UserId: user})
		require.NoError(t, err)
	}
	f.scheduler = New(f.store, Options{
		Publisher: f.events,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     f.clock.Now,
	})
	return f
}

func (f *fixture) addSession(t *testing.T, id string, status models.SessionStatus) *models.AuctionSession {
	t.Helper()
	ctx := context.Background()
	artworkID := "artwork-" + id
	_, err := f.store.CreateArtwork(ctx, &models.Artwork{Id: artworkID, OwnerId: "creator"})
	require.NoError(t, err)

	session := &models.AuctionSession{
		Id:           id,
		ArtworkId:    artworkID,
		CreatorId:    "creator",
		StartTime:    t0,
		EndTime:      t0.Add(time.Hour),
		InitialPrice: 100,
		CurrentPrice: 100,
		Status:       status,
	}
	_, err = f.store.InsertSession(ctx, session)
	require.NoError(t, err)
	return session
}

// bid commits a winning bid directly against the store, skipping the escrow debit.
func (f *fixture) bid(t *testing.T, sessionID, bidderID string, amount int64) {
	t.Helper()
	ctx := context.Background()
	session, err := f.store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	_, err = f.store.CommitBid(ctx, session, &models.Bid{Id: bidderID + "-bid", SessionId: sessionID, BidderId: bidderID, Amount: amount, PlacedAt: t0})
	require.NoError(t, err)
}

func (f *fixture) session(t *testing.T, id string) *models.AuctionSession {
	t.Helper()
	session, err := f.store.GetSession(context.Background(), id)
	require.NoError(t, err)
	return session
}

func TestActivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSession(t, "s1", models.PENDING)

	report := f.scheduler.Tick(ctx)
	assert.Equal(t, Report{}, report)
	assert.Equal(t, models.PENDING, f.session(t, "s1").Status)

	f.clock.Set(t0)
	report = f.scheduler.Tick(ctx)
	assert.Equal(t, 1, report.Activated)
	assert.Equal(t, models.ACTIVE, f.session(t, "s1").Status)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, events.SessionActivated, f.events.events[0].Type)
}

func TestCancelledSessionsAreLeftAlone(t *testing.T) {
	f := newFixture(t)
	f.addSession(t, "s1", models.CANCELLED)
	f.clock.Set(t0.Add(2 * time.Hour))

	report := f.scheduler.Tick(context.Background())
	assert.Equal(t, Report{}, report)
	assert.Equal(t, models.CANCELLED, f.session(t, "s1").Status)
}

func TestFinalization(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Yet Due", func(t *testing.T) {
		f := newFixture(t)
		f.addSession(t, "s1", models.ACTIVE)
		f.clock.Set(t0.Add(time.Hour))

		report := f.scheduler.Tick(ctx)
		assert.Zero(t, report.Ended)
		assert.Equal(t, models.ACTIVE, f.session(t, "s1").Status)
	})

	t.Run("Without Bids", func(t *testing.T) {
		f := newFixture(t)
		f.addSession(t, "s1", models.ACTIVE)
		f.clock.Set(t0.Add(time.Hour + time.Second))

		report := f.scheduler.Tick(ctx)
		assert.Equal(t, 1, report.Ended)

		ended := f.session(t, "s1")
		assert.Equal(t, models.ENDED, ended.Status)
		assert.Empty(t, ended.HighestBidderId)
		artwork, _ := f.store.GetArtwork(ctx, "artwork-s1")
		assert.Equal(t, "creator", artwork.OwnerId)
		entries, _ := f.store.ListLedgerEntriesByAccount(ctx, "creator")
		assert.Empty(t, entries)
	})

	t.Run("Transfers To Winner", func(t *testing.T) {
		f := newFixture(t)
		f.addSession(t, "s1", models.ACTIVE)
		f.bid(t, "s1", "alice", 250)
		f.clock.Set(t0.Add(time.Hour + time.Second))

		report := f.scheduler.Tick(ctx)
		assert.Equal(t, 1, report.Ended)

		assert.Equal(t, models.ENDED, f.session(t, "s1").Status)
		artwork, _ := f.store.GetArtwork(ctx, "artwork-s1")
		assert.Equal(t, "alice", artwork.OwnerId)
		creator, _ := f.store.GetWallet(ctx, "creator")
		assert.Equal(t, int64(250), creator.Balance)

		last := f.events.events[len(f.events.events)-1]
		assert.Equal(t, events.SessionEnded, last.Type)
		assert.Equal(t, "alice", last.BidderId)
		assert.Equal(t, int64(250), last.Amount)
	})

	t.Run("Pending Past Its Window", func(t *testing.T) {
		f := newFixture(t)
		f.addSession(t, "s1", models.PENDING)
		f.clock.Set(t0.Add(2 * time.Hour))

		report := f.scheduler.Tick(ctx)
		assert.Equal(t, Report{Activated: 1, Ended: 1}, report)
		assert.Equal(t, models.ENDED, f.session(t, "s1").Status)
	})
}

func TestTickIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSession(t, "s1", models.ACTIVE)
	f.bid(t, "s1", "alice", 250)
	f.clock.Set(t0.Add(time.Hour + time.Second))

	first := f.scheduler.Tick(ctx)
	afterFirst := f.session(t, "s1")
	second := f.scheduler.Tick(ctx)

	assert.Equal(t, 1, first.Ended)
	assert.Equal(t, Report{}, second)
	assert.Equal(t, afterFirst, f.session(t, "s1"))

	creator, _ := f.store.GetWallet(ctx, "creator")
	assert.Equal(t, int64(250), creator.Balance)
	entries, _ := f.store.ListLedgerEntriesByAccount(ctx, "creator")
	assert.Len(t, entries, 1)
}

// brokenStore fails every finalization of one session.
type brokenStore struct {
	*memory.Store
	sessionID string
}

func (s brokenStore) FinalizeSession(ctx context.Context, observed *models.AuctionSession, endedAt time.Time) (*models.AuctionSession, error) {
	if observed.Id == s.sessionID {
		return nil, errors.New("transaction cancelled")
	}
	return s.Store.FinalizeSession(ctx, observed, endedAt)
}

func TestOneFailureDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSession(t, "stuck", models.ACTIVE)
	f.bid(t, "stuck", "alice", 250)
	f.addSession(t, "healthy", models.ACTIVE)
	f.clock.Set(t0.Add(time.Hour + time.Second))

	scheduler := New(brokenStore{Store: f.store, sessionID: "stuck"}, Options{Logger: f.scheduler.logger, Clock: f.clock.Now})
	report := scheduler.Tick(ctx)

	assert.Equal(t, 1, report.Ended)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, models.ACTIVE, f.session(t, "stuck").Status)
	assert.Equal(t, models.ENDED, f.session(t, "healthy").Status)
}

// lateBidStore lands one more bid right before the first finalization attempt.
type lateBidStore struct {
	*memory.Store
	once sync.Once
}

func (s *lateBidStore) FinalizeSession(ctx context.Context, observed *models.AuctionSession, endedAt time.Time) (*models.AuctionSession, error) {
	s.once.Do(func() {
		_, _ = s.Store.CommitBid(ctx, observed, &models.Bid{Id: "late", SessionId: observed.Id, BidderId: "alice", Amount: 300, PlacedAt: observed.EndTime})
	})
	return s.Store.FinalizeSession(ctx, observed, endedAt)
}

func TestFinalizationRetriesAfterLateBid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSession(t, "s1", models.ACTIVE)
	f.clock.Set(t0.Add(time.Hour + time.Second))

	scheduler := New(&lateBidStore{Store: f.store}, Options{Logger: f.scheduler.logger, Clock: f.clock.Now})
	report := scheduler.Tick(ctx)

	assert.Equal(t, Report{Ended: 1}, report)
	ended := f.session(t, "s1")
	assert.Equal(t, models.ENDED, ended.Status)
	assert.Equal(t, "alice", ended.HighestBidderId)
	artwork, _ := f.store.GetArtwork(ctx, "artwork-s1")
	assert.Equal(t, "alice", artwork.OwnerId)
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.scheduler.running.Store(true)

	report := f.scheduler.Tick(context.Background())
	assert.True(t, report.Skipped)

	f.scheduler.running.Store(false)
	assert.False(t, f.scheduler.Tick(context.Background()).Skipped)
}

// failingStore makes every listing fail.
type failingStore struct {
	*memory.Store
}

func (failingStore) ListSessionsByStatus(ctx context.Context, status models.SessionStatus) ([]models.AuctionSession, error) {
	return nil, storage.ErrNotFound
}

func TestListingFailureIsReported(t *testing.T) {
	f := newFixture(t)
	scheduler := New(failingStore{Store: f.store}, Options{Logger: f.scheduler.logger, Clock: f.clock.Now})

	report := scheduler.Tick(context.Background())
	assert.Equal(t, 2, report.Failed)
}

func TestStartAndStop(t *testing.T) {
	f := newFixture(t)
	f.addSession(t, "s1", models.PENDING)
	f.clock.Set(t0)

	scheduler := New(f.store, Options{Logger: f.scheduler.logger, Clock: f.clock.Now, Interval: time.Second})
	require.NoError(t, scheduler.Start())

	assert.Eventually(t, func() bool {
		session, err := f.store.GetSession(context.Background(), "s1")
		return err == nil && session.Status == models.ACTIVE
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, scheduler.Stop(ctx))
}

func TestFinalizationCreditsCreatorWithoutWallet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.CreateArtwork(ctx, &models.Artwork{Id: "artwork-nowallet", OwnerId: "nowallet"})
	require.NoError(t, err)
	_, err = f.store.InsertSession(ctx, &models.AuctionSession{
		Id:           "nowallet",
		ArtworkId:    "artwork-nowallet",
		CreatorId:    "nowallet",
		StartTime:    t0,
		EndTime:      t0.Add(time.Hour),
		InitialPrice: 100,
		CurrentPrice: 100,
		Status:       models.PENDING,
	})
	require.NoError(t, err)

	f.clock.Set(t0.Add(time.Second))
	assert.Equal(t, 1, f.scheduler.Tick(ctx).Activated)
	f.bid(t, "nowallet", "alice", 200)

	f.clock.Set(t0.Add(time.Hour + time.Second))
	report := f.scheduler.Tick(ctx)

	assert.Equal(t, Report{Ended: 1}, report)
	assert.Equal(t, models.ENDED, f.session(t, "nowallet").Status)
	artwork, _ := f.store.GetArtwork(ctx, "artwork-nowallet")
	assert.Equal(t, "alice", artwork.OwnerId)
	creator, err := f.store.GetWallet(ctx, "nowallet")
	require.NoError(t, err)
	assert.Equal(t, int64(200), creator.Balance)
}
