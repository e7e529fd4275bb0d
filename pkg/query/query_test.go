package query

import (
	"context"
	"testing"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/chris/artwork-auctions/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	sessions := []models.AuctionSession{
		{Id: "a-late", CreatorId: "ann", Status: models.ACTIVE, EndTime: t0.Add(2 * time.Hour)},
		{Id: "a-early", CreatorId: "ann", Status: models.ACTIVE, EndTime: t0.Add(time.Hour)},
		{Id: "a-ended", CreatorId: "ann", Status: models.ENDED, EndTime: t0},
		{Id: "a-pending", CreatorId: "ann", Status: models.PENDING, EndTime: t0.Add(3 * time.Hour)},
		{Id: "b-active", CreatorId: "ben", Status: models.ACTIVE, EndTime: t0.Add(30 * time.Minute), HighestBidderId: "ann", MysteriousMode: true},
	}
	for i := range sessions {
		_, err := store.InsertSession(ctx, &sessions[i])
		require.NoError(t, err)
	}
	return NewService(store)
}

func ids(sessions []models.AuctionSession) []string {
	out := []string{}
	for _, s := range sessions {
		out = append(out, s.Id)
	}
	return out
}

func TestActiveNotCreatedBy(t *testing.T) {
	svc := seed(t)

	forAnn, err := svc.ActiveNotCreatedBy(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-active"}, ids(forAnn))
	assert.Equal(t, "ann", forAnn[0].HighestBidderId)

	forCarl, err := svc.ActiveNotCreatedBy(context.Background(), "carl")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-active", "a-early", "a-late"}, ids(forCarl))
	assert.Empty(t, forCarl[0].HighestBidderId)
}

func TestCreatedBy(t *testing.T) {
	svc := seed(t)

	t.Run("Success", func(t *testing.T) {
		result, err := svc.CreatedBy(context.Background(), "ann")
		require.NoError(t, err)
		assert.Equal(t, []string{"a-early", "a-late"}, ids(result.Active))
		assert.Equal(t, []string{"a-ended"}, ids(result.Ended))
	})

	t.Run("No Sessions", func(t *testing.T) {
		result, err := svc.CreatedBy(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, result.Active)
		assert.Empty(t, result.Active)
		assert.Empty(t, result.Ended)
	})
}

func TestGroupedByStatus(t *testing.T) {
	svc := seed(t)

	grouped, err := svc.GroupedByStatus(context.Background(), "ann")
	require.NoError(t, err)
	assert.Len(t, grouped[models.ACTIVE], 2)
	assert.Len(t, grouped[models.ENDED], 1)
	assert.Len(t, grouped[models.PENDING], 1)
	assert.Empty(t, grouped[models.CANCELLED])
}

func TestBidHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for _, user := range []string{"ann", "ben"} {
		_, err := store.CreateWallet(ctx, &models.Wallet{UserId: user})
		require.NoError(t, err)
	}
	session := &models.AuctionSession{Id: "s1", CreatorId: "carl", Status: models.ACTIVE, CurrentPrice: 10, MysteriousMode: true}
	_, err := store.InsertSession(ctx, session)
	require.NoError(t, err)

	for i, bidder := range []string{"ann", "ben"} {
		current, err := store.GetSession(ctx, "s1")
		require.NoError(t, err)
		_, err = store.CommitBid(ctx, current, &models.Bid{Id: bidder, SessionId: "s1", BidderId: bidder, Amount: int64(20 + i), PlacedAt: t0.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}
	svc := NewService(store)

	t.Run("Mysterious Mode Hides Others", func(t *testing.T) {
		bids, err := svc.BidHistory(ctx, "s1", "ann")
		require.NoError(t, err)
		require.Len(t, bids, 2)
		assert.Equal(t, "ann", bids[0].BidderId)
		assert.Empty(t, bids[1].BidderId)
		assert.Equal(t, int64(21), bids[1].Amount)
	})

	t.Run("Highest Bidder Sees Themself", func(t *testing.T) {
		view, err := svc.Session(ctx, "s1", "ben")
		require.NoError(t, err)
		assert.Equal(t, "ben", view.HighestBidderId)

		view, err = svc.Session(ctx, "s1", "ann")
		require.NoError(t, err)
		assert.Empty(t, view.HighestBidderId)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := svc.BidHistory(ctx, "missing", "ann")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
