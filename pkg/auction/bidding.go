package auction

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/ledger"
	"github.com/chris/artwork-auctions/pkg/metrics"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// Receipt is the result of an accepted bid.
type Receipt struct {
	Bid      models.Bid
	Session  models.AuctionSession
	Attempts int
}

// PlaceBid validates a bid against the latest session state, escrows the amount from the bidder's
// wallet and commits it conditioned on the state it was validated against. Losing a race refunds the
// escrow and retries from a fresh read, up to the configured number of attempts.
func (s *Service) PlaceBid(ctx context.Context, sessionID, bidderID string, amount int64) (*Receipt, error) {
	receipt, attempts, err := s.placeBid(ctx, sessionID, bidderID, amount)
	metrics.ObserveBid(outcome(err), attempts)
	if err != nil {
		s.logger.Info("bid rejected", "session_id", sessionID, "bidder_id", bidderID, "amount", amount, "reason", err)
		return nil, err
	}
	return receipt, nil
}

func (s *Service) placeBid(ctx context.Context, sessionID, bidderID string, amount int64) (*Receipt, int, error) {
	if amount <= 0 {
		return nil, 0, ErrInvalidAmount
	}

	for attempt := 1; attempt <= s.maxBidAttempts; attempt++ {
		session, err := s.sessions.GetSession(ctx, sessionID)
		if err != nil {
			return nil, attempt, err
		}

		now := s.now()
		if !session.AcceptsBidsAt(now) {
			return nil, attempt, ErrNotActive
		}
		if bidderID == session.CreatorId {
			return nil, attempt, ErrSelfBid
		}
		if amount <= session.CurrentPrice {
			return nil, attempt, fmt.Errorf("%d <= %d: %w", amount, session.CurrentPrice, ErrTooLow)
		}

		if _, err := s.funds.Debit(ctx, bidderID, amount, session.Id, fmt.Sprintf("Escrow for bid on session %s", session.Id)); err != nil {
			if errors.Is(err, ledger.ErrBusy) {
				return nil, attempt, fmt.Errorf("%w: %w", ErrBusy, err)
			}
			return nil, attempt, err
		}

		bid := &models.Bid{
			Id:        uuid.New().String(),
			SessionId: session.Id,
			BidderId:  bidderID,
			Amount:    amount,
			PlacedAt:  now,
		}
		updated, err := s.sessions.CommitBid(ctx, session, bid)
		if err == nil {
			s.announce(ctx, session, updated, bid)
			return &Receipt{Bid: *bid, Session: *updated, Attempts: attempt}, attempt, nil
		}

		// The escrow was taken against a state that no longer holds.
		if _, refundErr := s.funds.Credit(ctx, bidderID, amount, session.Id, fmt.Sprintf("Refund of unapplied bid on session %s", session.Id)); refundErr != nil {
			s.logger.Error("failed to refund unapplied bid", "session_id", session.Id, "bidder_id", bidderID, "amount", amount, "error", refundErr)
			return nil, attempt, errors.Join(err, fmt.Errorf("failed to refund escrow: %w", refundErr))
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, attempt, fmt.Errorf("failed to commit bid: %w", err)
		}
		s.logger.Debug("bid lost a race, retrying", "session_id", session.Id, "attempt", attempt)
	}

	return nil, s.maxBidAttempts, ErrBusy
}

func (s *Service) announce(ctx context.Context, before, after *models.AuctionSession, bid *models.Bid) {
	s.logger.Info("bid accepted", "session_id", after.Id, "bidder_id", bid.BidderId, "amount", bid.Amount, "bid_count", after.BidCount)

	placed := events.ForSession(events.BidPlaced, after, bid.PlacedAt)
	placed.BidderId = bid.BidderId
	placed.Amount = bid.Amount
	s.publish(ctx, placed)

	if before.HasWinner() && before.HighestBidderId != bid.BidderId {
		outbid := events.ForSession(events.Outbid, after, bid.PlacedAt)
		outbid.BidderId = before.HighestBidderId
		outbid.Amount = before.CurrentPrice
		s.publish(ctx, outbid)
	}
}
