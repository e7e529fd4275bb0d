package mapping

import (
	"time"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/auction"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiSession converts a domain session to an API session. Apply query.ViewFor first
// so redacted fields stay hidden.
func ToApiSession(session *models.AuctionSession) *api.Session {
	return &api.Session{
		Id:              toUUID(session.Id),
		ArtworkId:       toUUID(session.ArtworkId),
		CreatorId:       session.CreatorId,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		InitialPrice:    session.InitialPrice,
		CurrentPrice:    session.CurrentPrice,
		Status:          api.SessionStatus(session.Status),
		HighestBidderId: optional(session.HighestBidderId),
		MysteriousMode:  session.MysteriousMode,
		BidCount:        session.BidCount,
	}
}

// ToApiSessions converts a list of domain sessions.
func ToApiSessions(sessions []models.AuctionSession) []*api.Session {
	out := make([]*api.Session, len(sessions))
	for i := range sessions {
		out[i] = ToApiSession(&sessions[i])
	}
	return out
}

// ToCreateSessionInput converts an API NewSession into the service input for creatorID.
func ToCreateSessionInput(newSession *api.NewSession, creatorID string) auction.CreateSessionInput {
	return auction.CreateSessionInput{
		ArtworkId:      newSession.ArtworkId.String(),
		CreatorId:      creatorID,
		StartTime:      newSession.StartTime,
		EndTime:        newSession.EndTime,
		InitialPrice:   newSession.InitialPrice,
		MysteriousMode: newSession.MysteriousMode,
	}
}

// ToApiBid converts a domain bid to an API bid.
func ToApiBid(bid *models.Bid) *api.Bid {
	return &api.Bid{
		Id:        toUUID(bid.Id),
		SessionId: toUUID(bid.SessionId),
		BidderId:  optional(bid.BidderId),
		Amount:    bid.Amount,
		PlacedAt:  bid.PlacedAt,
	}
}

// ToApiBids converts a list of domain bids.
func ToApiBids(bids []models.Bid) []*api.Bid {
	out := make([]*api.Bid, len(bids))
	for i := range bids {
		out[i] = ToApiBid(&bids[i])
	}
	return out
}

// ToApiBidReceipt converts the result of an accepted bid.
func ToApiBidReceipt(receipt *auction.Receipt) *api.BidReceipt {
	return &api.BidReceipt{
		Bid:      ToApiBid(&receipt.Bid),
		Session:  ToApiSession(&receipt.Session),
		Attempts: receipt.Attempts,
	}
}

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:  wallet.UserId,
		Name:    wallet.Name,
		Balance: wallet.Balance,
		Version: wallet.Version,
	}
}

// ToDomainNewWallet converts an API NewWallet model to an empty domain Wallet.
// Funds arrive through deposits so every unit has a ledger entry.
func ToDomainNewWallet(newWallet *api.NewWallet, now time.Time) *models.Wallet {
	return &models.Wallet{
		UserId:    newWallet.UserId,
		Name:      newWallet.Name,
		Version:   1,
		CreatedAt: now,
	}
}

// ToDomainNewArtwork converts an API NewArtwork owned by ownerID.
func ToDomainNewArtwork(newArtwork *api.NewArtwork, ownerID string) *models.Artwork {
	return &models.Artwork{
		Title:   newArtwork.Title,
		OwnerId: ownerID,
	}
}

// ToApiArtwork converts a domain artwork.
func ToApiArtwork(artwork *models.Artwork) *api.Artwork {
	return &api.Artwork{
		Id:        toUUID(artwork.Id),
		Title:     artwork.Title,
		OwnerId:   artwork.OwnerId,
		CreatedAt: artwork.CreatedAt,
	}
}

// ToApiLedgerEntry converts a domain ledger entry. Only the side that moved is set.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:     entry.EntryID,
		Reference:   entry.Reference,
		AccountId:   entry.AccountID,
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
	}
	if entry.Debit != 0 {
		debit := entry.Debit
		out.Debit = &debit
	}
	if entry.Credit != 0 {
		credit := entry.Credit
		out.Credit = &credit
	}
	return out
}

// toUUID parses a stored identifier. Identifiers that are not UUIDs map to the nil UUID.
func toUUID(id string) openapi_types.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return openapi_types.UUID{}
	}
	return openapi_types.UUID(parsed)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
