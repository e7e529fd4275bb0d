package sessions

import (
	"context"
	"net/http"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/auction"
	"github.com/chris/artwork-auctions/pkg/handlers/respond"
	"github.com/chris/artwork-auctions/pkg/mapping"
	"github.com/chris/artwork-auctions/pkg/middleware"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/query"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AuctionService is the write side the handler drives. *auction.Service satisfies it.
type AuctionService interface {
	CreateSession(ctx context.Context, in auction.CreateSessionInput) (*models.AuctionSession, error)
	PlaceBid(ctx context.Context, sessionID, bidderID string, amount int64) (*auction.Receipt, error)
	CancelSession(ctx context.Context, sessionID, requesterID string) (*models.AuctionSession, error)
}

// QueryService is the read side the handler drives. *query.Service satisfies it.
type QueryService interface {
	ActiveNotCreatedBy(ctx context.Context, userID string) ([]models.AuctionSession, error)
	CreatedBy(ctx context.Context, userID string) (*query.CreatorSessions, error)
	Session(ctx context.Context, sessionID, viewerID string) (*models.AuctionSession, error)
	BidHistory(ctx context.Context, sessionID, viewerID string) ([]models.Bid, error)
}

// SessionsHandler holds the dependencies for session and bid handlers.
type SessionsHandler struct {
	Auctions AuctionService
	Queries  QueryService
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(auctions AuctionService, queries QueryService) *SessionsHandler {
	return &SessionsHandler{Auctions: auctions, Queries: queries}
}

// CreateSession opens a PENDING session on an artwork the caller owns.
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}
	var newSession api.NewSession
	if !respond.Decode(w, r, &newSession) {
		return
	}

	session, err := h.Auctions.CreateSession(r.Context(), mapping.ToCreateSessionInput(&newSession, userID))
	if err != nil {
		respond.FromError(w, "create session", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiSession(session))
}

// ListSessions lists the ACTIVE sessions the caller can bid on.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	sessions, err := h.Queries.ActiveNotCreatedBy(r.Context(), userID)
	if err != nil {
		respond.FromError(w, "retrieve sessions", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSessions(sessions))
}

// GetSessionById returns one session as seen by the caller. Anonymous callers see redacted data.
func (h *SessionsHandler) GetSessionById(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	viewerID := r.Header.Get(middleware.UserIDHeader)

	session, err := h.Queries.Session(r.Context(), sessionId.String(), viewerID)
	if err != nil {
		respond.FromError(w, "retrieve session", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSession(session))
}

// PlaceBid offers the body's amount on behalf of the caller.
func (h *SessionsHandler) PlaceBid(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}
	var newBid api.NewBid
	if !respond.Decode(w, r, &newBid) {
		return
	}

	receipt, err := h.Auctions.PlaceBid(r.Context(), sessionId.String(), userID, newBid.Amount)
	if err != nil {
		respond.FromError(w, "place bid", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiBidReceipt(receipt))
}

// ListBids returns the bid history of a session as seen by the caller.
func (h *SessionsHandler) ListBids(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	viewerID := r.Header.Get(middleware.UserIDHeader)

	bids, err := h.Queries.BidHistory(r.Context(), sessionId.String(), viewerID)
	if err != nil {
		respond.FromError(w, "retrieve bids", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiBids(bids))
}

// CancelSession cancels a PENDING session created by the caller.
func (h *SessionsHandler) CancelSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}

	session, err := h.Auctions.CancelSession(r.Context(), sessionId.String(), userID)
	if err != nil {
		respond.FromError(w, "cancel session", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSession(session))
}

// ListUserSessions returns a creator's active and ended sessions as seen by the caller.
func (h *SessionsHandler) ListUserSessions(w http.ResponseWriter, r *http.Request, userId string) {
	viewerID := r.Header.Get(middleware.UserIDHeader)

	result, err := h.Queries.CreatedBy(r.Context(), userId)
	if err != nil {
		respond.FromError(w, "retrieve user sessions", err)
		return
	}

	respond.JSON(w, http.StatusOK, &api.CreatorSessions{
		Active: viewAll(result.Active, viewerID),
		Ended:  viewAll(result.Ended, viewerID),
	})
}

func viewAll(sessions []models.AuctionSession, viewerID string) []*api.Session {
	viewed := make([]models.AuctionSession, len(sessions))
	for i, session := range sessions {
		viewed[i] = query.ViewFor(session, viewerID)
	}
	return mapping.ToApiSessions(viewed)
}
