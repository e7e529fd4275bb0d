package artworks

import (
	"net/http"

	"github.com/chris/artwork-auctions/pkg/api"
	"github.com/chris/artwork-auctions/pkg/handlers/respond"
	"github.com/chris/artwork-auctions/pkg/mapping"
	"github.com/chris/artwork-auctions/pkg/storage"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ArtworksHandler holds the dependencies for artwork-related handlers.
type ArtworksHandler struct {
	Store storage.ArtworkStore
}

// NewArtworksHandler creates a new ArtworksHandler.
func NewArtworksHandler(store storage.ArtworkStore) *ArtworksHandler {
	return &ArtworksHandler{Store: store}
}

// CreateArtwork registers an artwork owned by the caller.
func (h *ArtworksHandler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.UserID(w, r)
	if !ok {
		return
	}
	var newArtwork api.NewArtwork
	if !respond.Decode(w, r, &newArtwork) {
		return
	}
	if newArtwork.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.Store.CreateArtwork(r.Context(), mapping.ToDomainNewArtwork(&newArtwork, userID))
	if err != nil {
		respond.FromError(w, "create artwork", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiArtwork(created))
}

// GetArtworkById returns an artwork and its current owner.
func (h *ArtworksHandler) GetArtworkById(w http.ResponseWriter, r *http.Request, artworkId openapi_types.UUID) {
	artwork, err := h.Store.GetArtwork(r.Context(), artworkId.String())
	if err != nil {
		respond.FromError(w, "retrieve artwork", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiArtwork(artwork))
}
