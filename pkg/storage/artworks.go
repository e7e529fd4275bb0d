package storage

import (
	"context"

	"github.com/chris/artwork-auctions/pkg/models"
)

// ArtworkStore is the narrow slice of the artwork catalog the auction core depends on.
// Ownership only changes when a session is finalized (SessionWriter.FinalizeSession).
type ArtworkStore interface {
	CreateArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error)
	GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error)
}
