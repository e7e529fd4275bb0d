package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

func (s *Store) CreateArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if artwork.Id == "" {
		artwork.Id = uuid.New().String()
	}
	if _, ok := s.artworks[artwork.Id]; ok {
		return nil, fmt.Errorf("artwork %s: %w", artwork.Id, storage.ErrAlreadyExists)
	}
	if artwork.CreatedAt.IsZero() {
		artwork.CreatedAt = time.Now()
	}
	artwork.UpdatedAt = artwork.CreatedAt
	s.artworks[artwork.Id] = *artwork
	return artwork, nil
}

func (s *Store) GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artwork, ok := s.artworks[artworkID]
	if !ok {
		return nil, fmt.Errorf("artwork with ID %s: %w", artworkID, storage.ErrNotFound)
	}
	return &artwork, nil
}
