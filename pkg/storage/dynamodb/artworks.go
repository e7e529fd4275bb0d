package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// CreateArtwork registers an artwork. The ID is generated when empty.
func (s *Store) CreateArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	if artwork.Id == "" {
		artwork.Id = uuid.New().String()
	}
	if artwork.CreatedAt.IsZero() {
		artwork.CreatedAt = time.Now()
	}
	artwork.UpdatedAt = artwork.CreatedAt

	artworkAV, err := attributevalue.MarshalMap(artwork)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artwork: %w", err)
	}

	if err := s.putIfAbsent(ctx, s.ArtworksTableName, "id", artworkAV); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("artwork %s: %w", artwork.Id, err)
		}
		return nil, fmt.Errorf("failed to create artwork in DynamoDB: %w", err)
	}

	return artwork, nil
}

// GetArtwork retrieves an artwork by its ID.
func (s *Store) GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.ArtworksTableName),
		Key:            map[string]types.AttributeValue{"id": stringAV(artworkID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("artwork with ID %s: %w", artworkID, storage.ErrNotFound)
	}

	var artwork models.Artwork
	if err := attributevalue.UnmarshalMap(result.Item, &artwork); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artwork: %w", err)
	}

	return &artwork, nil
}
