package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// FinalizeSession closes an ACTIVE session. With a winner, the same transaction transfers the
// artwork from the creator to the winner and credits the creator with the escrowed final price,
// so a session is never observed ENDED without its settlement.
func (s *Store) FinalizeSession(ctx context.Context, observed *models.AuctionSession, endedAt time.Time) (*models.AuctionSession, error) {
	nowAV, err := timeAV(endedAt)
	if err != nil {
		return nil, err
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Move the session to ENDED.
			Update: &types.Update{
				TableName:           aws.String(s.SessionsTableName),
				Key:                 map[string]types.AttributeValue{"id": stringAV(observed.Id)},
				UpdateExpression:    aws.String("SET #status = :ended_status, version = version + :inc, updated_at = :now"),
				ConditionExpression: aws.String("#status = :active_status AND version = :version"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":ended_status":  stringAV(string(models.ENDED)),
					":active_status": stringAV(string(models.ACTIVE)),
					":version":       numberAV(observed.Version),
					":inc":           numberAV(1),
					":now":           nowAV,
				},
			},
		},
	}

	if observed.HasWinner() {
		items = append(items, types.TransactWriteItem{
			// Operation 2: Transfer the artwork, only if the creator still owns it.
			Update: &types.Update{
				TableName:           aws.String(s.ArtworksTableName),
				Key:                 map[string]types.AttributeValue{"id": stringAV(observed.ArtworkId)},
				UpdateExpression:    aws.String("SET owner_id = :winner, updated_at = :now"),
				ConditionExpression: aws.String("owner_id = :creator"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":winner":  stringAV(observed.HighestBidderId),
					":creator": stringAV(observed.CreatorId),
					":now":     nowAV,
				},
			},
		})

		proceeds := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Reference:   observed.Id,
			AccountID:   observed.CreatorId,
			Credit:      observed.CurrentPrice,
			Description: fmt.Sprintf("Sale of artwork %s in session %s", observed.ArtworkId, observed.Id),
			Timestamp:   endedAt,
			GSI1PK:      models.LedgerPartition,
		}
		creditItems, err := s.creditItems(proceeds)
		if err != nil {
			return nil, err
		}
		// Operations 3 and 4: Pay the creator out of the winner's escrow.
		items = append(items, creditItems...)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		switch failedItem(cancellationReasons(err)) {
		case -1:
			return nil, fmt.Errorf("failed to execute finalization transaction: %w", err)
		case 1:
			return nil, fmt.Errorf("artwork %s no longer owned by %s: %w", observed.ArtworkId, observed.CreatorId, storage.ErrConflict)
		default:
			return nil, fmt.Errorf("session %s changed before finalization: %w", observed.Id, storage.ErrConflict)
		}
	}

	updated := *observed
	updated.Status = models.ENDED
	updated.Version++
	updated.UpdatedAt = endedAt
	return &updated, nil
}
