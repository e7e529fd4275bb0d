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
)

// CreateWallet creates a new wallet record in DynamoDB.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now()
	}

	walletAV, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	// Prevent overwriting existing wallets.
	if err := s.putIfAbsent(ctx, s.WalletsTableName, "user_id", walletAV); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, err)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return wallet, nil
}

// DeleteWallet deletes a wallet record from DynamoDB.
func (s *Store) DeleteWallet(ctx context.Context, userID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.WalletsTableName),
		Key:                 map[string]types.AttributeValue{"user_id": stringAV(userID)},
		ConditionExpression: aws.String("attribute_exists(user_id)"), // Ensure the wallet exists before deleting.
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to delete wallet from DynamoDB: %w", err)
	}

	return nil
}

// GetWallet retrieves a user's wallet from DynamoDB by their user ID.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.WalletsTableName),
		Key:            map[string]types.AttributeValue{"user_id": stringAV(userID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// ListWallets retrieves all wallets from DynamoDB.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	items, err := s.scanAll(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.WalletsTableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets table: %w", err)
	}

	var wallets []models.Wallet
	if err := attributevalue.UnmarshalListOfMaps(items, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}

// ApplyBalanceChange adds delta to a wallet under optimistic locking and records the ledger entry
// in the same transaction. A negative delta is only applied when the balance covers it.
func (s *Store) ApplyBalanceChange(ctx context.Context, userID string, delta int64, expectedVersion int64, entry *models.LedgerEntry) error {
	minBalance := int64(0)
	if delta < 0 {
		minBalance = -delta
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Update the wallet.
			Update: &types.Update{
				TableName:           aws.String(s.WalletsTableName),
				Key:                 map[string]types.AttributeValue{"user_id": stringAV(userID)},
				UpdateExpression:    aws.String("SET balance = balance + :delta, version = version + :inc"),
				ConditionExpression: aws.String("version = :version AND balance >= :min_balance"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":delta":       numberAV(delta),
					":inc":         numberAV(1),
					":version":     numberAV(expectedVersion),
					":min_balance": numberAV(minBalance),
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		},
	}

	if entry != nil {
		entryAV, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			// Operation 2: Create the ledger entry.
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	reasons := cancellationReasons(err)
	if failedItem(reasons) != 0 {
		return fmt.Errorf("failed to execute balance transaction: %w", err)
	}

	// The wallet condition failed. Tell a stale version apart from a short balance.
	old := reasons[0].Item
	if old == nil {
		return fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}
	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(old, &wallet); err != nil {
		return fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	if wallet.Version != expectedVersion {
		return fmt.Errorf("wallet for user ID %s at version %d, expected %d: %w", userID, wallet.Version, expectedVersion, storage.ErrConflict)
	}
	return storage.ErrInsufficientFunds
}
