package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/google/uuid"
)

// CommitBid atomically applies an accepted bid to the session it was validated against.
// The session update, the bid record and the outbid refund either all land or none do.
func (s *Store) CommitBid(ctx context.Context, observed *models.AuctionSession, bid *models.Bid) (*models.AuctionSession, error) {
	bidAV, err := attributevalue.MarshalMap(bid)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bid: %w", err)
	}
	nowAV, err := timeAV(bid.PlacedAt)
	if err != nil {
		return nil, err
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Raise the session price, conditioned on the state the bid was validated against.
			Update: &types.Update{
				TableName:           aws.String(s.SessionsTableName),
				Key:                 map[string]types.AttributeValue{"id": stringAV(observed.Id)},
				UpdateExpression:    aws.String("SET current_price = :amount, highest_bidder_id = :bidder, bid_count = bid_count + :inc, version = version + :inc, updated_at = :now"),
				ConditionExpression: aws.String("#status = :active_status AND version = :version"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount":        numberAV(bid.Amount),
					":bidder":        stringAV(bid.BidderId),
					":inc":           numberAV(1),
					":now":           nowAV,
					":active_status": stringAV(string(models.ACTIVE)),
					":version":       numberAV(observed.Version),
				},
			},
		},
		{
			// Operation 2: Append the bid record.
			Put: &types.Put{
				TableName:           aws.String(s.BidsTableName),
				Item:                bidAV,
				ConditionExpression: aws.String("attribute_not_exists(bid_id)"),
			},
		},
	}

	if observed.HasWinner() {
		refund := models.LedgerEntry{
			EntryID:     uuid.New().String(),
			Reference:   observed.Id,
			AccountID:   observed.HighestBidderId,
			Credit:      observed.CurrentPrice,
			Description: fmt.Sprintf("Outbid refund for session %s", observed.Id),
			Timestamp:   bid.PlacedAt,
			GSI1PK:      models.LedgerPartition,
		}
		creditItems, err := s.creditItems(refund)
		if err != nil {
			return nil, err
		}
		// Operations 3 and 4: Release the previous highest bidder's escrow.
		items = append(items, creditItems...)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if failedItem(cancellationReasons(err)) >= 0 {
			return nil, fmt.Errorf("session %s changed before bid %s: %w", observed.Id, bid.Id, storage.ErrConflict)
		}
		return nil, fmt.Errorf("failed to execute bid transaction: %w", err)
	}

	updated := *observed
	updated.CurrentPrice = bid.Amount
	updated.HighestBidderId = bid.BidderId
	updated.BidCount++
	updated.Version++
	updated.UpdatedAt = bid.PlacedAt
	return &updated, nil
}

// ListBids retrieves every bid of a session, oldest first.
func (s *Store) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.BidsTableName),
		KeyConditionExpression: aws.String("session_id = :sessionID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sessionID": stringAV(sessionID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}

	var bids []models.Bid
	if err := attributevalue.UnmarshalListOfMaps(items, &bids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bids: %w", err)
	}

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].PlacedAt.Before(bids[j].PlacedAt) })
	return bids, nil
}

// creditItems builds the wallet increment and ledger entry for a credit that rides
// inside a larger transaction. The wallet is created when missing, so a refund or a
// payout can never block the session write it accompanies.
func (s *Store) creditItems(entry models.LedgerEntry) ([]types.TransactWriteItem, error) {
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	nowAV, err := timeAV(entry.Timestamp)
	if err != nil {
		return nil, err
	}

	return []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:        aws.String(s.WalletsTableName),
				Key:              map[string]types.AttributeValue{"user_id": stringAV(entry.AccountID)},
				UpdateExpression: aws.String("SET balance = if_not_exists(balance, :zero) + :amount, version = if_not_exists(version, :zero) + :inc, created_at = if_not_exists(created_at, :now)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount": numberAV(entry.Credit),
					":inc":    numberAV(1),
					":zero":   numberAV(0),
					":now":    nowAV,
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
	}, nil
}
