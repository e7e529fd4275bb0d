package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/chris/artwork-auctions/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFinalizeSession(t *testing.T) {
	endedAt := start.Add(time.Hour)

	t.Run("No Bids", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 1
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		ended, err := store.FinalizeSession(context.Background(), activeSession(), endedAt)

		assert.NoError(t, err)
		assert.Equal(t, models.ENDED, ended.Status)
		assert.Equal(t, int64(4), ended.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Settles Winner", func(t *testing.T) {
		observed := activeSession()
		observed.HighestBidderId = "winner"
		observed.CurrentPrice = 300

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 4 {
				return false
			}
			transfer := in.TransactItems[1].Update
			winner := transfer.ExpressionAttributeValues[":winner"].(*types.AttributeValueMemberS).Value
			credit := in.TransactItems[2].Update
			creator := credit.Key["user_id"].(*types.AttributeValueMemberS).Value
			amount := credit.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN).Value
			upsert := credit.ConditionExpression == nil && strings.Contains(*credit.UpdateExpression, "if_not_exists(balance, :zero)")
			return winner == "winner" && creator == "creator" && amount == "300" && upsert
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, testTables)
		ended, err := store.FinalizeSession(context.Background(), observed, endedAt)

		assert.NoError(t, err)
		assert.Equal(t, models.ENDED, ended.Status)
		assert.Equal(t, "winner", ended.HighestBidderId)
		mockClient.AssertExpectations(t)
	})

	t.Run("Session Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceledAt(0, 1))

		store := New(mockClient, testTables)
		_, err := store.FinalizeSession(context.Background(), activeSession(), endedAt)

		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "changed before finalization")
	})

	t.Run("Ownership Conflict", func(t *testing.T) {
		observed := activeSession()
		observed.HighestBidderId = "winner"

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceledAt(1, 4))

		store := New(mockClient, testTables)
		_, err := store.FinalizeSession(context.Background(), observed, endedAt)

		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "no longer owned by creator")
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		store := New(mockClient, testTables)
		_, err := store.FinalizeSession(context.Background(), activeSession(), endedAt)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrConflict)
	})
}
