package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/artwork-auctions/pkg/models"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/chris/artwork-auctions/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var start = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testSession() *models.AuctionSession {
	return &models.AuctionSession{
		Id:           "session-1",
		ArtworkId:    "artwork-1",
		CreatorId:    "creator",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		InitialPrice: 100,
		CurrentPrice: 100,
		Status:       models.PENDING,
	}
}

func TestInsertSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		id, err := store.InsertSession(context.Background(), testSession())

		assert.NoError(t, err)
		assert.Equal(t, "session-1", id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Generates ID", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		session := testSession()
		session.Id = ""
		store := New(mockClient, testTables)
		id, err := store.InsertSession(context.Background(), session)

		assert.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, session.Id)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, testTables)
		_, err := store.InsertSession(context.Background(), testSession())

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.InsertSession(context.Background(), testSession())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create session in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetSession(t *testing.T) {
	session := testSession()

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		sessionAV, _ := attributevalue.MarshalMap(session)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)

		store := New(mockClient, testTables)
		retrieved, err := store.GetSession(context.Background(), session.Id)

		assert.NoError(t, err)
		assert.Equal(t, session, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, testTables)
		_, err := store.GetSession(context.Background(), session.Id)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, testTables)
		_, err := store.GetSession(context.Background(), session.Id)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get session from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListSessionsByStatus(t *testing.T) {
	early := testSession()
	early.Id = "early"
	late := testSession()
	late.Id = "late"
	late.EndTime = start.Add(2 * time.Hour)

	t.Run("Success Across Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		lateAV, _ := attributevalue.MarshalMap(late)
		earlyAV, _ := attributevalue.MarshalMap(early)
		lastKey := map[string]types.AttributeValue{"id": stringAV("late")}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey == nil
		}), mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{lateAV}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil && *in.IndexName == sessionStatusGSI
		}), mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{earlyAV}}, nil).Once()

		store := New(mockClient, testTables)
		sessions, err := store.ListSessionsByStatus(context.Background(), models.PENDING)

		assert.NoError(t, err)
		assert.Equal(t, []models.AuctionSession{*early, *late}, sessions)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		store := New(mockClient, testTables)
		_, err := store.ListSessionsByStatus(context.Background(), models.ACTIVE)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query sessions")
		mockClient.AssertExpectations(t)
	})
}

func TestListSessionsByCreator(t *testing.T) {
	session := testSession()

	mockClient := new(mocks.DynamoDBAPI)
	sessionAV, _ := attributevalue.MarshalMap(session)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == sessionCreatorGSI
	}), mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{sessionAV}}, nil)

	store := New(mockClient, testTables)
	sessions, err := store.ListSessionsByCreator(context.Background(), "creator")

	assert.NoError(t, err)
	assert.Equal(t, []models.AuctionSession{*session}, sessions)
	mockClient.AssertExpectations(t)
}

func TestUpdateIfStatus(t *testing.T) {
	activate := func(s *models.AuctionSession) error {
		s.Status = models.ACTIVE
		return nil
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		sessionAV, _ := attributevalue.MarshalMap(testSession())
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			version := in.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN).Value
			return *in.ConditionExpression == "#status = :expected_status AND version = :version" && version == "0"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		updated, err := store.UpdateIfStatus(context.Background(), "session-1", models.PENDING, activate)

		assert.NoError(t, err)
		assert.Equal(t, models.ACTIVE, updated.Status)
		assert.Equal(t, int64(1), updated.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Status Moved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		session := testSession()
		session.Status = models.CANCELLED
		sessionAV, _ := attributevalue.MarshalMap(session)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)

		store := New(mockClient, testTables)
		_, err := store.UpdateIfStatus(context.Background(), "session-1", models.PENDING, activate)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Transition", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		sessionAV, _ := attributevalue.MarshalMap(testSession())
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)

		store := New(mockClient, testTables)
		_, err := store.UpdateIfStatus(context.Background(), "session-1", models.PENDING, func(s *models.AuctionSession) error {
			s.Status = models.ENDED
			return nil
		})

		assert.ErrorIs(t, err, storage.ErrInvalidTransition)
		mockClient.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
	})

	t.Run("Mutator Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		sessionAV, _ := attributevalue.MarshalMap(testSession())
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)
		abort := errors.New("abort")

		store := New(mockClient, testTables)
		_, err := store.UpdateIfStatus(context.Background(), "session-1", models.PENDING, func(s *models.AuctionSession) error {
			return abort
		})

		assert.ErrorIs(t, err, abort)
		mockClient.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent Write", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		sessionAV, _ := attributevalue.MarshalMap(testSession())
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: sessionAV}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, testTables)
		_, err := store.UpdateIfStatus(context.Background(), "session-1", models.PENDING, activate)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})
}
