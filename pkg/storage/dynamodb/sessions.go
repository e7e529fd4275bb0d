package dynamodb

import (
	"context"
	"errors"
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

const (
	sessionStatusGSI  = "status-end_time-index"
	sessionCreatorGSI = "creator_id-index"
)

// InsertSession stores a new session record. The ID is generated when empty.
func (s *Store) InsertSession(ctx context.Context, session *models.AuctionSession) (string, error) {
	if session.Id == "" {
		session.Id = uuid.New().String()
	}

	sessionAV, err := attributevalue.MarshalMap(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.putIfAbsent(ctx, s.SessionsTableName, "id", sessionAV); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", fmt.Errorf("session %s: %w", session.Id, err)
		}
		return "", fmt.Errorf("failed to create session in DynamoDB: %w", err)
	}

	return session.Id, nil
}

// GetSession retrieves a session from DynamoDB by its ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.AuctionSession, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.SessionsTableName),
		Key:            map[string]types.AttributeValue{"id": stringAV(sessionID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("session with ID %s: %w", sessionID, storage.ErrNotFound)
	}

	var session models.AuctionSession
	if err := attributevalue.UnmarshalMap(result.Item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// ListSessionsByStatus queries the status index, ordered by end time.
func (s *Store) ListSessionsByStatus(ctx context.Context, status models.SessionStatus) ([]models.AuctionSession, error) {
	return s.querySessions(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.SessionsTableName),
		IndexName:              aws.String(sessionStatusGSI),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": stringAV(string(status)),
		},
	})
}

// ListSessionsByCreator queries the creator index.
func (s *Store) ListSessionsByCreator(ctx context.Context, creatorID string) ([]models.AuctionSession, error) {
	return s.querySessions(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.SessionsTableName),
		IndexName:              aws.String(sessionCreatorGSI),
		KeyConditionExpression: aws.String("creator_id = :creatorID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":creatorID": stringAV(creatorID),
		},
	})
}

func (s *Store) querySessions(ctx context.Context, input *dynamodb.QueryInput) ([]models.AuctionSession, error) {
	items, err := s.queryAll(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	var sessions []models.AuctionSession
	if err := attributevalue.UnmarshalListOfMaps(items, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].EndTime.Before(sessions[j].EndTime) })
	return sessions, nil
}

// UpdateIfStatus reads the session, applies mutate to a copy and writes it back
// conditioned on the status and version it read.
func (s *Store) UpdateIfStatus(ctx context.Context, sessionID string, expected models.SessionStatus, mutate storage.Mutator) (*models.AuctionSession, error) {
	current, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Status != expected {
		return nil, fmt.Errorf("session %s is %s, expected %s: %w", sessionID, current.Status, expected, storage.ErrConflict)
	}

	updated := *current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(updated.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, updated.Status, storage.ErrInvalidTransition)
	}
	updated.Id = current.Id
	updated.Version = current.Version + 1

	item, err := attributevalue.MarshalMap(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.SessionsTableName),
		Item:                item,
		ConditionExpression: aws.String("#status = :expected_status AND version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected_status": stringAV(string(expected)),
			":version":         numberAV(current.Version),
		},
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, fmt.Errorf("session %s changed concurrently: %w", sessionID, storage.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update session in DynamoDB: %w", err)
	}

	return &updated, nil
}
