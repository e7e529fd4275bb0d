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
	"github.com/chris/artwork-auctions/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables holds the table names the Store writes to.
type Tables struct {
	Sessions    string
	Bids        string
	Wallets     string
	Ledger      string
	Artworks    string
	Connections string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                    DynamoDBAPI
	SessionsTableName         string
	BidsTableName             string
	WalletsTableName          string
	LedgerTableName           string
	ArtworksTableName         string
	WebsocketConnectionsTable string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                    client,
		SessionsTableName:         tables.Sessions,
		BidsTableName:             tables.Bids,
		WalletsTableName:          tables.Wallets,
		LedgerTableName:           tables.Ledger,
		ArtworksTableName:         tables.Artworks,
		WebsocketConnectionsTable: tables.Connections,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const conditionalCheckFailed = "ConditionalCheckFailed"

// isConditionFailure reports whether err is a failed ConditionExpression on a single-item write.
func isConditionFailure(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	return errors.As(err, &condCheckFailed)
}

// cancellationReasons returns the per-item reasons of a cancelled TransactWriteItems call, or nil.
func cancellationReasons(err error) []types.CancellationReason {
	var txc *types.TransactionCanceledException
	if errors.As(err, &txc) {
		return txc.CancellationReasons
	}
	return nil
}

// failedItem returns the index of the first item whose condition failed, or -1.
func failedItem(reasons []types.CancellationReason) int {
	for i, reason := range reasons {
		if reason.Code != nil && *reason.Code == conditionalCheckFailed {
			return i
		}
	}
	return -1
}

func numberAV(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", n)}
}

func stringAV(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func timeAV(t time.Time) (types.AttributeValue, error) {
	av, err := attributevalue.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	return av, nil
}

// putIfAbsent writes item only if no record with keyAttr exists yet.
func (s *Store) putIfAbsent(ctx context.Context, table, keyAttr string, item map[string]types.AttributeValue) error {
	_, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf("attribute_not_exists(%s)", keyAttr)),
	})
	if err != nil {
		if isConditionFailure(err) {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// queryAll reads every page of a query.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// scanAll reads every page of a scan.
func (s *Store) scanAll(ctx context.Context, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
