package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// GatewayAPI is the subset of the API Gateway management client used to push messages.
type GatewayAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// DefaultPublisher pushes messages to every connection registered with API Gateway.
type DefaultPublisher struct {
	store       ConnectionStore
	apiGwClient GatewayAPI
	logger      *slog.Logger
}

// NewGatewayClient builds an API Gateway management client for the given WebSocket endpoint.
func NewGatewayClient(ctx context.Context, apiEndpoint string) (*apigatewaymanagementapi.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	}), nil
}

// NewPublisher creates a new DefaultPublisher.
func NewPublisher(store ConnectionStore, client GatewayAPI, logger *slog.Logger) *DefaultPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultPublisher{
		store:       store,
		apiGwClient: client,
		logger:      logger,
	}
}

// Publish sends a message to all connected clients. Stale connections are removed;
// other delivery failures are logged and do not fail the broadcast.
func (p *DefaultPublisher) Publish(ctx context.Context, message Message) error {
	connectionIDs, err := p.store.GetAllConnections(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all connections: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var goneErr *apigwtypes.GoneException
		if errors.As(err, &goneErr) {
			p.logger.Info("stale connection found, deleting", "connectionId", connectionID)
			if err := p.store.RemoveConnection(ctx, connectionID); err != nil {
				p.logger.Error("failed to delete stale connection", "error", err)
			}
		} else {
			p.logger.Error("failed to post to connection", "connectionId", connectionID, "error", err)
		}
	}

	return nil
}
