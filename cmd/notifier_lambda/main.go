package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/artwork-auctions/pkg/config"
	wshandler "github.com/chris/artwork-auctions/pkg/handlers/websockets"
	"github.com/chris/artwork-auctions/pkg/storage/dynamodb"
	"github.com/chris/artwork-auctions/pkg/websockets"
)

var notifier *wshandler.Notifier

func init() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)
	if err := cfg.RequireBackend(config.BackendDynamoDB); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.WebSocketAPIEndpoint == "" {
		logger.Error("WEBSOCKET_API_ENDPOINT environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}
	gateway, err := websockets.NewGatewayClient(ctx, cfg.WebSocketAPIEndpoint)
	if err != nil {
		logger.Error("unable to create API Gateway client", "error", err)
		os.Exit(1)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables())
	publisher := websockets.NewPublisher(store, gateway, logger)
	notifier = wshandler.NewNotifier(websockets.NewEventNotifier(publisher), logger)
}

func main() {
	lambda.Start(notifier.HandleSQSEvent)
}
