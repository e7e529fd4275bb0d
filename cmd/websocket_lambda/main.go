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
)

func main() {
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

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables())
	handler := wshandler.NewHandler(store, logger)

	lambda.Start(handler.HandleRequest)
}
