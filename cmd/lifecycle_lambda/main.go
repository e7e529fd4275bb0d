package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/artwork-auctions/pkg/config"
	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/lifecycle"
	"github.com/chris/artwork-auctions/pkg/storage/dynamodb"
)

var (
	scheduler *lifecycle.Scheduler
	logger    *slog.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger = cfg.Logger(os.Stdout)
	if err := cfg.RequireBackend(config.BackendDynamoDB); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NoOpPublisher{}
	if cfg.SQSQueueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables())
	scheduler = lifecycle.New(store, lifecycle.Options{Publisher: publisher, Logger: logger})
}

// HandleRequest is triggered by an EventBridge Schedule and runs a single lifecycle pass.
// Sessions that fail to transition are picked up again by the next invocation.
func HandleRequest(ctx context.Context) error {
	report := scheduler.Tick(ctx)
	if report.Failed > 0 {
		logger.Warn("lifecycle pass finished with failures", "activated", report.Activated, "ended", report.Ended, "failed", report.Failed, "skipped", report.Skipped)
		return nil
	}
	logger.Info("lifecycle pass finished", "activated", report.Activated, "ended", report.Ended, "skipped", report.Skipped)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
