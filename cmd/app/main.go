package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/artwork-auctions/pkg/auction"
	"github.com/chris/artwork-auctions/pkg/config"
	"github.com/chris/artwork-auctions/pkg/events"
	"github.com/chris/artwork-auctions/pkg/handlers"
	"github.com/chris/artwork-auctions/pkg/handlers/artworks"
	ledgerhandler "github.com/chris/artwork-auctions/pkg/handlers/ledger"
	"github.com/chris/artwork-auctions/pkg/handlers/sessions"
	"github.com/chris/artwork-auctions/pkg/handlers/wallets"
	wshandler "github.com/chris/artwork-auctions/pkg/handlers/websockets"
	"github.com/chris/artwork-auctions/pkg/ledger"
	"github.com/chris/artwork-auctions/pkg/lifecycle"
	"github.com/chris/artwork-auctions/pkg/middleware"
	"github.com/chris/artwork-auctions/pkg/query"
	"github.com/chris/artwork-auctions/pkg/storage"
	"github.com/chris/artwork-auctions/pkg/storage/dynamodb"
	"github.com/chris/artwork-auctions/pkg/storage/memory"
	"github.com/chris/artwork-auctions/pkg/websockets"
	"github.com/nats-io/nats.go"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	hub := websockets.NewHub(logger)
	publisher, closePublishers, err := newPublisher(ctx, cfg, store, hub, logger)
	if err != nil {
		return err
	}
	defer closePublishers()

	funds := ledger.New(store, time.Now)
	auctions := auction.NewService(store, store, funds, auction.Options{
		Publisher:      publisher,
		Logger:         logger,
		MaxBidAttempts: cfg.MaxBidAttempts,
	})
	queries := query.NewService(store)

	scheduler := lifecycle.New(store, lifecycle.Options{
		Publisher: publisher,
		Logger:    logger,
		Interval:  cfg.SchedulerInterval,
	})
	if cfg.SchedulerEnabled {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start session scheduler: %w", err)
		}
	}

	api := handlers.NewApiHandler(
		sessions.NewSessionsHandler(auctions, queries),
		wallets.NewWalletsHandler(store, funds),
		artworks.NewArtworksHandler(store),
		ledgerhandler.NewLedgerHandler(store),
	)
	router := handlers.NewRouter(api, handlers.RouterOptions{
		Logger:     logger,
		BidLimiter: middleware.NewRateLimiter(cfg.BidRateLimit, cfg.BidRateBurst),
		WebSocket:  wshandler.NewLocalHandler(hub, logger),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageBackend)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
	if cfg.SchedulerEnabled {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop session scheduler", "error", err)
		}
	}
	return nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables()), nil
	default:
		return memory.New(), nil
	}
}

// newPublisher fans events out to every configured sink. Local websocket
// clients are always notified. API Gateway clients are notified only when an
// endpoint is set.
func newPublisher(ctx context.Context, cfg *config.Config, store storage.Storage, hub *websockets.Hub, logger *slog.Logger) (events.Publisher, func(), error) {
	publishers := events.Multi{websockets.NewEventNotifier(hub)}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, closeAll, fmt.Errorf("unable to load SDK config: %w", err)
		}
		publishers = append(publishers, events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL))
	}

	if cfg.WebSocketAPIEndpoint != "" {
		client, err := websockets.NewGatewayClient(ctx, cfg.WebSocketAPIEndpoint)
		if err != nil {
			return nil, closeAll, err
		}
		// Each push is an HTTPS call per connection, so it runs off the request path.
		gateway := events.NewAsync(websockets.NewEventNotifier(websockets.NewPublisher(store, client, logger)), cfg.NotifyQueueSize, logger)
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := gateway.Close(ctx); err != nil {
				logger.Warn("pending websocket pushes dropped", "error", err)
			}
		})
		publishers = append(publishers, gateway)
	}

	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("artwork-auctions"))
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		js, err := events.NewJetStreamPublisher(ctx, nc, cfg.NATSStreamMaxAge)
		if err != nil {
			nc.Close()
			return nil, closeAll, err
		}
		closers = append(closers, nc.Close)
		publishers = append(publishers, js)
	}

	return publishers, closeAll, nil
}
