// Package config loads service settings from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chris/artwork-auctions/pkg/storage/dynamodb"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config holds every setting the binaries read from the environment.
type Config struct {
	HTTPPort string `env:"HTTP_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	StorageBackend   string `env:"STORAGE_BACKEND,default=memory"`
	SessionsTable    string `env:"DYNAMODB_SESSIONS_TABLE_NAME"`
	BidsTable        string `env:"DYNAMODB_BIDS_TABLE_NAME"`
	WalletsTable     string `env:"DYNAMODB_WALLETS_TABLE_NAME"`
	LedgerTable      string `env:"DYNAMODB_LEDGER_TABLE_NAME"`
	ArtworksTable    string `env:"DYNAMODB_ARTWORKS_TABLE_NAME"`
	ConnectionsTable string `env:"DYNAMODB_CONNECTIONS_TABLE_NAME"`

	SQSQueueURL          string        `env:"SQS_QUEUE_URL"`
	NATSURL              string        `env:"NATS_URL"`
	NATSStreamMaxAge     time.Duration `env:"NATS_STREAM_MAX_AGE,default=168h"`
	WebSocketAPIEndpoint string        `env:"WEBSOCKET_API_ENDPOINT"`
	NotifyQueueSize      int           `env:"NOTIFY_QUEUE_SIZE,default=1024"`

	SchedulerEnabled  bool          `env:"SCHEDULER_ENABLED,default=true"`
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL,default=30s"`
	MaxBidAttempts    int           `env:"MAX_BID_ATTEMPTS,default=5"`
	BidRateLimit      float64       `env:"BID_RATE_LIMIT,default=5"`
	BidRateBurst      int           `env:"BID_RATE_BURST,default=10"`
}

// Load reads the given .env files (a missing file is not an error) and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireBackend reports an error unless the configured storage backend is backend.
func (c *Config) RequireBackend(backend string) error {
	if c.StorageBackend != backend {
		return fmt.Errorf("STORAGE_BACKEND is %q, this binary requires %q", c.StorageBackend, backend)
	}
	return nil
}

// Validate checks that the settings are usable together.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case BackendMemory:
	case BackendDynamoDB:
		tables := []struct{ env, value string }{
			{"DYNAMODB_SESSIONS_TABLE_NAME", c.SessionsTable},
			{"DYNAMODB_BIDS_TABLE_NAME", c.BidsTable},
			{"DYNAMODB_WALLETS_TABLE_NAME", c.WalletsTable},
			{"DYNAMODB_LEDGER_TABLE_NAME", c.LedgerTable},
			{"DYNAMODB_ARTWORKS_TABLE_NAME", c.ArtworksTable},
			{"DYNAMODB_CONNECTIONS_TABLE_NAME", c.ConnectionsTable},
		}
		for _, table := range tables {
			if table.value == "" {
				errs = append(errs, fmt.Errorf("%s must be set for the dynamodb backend", table.env))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	if c.SchedulerInterval <= 0 {
		errs = append(errs, errors.New("SCHEDULER_INTERVAL must be positive"))
	}
	if c.MaxBidAttempts <= 0 {
		errs = append(errs, errors.New("MAX_BID_ATTEMPTS must be positive"))
	}
	if c.NotifyQueueSize <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be positive"))
	}
	if c.BidRateLimit <= 0 || c.BidRateBurst <= 0 {
		errs = append(errs, errors.New("BID_RATE_LIMIT and BID_RATE_BURST must be positive"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Tables returns the DynamoDB table names.
func (c *Config) Tables() dynamodb.Tables {
	return dynamodb.Tables{
		Sessions:    c.SessionsTable,
		Bids:        c.BidsTable,
		Wallets:     c.WalletsTable,
		Ledger:      c.LedgerTable,
		Artworks:    c.ArtworksTable,
		Connections: c.ConnectionsTable,
	}
}

// Logger builds a JSON logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
