// Package db owns the process-wide MongoDB connection. The client is
// established at most once regardless of concurrent demand; everything
// downstream shares it through a narrow accessor.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotConnected signals an accessor call before Connect.
var ErrNotConnected = errors.New("db: not connected, call Connect first")

// Config holds MongoDB connection settings.
type Config struct {
	URI                string
	Database           string
	MovieCollection    string
	CommentCollection  string
	EmbeddedCollection string
	ConnectTimeout     time.Duration
}

// Mongo is the shared connection handle. Pooling is the driver's concern;
// this layer only guarantees single establishment.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    Config
}

var (
	connectOnce sync.Once
	shared      *Mongo
	connectErr  error
)

// Connect establishes the shared connection. Concurrent callers racing the
// first attempt all await the same establishment and observe its outcome.
func Connect(ctx context.Context, cfg Config) (*Mongo, error) {
	connectOnce.Do(func() {
		shared, connectErr = connect(ctx, cfg)
	})
	if connectErr != nil {
		return nil, connectErr
	}
	return shared, nil
}

// Shared returns the established connection, failing fast when Connect has
// not run yet.
func Shared() (*Mongo, error) {
	if shared == nil {
		return nil, ErrNotConnected
	}
	return shared, nil
}

func connect(ctx context.Context, cfg Config) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("db: uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("db: database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
	}, nil
}

// Movies returns the primary movie collection.
func (m *Mongo) Movies() *mongo.Collection {
	return m.db.Collection(m.cfg.MovieCollection)
}

// Comments returns the comments collection joined by the reports.
func (m *Mongo) Comments() *mongo.Collection {
	return m.db.Collection(m.cfg.CommentCollection)
}

// EmbeddedMovies returns the pre-embedded collection used by vector search.
func (m *Mongo) EmbeddedMovies() *mongo.Collection {
	return m.db.Collection(m.cfg.EmbeddedCollection)
}

// Ping checks connectivity against the primary.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("db: ping: %w", err)
	}
	return nil
}

// Close disconnects the shared client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("db: disconnect: %w", err)
	}
	return nil
}
