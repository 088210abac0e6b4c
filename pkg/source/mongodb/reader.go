// Package mongodb reads the source collection from a MongoDB-compatible
// database (including Cosmos DB for MongoDB).
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hashicorp-forge/searchsync/pkg/models"
)

var (
	// ErrConnection is returned when the database cannot be reached.
	ErrConnection = errors.New("failed to connect to source database")

	// ErrFetch is returned when the collection cannot be read.
	ErrFetch = errors.New("failed to fetch source documents")
)

const defaultConnectTimeout = 30 * time.Second

// Config identifies the source collection.
type Config struct {
	URI        string
	Database   string
	Collection string

	// ConnectTimeout bounds connect and ping. Defaults to 30s.
	ConnectTimeout time.Duration
}

// Collection is the subset of *mongo.Collection the reader uses.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Reader fetches every document of one collection.
type Reader struct {
	client *mongo.Client
	coll   Collection
	logger hclog.Logger
}

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, cfg Config, logger hclog.Logger) (*Reader, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("mongodb")

	if cfg.URI == "" {
		return nil, fmt.Errorf("%w: connection string required", ErrConnection)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	logger.Info("connected to source database",
		"database", cfg.Database,
		"collection", cfg.Collection,
	)

	return &Reader{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}, nil
}

// NewReader wraps an existing collection. The reader does not own a client,
// so Close is a no-op.
func NewReader(coll Collection, logger hclog.Logger) *Reader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{
		coll:   coll,
		logger: logger.Named("mongodb"),
	}
}

// FetchAll reads the whole collection with an empty filter and normalizes
// each document. Documents are returned in cursor order.
func (r *Reader) FetchAll(ctx context.Context) ([]models.SourceDocument, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: count: %w", ErrFetch, err)
	}
	r.logger.Info("source collection size", "count", total)

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: find: %w", ErrFetch, err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetch, err)
	}

	docs := make([]models.SourceDocument, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, Normalize(m))
	}

	r.logger.Debug("fetched documents", "count", len(docs))
	return docs, nil
}

// Close disconnects the client if the reader owns one.
func (r *Reader) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}
