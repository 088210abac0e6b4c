// Package search defines the search provider contract, the fixed index
// schema and the index schema manager.
package search

import (
	"context"

	"github.com/hashicorp-forge/searchsync/pkg/models"
)

// Provider is a search backend that can (re)create the index and ingest
// records in bulk. Each call is attempted exactly once.
type Provider interface {
	// Name returns the provider name, e.g. "azure".
	Name() string

	// IndexName returns the name of the index the provider manages.
	IndexName() string

	// IndexExists checks for the index without mutating anything.
	IndexExists(ctx context.Context) (bool, error)

	// DeleteIndex removes the index and all its records.
	DeleteIndex(ctx context.Context) error

	// CreateIndex creates the index with the given schema.
	CreateIndex(ctx context.Context, schema *Schema) error

	// IndexBatch submits one batch of records in a single request.
	IndexBatch(ctx context.Context, records []*models.Record) (*BatchResult, error)
}

// BatchResult summarizes the service's response to one bulk write.
type BatchResult struct {
	Submitted int
	Succeeded int
	Failed    []ItemFailure
}

// ItemFailure is a record the service rejected within an accepted batch.
type ItemFailure struct {
	Key        string
	StatusCode int
	Message    string
}

// Inspector is implemented by providers that can report on a populated
// index.
type Inspector interface {
	// Count returns the number of records in the index.
	Count(ctx context.Context) (uint64, error)

	// Search returns the IDs of records matching text, narrowed by exact
	// field filters. An empty text matches everything.
	Search(ctx context.Context, text string, filters map[string]string, size int) ([]string, error)
}
