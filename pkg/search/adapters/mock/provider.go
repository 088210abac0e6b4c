package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// Provider is an in-memory search provider for testing. It records every
// call in order so tests can assert on the request sequence.
type Provider struct {
	mu sync.Mutex

	name      string
	indexName string
	exists    bool
	schema    *search.Schema
	records   map[string]*models.Record

	calls        []string
	batchSizes   []int
	failExists   bool
	failDelete   bool
	failCreate   bool
	failBatches  map[int]bool
	panicOnBatch bool
}

// NewProvider creates a mock provider with no existing index.
func NewProvider() *Provider {
	return &Provider{
		name:        "mock",
		indexName:   "synthetic-index",
		records:     make(map[string]*models.Record),
		failBatches: make(map[int]bool),
	}
}

// WithExistingIndex makes the index exist before the first call.
func (p *Provider) WithExistingIndex() *Provider {
	p.exists = true
	return p
}

// WithExistsFailure makes IndexExists fail.
func (p *Provider) WithExistsFailure() *Provider {
	p.failExists = true
	return p
}

// WithDeleteFailure makes DeleteIndex fail.
func (p *Provider) WithDeleteFailure() *Provider {
	p.failDelete = true
	return p
}

// WithCreateFailure makes CreateIndex fail.
func (p *Provider) WithCreateFailure() *Provider {
	p.failCreate = true
	return p
}

// WithBatchFailure makes the n-th IndexBatch call (zero based) fail.
func (p *Provider) WithBatchFailure(n int) *Provider {
	p.failBatches[n] = true
	return p
}

// WithBatchPanic makes IndexBatch panic.
func (p *Provider) WithBatchPanic() *Provider {
	p.panicOnBatch = true
	return p
}

// Name implements search.Provider.
func (p *Provider) Name() string { return p.name }

// IndexName implements search.Provider.
func (p *Provider) IndexName() string { return p.indexName }

// IndexExists implements search.Provider.
func (p *Provider) IndexExists(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, "exists")
	if p.failExists {
		return false, &search.Error{Op: "IndexExists", Err: search.ErrIndexOperation, Msg: "mock exists failure"}
	}
	return p.exists, nil
}

// DeleteIndex implements search.Provider.
func (p *Provider) DeleteIndex(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, "delete")
	if p.failDelete {
		return &search.Error{Op: "DeleteIndex", Err: search.ErrIndexOperation, Msg: "mock delete failure"}
	}
	p.exists = false
	p.schema = nil
	p.records = make(map[string]*models.Record)
	return nil
}

// CreateIndex implements search.Provider.
func (p *Provider) CreateIndex(ctx context.Context, schema *search.Schema) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, "create")
	if p.failCreate {
		return &search.Error{Op: "CreateIndex", Err: search.ErrIndexOperation, Msg: "mock create failure"}
	}
	p.exists = true
	p.schema = schema
	return nil
}

// IndexBatch implements search.Provider.
func (p *Provider) IndexBatch(ctx context.Context, records []*models.Record) (*search.BatchResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.batchSizes)
	p.calls = append(p.calls, "batch")
	p.batchSizes = append(p.batchSizes, len(records))

	if p.panicOnBatch {
		panic("mock batch panic")
	}
	if p.failBatches[n] {
		return nil, &search.Error{
			Op:  "IndexBatch",
			Err: search.ErrPublish,
			Msg: fmt.Sprintf("mock failure for batch %d", n),
		}
	}

	for _, r := range records {
		p.records[r.ID] = r
	}
	return &search.BatchResult{Submitted: len(records), Succeeded: len(records)}, nil
}

// Calls returns the ordered call log ("exists", "delete", "create", "batch").
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// BatchSizes returns the size of every IndexBatch call in order.
func (p *Provider) BatchSizes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.batchSizes...)
}

// Schema returns the schema the index was last created with.
func (p *Provider) Schema() *search.Schema {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schema
}

// Record returns an indexed record by id.
func (p *Provider) Record(id string) (*models.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[id]
	return r, ok
}

// RecordCount returns the number of indexed records.
func (p *Provider) RecordCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}
