// Package bleve implements search.Provider on an embedded Bleve index. It is
// useful for local runs and tests where no search service is available.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// Config contains Bleve configuration.
type Config struct {
	IndexPath string // Directory holding the index, e.g. "./data".
	IndexName string

	Logger hclog.Logger
}

// Adapter implements search.Provider for Bleve.
type Adapter struct {
	mu    sync.Mutex
	index bleve.Index

	path      string
	indexName string
	logger    hclog.Logger
}

// NewAdapter creates a new Bleve search adapter. The index itself is only
// opened or created by the provider calls.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bleve config required")
	}
	if cfg.IndexPath == "" {
		return nil, fmt.Errorf("bleve index path required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("bleve index name required")
	}

	// Create index directory
	if err := os.MkdirAll(cfg.IndexPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Adapter{
		path:      filepath.Join(cfg.IndexPath, cfg.IndexName+".bleve"),
		indexName: cfg.IndexName,
		logger:    logger.Named("bleve"),
	}, nil
}

// Name implements search.Provider.
func (a *Adapter) Name() string {
	return "bleve"
}

// IndexName implements search.Provider.
func (a *Adapter) IndexName() string {
	return a.indexName
}

// IndexExists implements search.Provider.
func (a *Adapter) IndexExists(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.index != nil {
		return true, nil
	}

	_, err := os.Stat(a.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, a.opError("IndexExists", search.ErrIndexOperation, err)
	}
}

// DeleteIndex implements search.Provider.
func (a *Adapter) DeleteIndex(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.closeLocked(); err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}
	if err := os.RemoveAll(a.path); err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}
	return nil
}

// CreateIndex implements search.Provider.
func (a *Adapter) CreateIndex(ctx context.Context, schema *search.Schema) error {
	if schema == nil {
		schema = search.DefaultSchema()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	indexMapping, err := newIndexMapping(schema)
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}

	idx, err := bleve.New(a.path, indexMapping)
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}
	a.index = idx

	return nil
}

// IndexBatch implements search.Provider. Records that cannot be mapped are
// reported as item failures; the rest are written in one batch.
func (a *Adapter) IndexBatch(ctx context.Context, records []*models.Record) (*search.BatchResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, err := a.openLocked()
	if err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	result := &search.BatchResult{Submitted: len(records)}
	batch := idx.NewBatch()

	for _, r := range records {
		if err := batch.Index(r.ID, r); err != nil {
			result.Failed = append(result.Failed, search.ItemFailure{
				Key:     r.ID,
				Message: err.Error(),
			})
			continue
		}
		result.Succeeded++
	}

	if err := idx.Batch(batch); err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	return result, nil
}

// Count implements search.Inspector.
func (a *Adapter) Count(ctx context.Context) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, err := a.openLocked()
	if err != nil {
		return 0, a.opError("Count", search.ErrIndexOperation, err)
	}
	n, err := idx.DocCount()
	if err != nil {
		return 0, a.opError("Count", search.ErrIndexOperation, err)
	}
	return n, nil
}

// Search implements search.Inspector. It runs a match query, optionally
// narrowed by exact field filters. An empty text matches everything.
func (a *Adapter) Search(ctx context.Context, text string, filters map[string]string, size int) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, err := a.openLocked()
	if err != nil {
		return nil, a.opError("Search", search.ErrIndexOperation, err)
	}

	var q query.Query
	if text == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		q = bleve.NewMatchQuery(text)
	}

	if len(filters) > 0 {
		conjuncts := []query.Query{q}
		for field, value := range filters {
			mq := bleve.NewMatchPhraseQuery(value)
			mq.SetField(field)
			conjuncts = append(conjuncts, mq)
		}
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	if size <= 0 {
		size = 20
	}

	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, a.opError("Search", search.ErrIndexOperation, err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close closes the index if it is open.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

func (a *Adapter) openLocked() (bleve.Index, error) {
	if a.index != nil {
		return a.index, nil
	}

	idx, err := bleve.Open(a.path)
	if err != nil {
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			return nil, fmt.Errorf("%w: %s", search.ErrIndexNotFound, a.indexName)
		}
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	a.index = idx
	return idx, nil
}

func (a *Adapter) closeLocked() error {
	if a.index == nil {
		return nil
	}
	err := a.index.Close()
	a.index = nil
	if err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}
	return nil
}

func (a *Adapter) opError(op string, sentinel, cause error) error {
	return &search.Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", sentinel, cause),
		Msg: "index " + a.indexName,
	}
}

// newIndexMapping translates the schema into a Bleve mapping. Searchable
// strings are analyzed text, other strings are keywords.
func newIndexMapping(schema *search.Schema) (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	recordMapping := bleve.NewDocumentMapping()

	for _, f := range schema.Fields {
		var fm *mapping.FieldMapping
		switch f.Type {
		case search.FieldTypeString:
			if f.Searchable {
				fm = bleve.NewTextFieldMapping()
				fm.Analyzer = "en"
			} else {
				fm = bleve.NewKeywordFieldMapping()
			}
		case search.FieldTypeDateTime:
			fm = bleve.NewDateTimeFieldMapping()
		case search.FieldTypeInt32, search.FieldTypeDouble:
			fm = bleve.NewNumericFieldMapping()
		default:
			return nil, fmt.Errorf("unsupported field type %q for field %q", f.Type, f.Name)
		}
		fm.DocValues = f.Sortable || f.Filterable
		recordMapping.AddFieldMappingsAt(f.Name, fm)
	}

	indexMapping.DefaultMapping = recordMapping
	return indexMapping, nil
}
