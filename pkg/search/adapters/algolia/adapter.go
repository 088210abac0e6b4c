// Package algolia implements search.Provider for Algolia.
package algolia

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	algoliasearch "github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/transport"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// Config contains Algolia configuration.
type Config struct {
	AppID       string
	WriteAPIKey string
	IndexName   string

	// Hosts overrides the default Algolia hosts derived from AppID.
	Hosts []string

	// Requester overrides the HTTP transport of the client.
	Requester transport.Requester

	Logger hclog.Logger
}

// Adapter implements search.Provider for Algolia. Algolia indexes are
// schemaless and are created implicitly by their first settings write, so
// CreateIndex carries the schema as index settings.
type Adapter struct {
	index     *algoliasearch.Index
	indexName string
	logger    hclog.Logger
}

// object is the shape Algolia stores: the record plus its objectID.
type object struct {
	ObjectID string `json:"objectID"`
	*models.Record
}

// NewAdapter creates a new Algolia adapter. It performs no network I/O.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("algolia config required")
	}
	if cfg.AppID == "" || cfg.WriteAPIKey == "" {
		return nil, fmt.Errorf("algolia credentials required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("algolia index name required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client := algoliasearch.NewClientWithConfig(algoliasearch.Configuration{
		AppID:     cfg.AppID,
		APIKey:    cfg.WriteAPIKey,
		Hosts:     cfg.Hosts,
		Requester: cfg.Requester,
	})

	return &Adapter{
		index:     client.InitIndex(cfg.IndexName),
		indexName: cfg.IndexName,
		logger:    logger.Named("algolia"),
	}, nil
}

// Name implements search.Provider.
func (a *Adapter) Name() string {
	return "algolia"
}

// IndexName implements search.Provider.
func (a *Adapter) IndexName() string {
	return a.indexName
}

// IndexExists implements search.Provider.
func (a *Adapter) IndexExists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, a.opError("IndexExists", search.ErrIndexOperation, err)
	}

	exists, err := a.index.Exists()
	if err != nil {
		return false, a.opError("IndexExists", search.ErrIndexOperation, err)
	}
	return exists, nil
}

// DeleteIndex implements search.Provider.
func (a *Adapter) DeleteIndex(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}

	res, err := a.index.Delete()
	if err == nil {
		err = res.Wait()
	}
	if err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}
	return nil
}

// CreateIndex implements search.Provider. Searchable fields become
// searchableAttributes and filterable fields filter-only facets. Algolia
// sorts through replica indexes, which are not created, so sortable flags
// are ignored.
func (a *Adapter) CreateIndex(ctx context.Context, schema *search.Schema) error {
	if schema == nil {
		schema = search.DefaultSchema()
	}
	if err := ctx.Err(); err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}

	facets := make([]string, 0, len(schema.FilterableFields()))
	for _, f := range schema.FilterableFields() {
		facets = append(facets, "filterOnly("+f+")")
	}

	res, err := a.index.SetSettings(algoliasearch.Settings{
		SearchableAttributes:  opt.SearchableAttributes(schema.SearchableFields()...),
		AttributesForFaceting: opt.AttributesForFaceting(facets...),
	})
	if err == nil {
		err = res.Wait()
	}
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation,
			fmt.Errorf("failed to apply index settings: %w", err))
	}

	a.logger.Debug("index settings applied",
		"searchable", len(schema.SearchableFields()),
		"facets", len(facets))
	return nil
}

// IndexBatch implements search.Provider. Algolia accepts or rejects a batch
// as a whole, so there are no per-record failures.
func (a *Adapter) IndexBatch(ctx context.Context, records []*models.Record) (*search.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	objects := make([]object, 0, len(records))
	for _, r := range records {
		objects = append(objects, object{ObjectID: r.ID, Record: r})
	}

	res, err := a.index.SaveObjects(objects)
	if err == nil {
		err = res.Wait()
	}
	if err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	return &search.BatchResult{
		Submitted: len(records),
		Succeeded: len(records),
	}, nil
}

func (a *Adapter) opError(op string, sentinel, cause error) error {
	return &search.Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", sentinel, cause),
		Msg: "index " + a.indexName,
	}
}
