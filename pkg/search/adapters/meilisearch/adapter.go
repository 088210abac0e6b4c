// Package meilisearch implements search.Provider for Meilisearch.
package meilisearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/meilisearch/meilisearch-go"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

const defaultTaskInterval = 50 * time.Millisecond

// Config contains Meilisearch configuration.
type Config struct {
	Host      string // e.g. "http://localhost:7700"
	APIKey    string
	IndexName string

	// TaskInterval is how often task status is polled. Defaults to 50ms.
	TaskInterval time.Duration

	Logger hclog.Logger
}

// Adapter implements search.Provider for Meilisearch. Meilisearch applies
// writes asynchronously, so every mutating call waits for its task.
type Adapter struct {
	client       meilisearch.ServiceManager
	indexName    string
	taskInterval time.Duration
	logger       hclog.Logger
}

// NewAdapter creates a new Meilisearch adapter. It performs no network I/O.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("meilisearch config required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("meilisearch host required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("meilisearch index name required")
	}

	interval := cfg.TaskInterval
	if interval <= 0 {
		interval = defaultTaskInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Adapter{
		client:       meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey)),
		indexName:    cfg.IndexName,
		taskInterval: interval,
		logger:       logger.Named("meilisearch"),
	}, nil
}

// Name implements search.Provider.
func (a *Adapter) Name() string {
	return "meilisearch"
}

// IndexName implements search.Provider.
func (a *Adapter) IndexName() string {
	return a.indexName
}

// IndexExists implements search.Provider.
func (a *Adapter) IndexExists(ctx context.Context) (bool, error) {
	_, err := a.client.GetIndexWithContext(ctx, a.indexName)
	if err == nil {
		return true, nil
	}

	var meiliErr *meilisearch.Error
	if errors.As(err, &meiliErr) && meiliErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, a.opError("IndexExists", search.ErrIndexOperation, err)
}

// DeleteIndex implements search.Provider.
func (a *Adapter) DeleteIndex(ctx context.Context) error {
	info, err := a.client.DeleteIndexWithContext(ctx, a.indexName)
	if err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}
	if err := a.wait(ctx, info); err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}
	return nil
}

// CreateIndex implements search.Provider. The schema's key becomes the
// primary key and its flags become index settings.
func (a *Adapter) CreateIndex(ctx context.Context, schema *search.Schema) error {
	if schema == nil {
		schema = search.DefaultSchema()
	}

	info, err := a.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        a.indexName,
		PrimaryKey: schema.KeyField(),
	})
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}
	if err := a.wait(ctx, info); err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}

	index := a.client.Index(a.indexName)

	searchable := schema.SearchableFields()
	if info, err = index.UpdateSearchableAttributesWithContext(ctx, &searchable); err == nil {
		err = a.wait(ctx, info)
	}
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation,
			fmt.Errorf("failed to update searchable attributes: %w", err))
	}

	filterable := make([]interface{}, 0, len(schema.FilterableFields()))
	for _, f := range schema.FilterableFields() {
		filterable = append(filterable, f)
	}
	if info, err = index.UpdateFilterableAttributesWithContext(ctx, &filterable); err == nil {
		err = a.wait(ctx, info)
	}
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation,
			fmt.Errorf("failed to update filterable attributes: %w", err))
	}

	sortable := schema.SortableFields()
	if info, err = index.UpdateSortableAttributesWithContext(ctx, &sortable); err == nil {
		err = a.wait(ctx, info)
	}
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation,
			fmt.Errorf("failed to update sortable attributes: %w", err))
	}

	return nil
}

// IndexBatch implements search.Provider. A batch is one document task;
// Meilisearch reports failures per task, not per record.
func (a *Adapter) IndexBatch(ctx context.Context, records []*models.Record) (*search.BatchResult, error) {
	info, err := a.client.Index(a.indexName).AddDocumentsWithContext(ctx, records, nil)
	if err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}
	if err := a.wait(ctx, info); err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	return &search.BatchResult{
		Submitted: len(records),
		Succeeded: len(records),
	}, nil
}

// wait blocks until the task finishes and converts a failed task into an
// error.
func (a *Adapter) wait(ctx context.Context, info *meilisearch.TaskInfo) error {
	task, err := a.client.WaitForTaskWithContext(ctx, info.TaskUID, a.taskInterval)
	if err != nil {
		return fmt.Errorf("failed waiting for task %d: %w", info.TaskUID, err)
	}

	a.logger.Trace("task finished", "task", info.TaskUID, "type", task.Type, "status", task.Status)

	if task.Status != meilisearch.TaskStatusSucceeded {
		return fmt.Errorf("task %d %s: %s", info.TaskUID, task.Status, task.Error.Message)
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
