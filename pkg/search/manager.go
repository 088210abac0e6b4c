package search

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// IndexManager establishes the index schema on a provider.
type IndexManager struct {
	provider Provider
	schema   *Schema
	logger   hclog.Logger
}

// NewIndexManager creates an IndexManager. A nil schema means DefaultSchema.
func NewIndexManager(provider Provider, schema *Schema, logger hclog.Logger) *IndexManager {
	if schema == nil {
		schema = DefaultSchema()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &IndexManager{
		provider: provider,
		schema:   schema,
		logger:   logger.Named("index-manager"),
	}
}

// CreateIndex drops any existing index of the configured name and creates it
// fresh. Nothing from the old index is kept.
func (m *IndexManager) CreateIndex(ctx context.Context) error {
	index := m.provider.IndexName()

	exists, err := m.provider.IndexExists(ctx)
	if err != nil {
		m.logger.Error("failed to check search index", "index", index, "error", err)
		return err
	}

	if exists {
		m.logger.Info("index already exists, deleting", "index", index)
		if err := m.provider.DeleteIndex(ctx); err != nil {
			m.logger.Error("failed to delete existing index", "index", index, "error", err)
			return err
		}
		m.logger.Info("deleted existing index", "index", index)
	}

	if err := m.provider.CreateIndex(ctx, m.schema); err != nil {
		m.logger.Error("failed to create search index", "index", index, "error", err)
		return err
	}

	m.logger.Info("created search index",
		"index", index,
		"provider", m.provider.Name(),
		"fields", len(m.schema.Fields),
	)
	return nil
}

// VerifyIndex reports whether the index currently exists.
func (m *IndexManager) VerifyIndex(ctx context.Context) (bool, error) {
	index := m.provider.IndexName()

	exists, err := m.provider.IndexExists(ctx)
	if err != nil {
		m.logger.Error("failed to verify search index", "index", index, "error", err)
		return false, err
	}

	if !exists {
		m.logger.Error("search index not found", "index", index)
		return false, nil
	}

	m.logger.Info("search index exists", "index", index)
	return true, nil
}
