package base

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
	"github.com/hashicorp-forge/searchsync/pkg/search"
	algoliaadapter "github.com/hashicorp-forge/searchsync/pkg/search/adapters/algolia"
	"github.com/hashicorp-forge/searchsync/pkg/search/adapters/azure"
	bleveadapter "github.com/hashicorp-forge/searchsync/pkg/search/adapters/bleve"
	meilisearchadapter "github.com/hashicorp-forge/searchsync/pkg/search/adapters/meilisearch"
	"github.com/hashicorp-forge/searchsync/pkg/source/mongodb"
)

// NewSearchProvider creates the search provider selected by cfg.
func NewSearchProvider(cfg *config.Config, logger hclog.Logger) (search.Provider, error) {
	switch cfg.SearchProvider {
	case config.ProviderAzure:
		provider, err := azure.NewAdapter(&azure.Config{
			ServiceName: cfg.SearchServiceName,
			AdminKey:    cfg.SearchAdminKey,
			IndexName:   cfg.IndexName,
			APIVersion:  cfg.APIVersion,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize azure adapter: %w", err)
		}

		logger.Info("initialized search provider", "provider", "azure", "endpoint", cfg.SearchEndpoint())
		return provider, nil

	case config.ProviderMeilisearch:
		if cfg.Meilisearch == nil {
			return nil, fmt.Errorf("meilisearch configuration is missing")
		}

		provider, err := meilisearchadapter.NewAdapter(&meilisearchadapter.Config{
			Host:      cfg.Meilisearch.Host,
			APIKey:    cfg.Meilisearch.APIKey,
			IndexName: cfg.IndexName,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize meilisearch adapter: %w", err)
		}

		logger.Info("initialized search provider", "provider", "meilisearch", "host", cfg.Meilisearch.Host)
		return provider, nil

	case config.ProviderBleve:
		if cfg.Bleve == nil {
			return nil, fmt.Errorf("bleve configuration is missing")
		}

		provider, err := bleveadapter.NewAdapter(&bleveadapter.Config{
			IndexPath: cfg.Bleve.IndexPath,
			IndexName: cfg.IndexName,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bleve adapter: %w", err)
		}

		logger.Info("initialized search provider", "provider", "bleve", "path", cfg.Bleve.IndexPath)
		return provider, nil

	case config.ProviderAlgolia:
		if cfg.Algolia == nil {
			return nil, fmt.Errorf("algolia configuration is missing")
		}

		provider, err := algoliaadapter.NewAdapter(&algoliaadapter.Config{
			AppID:       cfg.Algolia.AppID,
			WriteAPIKey: cfg.Algolia.WriteAPIKey,
			IndexName:   cfg.IndexName,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize algolia adapter: %w", err)
		}

		logger.Info("initialized search provider", "provider", "algolia", "app_id", cfg.Algolia.AppID)
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.SearchProvider)
	}
}

// ConnectSource opens the configured source collection.
func ConnectSource(ctx context.Context, cfg *config.Config, logger hclog.Logger) (indexer.Source, error) {
	reader, err := mongodb.Connect(ctx, mongodb.Config{
		URI:        cfg.ConnectionString,
		Database:   cfg.DatabaseName,
		Collection: cfg.CollectionName,
	}, logger)
	if err != nil {
		return nil, err
	}
	return reader, nil
}
