package indexer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
	"github.com/hashicorp-forge/searchsync/pkg/transform"
)

// Publisher transforms source documents and writes them to a search provider
// in fixed-size batches.
type Publisher struct {
	provider  search.Provider
	batchSize int
	logger    hclog.Logger
}

// NewPublisher creates a Publisher. A non-positive batch size means
// config.BatchSize.
func NewPublisher(provider search.Provider, batchSize int, logger hclog.Logger) *Publisher {
	if batchSize <= 0 {
		batchSize = config.BatchSize
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Publisher{
		provider:  provider,
		batchSize: batchSize,
		logger:    logger.Named("publisher"),
	}
}

// Plan transforms every document and splits the records into batches. No
// request is made.
func (p *Publisher) Plan(docs []models.SourceDocument) ([][]*models.Record, error) {
	records, err := transform.TransformAll(docs)
	if err != nil {
		return nil, err
	}
	return transform.Batches(records, p.batchSize), nil
}

// Publish transforms all documents first, so a bad document fails the call
// before anything is sent, then submits the batches in order. A failed batch
// does not stop later batches. The returned error wraps search.ErrPublish and
// lists every failed batch; batches that succeeded stay in the index.
func (p *Publisher) Publish(ctx context.Context, docs []models.SourceDocument) error {
	batches, err := p.Plan(docs)
	if err != nil {
		return err
	}

	var (
		result    *multierror.Error
		published int
		rejected  int
	)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("batch %d/%d not sent: %w", i+1, len(batches), err))
			break
		}

		p.logger.Info("pushing batch",
			"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
			"size", len(batch),
			"sample_id", batch[0].ID,
		)

		res, err := p.provider.IndexBatch(ctx, batch)
		if err != nil {
			p.logger.Error("batch failed",
				"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
				"error", err,
			)
			result = multierror.Append(result,
				fmt.Errorf("batch %d/%d (%d records): %w", i+1, len(batches), len(batch), err))
			continue
		}

		published += res.Succeeded
		rejected += len(res.Failed)

		p.logger.Info("batch accepted",
			"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
			"succeeded", res.Succeeded,
			"failed", len(res.Failed),
		)
		for _, f := range res.Failed {
			p.logger.Warn("record rejected",
				"id", f.Key,
				"status", f.StatusCode,
				"message", f.Message,
			)
		}
	}

	p.logger.Info("publish finished",
		"documents", len(docs),
		"batches", len(batches),
		"published", published,
		"rejected", rejected,
	)

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %d of %d batches failed: %w",
			search.ErrPublish, len(result.Errors), len(batches), err)
	}
	return nil
}
