// Package indexer runs the synchronization from the source collection to the
// search index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// ErrNoDocuments is returned when the source collection is empty. The index
// is left untouched.
var ErrNoDocuments = errors.New("no documents found in source collection")

// State is a step of a run.
type State string

const (
	StateValidating    State = "validating"
	StateConnected     State = "connected"
	StateFetched       State = "fetched"
	StateIndexCreated  State = "index_created"
	StateIndexVerified State = "index_verified"
	StatePublished     State = "published"
	StateDone          State = "done"
	StateAborted       State = "aborted"
)

// Source yields every source document.
type Source interface {
	FetchAll(ctx context.Context) ([]models.SourceDocument, error)
	Close(ctx context.Context) error
}

// SourceConnector opens the source described by cfg.
type SourceConnector func(ctx context.Context, cfg *config.Config, logger hclog.Logger) (Source, error)

// ProviderFactory builds the search provider described by cfg.
type ProviderFactory func(cfg *config.Config, logger hclog.Logger) (search.Provider, error)

// Orchestrator sequences one synchronization run: validate configuration,
// read the source, recreate the index, verify it and publish the records.
type Orchestrator struct {
	cfg         *config.Config
	logger      hclog.Logger
	connect     SourceConnector
	newProvider ProviderFactory
	schema      *search.Schema
	batchSize   int
	dryRun      bool

	mu      sync.Mutex
	state   State
	history []State
}

// Option is a functional option for creating an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSourceConnector sets how the source is opened.
func WithSourceConnector(connect SourceConnector) Option {
	return func(o *Orchestrator) {
		o.connect = connect
	}
}

// WithProviderFactory sets how the search provider is built.
func WithProviderFactory(factory ProviderFactory) Option {
	return func(o *Orchestrator) {
		o.newProvider = factory
	}
}

// WithSchema overrides the index schema.
func WithSchema(schema *search.Schema) Option {
	return func(o *Orchestrator) {
		o.schema = schema
	}
}

// WithBatchSize sets the number of records per bulk write.
func WithBatchSize(size int) Option {
	return func(o *Orchestrator) {
		o.batchSize = size
	}
}

// WithDryRun enables or disables dry-run mode. A dry run reads and
// transforms the documents but never touches the index.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = dryRun
	}
}

// NewOrchestrator creates a new orchestrator for cfg.
func NewOrchestrator(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:    cfg,
		logger: hclog.NewNullLogger(),
	}

	// Apply options
	for _, opt := range opts {
		opt(o)
	}

	// Validate required fields
	if o.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if o.connect == nil {
		return nil, fmt.Errorf("source connector is required")
	}
	if o.newProvider == nil {
		return nil, fmt.Errorf("provider factory is required")
	}
	if o.batchSize <= 0 {
		o.batchSize = o.cfg.BatchSize
	}
	if o.schema == nil {
		o.schema = search.DefaultSchema()
	}

	return o, nil
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// History returns every state entered, in order.
func (o *Orchestrator) History() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]State(nil), o.history...)
}

// Run performs a full synchronization: the index is dropped and recreated,
// then every document is published.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	log := o.logger.With("run_id", uuid.NewString())
	o.reset()
	defer o.recoverPanic(log, &err)

	start := time.Now()
	log.Info("starting sync",
		"database", o.cfg.DatabaseName,
		"collection", o.cfg.CollectionName,
		"index", o.cfg.IndexName,
		"provider", o.cfg.SearchProvider,
		"dry_run", o.dryRun,
	)

	o.transition(log, StateValidating)
	if err := o.cfg.Validate(); err != nil {
		return o.abort(log, "invalid configuration", err)
	}

	src, err := o.connect(ctx, o.cfg, log)
	if err != nil {
		return o.abort(log, "failed to connect to source", err)
	}
	defer o.closeSource(log, src)
	o.transition(log, StateConnected)

	docs, err := src.FetchAll(ctx)
	if err != nil {
		return o.abort(log, "failed to fetch documents", err)
	}
	o.transition(log, StateFetched)
	log.Info("fetched documents", "count", len(docs))

	if len(docs) == 0 {
		log.Warn("no documents found, index left unchanged")
		return o.abort(log, "nothing to publish", ErrNoDocuments)
	}

	if o.dryRun {
		return o.plan(log, docs)
	}

	provider, err := o.newProvider(o.cfg, log)
	if err != nil {
		return o.abort(log, "failed to create search provider", err)
	}
	defer closeProvider(log, provider)

	mgr := search.NewIndexManager(provider, o.schema, log)

	if err := mgr.CreateIndex(ctx); err != nil {
		return o.abort(log, "failed to create index", err)
	}
	o.transition(log, StateIndexCreated)

	if err := o.verify(ctx, log, mgr); err != nil {
		return err
	}

	if err := NewPublisher(provider, o.batchSize, log).Publish(ctx, docs); err != nil {
		return o.abort(log, "failed to publish documents", err)
	}
	o.transition(log, StatePublished)

	o.transition(log, StateDone)
	log.Info("sync completed", "documents", len(docs), "duration", time.Since(start))
	return nil
}

// Push publishes every document into the existing index without recreating
// it. Records with the same id are replaced; others are kept.
func (o *Orchestrator) Push(ctx context.Context) (err error) {
	log := o.logger.With("run_id", uuid.NewString())
	o.reset()
	defer o.recoverPanic(log, &err)

	start := time.Now()
	log.Info("starting push", "index", o.cfg.IndexName, "provider", o.cfg.SearchProvider)

	o.transition(log, StateValidating)
	if err := o.cfg.Validate(); err != nil {
		return o.abort(log, "invalid configuration", err)
	}

	provider, err := o.newProvider(o.cfg, log)
	if err != nil {
		return o.abort(log, "failed to create search provider", err)
	}
	defer closeProvider(log, provider)

	if err := o.verify(ctx, log, search.NewIndexManager(provider, o.schema, log)); err != nil {
		return err
	}

	src, err := o.connect(ctx, o.cfg, log)
	if err != nil {
		return o.abort(log, "failed to connect to source", err)
	}
	defer o.closeSource(log, src)
	o.transition(log, StateConnected)

	docs, err := src.FetchAll(ctx)
	if err != nil {
		return o.abort(log, "failed to fetch documents", err)
	}
	o.transition(log, StateFetched)
	log.Info("fetched documents", "count", len(docs))

	if len(docs) == 0 {
		log.Warn("no documents found, nothing pushed")
		return o.abort(log, "nothing to publish", ErrNoDocuments)
	}

	if o.dryRun {
		return o.plan(log, docs)
	}

	if err := NewPublisher(provider, o.batchSize, log).Publish(ctx, docs); err != nil {
		return o.abort(log, "failed to publish documents", err)
	}
	o.transition(log, StatePublished)

	o.transition(log, StateDone)
	log.Info("push completed", "documents", len(docs), "duration", time.Since(start))
	return nil
}

func (o *Orchestrator) verify(ctx context.Context, log hclog.Logger, mgr *search.IndexManager) error {
	ok, err := mgr.VerifyIndex(ctx)
	if err != nil {
		return o.abort(log, "failed to verify index", err)
	}
	if !ok {
		return o.abort(log, "index verification failed",
			&search.Error{Op: "VerifyIndex", Err: search.ErrIndexNotFound, Msg: "index " + o.cfg.IndexName})
	}
	o.transition(log, StateIndexVerified)
	return nil
}

// plan transforms the documents and logs the batches a real run would send.
func (o *Orchestrator) plan(log hclog.Logger, docs []models.SourceDocument) error {
	batches, err := NewPublisher(nil, o.batchSize, log).Plan(docs)
	if err != nil {
		return o.abort(log, "failed to transform documents", err)
	}

	for i, batch := range batches {
		log.Info("dry run: would push batch",
			"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
			"size", len(batch),
			"sample_id", batch[0].ID,
		)
	}

	o.transition(log, StateDone)
	log.Info("dry run completed", "documents", len(docs), "batches", len(batches))
	return nil
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = ""
	o.history = nil
}

func (o *Orchestrator) transition(log hclog.Logger, s State) {
	o.mu.Lock()
	o.state = s
	o.history = append(o.history, s)
	o.mu.Unlock()

	log.Debug("state changed", "state", s)
}

func (o *Orchestrator) abort(log hclog.Logger, msg string, err error) error {
	o.transition(log, StateAborted)
	log.Error(msg, "error", err)
	return err
}

func (o *Orchestrator) recoverPanic(log hclog.Logger, err *error) {
	r := recover()
	if r == nil {
		return
	}

	log.Error("panic during run", "panic", r, "stack", string(debug.Stack()))
	o.transition(log, StateAborted)
	*err = fmt.Errorf("panic during run: %v", r)
}

func (o *Orchestrator) closeSource(log hclog.Logger, src Source) {
	// The run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := src.Close(ctx); err != nil {
		log.Warn("failed to close source connection", "error", err)
		return
	}
	log.Debug("source connection closed")
}

func closeProvider(log hclog.Logger, provider search.Provider) {
	c, ok := provider.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close search provider", "error", err)
	}
}
