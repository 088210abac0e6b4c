package push

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

type Command struct {
	*base.Command

	flagDryRun bool

	// Overridden in tests.
	connect     indexer.SourceConnector
	newProvider indexer.ProviderFactory
}

func (c *Command) Synopsis() string {
	return "Publish documents into the existing search index"
}

func (c *Command) Help() string {
	return `Usage: searchsync push [options]

  Verifies that the search index exists, then reads every document of the
  source collection and publishes the transformed records in batches. The
  index is not recreated; records with the same id are replaced.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("push", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Read and transform documents without publishing",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return base.ExitFailure
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return base.ExitConfigError
	}

	connect, newProvider := c.connect, c.newProvider
	if connect == nil {
		connect = base.ConnectSource
	}
	if newProvider == nil {
		newProvider = base.NewSearchProvider
	}

	o, err := indexer.NewOrchestrator(cfg,
		indexer.WithLogger(c.Log),
		indexer.WithSourceConnector(connect),
		indexer.WithProviderFactory(newProvider),
		indexer.WithDryRun(c.flagDryRun),
	)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating orchestrator: %v", err))
		return base.ExitFailure
	}

	ctx, cancel := c.SignalContext()
	defer cancel()

	if err := o.Push(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("push failed: %v", err))
		return base.ExitCode(err)
	}

	c.UI.Info(fmt.Sprintf("Documents pushed to index %q.", cfg.IndexName))
	return base.ExitSuccess
}
