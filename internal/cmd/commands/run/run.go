package run

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
	return "Rebuild the search index from the source collection"
}

func (c *Command) Help() string {
	return `Usage: searchsync run [options]

  Reads every document of the source collection, drops and recreates the
  search index, and publishes the transformed records in batches of 1000.

  Exit codes: 0 success, 1 failure, 2 configuration error, 3 no documents.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("run", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Read and transform documents without touching the search index",
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

	if err := o.Run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("sync failed: %v", err))
		return base.ExitCode(err)
	}

	if c.flagDryRun {
		c.UI.Info("Dry run complete; the search index was not modified.")
	} else {
		c.UI.Info(fmt.Sprintf("Index %q rebuilt successfully.", cfg.IndexName))
	}
	return base.ExitSuccess
}
