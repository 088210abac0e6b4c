package index

import (
	"fmt"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

type CreateCommand struct {
	*base.Command

	// Overridden in tests.
	newProvider indexer.ProviderFactory
}

func (c *CreateCommand) Synopsis() string {
	return "Drop and recreate the search index"
}

func (c *CreateCommand) Help() string {
	return `Usage: searchsync index create [options]

  Deletes the search index if it exists and creates it with the record
  schema. All indexed records are lost.` + c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	return newFlagSet(c.Command, "index create")
}

func (c *CreateCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return base.ExitFailure
	}

	cfg, mgr, closeFn, code := loadSearch(c.Command, c.newProvider)
	if code != base.ExitSuccess {
		return code
	}
	defer closeFn()

	ctx, cancel := c.SignalContext()
	defer cancel()

	if err := mgr.CreateIndex(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("failed to create index: %v", err))
		return base.ExitCode(err)
	}

	c.UI.Info(fmt.Sprintf("Index %q created.", cfg.IndexName))
	return base.ExitSuccess
}
