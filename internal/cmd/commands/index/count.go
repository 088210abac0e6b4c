package index

import (
	"fmt"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

type CountCommand struct {
	*base.Command

	// Overridden in tests.
	newProvider indexer.ProviderFactory
}

func (c *CountCommand) Synopsis() string {
	return "Count the records in the search index"
}

func (c *CountCommand) Help() string {
	return `Usage: searchsync index count [options]

  Prints the number of records in the search index. Only providers that can
  read the index back (bleve) support this command.` + c.Flags().Help()
}

func (c *CountCommand) Flags() *base.FlagSet {
	return newFlagSet(c.Command, "index count")
}

func (c *CountCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return base.ExitFailure
	}

	cfg, inspector, closeFn, code := loadInspector(c.Command, c.newProvider)
	if code != base.ExitSuccess {
		return code
	}
	defer closeFn()

	ctx, cancel := c.SignalContext()
	defer cancel()

	n, err := inspector.Count(ctx)
	if err != nil {
		c.UI.Error(fmt.Sprintf("failed to count records: %v", err))
		return base.ExitFailure
	}

	c.UI.Info(fmt.Sprintf("Index %q holds %d records.", cfg.IndexName, n))
	return base.ExitSuccess
}
