package index

import (
	"fmt"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

type VerifyCommand struct {
	*base.Command

	// Overridden in tests.
	newProvider indexer.ProviderFactory
}

func (c *VerifyCommand) Synopsis() string {
	return "Check that the search index exists"
}

func (c *VerifyCommand) Help() string {
	return `Usage: searchsync index verify [options]

  Exits 0 if the search index exists and 1 otherwise.` + c.Flags().Help()
}

func (c *VerifyCommand) Flags() *base.FlagSet {
	return newFlagSet(c.Command, "index verify")
}

func (c *VerifyCommand) Run(args []string) int {
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

	ok, err := mgr.VerifyIndex(ctx)
	if err != nil {
		c.UI.Error(fmt.Sprintf("failed to verify index: %v", err))
		return base.ExitCode(err)
	}
	if !ok {
		c.UI.Error(fmt.Sprintf("Index %q does not exist.", cfg.IndexName))
		return base.ExitFailure
	}

	c.UI.Info(fmt.Sprintf("Index %q exists.", cfg.IndexName))
	return base.ExitSuccess
}
