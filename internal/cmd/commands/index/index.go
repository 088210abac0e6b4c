// Package index implements the "index" command family, which manages the
// search index without touching the source collection.
package index

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// Command is the parent "index" command. It only prints help.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage the search index"
}

func (c *Command) Help() string {
	return `Usage: searchsync index <subcommand> [options]

  Manage the search index schema.

Subcommands:

    count     Count the records in the search index
    create    Drop and recreate the search index
    search    Query the search index
    verify    Check that the search index exists`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// loadSearch loads and validates configuration for a search-only command and
// builds an index manager.
func loadSearch(c *base.Command, newProvider indexer.ProviderFactory) (*config.Config, *search.IndexManager, func(), int) {
	cfg, provider, closeFn, code := loadProvider(c, newProvider)
	if code != base.ExitSuccess {
		return nil, nil, nil, code
	}
	return cfg, search.NewIndexManager(provider, nil, c.Log), closeFn, base.ExitSuccess
}

// loadInspector is loadSearch for commands that read from the index. The
// provider must implement search.Inspector.
func loadInspector(c *base.Command, newProvider indexer.ProviderFactory) (*config.Config, search.Inspector, func(), int) {
	cfg, provider, closeFn, code := loadProvider(c, newProvider)
	if code != base.ExitSuccess {
		return nil, nil, nil, code
	}

	inspector, ok := provider.(search.Inspector)
	if !ok {
		closeFn()
		c.UI.Error(fmt.Sprintf("search provider %q does not support reading the index", provider.Name()))
		return nil, nil, nil, base.ExitFailure
	}
	return cfg, inspector, closeFn, base.ExitSuccess
}

func loadProvider(c *base.Command, newProvider indexer.ProviderFactory) (*config.Config, search.Provider, func(), int) {
	cfg, err := c.LoadConfig()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return nil, nil, nil, base.ExitConfigError
	}
	if err := cfg.ValidateSearch(); err != nil {
		c.UI.Error(err.Error())
		return nil, nil, nil, base.ExitConfigError
	}

	if newProvider == nil {
		newProvider = base.NewSearchProvider
	}
	provider, err := newProvider(cfg, c.Log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating search provider: %v", err))
		return nil, nil, nil, base.ExitFailure
	}

	closeFn := func() {
		if closer, ok := provider.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				c.Log.Warn("failed to close search provider", "error", err)
			}
		}
	}

	return cfg, provider, closeFn, base.ExitSuccess
}

func newFlagSet(c *base.Command, name string) *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))
	c.AddConfigFlags(f)
	return f
}
