package version

import (
	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: searchsync version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output("searchsync " + version.Version)
	return base.ExitSuccess
}
