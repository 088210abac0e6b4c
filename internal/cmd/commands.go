package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/internal/cmd/commands/index"
	"github.com/hashicorp-forge/searchsync/internal/cmd/commands/push"
	"github.com/hashicorp-forge/searchsync/internal/cmd/commands/run"
	"github.com/hashicorp-forge/searchsync/internal/cmd/commands/version"
)

// Commands is the mapping of all available searchsync commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"run": func() (cli.Command, error) {
			return &run.Command{
				Command: b,
			}, nil
		},
		"push": func() (cli.Command, error) {
			return &push.Command{
				Command: b,
			}, nil
		},
		"index": func() (cli.Command, error) {
			return &index.Command{
				Command: b,
			}, nil
		},
		"index count": func() (cli.Command, error) {
			return &index.CountCommand{
				Command: b,
			}, nil
		},
		"index create": func() (cli.Command, error) {
			return &index.CreateCommand{
				Command: b,
			}, nil
		},
		"index search": func() (cli.Command, error) {
			return &index.SearchCommand{
				Command: b,
			}, nil
		},
		"index verify": func() (cli.Command, error) {
			return &index.VerifyCommand{
				Command: b,
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{
				Command: b,
			}, nil
		},
	}
}
