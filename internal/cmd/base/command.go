// Package base holds what every searchsync subcommand shares: the logger and
// UI, the common configuration flags, and the mapping of errors to exit
// codes.
package base

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitConfigError = 2
	ExitNoDocuments = 3
)

// Command is embedded by every subcommand.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	flagConfig   string
	flagEnvFile  string
	flagLogLevel string

	// lookupEnv is overridden in tests.
	lookupEnv func(string) (string, bool)
}

// NewCommand returns a base command.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
	}
}

// AddConfigFlags registers the flags shared by every command that loads
// configuration.
func (c *Command) AddConfigFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to an optional HCL configuration file",
	)
	f.StringVar(
		&c.flagEnvFile, "env-file", "",
		"Path to a dotenv file (default: .env in the working directory, if present)",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"["+config.EnvLogLevel+"] Log level (trace, debug, info, warn, error)",
	)
}

// LoadConfig loads configuration from the shared flags and applies the log
// level to c.Log. It does not validate.
func (c *Command) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: c.flagConfig,
		EnvFile:    c.flagEnvFile,
		LookupEnv:  c.lookupEnv,
	})
	if err != nil {
		return nil, err
	}

	if c.flagLogLevel != "" {
		cfg.LogLevel = c.flagLogLevel
	}
	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		c.Log.SetLevel(level)
	} else {
		c.Log.Warn("unknown log level, keeping default", "log_level", cfg.LogLevel)
	}

	return cfg, nil
}

// SetLookupEnv replaces os.LookupEnv for configuration loading.
func (c *Command) SetLookupEnv(fn func(string) (string, bool)) {
	c.lookupEnv = fn
}

// SignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func (c *Command) SignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			c.Log.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// ExitCode maps a run error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrMissingConfig):
		return ExitConfigError
	case errors.Is(err, indexer.ErrNoDocuments):
		return ExitNoDocuments
	default:
		return ExitFailure
	}
}
