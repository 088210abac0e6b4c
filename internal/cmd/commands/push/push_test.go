package push

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/searchsync/internal/cmd/base"
	"github.com/hashicorp-forge/searchsync/internal/config"
	"github.com/hashicorp-forge/searchsync/pkg/indexer"
	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
	"github.com/hashicorp-forge/searchsync/pkg/search/adapters/mock"
)

type memorySource struct {
	docs []models.SourceDocument
}

func (s *memorySource) FetchAll(context.Context) ([]models.SourceDocument, error) {
	return s.docs, nil
}

func (s *memorySource) Close(context.Context) error { return nil }

func newCommand(t *testing.T, provider *mock.Provider) (*Command, *cli.MockUi, string) {
	t.Helper()

	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.SetLookupEnv(func(key string) (string, bool) {
		v, ok := map[string]string{
			config.EnvConnectionString:  "mongodb://localhost",
			config.EnvSearchServiceName: "svc",
			config.EnvSearchAdminKey:    "key",
		}[key]
		return v, ok
	})

	src := &memorySource{docs: []models.SourceDocument{{
		"_id":           "a1",
		"timestamp_day": "2024-01-01T00:00:00",
		"cat":           "x",
		"owner":         map[string]any{"email": "e", "firstName": "f", "lastName": "l"},
	}}}

	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	return &Command{
		Command: b,
		connect: func(context.Context, *config.Config, hclog.Logger) (indexer.Source, error) {
			return src, nil
		},
		newProvider: func(*config.Config, hclog.Logger) (search.Provider, error) {
			return provider, nil
		},
	}, ui, envFile
}

func TestPush(t *testing.T) {
	provider := mock.NewProvider().WithExistingIndex()
	c, ui, envFile := newCommand(t, provider)

	code := c.Run([]string{"-env-file", envFile})
	assert.Equal(t, base.ExitSuccess, code, ui.ErrorWriter.String())
	assert.Equal(t, []string{"exists", "batch"}, provider.Calls())
	assert.Contains(t, ui.OutputWriter.String(), "Documents pushed")
}

func TestPush_MissingIndex(t *testing.T) {
	provider := mock.NewProvider()
	c, ui, envFile := newCommand(t, provider)

	code := c.Run([]string{"-env-file", envFile})
	assert.Equal(t, base.ExitFailure, code)
	assert.Contains(t, ui.ErrorWriter.String(), "search index not found")
	assert.Equal(t, []string{"exists"}, provider.Calls())
}
