// Package config builds the searchsync configuration value. A Config is
// assembled once at startup from defaults, an optional HCL file, an optional
// dotenv file and the process environment, and is then passed explicitly to
// every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Fixed values. These are not configurable.
const (
	DatabaseName   = "Synthetic_Data_DB"
	CollectionName = "Synthetic_Data_COL"
	IndexName      = "synthetic-index"
	APIVersion     = "2023-10-01-Preview"
	BatchSize      = 1000
)

// Recognized environment variables.
const (
	EnvConnectionString  = "COSMOS_CONN_STRING"
	EnvSearchServiceName = "SEARCH_SERVICE_NAME"
	EnvSearchAdminKey    = "SEARCH_ADMIN_KEY"
	EnvSearchProvider    = "SEARCH_PROVIDER"
	EnvMeilisearchHost   = "MEILISEARCH_HOST"
	EnvMeilisearchAPIKey = "MEILISEARCH_API_KEY"
	EnvBleveIndexPath    = "BLEVE_INDEX_PATH"
	EnvAlgoliaAppID      = "ALGOLIA_APP_ID"
	EnvAlgoliaWriteKey   = "ALGOLIA_WRITE_API_KEY"
	EnvLogLevel          = "LOG_LEVEL"
)

// Search providers.
const (
	ProviderAzure       = "azure"
	ProviderMeilisearch = "meilisearch"
	ProviderBleve       = "bleve"
	ProviderAlgolia     = "algolia"
)

// DefaultEnvFile is read when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

// ErrMissingConfig is returned when required configuration values are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// Config is the searchsync configuration.
type Config struct {
	// ConnectionString is the document database connection string.
	ConnectionString string `hcl:"connection_string,optional"`

	// SearchServiceName is the Azure AI Search service name, used as the
	// hostname prefix ({name}.search.windows.net).
	SearchServiceName string `hcl:"search_service_name,optional"`

	// SearchAdminKey is the Azure AI Search admin (write) key.
	SearchAdminKey string `hcl:"search_admin_key,optional"`

	// SearchProvider selects the search backend.
	SearchProvider string `hcl:"search_provider,optional"`

	// LogLevel is the hclog level name.
	LogLevel string `hcl:"log_level,optional"`

	Meilisearch *Meilisearch `hcl:"meilisearch,block"`
	Bleve       *Bleve       `hcl:"bleve,block"`
	Algolia     *Algolia     `hcl:"algolia,block"`

	DatabaseName   string
	CollectionName string
	IndexName      string
	APIVersion     string
	BatchSize      int
}

// Meilisearch configures the meilisearch provider.
type Meilisearch struct {
	Host   string `hcl:"host,optional"`
	APIKey string `hcl:"api_key,optional"`
}

// Bleve configures the embedded bleve provider.
type Bleve struct {
	IndexPath string `hcl:"index_path,optional"`
}

// Algolia configures the algolia provider.
type Algolia struct {
	AppID       string `hcl:"app_id,optional"`
	WriteAPIKey string `hcl:"write_api_key,optional"`
}

// LoadOptions controls where Load reads configuration from.
type LoadOptions struct {
	// ConfigFile is an optional HCL file.
	ConfigFile string

	// EnvFile is a dotenv file. When empty, DefaultEnvFile is read if it
	// exists.
	EnvFile string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Fs is the filesystem the config and env files are read from. Defaults
	// to the OS filesystem.
	Fs afero.Fs
}

// New returns a Config populated with defaults only.
func New() *Config {
	return &Config{
		SearchProvider: ProviderAzure,
		LogLevel:       "info",
		Meilisearch:    &Meilisearch{},
		Bleve:          &Bleve{},
		Algolia:        &Algolia{},
		DatabaseName:   DatabaseName,
		CollectionName: CollectionName,
		IndexName:      IndexName,
		APIVersion:     APIVersion,
		BatchSize:      BatchSize,
	}
}

// Load builds a Config. Precedence, lowest first: defaults, HCL file, dotenv
// file, process environment. Load does not validate; call Validate.
func Load(opts LoadOptions) (*Config, error) {
	cfg := New()

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if opts.ConfigFile != "" {
		src, err := afero.ReadFile(fs, opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := hclsimple.Decode(opts.ConfigFile, src, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if cfg.Meilisearch == nil {
			cfg.Meilisearch = &Meilisearch{}
		}
		if cfg.Bleve == nil {
			cfg.Bleve = &Bleve{}
		}
		if cfg.Algolia == nil {
			cfg.Algolia = &Algolia{}
		}
	}

	dotenv, err := readEnvFile(fs, opts.EnvFile)
	if err != nil {
		return nil, err
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		if v, ok := dotenv[key]; ok && v != "" {
			return v, true
		}
		return "", false
	}

	for key, dst := range map[string]*string{
		EnvConnectionString:  &cfg.ConnectionString,
		EnvSearchServiceName: &cfg.SearchServiceName,
		EnvSearchAdminKey:    &cfg.SearchAdminKey,
		EnvSearchProvider:    &cfg.SearchProvider,
		EnvMeilisearchHost:   &cfg.Meilisearch.Host,
		EnvMeilisearchAPIKey: &cfg.Meilisearch.APIKey,
		EnvBleveIndexPath:    &cfg.Bleve.IndexPath,
		EnvAlgoliaAppID:      &cfg.Algolia.AppID,
		EnvAlgoliaWriteKey:   &cfg.Algolia.WriteAPIKey,
		EnvLogLevel:          &cfg.LogLevel,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	cfg.SearchProvider = strings.ToLower(strings.TrimSpace(cfg.SearchProvider))
	if cfg.SearchProvider == "" {
		cfg.SearchProvider = ProviderAzure
	}

	return cfg, nil
}

func readEnvFile(fs afero.Fs, path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}

	values, err := godotenv.Unmarshal(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %q: %w", path, err)
	}
	return values, nil
}

// Validate checks that the connection string and every value the selected
// provider needs are present. The returned error wraps ErrMissingConfig and
// names each missing variable.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateSearch is Validate without the source database settings, for
// commands that only talk to the search service.
func (c *Config) ValidateSearch() error {
	return c.validate(false)
}

func (c *Config) validate(withSource bool) error {
	errs := validation.Errors{}
	if withSource {
		errs[EnvConnectionString] = validation.Validate(c.ConnectionString, validation.Required)
	}

	switch c.SearchProvider {
	case ProviderAzure:
		errs[EnvSearchServiceName] = validation.Validate(c.SearchServiceName, validation.Required)
		errs[EnvSearchAdminKey] = validation.Validate(c.SearchAdminKey, validation.Required)
	case ProviderMeilisearch:
		var host string
		if c.Meilisearch != nil {
			host = c.Meilisearch.Host
		}
		errs[EnvMeilisearchHost] = validation.Validate(host, validation.Required, is.URL)
	case ProviderBleve:
		var path string
		if c.Bleve != nil {
			path = c.Bleve.IndexPath
		}
		errs[EnvBleveIndexPath] = validation.Validate(path, validation.Required)
	case ProviderAlgolia:
		algolia := c.Algolia
		if algolia == nil {
			algolia = &Algolia{}
		}
		errs[EnvAlgoliaAppID] = validation.Validate(algolia.AppID, validation.Required)
		errs[EnvAlgoliaWriteKey] = validation.Validate(algolia.WriteAPIKey, validation.Required)
	default:
		errs[EnvSearchProvider] = validation.Validate(c.SearchProvider,
			validation.In(ProviderAzure, ProviderMeilisearch, ProviderBleve, ProviderAlgolia))
	}

	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}
	return nil
}

// SearchEndpoint returns the Azure AI Search base URL.
func (c *Config) SearchEndpoint() string {
	return fmt.Sprintf("https://%s.search.windows.net", c.SearchServiceName)
}
