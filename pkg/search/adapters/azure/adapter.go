// Package azure implements search.Provider for Azure AI Search over its REST
// API.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

const (
	defaultAPIVersion = "2023-10-01-Preview"
	defaultTimeout    = 2 * time.Minute

	// maxBodyLog bounds how much of a response body ends up in errors and logs.
	maxBodyLog = 500
)

// Config contains Azure AI Search configuration.
type Config struct {
	ServiceName string // {ServiceName}.search.windows.net
	AdminKey    string
	IndexName   string
	APIVersion  string

	// Endpoint overrides the URL derived from ServiceName.
	Endpoint string

	HTTPClient *http.Client
	Logger     hclog.Logger
}

// Adapter implements search.Provider for Azure AI Search.
type Adapter struct {
	endpoint   string
	adminKey   string
	indexName  string
	apiVersion string
	client     *http.Client
	logger     hclog.Logger
}

// NewAdapter creates a new Azure AI Search adapter. It performs no network
// I/O.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("azure search config required")
	}
	if cfg.ServiceName == "" && cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure search service name required")
	}
	if cfg.AdminKey == "" {
		return nil, fmt.Errorf("azure search admin key required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("azure search index name required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.search.windows.net", cfg.ServiceName)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Adapter{
		endpoint:   strings.TrimRight(endpoint, "/"),
		adminKey:   cfg.AdminKey,
		indexName:  cfg.IndexName,
		apiVersion: apiVersion,
		client:     client,
		logger:     logger.Named("azure"),
	}, nil
}

// Name implements search.Provider.
func (a *Adapter) Name() string {
	return "azure"
}

// IndexName implements search.Provider.
func (a *Adapter) IndexName() string {
	return a.indexName
}

// IndexExists implements search.Provider. 200 means the index exists and 404
// that it does not; any other status is an error.
func (a *Adapter) IndexExists(ctx context.Context) (bool, error) {
	status, body, err := a.do(ctx, http.MethodGet, a.indexPath(), nil)
	if err != nil {
		return false, a.opError("IndexExists", search.ErrIndexOperation, err)
	}

	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, a.opError("IndexExists", search.ErrIndexOperation,
			&search.StatusError{StatusCode: status, Body: truncate(body)})
	}
}

// DeleteIndex implements search.Provider.
func (a *Adapter) DeleteIndex(ctx context.Context) error {
	status, body, err := a.do(ctx, http.MethodDelete, a.indexPath(), nil)
	if err != nil {
		return a.opError("DeleteIndex", search.ErrIndexOperation, err)
	}

	if status != http.StatusOK && status != http.StatusNoContent {
		return a.opError("DeleteIndex", search.ErrIndexOperation,
			&search.StatusError{StatusCode: status, Body: truncate(body)})
	}
	return nil
}

// CreateIndex implements search.Provider.
func (a *Adapter) CreateIndex(ctx context.Context, schema *search.Schema) error {
	def, err := newIndexDefinition(a.indexName, schema)
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}

	status, body, err := a.do(ctx, http.MethodPut, a.indexPath(), def)
	if err != nil {
		return a.opError("CreateIndex", search.ErrIndexOperation, err)
	}

	if status != http.StatusCreated && status != http.StatusNoContent {
		return a.opError("CreateIndex", search.ErrIndexOperation,
			&search.StatusError{StatusCode: status, Body: truncate(body)})
	}
	return nil
}

// IndexBatch implements search.Provider by posting the records to the
// docs/index endpoint. A non-2xx status or an unparseable body fails the
// batch. Per-item rejections inside an accepted batch are returned in the
// result.
func (a *Adapter) IndexBatch(ctx context.Context, records []*models.Record) (*search.BatchResult, error) {
	status, body, err := a.do(ctx, http.MethodPost, a.indexPath()+"/docs/index", indexBatchRequest{Value: records})
	if err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish, err)
	}

	a.logger.Debug("bulk write response", "status", status, "body", truncate(body))

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, a.opError("IndexBatch", search.ErrPublish,
			&search.StatusError{StatusCode: status, Body: truncate(body)})
	}

	var resp indexBatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, a.opError("IndexBatch", search.ErrPublish,
			fmt.Errorf("failed to parse response: %w", err))
	}

	result := &search.BatchResult{Submitted: len(records)}
	for _, item := range resp.Value {
		if item.Status {
			result.Succeeded++
			continue
		}
		msg := ""
		if item.ErrorMessage != nil {
			msg = *item.ErrorMessage
		}
		result.Failed = append(result.Failed, search.ItemFailure{
			Key:        item.Key,
			StatusCode: item.StatusCode,
			Message:    msg,
		})
	}

	return result, nil
}

func (a *Adapter) indexPath() string {
	return "/indexes/" + url.PathEscape(a.indexName)
}

func (a *Adapter) opError(op string, sentinel, cause error) error {
	return &search.Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", sentinel, cause),
		Msg: "index " + a.indexName,
	}
}

// do sends one request and returns the status code and the full body.
func (a *Adapter) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("error marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := a.endpoint + path + "?" + url.Values{"api-version": {a.apiVersion}}.Encode()
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.adminKey)

	a.logger.Trace("sending request", "method", method, "path", path)

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("error reading response: %w", err)
	}

	return resp.StatusCode, body, nil
}

func truncate(body []byte) string {
	if len(body) > maxBodyLog {
		return string(body[:maxBodyLog]) + "..."
	}
	return string(body)
}
