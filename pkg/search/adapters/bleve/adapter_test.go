package bleve

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	adapter, err := NewAdapter(&Config{
		IndexPath: t.TempDir(),
		IndexName: "synthetic-index",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func ptr(s string) *string {
	return &s
}

func testRecords(n int) []*models.Record {
	records := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &models.Record{
			ID:             fmt.Sprintf("doc-%03d", i),
			TimestampDay:   "2024-01-01T00:00:00Z",
			Category:       ptr([]string{"electronics", "garden"}[i%2]),
			OwnerEmail:     ptr(fmt.Sprintf("owner%d@example.com", i)),
			OwnerFirstName: ptr("Ann"),
			OwnerLastName:  ptr("Lee"),
			EventsCount:    i,
			AvgWeight:      float64(i) / 2,
		})
	}
	return records
}

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{name: "nil config", wantErr: "config required"},
		{name: "missing path", cfg: &Config{IndexName: "idx"}, wantErr: "index path required"},
		{name: "missing name", cfg: &Config{IndexPath: t.TempDir()}, wantErr: "index name required"},
		{name: "valid", cfg: &Config{IndexPath: t.TempDir(), IndexName: "idx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := NewAdapter(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bleve", adapter.Name())
			assert.Equal(t, filepath.Join(tt.cfg.IndexPath, "idx.bleve"), adapter.path)
		})
	}
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	exists, err := adapter.IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, adapter.CreateIndex(ctx, search.DefaultSchema()))

	exists, err = adapter.IndexExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	result, err := adapter.IndexBatch(ctx, testRecords(10))
	require.NoError(t, err)
	assert.Equal(t, 10, result.Submitted)
	assert.Equal(t, 10, result.Succeeded)
	assert.Empty(t, result.Failed)

	count, err := adapter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), count)

	require.NoError(t, adapter.DeleteIndex(ctx))

	exists, err = adapter.IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecreateDropsRecords(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	require.NoError(t, adapter.CreateIndex(ctx, nil))
	_, err := adapter.IndexBatch(ctx, testRecords(5))
	require.NoError(t, err)

	require.NoError(t, adapter.DeleteIndex(ctx))
	require.NoError(t, adapter.CreateIndex(ctx, nil))

	count, err := adapter.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexBatch_Upsert(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	require.NoError(t, adapter.CreateIndex(ctx, nil))

	records := testRecords(3)
	_, err := adapter.IndexBatch(ctx, records)
	require.NoError(t, err)
	_, err = adapter.IndexBatch(ctx, records)
	require.NoError(t, err)

	count, err := adapter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestIndexBatch_NoIndex(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.IndexBatch(context.Background(), testRecords(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrPublish)
	assert.ErrorIs(t, err, search.ErrIndexNotFound)
}

func TestReopenExisting(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewAdapter(&Config{IndexPath: dir, IndexName: "idx"})
	require.NoError(t, err)
	require.NoError(t, first.CreateIndex(ctx, nil))
	_, err = first.IndexBatch(ctx, testRecords(4))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewAdapter(&Config{IndexPath: dir, IndexName: "idx"})
	require.NoError(t, err)
	defer second.Close()

	exists, err := second.IndexExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	require.NoError(t, adapter.CreateIndex(ctx, nil))
	_, err := adapter.IndexBatch(ctx, testRecords(6))
	require.NoError(t, err)

	all, err := adapter.Search(ctx, "", nil, 100)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	garden, err := adapter.Search(ctx, "garden", nil, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-001", "doc-003", "doc-005"}, garden)

	filtered, err := adapter.Search(ctx, "", map[string]string{"cat": "electronics"}, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-000", "doc-002", "doc-004"}, filtered)
}

func TestIndexBatch_NullFields(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	require.NoError(t, adapter.CreateIndex(ctx, nil))

	records := testRecords(2)
	records[1].Category = nil
	records[1].OwnerEmail = nil

	result, err := adapter.IndexBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)

	filtered, err := adapter.Search(ctx, "", map[string]string{"cat": "electronics"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-000"}, filtered)
}

func TestInspector_NoIndex(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	var _ search.Inspector = adapter

	_, err := adapter.Count(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrIndexNotFound)

	_, err = adapter.Search(ctx, "x", nil, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrIndexNotFound)
}

func TestNewIndexMapping_UnsupportedType(t *testing.T) {
	_, err := newIndexMapping(&search.Schema{Fields: []search.Field{{Name: "geo", Type: "geo"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field type")
}
