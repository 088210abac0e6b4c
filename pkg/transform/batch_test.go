package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatches(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{name: "empty", n: 0, size: 1000, wantSizes: nil},
		{name: "single partial", n: 1, size: 1000, wantSizes: []int{1}},
		{name: "exact multiple", n: 2000, size: 1000, wantSizes: []int{1000, 1000}},
		{name: "2500 documents", n: 2500, size: 1000, wantSizes: []int{1000, 1000, 500}},
		{name: "one over", n: 1001, size: 1000, wantSizes: []int{1000, 1}},
		{name: "non-positive size", n: 5, size: 0, wantSizes: []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			batches := Batches(items, tt.size)

			var sizes []int
			var rebuilt []int
			for _, b := range batches {
				sizes = append(sizes, len(b))
				rebuilt = append(rebuilt, b...)
			}
			assert.Equal(t, tt.wantSizes, sizes)

			if tt.n > 0 {
				require.Equal(t, items, rebuilt, "concatenated batches reconstruct the input")
			}
			if tt.size > 0 {
				assert.Len(t, batches, (tt.n+tt.size-1)/tt.size)
			}
		})
	}
}

func TestBatches_AppendDoesNotOverwriteNextBatch(t *testing.T) {
	items := []int{1, 2, 3, 4}
	batches := Batches(items, 2)
	require.Len(t, batches, 2)

	_ = append(batches[0], 99)
	assert.Equal(t, []int{3, 4}, batches[1])
}
