package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss1091/variant-calling-benchmark/internal/config"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		ch <- WorkItem{
			Seq:      i,
			Pipeline: config.Pipeline{ID: fmt.Sprintf("P%d", i)},
		}
	}
	close(ch)
	return ch
}

func TestParallel_OrderPreservation(t *testing.T) {
	b := NewBuilder(nil)

	results := Collect(b.Parallel(context.Background(), makeItems(200), PartAll, 8), 200)

	require.Len(t, results, 200)
	for i, r := range results {
		assert.Equal(t, i, r.Seq, "result %d out of order", i)
		assert.Equal(t, fmt.Sprintf("P%d", i), r.Pipeline.ID)
		assert.Equal(t, vcf.StatusMissing, r.Set.Status)
	}
}

func TestParallel_SingleWorker(t *testing.T) {
	b := NewBuilder(nil)

	results := Collect(b.Parallel(context.Background(), makeItems(50), PartSimilarity, 1), 50)
	assert.Len(t, results, 50)
	assert.Equal(t, "P49", results[49].Pipeline.ID)
}

func TestParallel_DefaultWorkers(t *testing.T) {
	b := NewBuilder(nil)

	results := Collect(b.Parallel(context.Background(), makeItems(10), PartConfusion, 0), 10)
	for _, r := range results {
		assert.False(t, r.Confusion.Available())
	}
}

func TestParallel_Empty(t *testing.T) {
	b := NewBuilder(nil)

	results := Collect(b.Parallel(context.Background(), makeItems(0), PartAll, 4), 0)
	assert.Empty(t, results)
}
