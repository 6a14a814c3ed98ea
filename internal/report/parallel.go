package report

import (
	"context"
	"runtime"
	"sync"

	"github.com/mss1091/variant-calling-benchmark/internal/config"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

// WorkItem is one pipeline queued for reading.
type WorkItem struct {
	Seq      int
	Pipeline config.Pipeline
	Truth    bool // the truth set: read its VCF only
}

// WorkResult holds everything read for a single pipeline.
type WorkResult struct {
	Seq       int
	Pipeline  config.Pipeline
	Truth     bool
	Set       vcf.VariantSet
	Confusion metrics.ConfusionCounts
	Steps     []StepCount
}

// Parallel reads work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use Collect to put them back in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (b *Builder) Parallel(ctx context.Context, items <-chan WorkItem, parts Parts, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- b.process(ctx, item, parts)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Collect drains results into a slice indexed by sequence number.
// n is the number of items that were queued.
func Collect(results <-chan WorkResult, n int) []WorkResult {
	out := make([]WorkResult, n)
	for r := range results {
		if r.Seq >= 0 && r.Seq < n {
			out[r.Seq] = r
		}
	}
	return out
}
