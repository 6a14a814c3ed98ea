package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testReport(t *testing.T) *report.Report {
	t.Helper()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "p1.vcf")
	require.NoError(t, os.WriteFile(p1, []byte("chr1\t1\t.\tA\tT\n"), 0o644))

	k := func(pos int64) vcf.VariantKey { return vcf.VariantKey{Chrom: "chr1", Pos: pos, Ref: "A", Alt: "T"} }
	m, err := compare.NewSimilarityMatrix(
		[]compare.Label{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}},
		[]vcf.VariantSet{
			vcf.NewVariantSet("P1", k(1), k(2)),
			vcf.NewVariantSet("P2", k(2)),
			vcf.NewVariantSet("P3"),
		})
	require.NoError(t, err)

	read := func(n int) metrics.Count { return metrics.Count{N: n, Status: vcf.StatusRead} }
	missing := metrics.Count{Status: vcf.StatusMissing}
	return &report.Report{
		Study:      "phase2",
		Parts:      report.PartAll,
		Similarity: m,
		Sets: []report.SetInfo{
			{Pipeline: "P1", Path: p1, Status: vcf.StatusRead, Variants: 2},
			{Pipeline: "P2", Path: filepath.Join(dir, "gone.vcf"), Status: vcf.StatusRead, Variants: 1},
			{Pipeline: "P3", Path: filepath.Join(dir, "p3.vcf"), Status: vcf.StatusMissing},
		},
		Confusion: []metrics.ConfusionCounts{
			metrics.NewConfusionCounts("P1", read(1433), read(0), read(153)),
			metrics.NewConfusionCounts("P2", missing, missing, missing),
		},
		Steps: []report.StepCount{
			{Pipeline: "P1", Step: "Raw VCF", Path: p1, Count: read(1)},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "runs.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestWriteReport(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	rep := testReport(t)

	runID := NewRunID()
	require.NoError(t, s.WriteReport(ctx, runID, rep))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "phase2", runs[0].Study)
	assert.Equal(t, int64(3), runs[0].Pipelines)

	pairs, err := s.Similarity(ctx, runID)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, compare.Pair{A: "P1", B: "P2", Jaccard: 0.5}, pairs[0])
	assert.Equal(t, compare.Pair{A: "P2", B: "P3", Jaccard: 0}, pairs[2])

	n, err := s.CountRows(ctx, "similarity", runID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n, "upper triangle with diagonal")

	conf, err := s.Confusion(ctx, runID)
	require.NoError(t, err)
	require.Len(t, conf, 2)
	assert.Equal(t, int64(1433), conf[0].TP)
	assert.Equal(t, int64(153), conf[0].FN)
	assert.Equal(t, "read", conf[0].TPStatus)
	assert.InDelta(t, 1433.0/1586.0, conf[0].Recall, 1e-12)
	assert.Equal(t, "missing", conf[1].FNStatus)

	n, err = s.CountRows(ctx, "step_counts", runID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// p1.vcf as calls and as a step; the vanished and missing files are skipped.
	n, err = s.CountRows(ctx, "inputs", runID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWriteReport_TwoRuns(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	rep := testReport(t)

	first, second := NewRunID(), NewRunID()
	assert.NotEqual(t, first, second)
	require.NoError(t, s.WriteReport(ctx, first, rep))
	require.NoError(t, s.WriteReport(ctx, second, rep))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	n, err := s.CountRows(ctx, "confusion", second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWriteReport_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	rep := testReport(t)

	require.NoError(t, s.WriteReport(ctx, "run", rep))
	assert.Error(t, s.WriteReport(ctx, "run", rep))
}

func TestWriteReport_MetricsOnly(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	rep := testReport(t)
	rep.Similarity = nil
	rep.Sets = nil
	rep.Steps = nil

	require.NoError(t, s.WriteReport(ctx, "metrics", rep))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].Pipelines)

	pairs, err := s.Similarity(ctx, "metrics")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestCountRows_UnknownTable(t *testing.T) {
	s := openInMemory(t)
	_, err := s.CountRows(context.Background(), "variant_results", "x")
	assert.Error(t, err)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.vcf")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	_, err = StatFile(path + ".missing")
	assert.Error(t, err)
}
