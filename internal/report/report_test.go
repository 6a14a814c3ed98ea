package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss1091/variant-calling-benchmark/internal/config"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

func writeVCF(t *testing.T, path string, positions ...int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var b strings.Builder
	b.WriteString("##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\n")
	for _, p := range positions {
		fmt.Fprintf(&b, "chr1\t%d\t.\tA\tT\n", p)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func records(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// testStudy lays out three pipelines: P1 complete, P2 without a metrics
// directory, P3 with nothing on disk.
func testStudy(t *testing.T) *config.Study {
	t.Helper()
	dir := t.TempDir()

	writeVCF(t, filepath.Join(dir, "p1.vcf"), 1, 2, 3, 4)
	writeVCF(t, filepath.Join(dir, "p2.vcf"), 3, 4, 5)
	writeVCF(t, filepath.Join(dir, "truth.vcf"), 1, 2, 3, 4, 5, 6)

	m1 := filepath.Join(dir, "metrics", "p1")
	writeVCF(t, filepath.Join(m1, metrics.TruePositiveFile), records(4)...)
	writeVCF(t, filepath.Join(m1, metrics.FalsePositiveFile))
	writeVCF(t, filepath.Join(m1, metrics.FalseNegativeFile), records(2)...)

	writeVCF(t, filepath.Join(dir, "steps", "p1.raw.vcf"), records(10)...)

	s := &config.Study{
		Name:     "test",
		TruthVCF: filepath.Join(dir, "truth.vcf"),
		Order:    []string{"P2", "P1"},
		Pipelines: []config.Pipeline{
			{
				ID: "P1", Name: "BWA + COSAP + MuTect2", Workflow: "COSAP", Caller: "MuTect2",
				VCF:        filepath.Join(dir, "p1.vcf"),
				MetricsDir: m1,
				FilterSteps: []config.FilterStep{
					{Name: "Raw VCF", VCF: filepath.Join(dir, "steps", "p1.raw.vcf")},
					{Name: "Final PASS", VCF: filepath.Join(dir, "p1.vcf")},
				},
			},
			{ID: "P2", Workflow: "Sarek", Caller: "Strelka2", VCF: filepath.Join(dir, "p2.vcf")},
			{ID: "P3", VCF: filepath.Join(dir, "absent.vcf.gz"), MetricsDir: filepath.Join(dir, "metrics", "p3")},
		},
	}
	require.NoError(t, s.Validate())
	return s
}

func TestBuild_All(t *testing.T) {
	s := testStudy(t)
	b := NewBuilder(nil)
	b.SetWorkers(2)

	rep, err := b.Build(context.Background(), s, PartAll)
	require.NoError(t, err)
	assert.Equal(t, "test", rep.Study)

	// Display order: P2, P1, then P3.
	m := rep.Similarity
	require.NotNil(t, m)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, "P2", m.Labels[0].ID)
	assert.Equal(t, "Sarek + Strelka2", m.Labels[0].Annotation)
	assert.Equal(t, "P1", m.Labels[1].ID)
	assert.Equal(t, "P3", m.Labels[2].ID)

	v, ok := m.Lookup("P1", "P2")
	require.True(t, ok)
	assert.InDelta(t, 0.4, v, 1e-12)
	assert.Equal(t, 1.0, m.At(2, 2), "empty set is identical to itself")
	assert.Equal(t, 0.0, m.At(0, 2))

	// Pairs: P2-P1 0.4, P2-P3 0, P1-P3 0.
	require.NotNil(t, rep.Agreement)
	assert.InDelta(t, 0.4/3, rep.Agreement.Mean, 1e-12)
	assert.Equal(t, 0.0, rep.Agreement.Median)
	assert.Equal(t, 0.0, rep.Agreement.Min)
	assert.InDelta(t, 0.4, rep.Agreement.Max, 1e-12)

	require.Len(t, rep.Sets, 3)
	assert.Equal(t, vcf.StatusMissing, rep.Sets[2].Status)
	assert.Equal(t, 4, rep.Sets[1].Variants)
	assert.Equal(t, 4, rep.Sets[1].SNVs)

	require.Len(t, rep.Confusion, 3)
	p1 := rep.Confusion[1]
	assert.Equal(t, "P1", p1.Pipeline)
	assert.Equal(t, 4, p1.TP.N)
	assert.Equal(t, 0, p1.FP.N)
	assert.Equal(t, 2, p1.FN.N)
	assert.Equal(t, 1.0, p1.Precision)
	assert.InDelta(t, 4.0/6.0, p1.Recall, 1e-12)
	assert.False(t, rep.Confusion[0].Available(), "P2 has no metrics dir")
	assert.False(t, rep.Confusion[2].Available(), "P3 metrics dir is absent")
	assert.Equal(t, 1, rep.Summary.Available)

	require.Len(t, rep.Steps, 2)
	assert.Equal(t, StepCount{
		Pipeline: "P1", Step: "Raw VCF", Path: s.Pipelines[0].FilterSteps[0].VCF,
		Count: metrics.Count{N: 10, Status: vcf.StatusRead},
	}, rep.Steps[0])
	assert.Equal(t, 4, rep.Steps[1].Count.N)
}

func TestBuild_SimilarityOnly(t *testing.T) {
	s := testStudy(t)
	rep, err := NewBuilder(nil).Build(context.Background(), s, PartSimilarity)
	require.NoError(t, err)

	assert.NotNil(t, rep.Similarity)
	assert.Empty(t, rep.Confusion)
	assert.Empty(t, rep.Steps)
}

func TestBuild_ConfusionOnly(t *testing.T) {
	s := testStudy(t)
	rep, err := NewBuilder(nil).Build(context.Background(), s, PartConfusion)
	require.NoError(t, err)

	assert.Nil(t, rep.Similarity)
	assert.Nil(t, rep.Agreement)
	assert.Len(t, rep.Confusion, 3)
	assert.Empty(t, rep.Sets)
}

func TestBuild_IncludeTruth(t *testing.T) {
	s := testStudy(t)
	s.IncludeTruth = true

	rep, err := NewBuilder(nil).Build(context.Background(), s, PartAll)
	require.NoError(t, err)

	m := rep.Similarity
	require.Equal(t, 4, m.Len())
	assert.Equal(t, config.TruthID, m.Labels[3].ID)
	assert.Equal(t, "truth", m.Labels[3].Annotation)
	v, ok := m.Lookup("P1", config.TruthID)
	require.True(t, ok)
	assert.InDelta(t, 4.0/6.0, v, 1e-12)
	assert.Len(t, rep.Confusion, 3, "truth set has no confusion row")
}

func TestBuild_CancelledContext(t *testing.T) {
	s := testStudy(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(nil).Build(ctx, s, PartAll)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParts_Has(t *testing.T) {
	assert.True(t, PartAll.Has(PartSteps))
	assert.True(t, PartAll.Has(PartSimilarity|PartConfusion))
	assert.False(t, PartSimilarity.Has(PartConfusion))
}

func TestCounterFor(t *testing.T) {
	assert.IsType(t, vcf.LineCounter{}, CounterFor(&config.Study{}))
	assert.IsType(t, &vcf.BcftoolsCounter{}, CounterFor(&config.Study{Counter: config.CounterBcftools}))
}
