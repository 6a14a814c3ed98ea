// Package report reads every pipeline of a study and assembles the
// numbers handed to the output layer: labels, the similarity matrix,
// confusion counts and filtering-step counts.
package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/config"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

// Parts selects which sections of a report are computed.
type Parts uint8

const (
	PartSimilarity Parts = 1 << iota
	PartConfusion
	PartSteps

	PartAll = PartSimilarity | PartConfusion | PartSteps
)

// Has reports whether p includes every bit of q.
func (p Parts) Has(q Parts) bool {
	return p&q == q
}

// StepCount is the number of records left after one filtering step.
type StepCount struct {
	Pipeline string        `json:"pipeline"`
	Step     string        `json:"step"`
	Path     string        `json:"path"`
	Count    metrics.Count `json:"count"`
}

// SetInfo describes one VariantSet that went into the matrix.
type SetInfo struct {
	Pipeline  string     `json:"pipeline"`
	Path      string     `json:"path"`
	Status    vcf.Status `json:"status"`
	Variants  int        `json:"variants"`
	SNVs      int        `json:"snvs"`
	Indels    int        `json:"indels"`
	Malformed int        `json:"malformed"`
}

func newSetInfo(s vcf.VariantSet) SetInfo {
	snvs, indels := s.TypeCounts()
	return SetInfo{
		Pipeline:  s.Pipeline,
		Path:      s.Path,
		Status:    s.Status,
		Variants:  s.Len(),
		SNVs:      snvs,
		Indels:    indels,
		Malformed: s.Malformed,
	}
}

// Report is the result of one run over a study. Slices follow the
// study's display order. Agreement summarizes the pairwise Jaccard
// values and is nil when fewer than two sets were compared.
type Report struct {
	Study      string                    `json:"study"`
	Parts      Parts                     `json:"-"`
	Sets       []SetInfo                 `json:"sets,omitempty"`
	Similarity *compare.SimilarityMatrix `json:"-"`
	Agreement  *metrics.Stat             `json:"agreement,omitempty"`
	Confusion  []metrics.ConfusionCounts `json:"confusion,omitempty"`
	Summary    metrics.Summary           `json:"summary"`
	Steps      []StepCount               `json:"steps,omitempty"`
}

// Builder runs the per-pipeline reads of a report concurrently.
type Builder struct {
	reader  *vcf.Reader
	agg     *metrics.Aggregator
	workers int
	logger  *zap.Logger
}

// NewBuilder creates a builder that counts partition and step files with
// counter (nil means the in-process counter).
func NewBuilder(counter vcf.Counter) *Builder {
	return &Builder{
		reader: vcf.NewReader(),
		agg:    metrics.NewAggregator(counter),
		logger: zap.NewNop(),
	}
}

// SetWorkers sets the number of pipelines processed at once (0 = NumCPU).
func (b *Builder) SetWorkers(n int) {
	b.workers = n
}

// SetLogger sets the logger for the builder and the readers it drives.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
	b.reader.SetLogger(l)
	b.agg.SetLogger(l)
}

// CounterFor returns the record counter selected by the study.
func CounterFor(s *config.Study) vcf.Counter {
	if s.Counter == config.CounterBcftools {
		return vcf.NewBcftoolsCounter(s.Bcftools, s.MaxProcesses)
	}
	return vcf.LineCounter{}
}

// TruthPipeline wraps the truth VCF as a pseudo-pipeline for the matrix.
func TruthPipeline(path string) config.Pipeline {
	return config.Pipeline{ID: config.TruthID, Name: "Truth set", VCF: path}
}

// Build reads the study and assembles the requested parts. Missing or
// unreadable inputs never fail the build; they show up as empty sets and
// unavailable counts. Only a cancelled context or a programming error is
// returned.
func (b *Builder) Build(ctx context.Context, study *config.Study, parts Parts) (*Report, error) {
	pipelines := study.Ordered()

	items := make(chan WorkItem, len(pipelines)+1)
	n := 0
	for _, p := range pipelines {
		items <- WorkItem{Seq: n, Pipeline: p}
		n++
	}
	if study.IncludeTruth && parts.Has(PartSimilarity) {
		items <- WorkItem{Seq: n, Pipeline: TruthPipeline(study.TruthVCF), Truth: true}
		n++
	}
	close(items)

	b.logger.Info("building report",
		zap.String("study", study.Name),
		zap.Int("pipelines", len(pipelines)),
		zap.Bool("truth", study.IncludeTruth))

	results := Collect(b.Parallel(ctx, items, parts, b.workers), n)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{Study: study.Name, Parts: parts}
	var labels []compare.Label
	var sets []vcf.VariantSet
	for _, r := range results {
		if parts.Has(PartSimilarity) {
			labels = append(labels, labelFor(r))
			sets = append(sets, r.Set)
			rep.Sets = append(rep.Sets, newSetInfo(r.Set))
			b.logger.Info("read variants",
				zap.String("pipeline", r.Pipeline.ID),
				zap.Int("variants", r.Set.Len()),
				zap.Stringer("status", r.Set.Status))
		}
		if r.Truth {
			continue
		}
		if parts.Has(PartConfusion) {
			rep.Confusion = append(rep.Confusion, r.Confusion)
		}
		if parts.Has(PartSteps) {
			rep.Steps = append(rep.Steps, r.Steps...)
		}
	}

	if parts.Has(PartSimilarity) {
		m, err := compare.NewSimilarityMatrix(labels, sets)
		if err != nil {
			return nil, fmt.Errorf("build similarity matrix: %w", err)
		}
		rep.Similarity = m
		if m.Len() > 1 {
			st := metrics.Describe(m.OffDiagonal())
			rep.Agreement = &st
		}
	}
	if parts.Has(PartConfusion) {
		rep.Summary = metrics.Summarize(rep.Confusion)
	}
	return rep, nil
}

// process does all reads for one work item.
func (b *Builder) process(ctx context.Context, item WorkItem, parts Parts) WorkResult {
	p := item.Pipeline
	r := WorkResult{Seq: item.Seq, Pipeline: p, Truth: item.Truth}
	if ctx.Err() != nil {
		return r
	}

	if parts.Has(PartSimilarity) {
		r.Set = b.reader.Read(p.ID, p.VCF)
	}
	if item.Truth {
		return r
	}
	if parts.Has(PartConfusion) {
		r.Confusion = b.agg.Confusion(ctx, p.ID, p.MetricsDir)
	}
	if parts.Has(PartSteps) {
		for _, step := range p.FilterSteps {
			r.Steps = append(r.Steps, StepCount{
				Pipeline: p.ID,
				Step:     step.Name,
				Path:     step.VCF,
				Count:    b.agg.CountFile(ctx, step.VCF),
			})
		}
	}
	return r
}

func labelFor(r WorkResult) compare.Label {
	annotation := r.Pipeline.Annotation()
	if r.Truth {
		annotation = "truth"
	}
	return compare.Label{
		ID:         r.Pipeline.ID,
		Name:       r.Pipeline.Name,
		Annotation: annotation,
	}
}
