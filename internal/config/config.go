// Package config describes a benchmarking study: the pipelines to compare
// and where each one's result files live.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Counter names accepted by the "counter" setting.
const (
	CounterNative   = "native"
	CounterBcftools = "bcftools"
)

// TruthID identifies the truth set when it is added to the matrix.
const TruthID = "TRUTH"

// FilterStep is a named intermediate VCF of a pipeline's filtering chain.
type FilterStep struct {
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	VCF  string `mapstructure:"vcf" yaml:"vcf" json:"vcf"`
}

// Pipeline is one mapper/workflow/caller configuration and its outputs.
// Any of the paths may be empty or point at files that do not exist yet.
type Pipeline struct {
	ID          string       `mapstructure:"id" yaml:"id" json:"id"`
	Name        string       `mapstructure:"name" yaml:"name" json:"name"`
	Mapper      string       `mapstructure:"mapper" yaml:"mapper,omitempty" json:"mapper,omitempty"`
	Workflow    string       `mapstructure:"workflow" yaml:"workflow,omitempty" json:"workflow,omitempty"`
	Caller      string       `mapstructure:"caller" yaml:"caller,omitempty" json:"caller,omitempty"`
	VCF         string       `mapstructure:"vcf" yaml:"vcf,omitempty" json:"vcf,omitempty"`
	MetricsDir  string       `mapstructure:"metrics_dir" yaml:"metrics_dir,omitempty" json:"metrics_dir,omitempty"`
	FilterSteps []FilterStep `mapstructure:"filter_steps" yaml:"filter_steps,omitempty" json:"filter_steps,omitempty"`
}

// Annotation joins the workflow and caller, e.g. "COSAP + MuTect2".
// Without either it falls back to the mapper.
func (p Pipeline) Annotation() string {
	var parts []string
	for _, s := range []string{p.Workflow, p.Caller} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return p.Mapper
	}
	return strings.Join(parts, " + ")
}

// Study is the full configuration of one comparison run.
type Study struct {
	Name         string     `mapstructure:"study" yaml:"study"`
	TruthVCF     string     `mapstructure:"truth_vcf" yaml:"truth_vcf,omitempty"`
	IncludeTruth bool       `mapstructure:"include_truth" yaml:"include_truth"`
	Counter      string     `mapstructure:"counter" yaml:"counter"`
	Bcftools     string     `mapstructure:"bcftools" yaml:"bcftools,omitempty"`
	MaxProcesses int        `mapstructure:"max_processes" yaml:"max_processes"`
	Workers      int        `mapstructure:"workers" yaml:"workers"`
	Order        []string   `mapstructure:"order" yaml:"order,omitempty"`
	Pipelines    []Pipeline `mapstructure:"pipelines" yaml:"pipelines"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("counter", CounterNative)
	v.SetDefault("max_processes", 4)
	v.SetDefault("workers", 0)
	v.SetDefault("include_truth", false)
}

// Load decodes the study held by v. Relative paths are resolved against
// the directory of the config file in use, if any.
func Load(v *viper.Viper) (*Study, error) {
	var s Study
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode study config: %w", err)
	}
	if cfg := v.ConfigFileUsed(); cfg != "" {
		s.ResolvePaths(filepath.Dir(cfg))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ResolvePaths makes every relative file path absolute against base.
func (s *Study) ResolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	s.TruthVCF = resolve(s.TruthVCF)
	for i := range s.Pipelines {
		p := &s.Pipelines[i]
		p.VCF = resolve(p.VCF)
		p.MetricsDir = resolve(p.MetricsDir)
		for j := range p.FilterSteps {
			p.FilterSteps[j].VCF = resolve(p.FilterSteps[j].VCF)
		}
	}
}

// Validate checks identifiers and settings. It does not look at the file
// system: missing result files are expected while pipelines are running.
func (s *Study) Validate() error {
	if len(s.Pipelines) == 0 {
		return fmt.Errorf("study %q: no pipelines configured", s.Name)
	}

	seen := make(map[string]bool, len(s.Pipelines))
	for i, p := range s.Pipelines {
		if p.ID == "" {
			return fmt.Errorf("pipeline #%d: missing id", i+1)
		}
		if s.IncludeTruth && p.ID == TruthID {
			return fmt.Errorf("pipeline %q: id is reserved for the truth set", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("pipeline %q: duplicate id", p.ID)
		}
		seen[p.ID] = true
	}

	ordered := make(map[string]bool, len(s.Order))
	for _, id := range s.Order {
		if !seen[id] {
			return fmt.Errorf("order: unknown pipeline %q", id)
		}
		if ordered[id] {
			return fmt.Errorf("order: pipeline %q listed twice", id)
		}
		ordered[id] = true
	}

	switch s.Counter {
	case "", CounterNative, CounterBcftools:
	default:
		return fmt.Errorf("counter: unknown value %q (want %s or %s)", s.Counter, CounterNative, CounterBcftools)
	}
	if s.MaxProcesses < 0 {
		return fmt.Errorf("max_processes: must not be negative, got %d", s.MaxProcesses)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", s.Workers)
	}
	if s.IncludeTruth && s.TruthVCF == "" {
		return fmt.Errorf("include_truth is set but truth_vcf is empty")
	}
	return nil
}

// Ordered returns the pipelines in display order: those named in Order
// first, in that order, then the rest in declaration order.
func (s *Study) Ordered() []Pipeline {
	byID := make(map[string]Pipeline, len(s.Pipelines))
	for _, p := range s.Pipelines {
		byID[p.ID] = p
	}

	out := make([]Pipeline, 0, len(s.Pipelines))
	used := make(map[string]bool, len(s.Order))
	for _, id := range s.Order {
		if p, ok := byID[id]; ok && !used[id] {
			out = append(out, p)
			used[id] = true
		}
	}
	for _, p := range s.Pipelines {
		if !used[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Pipeline returns the pipeline with the given ID.
func (s *Study) Pipeline(id string) (Pipeline, bool) {
	for _, p := range s.Pipelines {
		if p.ID == id {
			return p, true
		}
	}
	return Pipeline{}, false
}
