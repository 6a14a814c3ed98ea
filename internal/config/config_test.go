package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studyYAML = `
study: phase2
truth_vcf: truth/high-confidence.vcf.gz
order: [P2, P1]
pipelines:
  - id: P1
    name: BWA + COSAP + MuTect2
    mapper: BWA
    workflow: COSAP
    caller: MuTect2
    vcf: filtered/p1.vcf.gz
    metrics_dir: metrics/p1
    filter_steps:
      - name: Raw VCF
        vcf: raw/p1.vcf.gz
      - name: Final PASS
        vcf: /abs/p1.pass.vcf.gz
  - id: P2
    name: BWA + COSAP + Strelka2
    mapper: BWA
    workflow: COSAP
    caller: Strelka2
    vcf: filtered/p2.vcf.gz
  - id: P3
    name: Bowtie only
    mapper: Bowtie
`

func loadYAML(t *testing.T, content string) (*Study, string, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	s, err := Load(v)
	return s, dir, err
}

func TestLoad(t *testing.T) {
	s, dir, err := loadYAML(t, studyYAML)
	require.NoError(t, err)

	assert.Equal(t, "phase2", s.Name)
	assert.Equal(t, CounterNative, s.Counter)
	assert.Equal(t, 4, s.MaxProcesses)
	assert.Equal(t, filepath.Join(dir, "truth/high-confidence.vcf.gz"), s.TruthVCF)
	require.Len(t, s.Pipelines, 3)

	p1 := s.Pipelines[0]
	assert.Equal(t, "P1", p1.ID, "pipeline IDs keep their case")
	assert.Equal(t, filepath.Join(dir, "filtered/p1.vcf.gz"), p1.VCF)
	assert.Equal(t, filepath.Join(dir, "metrics/p1"), p1.MetricsDir)
	require.Len(t, p1.FilterSteps, 2)
	assert.Equal(t, "Raw VCF", p1.FilterSteps[0].Name)
	assert.Equal(t, filepath.Join(dir, "raw/p1.vcf.gz"), p1.FilterSteps[0].VCF)
	assert.Equal(t, "/abs/p1.pass.vcf.gz", p1.FilterSteps[1].VCF)

	assert.Empty(t, s.Pipelines[1].MetricsDir)
}

func TestStudy_Ordered(t *testing.T) {
	s, _, err := loadYAML(t, studyYAML)
	require.NoError(t, err)

	var ids []string
	for _, p := range s.Ordered() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P2", "P1", "P3"}, ids)
}

func TestPipeline_Annotation(t *testing.T) {
	tests := []struct {
		p    Pipeline
		want string
	}{
		{Pipeline{Mapper: "BWA", Workflow: "COSAP", Caller: "MuTect2"}, "COSAP + MuTect2"},
		{Pipeline{Caller: "DeepVariant"}, "DeepVariant"},
		{Pipeline{Mapper: "Bowtie"}, "Bowtie"},
		{Pipeline{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.Annotation())
	}
}

func TestStudy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		study   Study
		wantErr string
	}{
		{"no pipelines", Study{}, "no pipelines"},
		{"missing id", Study{Pipelines: []Pipeline{{Name: "x"}}}, "missing id"},
		{"duplicate id", Study{Pipelines: []Pipeline{{ID: "P1"}, {ID: "P1"}}}, "duplicate id"},
		{"unknown order", Study{Order: []string{"P9"}, Pipelines: []Pipeline{{ID: "P1"}}}, "unknown pipeline"},
		{"repeated order", Study{Order: []string{"P1", "P1"}, Pipelines: []Pipeline{{ID: "P1"}}}, "listed twice"},
		{"bad counter", Study{Counter: "wc", Pipelines: []Pipeline{{ID: "P1"}}}, "counter"},
		{"truth without path", Study{IncludeTruth: true, Pipelines: []Pipeline{{ID: "P1"}}}, "truth_vcf"},
		{"negative workers", Study{Workers: -1, Pipelines: []Pipeline{{ID: "P1"}}}, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.study.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidStudy(t *testing.T) {
	_, _, err := loadYAML(t, "study: empty\npipelines: []\n")
	assert.Error(t, err)
}

func TestStudy_Pipeline(t *testing.T) {
	s := Study{Pipelines: []Pipeline{{ID: "P1", Name: "one"}}}
	p, ok := s.Pipeline("P1")
	assert.True(t, ok)
	assert.Equal(t, "one", p.Name)
	_, ok = s.Pipeline("P2")
	assert.False(t, ok)
}

func TestLoad_Presets(t *testing.T) {
	tests := []struct {
		file      string
		pipelines int
		first     string
		label     string
	}{
		{"phase1.yaml", 4, "P1", "COSAP + HaplotypeCaller"},
		{"phase2.yaml", 8, "P6", "COSAP + Strelka2"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path, err := filepath.Abs(filepath.Join("..", "..", "configs", tt.file))
			require.NoError(t, err)

			v := viper.New()
			SetDefaults(v)
			v.SetConfigFile(path)
			require.NoError(t, v.ReadInConfig())

			s, err := Load(v)
			require.NoError(t, err)
			assert.Len(t, s.Pipelines, tt.pipelines)

			ordered := s.Ordered()
			assert.Equal(t, tt.first, ordered[0].ID)
			assert.Equal(t, tt.label, ordered[0].Annotation())
			assert.True(t, filepath.IsAbs(s.TruthVCF))
			for _, p := range s.Pipelines {
				assert.Len(t, p.FilterSteps, 5, p.ID)
				assert.Equal(t, p.VCF, p.FilterSteps[4].VCF, "last step is the final call set")
			}
		})
	}
}
