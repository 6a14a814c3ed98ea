// Package output writes benchmark reports as tab-delimited text, CSV or JSON.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

const (
	// DefaultPrecision is the number of decimals for similarity values.
	DefaultPrecision = 4
	// MetricsPrecision is the number of decimals for precision, recall and F1.
	MetricsPrecision = 2
)

// NA marks a value that could not be computed.
const NA = "NA"

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// MatrixWriter writes a similarity matrix in tab-delimited format.
type MatrixWriter struct {
	w         *bufio.Writer
	precision int
}

// NewMatrixWriter creates a matrix writer. A precision <= 0 selects
// DefaultPrecision.
func NewMatrixWriter(w io.Writer, precision int) *MatrixWriter {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return &MatrixWriter{w: bufio.NewWriter(w), precision: precision}
}

// Write writes the header row of labels followed by one row per pipeline.
func (mw *MatrixWriter) Write(m *compare.SimilarityMatrix) error {
	header := make([]string, 0, m.Len()+1)
	header = append(header, "Pipeline")
	for _, l := range m.Labels {
		header = append(header, l.String())
	}
	if _, err := mw.w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	for i, l := range m.Labels {
		values := make([]string, 0, m.Len()+1)
		values = append(values, l.String())
		for _, v := range m.Row(i) {
			values = append(values, formatFloat(v, mw.precision))
		}
		if _, err := mw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MatrixWriter) Flush() error {
	return mw.w.Flush()
}

// MetricsWriter writes confusion counts and derived metrics.
type MetricsWriter struct {
	w         *bufio.Writer
	precision int
	columns   []string
}

// NewMetricsWriter creates a metrics writer. A precision <= 0 selects
// MetricsPrecision.
func NewMetricsWriter(w io.Writer, precision int) *MetricsWriter {
	if precision <= 0 {
		precision = MetricsPrecision
	}
	return &MetricsWriter{
		w:         bufio.NewWriter(w),
		precision: precision,
		columns:   []string{"Pipeline", "TP", "FP", "FN", "Precision", "Recall", "F1"},
	}
}

// WriteHeader writes the header line.
func (mw *MetricsWriter) WriteHeader() error {
	_, err := mw.w.WriteString(strings.Join(mw.columns, "\t") + "\n")
	return err
}

// Write writes one pipeline. Counts from absent or unreadable partitions
// print as NA. Without a TP count the ratios print as NA too.
func (mw *MetricsWriter) Write(c metrics.ConfusionCounts) error {
	ratios := []string{NA, NA, NA}
	if c.TP.Available() {
		ratios = []string{
			formatFloat(c.Precision, mw.precision),
			formatFloat(c.Recall, mw.precision),
			formatFloat(c.F1, mw.precision),
		}
	}
	values := append([]string{c.Pipeline, c.TP.String(), c.FP.String(), c.FN.String()}, ratios...)
	_, err := mw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MetricsWriter) Flush() error {
	return mw.w.Flush()
}

// WriteSummary writes mean, median, min and max of each metric.
func WriteSummary(w io.Writer, s metrics.Summary, precision int) error {
	if precision <= 0 {
		precision = MetricsPrecision
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Metric\tMean\tMedian\tMin\tMax\n")
	rows := []struct {
		name string
		stat metrics.Stat
	}{
		{"Precision", s.Precision},
		{"Recall", s.Recall},
		{"F1", s.F1},
	}
	for _, r := range rows {
		if s.Available == 0 {
			fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\n", r.name, NA, NA, NA, NA)
			continue
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\n", r.name,
			formatFloat(r.stat.Mean, precision),
			formatFloat(r.stat.Median, precision),
			formatFloat(r.stat.Min, precision),
			formatFloat(r.stat.Max, precision))
	}
	return bw.Flush()
}

// StepWriter writes filtering-step counts pivoted to one row per pipeline
// and one column per step.
type StepWriter struct {
	w *bufio.Writer
}

// NewStepWriter creates a step count writer.
func NewStepWriter(w io.Writer) *StepWriter {
	return &StepWriter{w: bufio.NewWriter(w)}
}

// Write writes the pivot table. Steps and pipelines keep the order in
// which they first appear; a pipeline without a given step shows "-".
func (sw *StepWriter) Write(steps []report.StepCount) error {
	var pipelines, names []string
	cells := make(map[string]map[string]string)
	for _, s := range steps {
		row, ok := cells[s.Pipeline]
		if !ok {
			row = make(map[string]string)
			cells[s.Pipeline] = row
			pipelines = append(pipelines, s.Pipeline)
		}
		if !containsString(names, s.Step) {
			names = append(names, s.Step)
		}
		row[s.Step] = s.Count.String()
	}

	header := append([]string{"Pipeline"}, names...)
	if _, err := sw.w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}
	for _, p := range pipelines {
		values := []string{p}
		for _, name := range names {
			v, ok := cells[p][name]
			if !ok {
				v = "-"
			}
			values = append(values, v)
		}
		if _, err := sw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (sw *StepWriter) Flush() error {
	return sw.w.Flush()
}

// WriteSets writes one line per variant set that went into the matrix.
func WriteSets(w io.Writer, sets []report.SetInfo) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Pipeline\tStatus\tVariants\tSNVs\tIndels\tMalformed\tPath\n")
	for _, s := range sets {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Pipeline, s.Status, s.Variants, s.SNVs, s.Indels, s.Malformed, s.Path)
	}
	return bw.Flush()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
