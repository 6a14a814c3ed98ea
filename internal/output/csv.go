package output

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

type pairRow struct {
	A       string `csv:"pipeline_a"`
	B       string `csv:"pipeline_b"`
	Jaccard string `csv:"jaccard"`
}

type metricsRow struct {
	Pipeline  string `csv:"pipeline"`
	TP        string `csv:"tp"`
	FP        string `csv:"fp"`
	FN        string `csv:"fn"`
	Precision string `csv:"precision"`
	Recall    string `csv:"recall"`
	F1        string `csv:"f1"`
}

type stepRow struct {
	Pipeline string `csv:"pipeline"`
	Step     string `csv:"step"`
	Count    string `csv:"count"`
	Path     string `csv:"path"`
}

type setRow struct {
	Pipeline  string `csv:"pipeline"`
	Status    string `csv:"status"`
	Variants  int    `csv:"variants"`
	SNVs      int    `csv:"snvs"`
	Indels    int    `csv:"indels"`
	Malformed int    `csv:"malformed"`
	Path      string `csv:"path"`
}

// WritePairsCSV writes the matrix in long form, one row per unordered
// pair, diagonal included. Values keep full precision.
func WritePairsCSV(w io.Writer, m *compare.SimilarityMatrix) error {
	var rows []*pairRow
	for i := 0; i < m.Len(); i++ {
		for j := i; j < m.Len(); j++ {
			rows = append(rows, &pairRow{
				A:       m.Labels[i].ID,
				B:       m.Labels[j].ID,
				Jaccard: strconv.FormatFloat(m.At(i, j), 'f', -1, 64),
			})
		}
	}
	return gocsv.Marshal(rows, w)
}

// WriteMetricsCSV writes one row per pipeline. Unavailable values are NA.
func WriteMetricsCSV(w io.Writer, counts []metrics.ConfusionCounts) error {
	rows := make([]*metricsRow, 0, len(counts))
	for _, c := range counts {
		r := &metricsRow{
			Pipeline:  c.Pipeline,
			TP:        c.TP.String(),
			FP:        c.FP.String(),
			FN:        c.FN.String(),
			Precision: NA,
			Recall:    NA,
			F1:        NA,
		}
		if c.TP.Available() {
			r.Precision = strconv.FormatFloat(c.Precision, 'f', -1, 64)
			r.Recall = strconv.FormatFloat(c.Recall, 'f', -1, 64)
			r.F1 = strconv.FormatFloat(c.F1, 'f', -1, 64)
		}
		rows = append(rows, r)
	}
	return gocsv.Marshal(rows, w)
}

// WriteStepsCSV writes step counts in long form.
func WriteStepsCSV(w io.Writer, steps []report.StepCount) error {
	rows := make([]*stepRow, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, &stepRow{
			Pipeline: s.Pipeline,
			Step:     s.Step,
			Count:    s.Count.String(),
			Path:     s.Path,
		})
	}
	return gocsv.Marshal(rows, w)
}

// WriteSetsCSV writes one row per variant set.
func WriteSetsCSV(w io.Writer, sets []report.SetInfo) error {
	rows := make([]*setRow, 0, len(sets))
	for _, s := range sets {
		rows = append(rows, &setRow{
			Pipeline:  s.Pipeline,
			Status:    s.Status.String(),
			Variants:  s.Variants,
			SNVs:      s.SNVs,
			Indels:    s.Indels,
			Malformed: s.Malformed,
			Path:      s.Path,
		})
	}
	return gocsv.Marshal(rows, w)
}
