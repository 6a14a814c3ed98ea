package output

import (
	"encoding/json"
	"io"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

type jsonMatrix struct {
	Labels []compare.Label `json:"labels"`
	Values [][]float64     `json:"values"`
	Pairs  []compare.Pair  `json:"pairs"`
}

type jsonReport struct {
	*report.Report
	RunID      string      `json:"run_id,omitempty"`
	Similarity *jsonMatrix `json:"similarity,omitempty"`
}

// WriteJSON writes the whole report as one indented JSON document.
func WriteJSON(w io.Writer, rep *report.Report, runID string) error {
	doc := jsonReport{Report: rep, RunID: runID}
	if m := rep.Similarity; m != nil {
		jm := &jsonMatrix{
			Labels: m.Labels,
			Values: make([][]float64, m.Len()),
			Pairs:  m.Pairs(),
		}
		for i := range jm.Values {
			jm.Values[i] = m.Row(i)
		}
		doc.Similarity = jm
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
