package metrics

import (
	"github.com/montanaflynn/stats"
)

// Stat summarizes one metric across pipelines.
type Stat struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary describes the metrics of all pipelines in a report. Only
// pipelines whose three partitions were counted contribute.
type Summary struct {
	Pipelines int  `json:"pipelines"`
	Available int  `json:"available"`
	Precision Stat `json:"precision"`
	Recall    Stat `json:"recall"`
	F1        Stat `json:"f1"`
}

// Summarize computes per-metric statistics over counts.
func Summarize(counts []ConfusionCounts) Summary {
	var precision, recall, f1 []float64
	for _, c := range counts {
		if !c.Available() {
			continue
		}
		precision = append(precision, c.Precision)
		recall = append(recall, c.Recall)
		f1 = append(f1, c.F1)
	}
	return Summary{
		Pipelines: len(counts),
		Available: len(f1),
		Precision: Describe(precision),
		Recall:    Describe(recall),
		F1:        Describe(f1),
	}
}

// Describe returns mean, median, min and max of vals; zero for no values.
func Describe(vals []float64) Stat {
	if len(vals) == 0 {
		return Stat{}
	}
	data := stats.Float64Data(vals)
	var s Stat
	s.Mean, _ = stats.Mean(data)
	s.Median, _ = stats.Median(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	return s
}
