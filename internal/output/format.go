package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

// Format is an output encoding.
type Format string

const (
	FormatTab  Format = "tab"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTab, FormatCSV, FormatJSON:
		return f, nil
	case "tsv":
		return FormatTab, nil
	}
	return "", fmt.Errorf("unknown format %q (want tab, csv or json)", s)
}

// Options controls rendering.
type Options struct {
	Precision        int  // decimals for similarity values (tab only)
	MetricsPrecision int  // decimals for precision, recall and F1 (tab only)
	Sets             bool // include the per-set table
	RunID            string
}

// Write renders the parts of rep that were computed. When more than one
// table is written, each is preceded by a "# <title>" line and separated
// by a blank line.
func Write(w io.Writer, rep *report.Report, f Format, opts Options) error {
	if f == FormatJSON {
		return WriteJSON(w, rep, opts.RunID)
	}

	var sections []section
	if rep.Parts.Has(report.PartSimilarity) && rep.Similarity != nil {
		if opts.Sets {
			sections = append(sections, section{"Variant sets", func(w io.Writer) error {
				if f == FormatCSV {
					return WriteSetsCSV(w, rep.Sets)
				}
				return WriteSets(w, rep.Sets)
			}})
		}
		sections = append(sections, section{"Similarity", func(w io.Writer) error {
			if f == FormatCSV {
				return WritePairsCSV(w, rep.Similarity)
			}
			mw := NewMatrixWriter(w, opts.Precision)
			if err := mw.Write(rep.Similarity); err != nil {
				return err
			}
			return mw.Flush()
		}})
	}
	if rep.Parts.Has(report.PartConfusion) {
		sections = append(sections, section{"Metrics", func(w io.Writer) error {
			if f == FormatCSV {
				return WriteMetricsCSV(w, rep.Confusion)
			}
			mw := NewMetricsWriter(w, opts.MetricsPrecision)
			if err := mw.WriteHeader(); err != nil {
				return err
			}
			for _, c := range rep.Confusion {
				if err := mw.Write(c); err != nil {
					return err
				}
			}
			return mw.Flush()
		}})
		if f == FormatTab && len(rep.Confusion) > 1 {
			sections = append(sections, section{"Summary", func(w io.Writer) error {
				return WriteSummary(w, rep.Summary, opts.MetricsPrecision)
			}})
		}
	}
	if rep.Parts.Has(report.PartSteps) {
		sections = append(sections, section{"Filtering steps", func(w io.Writer) error {
			if f == FormatCSV {
				return WriteStepsCSV(w, rep.Steps)
			}
			sw := NewStepWriter(w)
			if err := sw.Write(rep.Steps); err != nil {
				return err
			}
			return sw.Flush()
		}})
	}

	titled := len(sections) > 1
	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if titled {
			if _, err := fmt.Fprintf(w, "# %s\n", s.title); err != nil {
				return err
			}
		}
		if err := s.write(w); err != nil {
			return fmt.Errorf("write %s: %w", strings.ToLower(s.title), err)
		}
	}
	return nil
}

type section struct {
	title string
	write func(io.Writer) error
}
