// Package metrics derives accuracy metrics from pre-partitioned VCFs.
//
// An external comparison of a pipeline's calls against a truth set leaves
// three files in a directory. Their names are fixed by that tool:
//
//	0000.vcf  records private to the calls   (false positives)
//	0001.vcf  records private to the truth   (false negatives)
//	0002.vcf  records shared by both         (true positives)
//
// Only the number of data records in each file is used.
package metrics

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

// Partition file names. These must not be renumbered.
const (
	FalsePositiveFile = "0000.vcf"
	FalseNegativeFile = "0001.vcf"
	TruePositiveFile  = "0002.vcf"
)

// Count is a record count together with how it was obtained.
type Count struct {
	N      int        `json:"n"`
	Status vcf.Status `json:"status"`
}

// Available reports whether N reflects a file that was actually counted.
func (c Count) Available() bool {
	return c.Status.Available()
}

// String returns the count, or "NA" when the file was absent or unreadable.
func (c Count) String() string {
	if !c.Available() {
		return "NA"
	}
	return strconv.Itoa(c.N)
}

// ConfusionCounts holds one pipeline's TP/FP/FN counts and derived metrics.
type ConfusionCounts struct {
	Pipeline  string  `json:"pipeline"`
	TP        Count   `json:"tp"`
	FP        Count   `json:"fp"`
	FN        Count   `json:"fn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Available reports whether all three partitions were counted.
func (c ConfusionCounts) Available() bool {
	return c.TP.Available() && c.FP.Available() && c.FN.Available()
}

// NewConfusionCounts builds counts and fills in the derived metrics.
func NewConfusionCounts(pipeline string, tp, fp, fn Count) ConfusionCounts {
	c := ConfusionCounts{Pipeline: pipeline, TP: tp, FP: fp, FN: fn}
	c.Precision, c.Recall, c.F1 = Derive(tp.N, fp.N, fn.N)
	return c
}

// Derive computes
//
//	precision = TP / (TP + FP)
//	recall    = TP / (TP + FN)
//	f1        = 2·TP / (2·TP + FP + FN)
//
// Any ratio whose denominator is zero is 0.
func Derive(tp, fp, fn int) (precision, recall, f1 float64) {
	return ratio(tp, tp+fp), ratio(tp, tp+fn), ratio(2*tp, 2*tp+fp+fn)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Aggregator counts partition files. Absent files count as 0 with
// StatusMissing; files the counter cannot handle count as 0 with
// StatusFailed and a warning.
type Aggregator struct {
	counter vcf.Counter
	logger  *zap.Logger
}

// NewAggregator creates an aggregator using counter. A nil counter means
// vcf.LineCounter.
func NewAggregator(counter vcf.Counter) *Aggregator {
	if counter == nil {
		counter = vcf.LineCounter{}
	}
	return &Aggregator{counter: counter, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and debug messages.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Confusion reads the three partition files in dir.
func (a *Aggregator) Confusion(ctx context.Context, pipeline, dir string) ConfusionCounts {
	if dir == "" {
		missing := Count{Status: vcf.StatusMissing}
		return NewConfusionCounts(pipeline, missing, missing, missing)
	}
	tp := a.CountFile(ctx, filepath.Join(dir, TruePositiveFile))
	fp := a.CountFile(ctx, filepath.Join(dir, FalsePositiveFile))
	fn := a.CountFile(ctx, filepath.Join(dir, FalseNegativeFile))
	return NewConfusionCounts(pipeline, tp, fp, fn)
}

// CountFile counts the records in path without ever failing.
func (a *Aggregator) CountFile(ctx context.Context, path string) Count {
	if path == "" {
		return Count{Status: vcf.StatusMissing}
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("count file not found", zap.String("path", path))
			return Count{Status: vcf.StatusMissing}
		}
		a.logger.Warn("cannot stat count file", zap.String("path", path), zap.Error(err))
		return Count{Status: vcf.StatusFailed}
	}

	n, err := a.counter.Count(ctx, path)
	if err != nil {
		a.logger.Warn("counting failed, using 0", zap.String("path", path), zap.Error(err))
		return Count{Status: vcf.StatusFailed}
	}
	return Count{N: n, Status: vcf.StatusRead}
}

// Confusion reads the partition files in dir with the in-process counter.
func Confusion(dir string) ConfusionCounts {
	return NewAggregator(nil).Confusion(context.Background(), "", dir)
}
