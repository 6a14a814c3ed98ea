package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mss1091/variant-calling-benchmark/internal/compare"
	"github.com/mss1091/variant-calling-benchmark/internal/metrics"
	"github.com/mss1091/variant-calling-benchmark/internal/output"
	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

func newJaccardCmd() *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "jaccard <a.vcf> <b.vcf> [more.vcf...]",
		Short: "Similarity matrix of VCF files given on the command line",
		Long: `Compare VCF files directly, without a study config. Each file is a row
of the matrix, labelled by its path.`,
		Example: `  vcbench jaccard mutect2.vcf.gz strelka2.vcf.gz`,
		Args:    usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := vcf.NewReader()
			reader.SetLogger(logger)

			labels := make([]compare.Label, len(args))
			sets := make([]vcf.VariantSet, len(args))
			for i, path := range args {
				labels[i] = compare.Label{ID: path}
				sets[i] = reader.Read(path, path)
				if !sets[i].Status.Available() {
					logger.Warn("no variants read", zap.String("path", path), zap.Stringer("status", sets[i].Status))
				}
			}

			m, err := compare.NewSimilarityMatrix(labels, sets)
			if err != nil {
				return err
			}
			w := output.NewMatrixWriter(cmd.OutOrStdout(), precision)
			if err := w.Write(m); err != nil {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&precision, "precision", output.DefaultPrecision, "Decimals for similarity values")
	return cmd
}

func newCountCmd() *cobra.Command {
	var (
		counter  string
		bcftools string
	)

	cmd := &cobra.Command{
		Use:   "count <file.vcf>...",
		Short: "Count data records in VCF files",
		Long: `Print the number of non-header records of each file, or NA when the file
is absent or cannot be read. A directory argument is treated as a
metrics directory and its TP/FP/FN partitions are counted.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c vcf.Counter
			switch strings.ToLower(counter) {
			case "", "native":
				c = vcf.LineCounter{}
			case "bcftools":
				c = vcf.NewBcftoolsCounter(bcftools, vcf.DefaultMaxProcesses)
			default:
				return &usageError{cmd: cmd.Name(), err: fmt.Errorf("unknown counter %q", counter)}
			}

			agg := metrics.NewAggregator(c)
			agg.SetLogger(logger)
			return writeCounts(cmd.OutOrStdout(), cmd, agg, args)
		},
	}
	cmd.Flags().StringVar(&counter, "counter", "native", "Record counter: native or bcftools")
	cmd.Flags().StringVar(&bcftools, "bcftools", "bcftools", "bcftools binary")
	return cmd
}

func writeCounts(w io.Writer, cmd *cobra.Command, agg *metrics.Aggregator, paths []string) error {
	for _, path := range paths {
		if isDir(path) {
			c := agg.Confusion(cmd.Context(), path, path)
			if _, err := fmt.Fprintf(w, "%s\tTP=%s\tFP=%s\tFN=%s\n", path, c.TP, c.FP, c.FN); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", path, agg.CountFile(cmd.Context(), path)); err != nil {
			return err
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
