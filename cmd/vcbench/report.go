package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mss1091/variant-calling-benchmark/internal/config"
	"github.com/mss1091/variant-calling-benchmark/internal/duckdb"
	"github.com/mss1091/variant-calling-benchmark/internal/output"
	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

// reportFlags are shared by the similarity, metrics, steps and report commands.
type reportFlags struct {
	format       string
	outputFile   string
	precision    int
	duckdbPath   string
	workers      int
	counter      string
	includeTruth bool
	sets         bool
}

func (f *reportFlags) register(cmd *cobra.Command, parts report.Parts) {
	fs := cmd.Flags()
	fs.StringVarP(&f.format, "format", "f", "tab", "Output format: tab, csv, json")
	fs.StringVarP(&f.outputFile, "output", "o", "", "Output file (default: stdout)")
	fs.StringVar(&f.duckdbPath, "duckdb", "", "Also export the run to this DuckDB database")
	fs.IntVar(&f.workers, "workers", 0, "Pipelines read concurrently (default from config, 0 = all CPUs)")
	if parts.Has(report.PartSimilarity) {
		fs.IntVar(&f.precision, "precision", output.DefaultPrecision, "Decimals for similarity values")
		fs.BoolVar(&f.includeTruth, "include-truth", false, "Add the truth VCF as a row of the matrix")
		fs.BoolVar(&f.sets, "sets", false, "Also print the per-pipeline variant set table")
	}
	if parts.Has(report.PartConfusion) || parts.Has(report.PartSteps) {
		fs.StringVar(&f.counter, "counter", "", "Record counter: native or bcftools (default from config)")
	}
}

// apply overrides study settings with flags the user set explicitly.
func (f *reportFlags) apply(cmd *cobra.Command, s *config.Study) error {
	fs := cmd.Flags()
	if fs.Changed("workers") {
		s.Workers = f.workers
	}
	if fs.Changed("counter") {
		s.Counter = f.counter
	}
	if fs.Changed("include-truth") {
		s.IncludeTruth = f.includeTruth
	}
	if err := s.Validate(); err != nil {
		return &usageError{cmd: cmd.Name(), err: err}
	}
	return nil
}

func newSimilarityCmd() *cobra.Command {
	return newPartsCmd(report.PartSimilarity, &cobra.Command{
		Use:   "similarity",
		Short: "Pairwise Jaccard similarity of the pipelines' call sets",
		Long: `Read the final VCF of every pipeline and print the symmetric matrix of
Jaccard indices, rows and columns in the study's display order. Variants
are compared by chromosome, position, reference and first alternate
allele. Missing VCFs count as empty sets.`,
	})
}

func newMetricsCmd() *cobra.Command {
	return newPartsCmd(report.PartConfusion, &cobra.Command{
		Use:   "metrics",
		Short: "Precision, recall and F1 from truth-set partition files",
		Long: `Count the records of 0000.vcf (FP), 0001.vcf (FN) and 0002.vcf (TP) in
each pipeline's metrics directory and derive precision, recall and F1.
Counts of absent or unreadable files print as NA.`,
	})
}

func newStepsCmd() *cobra.Command {
	return newPartsCmd(report.PartSteps, &cobra.Command{
		Use:   "steps",
		Short: "Variant counts after each filtering step",
	})
}

func newReportCmd() *cobra.Command {
	return newPartsCmd(report.PartAll, &cobra.Command{
		Use:   "report",
		Short: "Similarity, metrics and filtering-step counts in one run",
	})
}

func newPartsCmd(parts report.Parts, cmd *cobra.Command) *cobra.Command {
	var flags reportFlags
	cmd.Args = usageArgs(cobra.NoArgs)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, parts, &flags)
	}
	flags.register(cmd, parts)
	return cmd
}

func runReport(cmd *cobra.Command, parts report.Parts, flags *reportFlags) error {
	format, err := output.ParseFormat(flags.format)
	if err != nil {
		return &usageError{cmd: cmd.Name(), err: err}
	}

	study, err := loadStudy()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, study); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	b := report.NewBuilder(report.CounterFor(study))
	b.SetWorkers(study.Workers)
	b.SetLogger(logger)

	rep, err := b.Build(ctx, study, parts)
	if err != nil {
		return err
	}

	runID := duckdb.NewRunID()
	if flags.duckdbPath != "" {
		if err := exportRun(ctx, flags.duckdbPath, runID, rep); err != nil {
			return err
		}
	}

	return withOutput(cmd, flags.outputFile, func(w io.Writer) error {
		return output.Write(w, rep, format, output.Options{
			Precision: flags.precision,
			Sets:      flags.sets,
			RunID:     runID,
		})
	})
}

func exportRun(ctx context.Context, path, runID string, rep *report.Report) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteReport(ctx, runID, rep); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	logger.Info("exported run", zap.String("run_id", runID), zap.String("duckdb", path))
	return nil
}

// withOutput runs fn against the output file, or stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
