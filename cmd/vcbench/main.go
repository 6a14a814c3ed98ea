// Package main provides the vcbench command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mss1091/variant-calling-benchmark/internal/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is replaced in the root command's PersistentPreRunE.
var logger = zap.NewNop()

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(os.Stderr, "Run 'vcbench %s --help' for usage.\n", ue.cmd)
		return ExitUsage
	}
	return ExitError
}

// usageError marks errors caused by bad flags or arguments.
type usageError struct {
	cmd string
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its failures exit with ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{cmd: cmd.Name(), err: err}
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "vcbench",
		Short: "Benchmark variant-calling pipelines against each other and a truth set",
		Long: `vcbench compares the call sets of several variant-calling pipelines.

It reports the pairwise Jaccard similarity of their PASS variants and, from
the partition files left by a truth-set comparison (0000.vcf = FP,
0001.vcf = FN, 0002.vcf = TP), precision, recall and F1 for each pipeline.

The study (pipelines, result paths, display order) is read from a YAML file:
--config, else ./vcbench.yaml, else ~/.vcbench.yaml.`,
		Example: `  vcbench report --config configs/phase2.yaml
  vcbench similarity -f csv -o jaccard.csv
  vcbench metrics --counter bcftools
  vcbench jaccard a.vcf.gz b.vcf.gz`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Study config file (default ./vcbench.yaml, then ~/.vcbench.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{cmd: c.Name(), err: err}
	})

	cmd.AddCommand(newSimilarityCmd())
	cmd.AddCommand(newMetricsCmd())
	cmd.AddCommand(newStepsCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newJaccardCmd())
	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vcbench version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// newLogger builds a console logger on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	return cfg.Build()
}

// initConfig points viper at the study file and reads it. No file at all
// is not an error here; commands that need a study report it.
func initConfig(cfgFile string) error {
	viper.SetEnvPrefix("VCBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if cfgFile == "" {
		cfgFile = findConfig()
	}
	if cfgFile == "" {
		return nil
	}

	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	logger.Debug("using config", zap.String("path", viper.ConfigFileUsed()))
	return nil
}

func findConfig() string {
	candidates := []string{"vcbench.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".vcbench.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// loadStudy decodes and validates the study from the active config.
func loadStudy() (*config.Study, error) {
	if viper.ConfigFileUsed() == "" {
		return nil, errors.New("no study config found (use --config or create ./vcbench.yaml)")
	}
	return config.Load(viper.GetViper())
}
