package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "vcbench.yaml"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, check or edit the study configuration",
		Long:  "Show, get, or set configuration values. Without --config the study is read from ./vcbench.yaml or ~/.vcbench.yaml.",
		Example: `  vcbench config --config configs/phase2.yaml   # show all settings
  vcbench config check                           # list pipelines in display order
  vcbench config set counter bcftools            # count with bcftools
  vcbench config get truth_vcf                   # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigCheckCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the study and list its pipelines in display order",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigCheck(cmd.OutOrStdout())
		},
	}
}

func runConfigShow(w io.Writer) error {
	if viper.ConfigFileUsed() == "" {
		fmt.Fprintln(w, "# No configuration file found. Use --config or create ./vcbench.yaml")
		return nil
	}

	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintf(w, "# %s\n%s", viper.ConfigFileUsed(), out)
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}

func runConfigCheck(w io.Writer) error {
	study, err := loadStudy()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "study %q: %d pipelines, counter %s\n", study.Name, len(study.Pipelines), study.Counter)
	for _, p := range study.Ordered() {
		fmt.Fprintf(w, "  %-6s %-30s %s\n", p.ID, p.Name, p.Annotation())
	}
	if study.TruthVCF != "" {
		fmt.Fprintf(w, "truth: %s\n", study.TruthVCF)
	}
	return nil
}
