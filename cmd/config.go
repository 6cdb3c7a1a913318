// Package cmd — config command.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/mdpipe/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints every setting after defaults, the config file and MDPIPE_*
environment variables are merged. With --defaults it prints the default
of every key together with its meaning.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print defaults with descriptions")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if flagDefaults {
		for _, o := range config.Options() {
			fmt.Fprintf(out, "# %s\n%s: %v\n", o.Comment, o.Key, o.Default)
		}
		return nil
	}
	data, err := yaml.Marshal(config.Settings(cfg))
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	_, err = out.Write(data)
	return err
}
