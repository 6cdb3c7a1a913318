// Package cmd implements the CLI commands for mdpipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gaurav-prasanna/mdpipe/config"
)

var (
	flagConfig  string
	flagVerbose bool

	// cfg holds the merged configuration of the running command.
	cfg = viper.New()
	// logger is replaced in PersistentPreRunE.
	logger = zap.NewNop()
)

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"output_dir":  "output.dir",
	"engine":      "render.engine",
	"sanitize":    "render.sanitize",
	"max_pages":   "crawl.max_pages",
	"concurrency": "convert.concurrency",
	"addr":        "serve.addr",
	"style":       "preview.style",
	"width":       "preview.width",
}

var rootCmd = &cobra.Command{
	Use:   "mdpipe",
	Short: "mdpipe — render Markdown to HTML with a navigable table of contents",
	Long: `mdpipe renders Markdown into HTML whose headings carry stable anchor ids,
and extracts the matching table of contents.

It renders local files, converts web pages through the same pipeline,
previews Markdown in the terminal, and serves a small HTTP render API.

Usage:
  mdpipe render notes.md --format html
  mdpipe toc notes.md
  mdpipe convert <url> --html`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		if flagConfig != "" {
			v.SetConfigFile(flagConfig)
		}
		if err := config.Load(v); err != nil {
			return err
		}
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
		if err := config.Check(v); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}
		cfg = v

		l, err := newLogger(v.GetString("log.level"), flagVerbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		logger.Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/mdpipe/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds the production zap logger at the configured level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
