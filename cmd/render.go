// Package cmd — render command.
// Renders a local Markdown file (or stdin) with the configured engine.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/output"
)

var (
	flagFormat    string
	flagOutputDir string
	flagEngine    string
	flagSanitize  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a Markdown file to HTML, JSON, PDF or Markdown",
	Long: `Render converts a Markdown file into the chosen format. Heading ids in the
output match the table of contents printed by "mdpipe toc".

Output goes to stdout unless --output_dir (or output.dir) is set.

Examples:
  mdpipe render README.md
  mdpipe render README.md --format fragment --sanitize
  cat notes.md | mdpipe render --format json
  mdpipe render guide.md --format pdf --output_dir ./out`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&flagFormat, "format", "f", formatHTML, "Output format: html, fragment, json, pdf, markdown")
	renderCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Write the result to this directory instead of stdout")
	renderCmd.Flags().StringVar(&flagEngine, "engine", "", "Markdown engine: dialect or commonmark (default from config)")
	renderCmd.Flags().BoolVar(&flagSanitize, "sanitize", false, "Sanitize the rendered HTML")
}

func runRender(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(flagFormat)
	if err != nil {
		return err
	}
	source, path, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	builder, err := newBuilder(cfg.GetBool("render.front_matter"))
	if err != nil {
		return err
	}

	meta := core.PageMetadata{}
	if path != "-" {
		meta.Path = filepath.ToSlash(path)
	}
	doc, err := builder.Build(source, meta)
	if err != nil {
		return err
	}
	data, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Debug("rendered",
		zap.String("source", path),
		zap.String("format", strings.ToLower(flagFormat)),
		zap.Int("headings", len(doc.TOC)),
		zap.Int("bytes", len(data)))

	dir := cfg.GetString("output.dir")
	if dir == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	written, err := writer.WriteSource(path, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", written)
	return nil
}
