// Package cmd — preview command.
package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/core/frontmatter"
)

var (
	flagStyle string
	flagWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview [file|-]",
	Short: "Preview a Markdown file in the terminal",
	Long: `Preview renders Markdown for the terminal with glamour.

Examples:
  mdpipe preview README.md
  mdpipe preview README.md --style light --width 100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&flagStyle, "style", "", "Style: dark, light, notty, ascii (default from config)")
	previewCmd.Flags().IntVar(&flagWidth, "width", 0, "Word wrap width (default from config)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	source, _, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if cfg.GetBool("render.front_matter") {
		if _, source, err = frontmatter.Split(source); err != nil {
			return fmt.Errorf("front matter: %w", err)
		}
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(cfg.GetString("preview.style")),
		glamour.WithWordWrap(cfg.GetInt("preview.width")),
	)
	if err != nil {
		return fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.Render(source)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
