// Package cmd — toc command.
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/frontmatter"
)

var flagTOCJSON bool

var tocCmd = &cobra.Command{
	Use:   "toc [file|-]",
	Short: "Print the table of contents of a Markdown file",
	Long: `Toc lists every heading with the anchor id the renderer gives it,
indented by level, or as a JSON array with --json.

Examples:
  mdpipe toc README.md
  mdpipe toc README.md --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTOC,
}

func init() {
	rootCmd.AddCommand(tocCmd)
	tocCmd.Flags().BoolVar(&flagTOCJSON, "json", false, "Print the table of contents as JSON")
	tocCmd.Flags().StringVar(&flagEngine, "engine", "", "Markdown engine: dialect or commonmark (default from config)")
}

func runTOC(cmd *cobra.Command, args []string) error {
	source, _, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if cfg.GetBool("render.front_matter") {
		if _, source, err = frontmatter.Split(source); err != nil {
			return fmt.Errorf("front matter: %w", err)
		}
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}
	toc := engine.Headings(source)

	out := cmd.OutOrStdout()
	if flagTOCJSON {
		if toc == nil {
			toc = []core.Heading{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toc)
	}
	for _, h := range toc {
		fmt.Fprintf(out, "%s- %s (#%s)\n", strings.Repeat("  ", h.Level-1), h.Title, h.ID)
	}
	return nil
}
