package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/config"
	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/render"
	"github.com/gaurav-prasanna/mdpipe/core/sanitize"
)

// Output formats accepted by --format.
const (
	formatHTML     = "html"
	formatFragment = "fragment"
	formatJSON     = "json"
	formatPDF      = "pdf"
	formatMarkdown = "markdown"
)

// newEngine returns the configured Markdown engine.
func newEngine() (core.Engine, error) {
	return render.NewEngine(cfg.GetString("render.engine"), config.RenderOptions(cfg))
}

// newBuilder wires the configured engine and, when render.sanitize is set,
// the sanitizer.
func newBuilder(frontMatter bool) (*render.Builder, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	b := &render.Builder{Engine: engine, FrontMatter: frontMatter}
	if cfg.GetBool("render.sanitize") {
		b.Sanitizer = sanitize.New()
	}
	return b, nil
}

// newRenderer creates the Renderer for an output format.
func newRenderer(format string) (core.Renderer, error) {
	switch strings.ToLower(format) {
	case formatHTML:
		return render.NewHTMLRenderer(false), nil
	case formatFragment:
		return render.NewHTMLRenderer(true), nil
	case formatJSON:
		return render.NewJSONRenderer(), nil
	case formatPDF:
		return render.NewPDFRenderer(cfg.GetString("render.pdf_font")), nil
	case formatMarkdown, "md":
		return render.NewMarkdownRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want html, fragment, json, pdf or markdown)", format)
	}
}

// readSource reads the Markdown named by args: a file path, or stdin when
// args is empty or "-". It returns the source and its path.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "-", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "-", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", args[0], fmt.Errorf("reading source: %w", err)
	}
	return string(data), args[0], nil
}
