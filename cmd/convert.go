// Package cmd — convert command.
// Orchestrates the ingest pipeline for web pages:
// fetch → extract → normalize → build → render → write.
//
// It handles flag validation, renderer selection, and single-page / --all modes.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/extract"
	"github.com/gaurav-prasanna/mdpipe/core/fetch"
	"github.com/gaurav-prasanna/mdpipe/core/normalize"
	"github.com/gaurav-prasanna/mdpipe/core/output"
	"github.com/gaurav-prasanna/mdpipe/core/render"
	"github.com/gaurav-prasanna/mdpipe/crawl"
)

var (
	flagAll         bool
	flagHTML        bool
	flagFragment    bool
	flagPDF         bool
	flagMarkdown    bool
	flagJSON        bool
	flagMaxPages    int
	flagConcurrency int
)

var convertCmd = &cobra.Command{
	Use:   "convert <url>",
	Short: "Convert a web page to HTML, Markdown, JSON or PDF",
	Long: `Convert fetches a webpage, extracts main content, normalizes it to Markdown,
renders it with the configured engine and writes the chosen output format.

Examples:
  mdpipe convert https://example.com --html
  mdpipe convert https://example.com --json --output_dir ./out
  mdpipe convert https://example.com --all --markdown --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagAll, "all", false, "Convert all discovered pages of the site")

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagHTML, "html", false, "Output a standalone HTML page")
	convertCmd.Flags().BoolVar(&flagFragment, "fragment", false, "Output the rendered HTML fragment only")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().StringVar(&flagEngine, "engine", "", "Markdown engine: dialect or commonmark (default from config)")
	convertCmd.Flags().BoolVar(&flagSanitize, "sanitize", false, "Sanitize the rendered HTML")
	convertCmd.Flags().IntVar(&flagMaxPages, "max_pages", 0, "Maximum pages discovered with --all (default from config)")
	convertCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Pages converted in parallel with --all (default from config)")
}

// pipeline holds the stages a page goes through.
type pipeline struct {
	fetcher   core.Fetcher
	extractor core.Extractor
	builder   *render.Builder
	renderer  core.Renderer
}

func runConvert(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	format, err := selectFormat()
	if err != nil {
		return err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}

	renderer, err := newRenderer(format)
	if err != nil {
		return err
	}
	builder, err := newBuilder(false)
	if err != nil {
		return err
	}
	p := &pipeline{
		fetcher: fetch.New(fetch.Options{
			Timeout:   cfg.GetDuration("fetch.timeout"),
			UserAgent: cfg.GetString("fetch.user_agent"),
			Logger:    logger,
		}),
		extractor: extract.New(cfg.GetBool("fetch.keep_images")),
		builder:   builder,
		renderer:  renderer,
	}

	writer, err := output.New(cfg.GetString("output.dir"))
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if flagAll {
		return p.runAll(ctx, cmd.OutOrStdout(), rawURL, writer)
	}
	return p.runOne(ctx, cmd.OutOrStdout(), rawURL, writer)
}

// runOne processes a single URL through the pipeline.
func (p *pipeline) runOne(ctx context.Context, out io.Writer, rawURL string, writer *output.Writer) error {
	data, err := p.process(ctx, rawURL)
	if err != nil {
		return err
	}
	path, err := writer.WritePage(rawURL, data, p.renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Written: %s\n", path)
	return nil
}

// runAll discovers the site's pages and converts them in parallel. Failed
// pages are logged and counted; only cancellation aborts the run.
func (p *pipeline) runAll(ctx context.Context, out io.Writer, rawURL string, writer *output.Writer) error {
	fmt.Fprintf(out, "Discovering pages from %s...\n", rawURL)

	d := crawl.NewDiscoverer(p.fetcher, cfg.GetInt("crawl.max_pages"), logger)
	urls, err := d.Discover(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(out, "Found %d pages to process\n", len(urls))

	var (
		mu       sync.Mutex
		failures int
		done     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.GetInt("convert.concurrency")))

	for _, pageURL := range urls {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			data, err := p.process(gctx, pageURL)
			var path string
			if err == nil {
				path, err = writer.WriteSite(pageURL, data, p.renderer.Extension())
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				failures++
				logger.Warn("page failed", zap.String("url", pageURL), zap.Error(err))
				fmt.Fprintf(out, "[%d/%d] ✗ %s\n", done, len(urls), pageURL)
				return nil
			}
			fmt.Fprintf(out, "[%d/%d] ✓ Written: %s\n", done, len(urls), path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failures > 0 {
		fmt.Fprintf(out, "\n%d/%d pages failed\n", failures, len(urls))
	}
	return nil
}

// process runs a single URL through the full pipeline.
func (p *pipeline) process(ctx context.Context, rawURL string) ([]byte, error) {
	result, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	content, err := p.extractor.Extract(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	meta := buildMetadata(rawURL, result.HTML)
	markdown, err := normalize.New(origin(rawURL)).Normalize(content)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	doc, err := p.builder.Build(markdown, meta)
	if err != nil {
		return nil, err
	}

	data, err := p.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// buildMetadata constructs PageMetadata from the URL and raw HTML.
func buildMetadata(rawURL string, html string) core.PageMetadata {
	meta := core.PageMetadata{
		URL:       rawURL,
		Title:     extract.Title(html),
		Language:  extract.Language(html),
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		meta.Domain = parsed.Host
		meta.Path = parsed.Path
	}
	return meta
}

// origin returns scheme://host of rawURL, used to resolve relative links.
func origin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// selectFormat checks that exactly one output format flag is set.
func selectFormat() (string, error) {
	formats := []struct {
		set  bool
		name string
	}{
		{flagHTML, formatHTML},
		{flagFragment, formatFragment},
		{flagPDF, formatPDF},
		{flagMarkdown, formatMarkdown},
		{flagJSON, formatJSON},
	}
	var chosen []string
	for _, f := range formats {
		if f.set {
			chosen = append(chosen, f.name)
		}
	}
	switch len(chosen) {
	case 0:
		return "", errors.New("exactly one output format is required: --html, --fragment, --pdf, --markdown, or --json")
	case 1:
		return chosen[0], nil
	default:
		return "", fmt.Errorf("only one output format allowed per run (got %d)", len(chosen))
	}
}
