// Package cmd — serve command.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/core/sanitize"
	"github.com/gaurav-prasanna/mdpipe/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render API over HTTP",
	Long: `Serve starts an HTTP server for live previews:

  POST /v1/render  {"markdown": "...", "sanitize": false}
  POST /v1/toc     {"markdown": "..."}
  GET  /healthz

With render.sanitize (or --sanitize) every response is sanitized; otherwise
clients opt in per request.

Examples:
  mdpipe serve --addr :9000
  mdpipe serve --engine commonmark`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&flagEngine, "engine", "", "Markdown engine: dialect or commonmark (default from config)")
	serveCmd.Flags().BoolVar(&flagSanitize, "sanitize", false, "Sanitize every response")
}

func runServe(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	s := server.New(engine, server.Options{
		Sanitizer:      sanitize.New(),
		AlwaysSanitize: cfg.GetBool("render.sanitize"),
		FrontMatter:    cfg.GetBool("render.front_matter"),
		MaxBodyBytes:   cfg.GetInt64("serve.max_body_bytes"),
		Logger:         logger,
	})
	return s.ListenAndServe(cmd.Context(), cfg.GetString("serve.addr"))
}
