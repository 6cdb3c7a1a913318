// Package server exposes the renderer over HTTP for live previews.
//
//	POST /v1/render  {"markdown": "...", "sanitize": false} → {"html": "...", "toc": [...]}
//	POST /v1/toc     {"markdown": "..."}                    → {"toc": [...]}
//	GET  /healthz                                          → ok
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/frontmatter"
	"github.com/gaurav-prasanna/mdpipe/core/render"
)

// DefaultMaxBodyBytes caps request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Sanitizer is used for requests that ask for sanitizing, and for every
	// request when AlwaysSanitize is set.
	Sanitizer      core.Sanitizer
	AlwaysSanitize bool
	FrontMatter    bool
	MaxBodyBytes   int64
	Logger         *zap.Logger
}

// Server serves render requests with a single engine.
type Server struct {
	engine core.Engine
	opts   Options
	log    *zap.Logger
}

// New creates a Server.
func New(engine core.Engine, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{engine: engine, opts: opts, log: opts.Logger.Named("server")}
}

type renderRequest struct {
	Markdown string `json:"markdown"`
	Sanitize bool   `json:"sanitize"`
}

type renderResponse struct {
	Title string         `json:"title,omitempty"`
	HTML  string         `json:"html"`
	TOC   []core.Heading `json:"toc"`
}

type tocResponse struct {
	TOC []core.Heading `json:"toc"`
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/render", s.handleRender)
	mux.HandleFunc("/v1/toc", s.handleTOC)
	return s.logRequests(mux)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	b := render.Builder{Engine: s.engine, FrontMatter: s.opts.FrontMatter}
	if s.opts.Sanitizer != nil && (req.Sanitize || s.opts.AlwaysSanitize) {
		b.Sanitizer = s.opts.Sanitizer
	}
	doc, err := b.Build(req.Markdown, core.PageMetadata{})
	if err != nil {
		s.log.Debug("render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, renderResponse{Title: doc.Meta.Title, HTML: doc.HTML, TOC: nonNil(doc.TOC)})
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	source := req.Markdown
	if s.opts.FrontMatter {
		_, body, err := frontmatter.Split(source)
		if err != nil {
			s.log.Debug("toc failed", zap.Error(err))
			http.Error(w, "front matter: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		source = body
	}
	writeJSON(w, tocResponse{TOC: nonNil(s.engine.Headings(source))})
}

// decode reads a renderRequest, answering the error itself when it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (renderRequest, bool) {
	var req renderRequest
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return req, false
		}
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(toc []core.Heading) []core.Heading {
	if toc == nil {
		return []core.Heading{}
	}
	return toc
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, letting in-flight requests finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("stopped")
	return nil
}
