// Package render — engines.
// An engine turns Markdown into an HTML fragment plus its table of contents.
// Dialect is the restricted renderer the dashboard stores content in;
// CommonMark is a full goldmark pipeline whose anchors use the same slugs.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/markdown"
)

// Engine names accepted by NewEngine.
const (
	EngineDialect    = "dialect"
	EngineCommonMark = "commonmark"
)

// NewEngine returns the engine registered under name.
func NewEngine(name string, opts markdown.Options) (core.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineDialect:
		return NewDialect(opts), nil
	case EngineCommonMark:
		return NewCommonMark(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want %s or %s)", name, EngineDialect, EngineCommonMark)
	}
}

// Dialect adapts markdown.Renderer to core.Engine. It never returns an error.
type Dialect struct {
	r *markdown.Renderer
}

// NewDialect creates a Dialect engine.
func NewDialect(opts markdown.Options) *Dialect {
	return &Dialect{r: markdown.New(opts)}
}

// Render converts source to HTML.
func (d *Dialect) Render(source string) (string, error) {
	return d.r.Render(source), nil
}

// Headings returns the table of contents of source.
func (d *Dialect) Headings(source string) []core.Heading {
	return markdown.ExtractHeadings(source)
}

// CommonMark renders GitHub-flavoured Markdown with goldmark. The goldmark
// instance is shared; per-call parser state lives in a fresh parser.Context.
type CommonMark struct {
	md goldmark.Markdown
}

// NewCommonMark creates a CommonMark engine.
func NewCommonMark() *CommonMark {
	return &CommonMark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts source to HTML. Raw HTML in source is omitted.
func (c *CommonMark) Render(source string) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	if err := c.md.Convert([]byte(source), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Headings walks the parsed document and reports every heading with the id
// goldmark assigned to it.
func (c *CommonMark) Headings(source string) []core.Heading {
	src := []byte(source)
	ctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	var headings []core.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var title strings.Builder
		for i := 0; i < h.Lines().Len(); i++ {
			seg := h.Lines().At(i)
			title.Write(seg.Value(src))
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, core.Heading{
			ID:    id,
			Title: strings.TrimSpace(title.String()),
			Level: h.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// slugIDs hands goldmark the dialect's slugs so anchors do not depend on
// which engine rendered the page.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(markdown.Slug(string(value)))
}

func (slugIDs) Put([]byte) {}
