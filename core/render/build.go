// Package render — document assembly.
// A Builder runs a Markdown source through an engine and, optionally, a
// sanitizer, producing the core.Document every output renderer consumes.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/frontmatter"
)

// Builder assembles Documents.
type Builder struct {
	Engine core.Engine
	// Sanitizer is applied to the engine output when set.
	Sanitizer core.Sanitizer
	// FrontMatter splits a leading YAML block off the source before rendering.
	FrontMatter bool
}

// Build renders source into a Document. When meta carries no title, the
// front matter title is used, then the first level-1 heading.
func (b *Builder) Build(source string, meta core.PageMetadata) (core.Document, error) {
	if b.FrontMatter {
		matter, body, err := frontmatter.Split(source)
		if err != nil {
			return core.Document{}, fmt.Errorf("front matter: %w", err)
		}
		source = body
		if meta.Title == "" {
			meta.Title = matter.Title
		}
		if meta.Language == "" {
			meta.Language = matter.Lang
		}
	}

	html, err := b.Engine.Render(source)
	if err != nil {
		return core.Document{}, fmt.Errorf("render: %w", err)
	}
	if b.Sanitizer != nil {
		html = b.Sanitizer.Sanitize(html)
	}

	toc := b.Engine.Headings(source)
	if meta.Title == "" {
		for _, h := range toc {
			if h.Level == 1 {
				meta.Title = h.Title
				break
			}
		}
	}

	return core.Document{Meta: meta, Source: source, HTML: html, TOC: toc}, nil
}
