// Package render — HTML renderer.
// Wraps a document's HTML in a standalone page with a table-of-contents
// navigation, or emits the bare fragment for embedding.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gaurav-prasanna/mdpipe/core"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Source}}
<meta name="source" content="{{.Source}}">
{{- end}}
</head>
<body>
{{- if .TOC}}
<nav class="toc">
<ul>
{{- range .TOC}}
<li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Title}}</a></li>
{{- end}}
</ul>
</nav>
{{- end}}
<article class="markdown-body">
{{.Body}}
</article>
</body>
</html>
`))

type pageData struct {
	Lang   string
	Title  string
	Source string
	TOC    []core.Heading
	Body   template.HTML
}

// HTMLRenderer produces HTML output.
type HTMLRenderer struct {
	// Fragment emits the document HTML alone, without the page shell.
	Fragment bool
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(fragment bool) *HTMLRenderer {
	return &HTMLRenderer{Fragment: fragment}
}

// Render writes the page. The document HTML is trusted as-is; anything
// that needs sanitizing was handled by the Builder.
func (r *HTMLRenderer) Render(doc core.Document) ([]byte, error) {
	if r.Fragment {
		return []byte(doc.HTML), nil
	}
	lang := doc.Meta.Language
	if lang == "" {
		lang = "en"
	}
	data := pageData{
		Lang:   lang,
		Title:  doc.Meta.Title,
		Source: doc.Meta.URL,
		TOC:    doc.TOC,
		Body:   template.HTML(doc.HTML),
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
