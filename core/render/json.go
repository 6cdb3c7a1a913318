// Package render — JSON renderer.
// Emits the rendered HTML together with the table of contents and a
// structural summary of the source, for clients that build their own
// navigation (the console's document viewer, the preview server).
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// PageJSON is the complete JSON output for a single document.
type PageJSON struct {
	Metadata  core.PageMetadata `json:"metadata"`
	HTML      string            `json:"html"`
	TOC       []core.Heading    `json:"toc"`
	Text      string            `json:"text"`
	Structure Structure         `json:"structure"`
}

// Structure summarises the source without interpreting its content.
type Structure struct {
	Headings   int         `json:"headings"`
	Links      []core.Link `json:"links"`
	Images     int         `json:"images"`
	CodeBlocks int         `json:"code_blocks"`
	ListItems  int         `json:"list_items"`
}

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the document and its structure.
func (r *JSONRenderer) Render(doc core.Document) ([]byte, error) {
	toc := doc.TOC
	if toc == nil {
		toc = []core.Heading{}
	}
	page := PageJSON{
		Metadata:  doc.Meta,
		HTML:      doc.HTML,
		TOC:       toc,
		Text:      stripMarkdown(doc.Source),
		Structure: summarize(doc.Source, len(toc)),
	}
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Markdown parsing helpers ---

var (
	// linkRegex matches [text](url); group 1 is "!" for images.
	linkRegex     = regexp.MustCompile(`(!?)\[([^\]\n]*)\]\(([^)\s]+)\)`)
	fenceRegex    = regexp.MustCompile("(?s)```[^\\n]*\\n.*?```")
	listItemRegex = regexp.MustCompile(`(?m)^(?:[-*]|\d+\.) `)
	emphasisRegex = regexp.MustCompile(`(\*{1,2}|_{1,2}|~~)([^*_~\n]+)(\*{1,2}|_{1,2}|~~)`)
	inlineRegex   = regexp.MustCompile("`([^`\\n]+)`")
	headingMarks  = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

func summarize(md string, headings int) Structure {
	s := Structure{
		Headings:   headings,
		Links:      []core.Link{},
		CodeBlocks: len(fenceRegex.FindAllString(md, -1)),
	}
	prose := fenceRegex.ReplaceAllString(md, "")
	for _, m := range linkRegex.FindAllStringSubmatch(prose, -1) {
		if m[1] == "!" {
			s.Images++
			continue
		}
		s.Links = append(s.Links, core.Link{Text: m[2], Href: m[3]})
	}
	s.ListItems = len(listItemRegex.FindAllString(prose, -1))
	return s
}

// stripMarkdown removes common Markdown formatting to produce plain text.
// Code block bodies are kept, their fences are not.
func stripMarkdown(md string) string {
	text := strings.ReplaceAll(md, "\r\n", "\n")
	text = fenceRegex.ReplaceAllStringFunc(text, func(block string) string {
		_, body, _ := strings.Cut(block, "\n")
		return strings.TrimSuffix(body, "```")
	})
	text = headingMarks.ReplaceAllString(text, "")
	text = linkRegex.ReplaceAllString(text, "$2")
	text = emphasisRegex.ReplaceAllString(text, "$2")
	text = inlineRegex.ReplaceAllString(text, "$1")
	// Collapse whitespace.
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
