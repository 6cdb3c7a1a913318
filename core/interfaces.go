// Package core defines the pipeline interfaces for mdpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/mdpipe/core/markdown"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// PageMetadata describes where a document came from.
type PageMetadata struct {
	URL       string `json:"url,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Path      string `json:"path,omitempty"`
	Title     string `json:"title"`
	Language  string `json:"language,omitempty"`
	FetchedAt string `json:"fetched_at,omitempty"` // ISO8601
}

// Heading is a table-of-contents entry.
type Heading = markdown.Heading

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Document is a rendered Markdown source together with its outline.
type Document struct {
	Meta   PageMetadata
	Source string
	HTML   string
	TOC    []Heading
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into Markdown (the canonical format).
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Engine turns Markdown into an HTML fragment and its table of contents.
// Heading ids in the HTML must equal the ids Headings reports.
type Engine interface {
	Render(source string) (string, error)
	Headings(source string) []Heading
}

// Sanitizer cleans rendered HTML before it leaves the pipeline.
type Sanitizer interface {
	Sanitize(html string) string
}

// Renderer converts a Document into a final output format.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
