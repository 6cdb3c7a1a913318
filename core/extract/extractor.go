// Package extract implements the Extractor interface.
// It isolates the main content from a full HTML page by:
//  1. Removing noise elements (nav, footer, scripts, forms, etc.)
//  2. Picking the best content container (<main>, <article>, or <body>)
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent is returned when a page has no text left after cleaning.
var ErrNoContent = errors.New("no content found in HTML")

// noiseSelectors are HTML elements removed before extraction.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// mediaSelectors are removed unless images are kept.
var mediaSelectors = []string{"img", "picture", "figure", "figcaption"}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct {
	// KeepImages leaves <img> elements in place so they become Markdown images.
	KeepImages bool
}

// New creates an HTMLExtractor.
func New(keepImages bool) *HTMLExtractor {
	return &HTMLExtractor{KeepImages: keepImages}
}

// Extract takes raw HTML and returns a cleaned HTML fragment containing
// only the main content.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	if !e.KeepImages {
		for _, sel := range mediaSelectors {
			doc.Find(sel).Remove()
		}
	}

	// <main> is the most semantically correct, then <article>, then <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	if content == nil || (strings.TrimSpace(content.Text()) == "" && content.Find("img").Length() == 0) {
		return "", ErrNoContent
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	return result, nil
}

// Title returns the page title, preferring og:title over <title>.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("head title").First().Text())
}

// Language returns the lang attribute of the <html> element.
func Language(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	lang, _ := doc.Find("html").Attr("lang")
	return strings.TrimSpace(lang)
}
