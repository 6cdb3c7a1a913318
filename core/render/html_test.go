package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mdpipe/core"
)

func sampleDocument(t *testing.T) core.Document {
	t.Helper()
	doc, err := dialectBuilder().Build("# Guide\n\n## Install\n\nRun it.\n\n### Linux\n", core.PageMetadata{URL: "https://example.com/guide"})
	require.NoError(t, err)
	return doc
}

func TestHTMLRendererPage(t *testing.T) {
	out, err := NewHTMLRenderer(false).Render(sampleDocument(t))
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)

	lang, _ := page.Find("html").Attr("lang")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "Guide", page.Find("title").Text())
	source, _ := page.Find(`meta[name="source"]`).Attr("content")
	assert.Equal(t, "https://example.com/guide", source)

	var hrefs, classes []string
	page.Find("nav.toc li").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		href, _ := s.Find("a").Attr("href")
		classes = append(classes, class)
		hrefs = append(hrefs, href)
	})
	assert.Equal(t, []string{"#guide", "#install", "#linux"}, hrefs)
	assert.Equal(t, []string{"toc-level-1", "toc-level-2", "toc-level-3"}, classes)

	for _, href := range hrefs {
		assert.Equal(t, 1, page.Find("article.markdown-body "+href).Length(), href)
	}
}

func TestHTMLRendererEscapesMetadata(t *testing.T) {
	doc := core.Document{Meta: core.PageMetadata{Title: "<b>Bold</b>", Language: "fr"}, HTML: "<p>x</p>"}
	out, err := NewHTMLRenderer(false).Render(doc)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<html lang="fr">`)
	assert.Contains(t, s, "<title>&lt;b&gt;Bold&lt;/b&gt;</title>")
	assert.Contains(t, s, "<p>x</p>")
	assert.NotContains(t, s, `class="toc"`)
}

func TestHTMLRendererFragment(t *testing.T) {
	doc := sampleDocument(t)
	r := NewHTMLRenderer(true)
	out, err := r.Render(doc)
	require.NoError(t, err)
	assert.Equal(t, doc.HTML, string(out))
	assert.Equal(t, ".html", r.Extension())
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()
	out, err := r.Render(core.Document{Source: "# Raw *source*"})
	require.NoError(t, err)
	assert.Equal(t, "# Raw *source*", string(out))
	assert.Equal(t, ".md", r.Extension())
}
