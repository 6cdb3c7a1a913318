package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"plain text", "hello", "<p>hello</p>"},
		{"bold", "**bold**", "<p><strong>bold</strong></p>"},
		{"bold underscores", "__bold__", "<p><strong>bold</strong></p>"},
		{"italic", "*it* and _it_", "<p><em>it</em> and <em>it</em></p>"},
		{"bold then italic", "**b** *i*", "<p><strong>b</strong> <em>i</em></p>"},
		{"intraword underscores", "snake_case_name", "<p>snake_case_name</p>"},
		{"strikethrough", "~~gone~~", "<p><del>gone</del></p>"},
		{"heading", "# Hello, World!", `<h1 id="hello-world" class="scroll-mt-20">Hello, World!</h1>`},
		{"heading level six", "###### Six", `<h6 id="six" class="scroll-mt-20">Six</h6>`},
		{"seven hashes", "####### seven", "<p>####### seven</p>"},
		{
			"heading id survives emphasis",
			"# __init__",
			`<h1 id="__init__" class="scroll-mt-20"><strong>init</strong></h1>`,
		},
		{
			"heading with inline code",
			"## Use `fmt`",
			`<h2 id="use-fmt" class="scroll-mt-20">Use <code class="inline-code">fmt</code></h2>`,
		},
		{
			"code block",
			"```js\n<b>&\n```",
			`<pre class="code-block"><code class="language-js">&lt;b&gt;&amp;</code></pre>`,
		},
		{
			"untagged code block",
			"```\n\"quoted\" 'single'\n```",
			`<pre class="code-block"><code class="language-text">&#34;quoted&#34; &#39;single&#39;</code></pre>`,
		},
		{
			"code block is not reinterpreted",
			"```md\n# title\n**x** _y_ [a](b)\n- item\n```",
			"<pre class=\"code-block\"><code class=\"language-md\"># title\n**x** _y_ [a](b)\n- item</code></pre>",
		},
		{
			"inline code line is not wrapped",
			"Use `a_b_c` here",
			`Use <code class="inline-code">a_b_c</code> here`,
		},
		{
			"link",
			"[go](https://x.com)",
			`<p><a href="https://x.com" target="_blank" rel="noopener noreferrer">go</a></p>`,
		},
		{
			"image",
			"![logo](/a.png)",
			`<img src="/a.png" alt="logo" class="markdown-img" />`,
		},
		{
			"link next to image",
			"[a](x) ![b](y)",
			`<p><a href="x" target="_blank" rel="noopener noreferrer">a</a> <img src="y" alt="b" class="markdown-img" /></p>`,
		},
		{"rule dashes", "a\n---\nb", "<p>a</p>\n<hr />\n<p>b</p>"},
		{"rule stars", "***", "<hr />"},
		{"blockquote", "> **note**", "<blockquote><strong>note</strong></blockquote>"},
		{
			"blockquotes are not merged",
			"> one\n> two",
			"<blockquote>one</blockquote>\n<blockquote>two</blockquote>",
		},
		{
			"unordered items",
			"- a\n* b",
			"<li class=\"ul-item\">a</li>\n<li class=\"ul-item\">b</li>",
		},
		{
			"ordered items",
			"1. one\n10. ten",
			"<li class=\"ol-item\">one</li>\n<li class=\"ol-item\">ten</li>",
		},
		{"blank lines pass through", "a\n\nb", "<p>a</p>\n\n<p>b</p>"},
		{"crlf", "a\r\nb", "<p>a</p>\n<p>b</p>"},
		{"nul is replaced", "a\x00b", "<p>a\uFFFDb</p>"},
		{"unclosed fence stays literal", "```go", "<p>```go</p>"},
		{
			"mid-line fence is not wrapped",
			"text ```js\n<b>\n``` after",
			`text <pre class="code-block"><code class="language-js">&lt;b&gt;</code></pre> after`,
		},
		{
			"fence-only title is not a heading",
			"# ```\ncode\n```",
			`# <pre class="code-block"><code class="language-text">code</code></pre>`,
		},
		{"blank title is not a heading", "#  \t", "<p>#  \t</p>"},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Render(c.source))
		})
	}
}

func TestRenderKeepsRawHTMLOutsideCode(t *testing.T) {
	// Prose is trusted; callers rendering untrusted input sanitize afterwards.
	out := Render("<script>alert(1)</script>")
	assert.Equal(t, "<p><script>alert(1)</script></p>", out)
}

func TestRenderWithOptions(t *testing.T) {
	r := New(Options{HeadingClass: "anchor", DefaultLanguage: "plaintext"})
	assert.Equal(t, `<h1 id="t" class="anchor">T</h1>`, r.Render("# T"))
	assert.Equal(t,
		`<pre class="code-block"><code class="language-plaintext">x</code></pre>`,
		r.Render("```\nx\n```"))
	assert.Equal(t, "code-block", r.Options().CodeBlockClass)
}

const sampleDoc = "# Guide\n\n" +
	"Intro with **bold**, _em_ and `code`.\n\n" +
	"## Use `fmt`\n\n" +
	"```sh\n# not a heading\necho <ok> && exit\n```\n\n" +
	"### __init__\n" +
	"####### not a heading either\n" +
	"## 你好 世界\n" +
	"- [link](https://example.com)\n" +
	"1. ![img](/i.png)\n" +
	"> quoted\n" +
	"---\n" +
	"## Guide\n"

func TestRenderHeadingIDsMatchTOC(t *testing.T) {
	out := Render(sampleDoc)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	var rendered []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		rendered = append(rendered, id)
	})

	var toc []string
	for _, h := range ExtractHeadings(sampleDoc) {
		toc = append(toc, h.ID)
	}
	want := []string{"guide", "use-fmt", "__init__", "你好-世界", "guide"}
	if diff := cmp.Diff(want, toc); diff != "" {
		t.Fatalf("toc ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(toc, rendered); diff != "" {
		t.Fatalf("rendered ids differ from toc (-toc +rendered):\n%s", diff)
	}
}

func TestRenderCodeBlockEscaped(t *testing.T) {
	out := Render(sampleDoc)
	assert.Contains(t, out, "echo &lt;ok&gt; &amp;&amp; exit")
	assert.NotContains(t, out, "<ok>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "# not a heading\necho <ok> && exit", doc.Find("pre.code-block code.language-sh").Text())
}

func TestRenderDeterministic(t *testing.T) {
	first := Render(sampleDoc)
	for range 5 {
		assert.Equal(t, first, Render(sampleDoc))
	}
}

func TestRenderConcurrent(t *testing.T) {
	want := Render(sampleDoc)
	r := New(DefaultOptions())

	var g errgroup.Group
	results := make([]string, 32)
	for i := range results {
		g.Go(func() error {
			results[i] = r.Render(sampleDoc)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

var renderedID = regexp.MustCompile(`<h[1-6] id="([^"]*)" class="scroll-mt-20">`)

func FuzzRender(f *testing.F) {
	for _, seed := range []string{
		sampleDoc,
		"```\n# a",
		"a ```x\ny\n```\n# b\n## c",
		"# ```\ncode\n```",
		"text ```js\nx\n``` after",
		"# t ```\n# u\n``` v\n## `w`",
		"#  \t\n# \x00",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, source string) {
		out := Render(source)
		if strings.Contains(out, "\x00") {
			t.Fatalf("placeholder left in output: %q", out)
		}
		// Raw HTML in prose passes through, so only generated headings count.
		if strings.Contains(source, "<") {
			return
		}
		var rendered []string
		for _, m := range renderedID.FindAllStringSubmatch(out, -1) {
			rendered = append(rendered, m[1])
		}
		var toc []string
		for h := range Headings(source) {
			toc = append(toc, h.ID)
		}
		if diff := cmp.Diff(toc, rendered); diff != "" {
			t.Fatalf("ids mismatch for %q (-toc +rendered):\n%s", source, diff)
		}
	})
}
