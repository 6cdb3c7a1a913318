// Package markdown renders the restricted Markdown dialect used by the
// workspace console to HTML and extracts its table of contents.
//
// Rendering is a fixed, ordered list of string rewrite passes (see Passes).
// Markup emitted by the code and heading passes is sealed so that later
// passes cannot reinterpret it. Only fenced code bodies are HTML-escaped;
// prose and inline code are emitted as written.
package markdown

import (
	"html"
	"regexp"
)

// Options holds the class names and defaults the renderer writes into its
// output. Zero fields fall back to DefaultOptions.
type Options struct {
	// HeadingClass is the scroll-margin hook placed on h1–h6.
	HeadingClass    string
	CodeBlockClass  string
	InlineCodeClass string
	ImageClass      string
	// DefaultLanguage names the language-* class of an untagged fence.
	DefaultLanguage string
}

// DefaultOptions returns the classes the dashboard stylesheet targets.
func DefaultOptions() Options {
	return Options{
		HeadingClass:    "scroll-mt-20",
		CodeBlockClass:  "code-block",
		InlineCodeClass: "inline-code",
		ImageClass:      "markdown-img",
		DefaultLanguage: "text",
	}
}

// Renderer converts dialect Markdown to HTML. It is immutable after New and
// safe for concurrent use.
type Renderer struct {
	opts          Options
	codeBlockTag  *regexp.Regexp
	inlineCodeTag *regexp.Regexp
}

// New creates a Renderer. Option values are attribute-escaped once here.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	pick := func(v, fallback string) string {
		if v == "" {
			v = fallback
		}
		return html.EscapeString(v)
	}
	opts = Options{
		HeadingClass:    pick(opts.HeadingClass, def.HeadingClass),
		CodeBlockClass:  pick(opts.CodeBlockClass, def.CodeBlockClass),
		InlineCodeClass: pick(opts.InlineCodeClass, def.InlineCodeClass),
		ImageClass:      pick(opts.ImageClass, def.ImageClass),
		DefaultLanguage: pick(opts.DefaultLanguage, def.DefaultLanguage),
	}
	return &Renderer{
		opts:          opts,
		codeBlockTag:  regexp.MustCompile(`(?s)<pre class="` + regexp.QuoteMeta(opts.CodeBlockClass) + `">.*?</pre>`),
		inlineCodeTag: regexp.MustCompile(`<code class="` + regexp.QuoteMeta(opts.InlineCodeClass) + `">.*?</code>`),
	}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render converts source to HTML. It never fails: syntax the dialect does
// not know is left as literal text.
func (r *Renderer) Render(source string) string {
	source = normalize(source)
	v := &vault{}
	out := source
	for _, p := range r.Passes(source) {
		out = p.Apply(out)
		if p.Seal != nil {
			out = v.seal(out, p.Seal)
		}
	}
	return v.open(out)
}

var std = New(DefaultOptions())

// Render converts source to HTML with DefaultOptions.
func Render(source string) string {
	return std.Render(source)
}
