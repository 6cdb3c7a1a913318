package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pass is one rewrite step of the render pipeline.
type Pass struct {
	Name  string
	Apply func(string) string
	// Seal matches the markup Apply emits that later passes must leave
	// untouched. Nil when the output may be rewritten further.
	Seal *regexp.Regexp
}

var (
	fencedBlock = regexp.MustCompile("(?s)```([^\\s`]*)[ \\t]*\\n(.*?)```")
	inlineCode  = regexp.MustCompile("`([^`\\n]+)`")

	boldStars       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscores = regexp.MustCompile(`__(.+?)__`)
	italicStar      = regexp.MustCompile(`\*([^\s*](?:[^*\n]*[^\s*])?)\*`)
	italicUnder     = regexp.MustCompile(`_([^\s_](?:[^_\n]*[^\s_])?)_`)
	strike          = regexp.MustCompile(`~~(.+?)~~`)

	// link also matches the leading "!" of an image so it can step over it.
	link  = regexp.MustCompile(`(!?)\[([^\]\n]+)\]\(([^)\s]*)\)`)
	image = regexp.MustCompile(`!\[([^\]\n]*)\]\(([^)\s]*)\)`)

	rule        = regexp.MustCompile(`^(?:---|\*\*\*)$`)
	quote       = regexp.MustCompile(`^>[ \t]?(.*)$`)
	bulletItem  = regexp.MustCompile(`^[-*] (.*)$`)
	orderedItem = regexp.MustCompile(`^\d+\. (.*)$`)

	headingOpenTag = regexp.MustCompile(`<h[1-6] id="[^"]*"[^>]*>`)
)

// blockPrefixes start lines the paragraph pass leaves alone.
var blockPrefixes = []string{"<h", "<pre", "<blockquote", "<li", "<hr", "<img", "</"}

// Passes returns the ordered pipeline Render folds over source. Heading
// ids are taken from Headings(source) so the table of contents and the
// rendered anchors always agree.
func (r *Renderer) Passes(source string) []Pass {
	var ids []string
	for h := range Headings(source) {
		ids = append(ids, h.ID)
	}
	return r.passes(ids)
}

func (r *Renderer) passes(ids []string) []Pass {
	return []Pass{
		{Name: "fenced-code", Apply: r.fencedCode, Seal: r.codeBlockTag},
		{Name: "inline-code", Apply: r.inlineCode, Seal: r.inlineCodeTag},
		{Name: "headings", Apply: r.headings(ids), Seal: headingOpenTag},
		{Name: "bold", Apply: bold},
		{Name: "italic", Apply: italic},
		{Name: "strikethrough", Apply: strikethrough},
		{Name: "links", Apply: links},
		{Name: "images", Apply: r.images},
		{Name: "rules", Apply: rules},
		{Name: "blockquotes", Apply: blockquotes},
		{Name: "lists", Apply: lists},
		{Name: "paragraphs", Apply: paragraphs},
	}
}

func (r *Renderer) fencedCode(s string) string {
	return fencedBlock.ReplaceAllStringFunc(s, func(block string) string {
		m := fencedBlock.FindStringSubmatch(block)
		lang := m[1]
		if lang == "" {
			lang = r.opts.DefaultLanguage
		}
		body := strings.TrimSuffix(m[2], "\n")
		return fmt.Sprintf(`<pre class="%s"><code class="language-%s">%s</code></pre>`,
			r.opts.CodeBlockClass, html.EscapeString(lang), html.EscapeString(body))
	})
}

// inlineCode keeps the span content verbatim; it is not escaped.
func (r *Renderer) inlineCode(s string) string {
	return inlineCode.ReplaceAllString(s, `<code class="`+r.opts.InlineCodeClass+`">$1</code>`)
}

// headings assigns ids[n] to the n-th heading line. A line whose title is
// only a fenced block stays a plain line, as in Headings. Ids come from the
// same line scan, so the count only runs short if Apply is handed a
// different document; the title's own slug covers that case.
func (r *Renderer) headings(ids []string) func(string) string {
	return func(s string) string {
		n := 0
		return mapLines(s, func(line string) string {
			m := headingLine.FindStringSubmatch(line)
			if m == nil {
				return line
			}
			title := strings.TrimSpace(m[2])
			if strings.TrimSpace(sealedFence.ReplaceAllString(title, "")) == "" {
				return line
			}
			id := Slug(title)
			if n < len(ids) {
				id = ids[n]
			}
			n++
			level := len(m[1])
			return fmt.Sprintf(`<h%d id="%s" class="%s">%s</h%d>`, level, id, r.opts.HeadingClass, title, level)
		})
	}
}

func bold(s string) string {
	s = boldStars.ReplaceAllString(s, "<strong>$1</strong>")
	return replaceFlanked(s, boldUnderscores, "<strong>", "</strong>")
}

func italic(s string) string {
	s = italicStar.ReplaceAllString(s, "<em>$1</em>")
	return replaceFlanked(s, italicUnder, "<em>", "</em>")
}

func strikethrough(s string) string {
	return strike.ReplaceAllString(s, "<del>$1</del>")
}

func links(s string) string {
	return link.ReplaceAllStringFunc(s, func(match string) string {
		m := link.FindStringSubmatch(match)
		if m[1] == "!" {
			return match
		}
		return `<a href="` + m[3] + `" target="_blank" rel="noopener noreferrer">` + m[2] + `</a>`
	})
}

func (r *Renderer) images(s string) string {
	return image.ReplaceAllString(s, `<img src="$2" alt="$1" class="`+r.opts.ImageClass+`" />`)
}

func rules(s string) string {
	return mapLines(s, func(line string) string {
		if rule.MatchString(line) {
			return "<hr />"
		}
		return line
	})
}

func blockquotes(s string) string {
	return mapLines(s, func(line string) string {
		return quote.ReplaceAllString(line, "<blockquote>$1</blockquote>")
	})
}

func lists(s string) string {
	return mapLines(s, func(line string) string {
		if m := bulletItem.FindStringSubmatch(line); m != nil {
			return `<li class="ul-item">` + m[1] + `</li>`
		}
		if m := orderedItem.FindStringSubmatch(line); m != nil {
			return `<li class="ol-item">` + m[1] + `</li>`
		}
		return line
	})
}

func paragraphs(s string) string {
	return mapLines(s, func(line string) string {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(trimmed, "<code") || sealedFence.MatchString(trimmed) {
			return line
		}
		for _, prefix := range blockPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				return line
			}
		}
		return "<p>" + line + "</p>"
	})
}

// replaceFlanked wraps the first group of every match in the given tags unless
// the match touches a word character on either side, so snake_case and
// similar identifiers are left alone.
func replaceFlanked(s string, re *regexp.Regexp, openTag, closeTag string) string {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		if prev, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 && isWordRune(prev) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(s[end:]); end < len(s) && isWordRune(next) {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(openTag)
		b.WriteString(s[loc[2]:loc[3]])
		b.WriteString(closeTag)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func mapLines(s string, f func(string) string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = f(line)
	}
	return strings.Join(lines, "\n")
}
