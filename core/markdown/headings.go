package markdown

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// headingLine is matched against a single line, never across lines.
var headingLine = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// fenceMask stands in for a fenced code block while scanning for headings.
// normalize guarantees the source carries no NUL of its own.
const fenceMask = "\x00"

// Line is one source line as the heading scan sees it. A fenced code block
// is folded into the line that opens it: Text keeps the prose around the
// fence and Code holds the block bodies in order.
type Line struct {
	Text string
	Code []string
	// Heading is set when IsHeading is. A heading line whose title is empty
	// once fences are removed is not a heading.
	Heading   Heading
	IsHeading bool
}

// Lines yields source line by line with fenced code blocks folded away.
// Headings is built on it, so a layout that walks Lines meets exactly the
// headings of the table of contents.
func Lines(source string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		var code []string
		text := fencedBlock.ReplaceAllStringFunc(normalize(source), func(block string) string {
			m := fencedBlock.FindStringSubmatch(block)
			code = append(code, strings.TrimSuffix(m[2], "\n"))
			return fenceMask
		})
		for line := range strings.SplitSeq(text, "\n") {
			l := Line{Text: line}
			if n := strings.Count(line, fenceMask); n > 0 {
				l.Text = strings.ReplaceAll(line, fenceMask, "")
				l.Code, code = code[:n], code[n:]
			}
			if h, ok := ParseHeadingLine(line); ok {
				if len(l.Code) > 0 {
					h.Title = strings.TrimSpace(strings.ReplaceAll(h.Title, fenceMask, ""))
					h.ID = Slug(h.Title)
				}
				l.Heading, l.IsHeading = h, h.Title != ""
			}
			if !yield(l) {
				return
			}
		}
	}
}

// Headings yields the headings of source in document order. Lines inside
// fenced code blocks are code, not headings. The sequence rescans source on
// every iteration, so it can be ranged over any number of times.
func Headings(source string) iter.Seq[Heading] {
	return func(yield func(Heading) bool) {
		for l := range Lines(source) {
			if l.IsHeading && !yield(l.Heading) {
				return
			}
		}
	}
}

// ParseHeadingLine reports whether a single line is a heading and, if so,
// returns its entry.
func ParseHeadingLine(line string) (Heading, bool) {
	m := headingLine.FindStringSubmatch(line)
	if m == nil {
		return Heading{}, false
	}
	title := strings.TrimSpace(m[2])
	return Heading{ID: Slug(title), Title: title, Level: len(m[1])}, true
}

// ExtractHeadings collects Headings(source) into a slice.
func ExtractHeadings(source string) []Heading {
	return slices.Collect(Headings(source))
}

// normalize folds CRLF line endings and replaces NUL, which the renderer
// reserves for its own placeholders.
func normalize(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\x00", "\uFFFD")
}
