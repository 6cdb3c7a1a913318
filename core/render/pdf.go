// Package render — PDF renderer.
// Converts a document's Markdown source into a styled PDF using gofpdf.
// Handles headings (variable font sizes and outline bookmarks), paragraphs,
// blockquotes, code blocks, and lists. Images are not embedded.
// Code blocks are found with the same fence rule as the dialect renderer.
package render

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/markdown"
)

var (
	inlineMarks = regexp.MustCompile(`(\*\*|__|~~|\*|_)([^*_~\n]+)(\*\*|__|~~|\*|_)`)
	pdfLink     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]+\)`)
	pdfCode     = regexp.MustCompile("`([^`]+)`")
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// pdfFont is the family name a FontFile is registered under.
const pdfFont = "body"

// PDFRenderer renders a document as PDF. The built-in fonts cover
// Windows-1252 only: other characters, CJK included, print as "?" unless
// FontFile names a UTF-8 TrueType font.
type PDFRenderer struct {
	// FontFile is used for all text when set.
	FontFile string
}

// NewPDFRenderer creates a PDFRenderer. fontFile may be empty.
func NewPDFRenderer(fontFile string) *PDFRenderer {
	return &PDFRenderer{FontFile: fontFile}
}

// Render lays out the document source and builds the outline from doc.TOC.
func (r *PDFRenderer) Render(doc core.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(doc.Meta.Title, true)

	w := &pdfWriter{pdf: pdf, sans: "Helvetica", mono: "Courier", toc: doc.TOC, lastLevel: -1}
	if r.FontFile != "" {
		data, err := os.ReadFile(r.FontFile)
		if err != nil {
			return nil, fmt.Errorf("reading PDF font: %w", err)
		}
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(pdfFont, style, data)
		}
		w.sans, w.mono = pdfFont, pdfFont
		w.tr = func(s string) string { return s }
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	if doc.Meta.Title != "" {
		pdf.SetFont(w.sans, "B", 18)
		pdf.MultiCell(0, 8, w.tr(doc.Meta.Title), "", "L", false)
		pdf.Ln(4)
	}
	if doc.Meta.URL != "" {
		pdf.SetFont(w.sans, "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, w.tr("Source: "+doc.Meta.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	for l := range markdown.Lines(doc.Source) {
		if l.IsHeading {
			w.heading(l.Heading)
		} else {
			w.line(l.Text)
		}
		for _, code := range l.Code {
			w.code(code)
		}
	}
	w.bookmarkRest()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

type pdfWriter struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	sans, mono string

	// toc[next:] are the entries not yet in the outline.
	toc       []core.Heading
	next      int
	lastLevel int
}

func (w *pdfWriter) code(body string) {
	w.pdf.Ln(2)
	w.pdf.SetFont(w.mono, "", 9)
	w.pdf.SetFillColor(245, 245, 245)
	w.pdf.MultiCell(0, 4.5, w.tr(body), "", "L", true)
	w.pdf.Ln(2)
}

func (w *pdfWriter) line(line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		w.pdf.Ln(3)
	case trimmed == "---" || trimmed == "***":
		x, y := w.pdf.GetXY()
		pageW, _ := w.pdf.GetPageSize()
		_, _, right, _ := w.pdf.GetMargins()
		w.pdf.Line(x, y+2, pageW-right, y+2)
		w.pdf.Ln(5)
	default:
		w.text(trimmed)
	}
}

// heading writes a heading. The outline follows the TOC: the entry with the
// heading's id is bookmarked here, together with any entries before it that
// the layout had no heading line for.
func (w *pdfWriter) heading(h core.Heading) {
	size, ok := headingSizes[h.Level]
	if !ok {
		size = 10
	}
	w.pdf.Ln(4)
	w.pdf.SetFont(w.sans, "B", size)
	for i := w.next; i < len(w.toc); i++ {
		if w.toc[i].ID == h.ID {
			for _, entry := range w.toc[w.next : i+1] {
				w.bookmark(entry)
			}
			w.next = i + 1
			break
		}
	}
	w.pdf.MultiCell(0, size*0.6, w.tr(cleanInlineMarkdown(h.Title)), "", "L", false)
	w.pdf.Ln(2)
}

// bookmarkRest adds the TOC entries no heading line matched.
func (w *pdfWriter) bookmarkRest() {
	w.pdf.SetFont(w.sans, "", 10)
	for _, entry := range w.toc[w.next:] {
		w.bookmark(entry)
	}
	w.next = len(w.toc)
}

// bookmark adds an outline entry at the current position. The current font
// decides whether gofpdf encodes the title as UTF-16. Outline levels may only deepen one step at
// a time, so skipped levels are clamped.
func (w *pdfWriter) bookmark(h core.Heading) {
	level := h.Level - 1
	if level > w.lastLevel+1 {
		level = w.lastLevel + 1
	}
	w.lastLevel = level
	w.pdf.Bookmark(w.tr(cleanInlineMarkdown(h.Title)), level, -1)
}

func (w *pdfWriter) text(trimmed string) {
	w.pdf.SetFont(w.sans, "", 10)
	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		trimmed = "- " + strings.TrimSpace(trimmed[2:])
	case strings.HasPrefix(trimmed, ">"):
		w.pdf.SetFont(w.sans, "I", 10)
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))
	}
	w.pdf.MultiCell(0, 5, w.tr(cleanInlineMarkdown(trimmed)), "", "L", false)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = pdfLink.ReplaceAllString(text, "$1")
	text = pdfCode.ReplaceAllString(text, "$1")
	text = inlineMarks.ReplaceAllString(text, "$2")
	return strings.TrimSpace(text)
}
