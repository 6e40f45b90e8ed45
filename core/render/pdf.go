// Package render — PDF renderer.
// Converts Markdown into a styled PDF using gofpdf.
// Handles headings (variable font sizes), paragraphs, code blocks, and lists.
// Images are intentionally not rendered.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// lineKind classifies one Markdown line for layout.
type lineKind int

const (
	lineBlank lineKind = iota
	lineText
	lineHeading
	lineBullet
	lineNumbered
	lineContinuation // indented text belonging to the previous list item
	lineCode
)

type pdfLine struct {
	kind  lineKind
	level int // heading level, or item number for numbered lines
	text  string
}

var (
	headingLine  = regexp.MustCompile(`^(#+) +(.*)$`)
	numberedLine = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	boldMarks    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicMarks  = regexp.MustCompile(`(^|[^\\*])\*([^*]+)\*`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	linkSyntax   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	escapedChar  = regexp.MustCompile(`\\([*_\[\]\\])`)
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the document Markdown into PDF bytes.
func (r *PDFRenderer) Render(_ context.Context, doc *core.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(doc.Meta.Title), "", "L", false)
		pdf.Ln(4)
	}

	if doc.Meta.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+doc.Meta.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	for _, line := range classify(doc.Markdown, doc.Analysis.Structure.Headings) {
		switch line.kind {
		case lineBlank:
			pdf.Ln(3)
		case lineHeading:
			renderHeading(pdf, tr(line.text), line.level)
		case lineCode:
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line.text), "", "L", true)
		case lineBullet:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+line.text), "", "L", false)
		case lineNumbered:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", line.level, line.text)), "", "L", false)
		case lineContinuation:
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetX(pdf.GetX() + 5)
			pdf.MultiCell(0, 5, tr(line.text), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(line.text), "", "L", false)
		}
	}

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

// classify walks the Markdown line by line. A "# " line is only a heading
// when its text matches the next heading the analyzer found; otherwise it is
// an ordered list item. Indented lines are code unless they continue a list
// item.
func classify(markdown string, headings []core.Heading) []pdfLine {
	var (
		out      []pdfLine
		next     int  // index of the next expected heading
		inFence  bool // inside a ``` block
		inItem   bool // previous non-empty line belonged to a list item
		itemNum  int
		prevKind = lineBlank
	)

	for _, raw := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(raw), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, pdfLine{kind: lineCode, text: raw})
			continue
		}

		if strings.TrimSpace(raw) == "" {
			// An indented blank line keeps a list item open.
			if !(inItem && strings.HasPrefix(raw, "    ")) {
				inItem = false
			}
			if prevKind != lineBlank {
				out = append(out, pdfLine{kind: lineBlank})
			}
			prevKind = lineBlank
			continue
		}

		var line pdfLine
		switch {
		case isIndented(raw) && inItem:
			line = pdfLine{kind: lineContinuation, text: cleanInlineMarkdown(raw)}
		case isIndented(raw):
			line = pdfLine{kind: lineCode, text: unescape(trimIndent(raw))}
		default:
			line = classifyLine(strings.TrimLeft(raw, " "), headings, &next, &itemNum)
		}

		switch line.kind {
		case lineBullet, lineNumbered:
			inItem = true
		case lineContinuation:
		default:
			inItem = false
		}
		if line.kind != lineNumbered && line.kind != lineContinuation {
			itemNum = 0
		}
		out = append(out, line)
		prevKind = line.kind
	}
	return out
}

func classifyLine(line string, headings []core.Heading, next, itemNum *int) pdfLine {
	if m := headingLine.FindStringSubmatch(line); m != nil {
		text := cleanInlineMarkdown(m[2])
		if i := matchHeading(headings, *next, text); i >= 0 {
			*next = i + 1
			return pdfLine{kind: lineHeading, level: len(m[1]), text: text}
		}
		if m[1] == "#" {
			*itemNum++
			return pdfLine{kind: lineNumbered, level: *itemNum, text: text}
		}
		return pdfLine{kind: lineHeading, level: len(m[1]), text: text}
	}
	if strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ") {
		return pdfLine{kind: lineBullet, text: cleanInlineMarkdown(line[2:])}
	}
	if m := numberedLine.FindStringSubmatch(line); m != nil {
		*itemNum++
		return pdfLine{kind: lineNumbered, level: *itemNum, text: cleanInlineMarkdown(m[2])}
	}
	return pdfLine{kind: lineText, text: cleanInlineMarkdown(line)}
}

// matchHeading returns the index of the first heading at or after from that
// text belongs to, or -1. Without whitespace collapsing a heading can span
// several Markdown lines, so the marker line may hold only its first words.
func matchHeading(headings []core.Heading, from int, text string) int {
	if text == "" {
		return -1
	}
	for i := from; i < len(headings); i++ {
		h := headings[i].Text
		if h == text || strings.HasPrefix(h, text+" ") {
			return i
		}
	}
	return -1
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func trimIndent(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	return line[4:]
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = linkSyntax.ReplaceAllString(text, "$1")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = boldMarks.ReplaceAllString(text, "$1")
	text = italicMarks.ReplaceAllString(text, "$1$2")
	return strings.TrimSpace(unescape(text))
}

func unescape(text string) string {
	return escapedChar.ReplaceAllString(text, "$1")
}
