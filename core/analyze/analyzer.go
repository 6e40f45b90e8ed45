// Package analyze implements the Analyzer interface.
// Structure is read from the cleaned HTML rather than from Markdown, since
// the Markdown dialect alone cannot tell a heading from an ordered list item.
package analyze

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/mdpipe/core"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// HTMLAnalyzer extracts headings, links, sections and counts with goquery.
type HTMLAnalyzer struct{}

// New creates an HTMLAnalyzer.
func New() *HTMLAnalyzer {
	return &HTMLAnalyzer{}
}

// Analyze parses html and reports its structure.
func (a *HTMLAnalyzer) Analyze(html string) (*core.Analysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	body := doc.Find("body")
	return &core.Analysis{
		Text:     collapse(body.Text()),
		Sections: sections(body),
		Structure: core.PageStructure{
			Headings:   headings(body),
			Links:      links(body),
			CodeBlocks: body.Find("pre").Length(),
			Tables:     body.Find("table").Length(),
			Lists:      body.Find("li").Length(),
		},
	}, nil
}

func headings(root *goquery.Selection) []core.Heading {
	out := make([]core.Heading, 0)
	root.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, core.Heading{
			Level: headingLevel(s),
			Text:  collapse(s.Text()),
		})
	})
	return out
}

func links(root *goquery.Selection) []core.Link {
	out := make([]core.Link, 0)
	root.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out = append(out, core.Link{
			Text: collapse(s.Text()),
			Href: strings.TrimSpace(href),
		})
	})
	return out
}

// sections pairs each heading with the text of the siblings that follow it,
// up to the next heading.
func sections(root *goquery.Selection) []core.Section {
	var out []core.Section
	root.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		var parts []string
		s.NextUntil(headingSelector).Each(func(_ int, sib *goquery.Selection) {
			parts = append(parts, sib.Text())
		})
		out = append(out, core.Section{
			Heading: collapse(s.Text()),
			Level:   headingLevel(s),
			Text:    collapse(strings.Join(parts, " ")),
		})
	})
	return out
}

func headingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
