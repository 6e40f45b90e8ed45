// Package extract implements the Extractor interface.
// It isolates the main content from a full HTML page by:
//  1. Removing noise elements (nav, footer, scripts, images, etc.)
//  2. Picking the best content container (<main>, <article>, or <body>)
//
// Page-level facts outside the container (title, language) are read first.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// defaultNoise lists elements that contribute no meaningful content.
var defaultNoise = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

var containers = []string{"main", "article", "body"}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct {
	noise cascadia.Selector
}

// New creates an HTMLExtractor. Extra CSS selectors are removed in addition
// to the default noise list.
func New(extraNoise ...string) (*HTMLExtractor, error) {
	sel := strings.Join(append(append([]string{}, defaultNoise...), extraNoise...), ", ")
	noise, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compiling noise selectors: %w", err)
	}
	return &HTMLExtractor{noise: noise}, nil
}

// Extract takes raw HTML and returns the cleaned main content with the page
// title and language.
func (e *HTMLExtractor) Extract(html string) (*core.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	lang, _ := doc.Find("html").First().Attr("lang")

	doc.FindMatcher(e.noise).Remove()

	var content *goquery.Selection
	for _, tag := range containers {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("no content container found in HTML: %w", core.ErrNoContent)
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}

	return &core.Extraction{
		HTML:     result,
		Title:    title,
		Language: strings.TrimSpace(lang),
	}, nil
}
