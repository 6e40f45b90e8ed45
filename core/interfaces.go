// Package core defines the pipeline interfaces for mdpipe.
// Each stage of the pipeline is a clean, testable interface:
// fetch → extract → normalize → analyze → render.
package core

import (
	"context"
	"errors"
)

// ErrNoContent is returned when a stage has nothing left to work with.
var ErrNoContent = errors.New("no content")

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
	// Local is set for file and stdin inputs.
	Local bool
}

// Extraction is the main content of a page with the page-level facts that
// live outside it.
type Extraction struct {
	// HTML is the outer HTML of the chosen content container.
	HTML     string
	Title    string
	Language string
}

// PageMetadata holds metadata extracted from the page and URL.
type PageMetadata struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Language  string `json:"language"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Section represents a heading-delimited section of content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// PageContent holds the text and structured content of a page.
type PageContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// PageStructure holds structural metadata read from the content HTML.
type PageStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	Lists      int       `json:"lists"`
}

// Analysis is what the analyzer learns about the content HTML.
type Analysis struct {
	Text      string
	Sections  []Section
	Structure PageStructure
}

// Document is everything a renderer may draw on.
type Document struct {
	Markdown string
	Meta     PageMetadata
	Analysis Analysis
}

// PageJSON is the complete JSON output for a single page.
type PageJSON struct {
	Metadata  PageMetadata  `json:"metadata"`
	Content   PageContent   `json:"content"`
	Structure PageStructure `json:"structure"`
}

// Fetcher retrieves raw HTML from a URL or local path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (*Extraction, error)
}

// Normalizer converts cleaned HTML into Markdown (the canonical format).
// pageURL, when non-empty, is used to resolve relative links.
type Normalizer interface {
	Normalize(html string, pageURL string) (string, error)
}

// Analyzer reads structure out of cleaned HTML.
type Analyzer interface {
	Analyze(html string) (*Analysis, error)
}

// Renderer converts a Document into a final output format.
type Renderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Embedder generates a vector embedding for a text input.
type Embedder interface {
	Embed(ctx context.Context, text string, model string) ([]float64, error)
}
