// Package render — JSON renderer.
// Builds the structured JSON output from the document. Structure comes from
// the analyzer, which reads it off the HTML rather than guessing from
// Markdown.
package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts the document into the PageJSON structure.
func (r *JSONRenderer) Render(_ context.Context, doc *core.Document) ([]byte, error) {
	structure := doc.Analysis.Structure
	if structure.Headings == nil {
		structure.Headings = []core.Heading{}
	}
	if structure.Links == nil {
		structure.Links = []core.Link{}
	}

	sections := doc.Analysis.Sections
	if sections == nil {
		sections = []core.Section{}
	}

	page := core.PageJSON{
		Metadata: doc.Meta,
		Content: core.PageContent{
			Text:     doc.Analysis.Text,
			Markdown: doc.Markdown,
			Sections: sections,
		},
		Structure: structure,
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
