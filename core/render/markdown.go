// Package render provides output renderers for the mdpipe pipeline.
// This file implements the Markdown renderer, a passthrough with an
// optional metadata header.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// MarkdownRenderer writes Markdown as-is, since Markdown is already the
// canonical pipeline format.
type MarkdownRenderer struct {
	// FrontMatter prefixes the output with a --- delimited metadata block.
	FrontMatter bool
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(frontMatter bool) *MarkdownRenderer {
	return &MarkdownRenderer{FrontMatter: frontMatter}
}

// Render returns the Markdown as bytes.
func (r *MarkdownRenderer) Render(_ context.Context, doc *core.Document) ([]byte, error) {
	if !r.FrontMatter {
		return []byte(doc.Markdown), nil
	}

	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "title", doc.Meta.Title)
	writeField(&b, "source", doc.Meta.URL)
	writeField(&b, "language", doc.Meta.Language)
	writeField(&b, "fetched_at", doc.Meta.FetchedAt)
	b.WriteString("---\n\n")
	b.WriteString(doc.Markdown)
	return []byte(b.String()), nil
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %q\n", key, value)
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
