package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/analyze"
	"github.com/gaurav-prasanna/mdpipe/core/h2m"
)

func sampleDoc() *core.Document {
	return &core.Document{
		Markdown: "# Guide\n\nIntro\n\n",
		Meta: core.PageMetadata{
			URL:      "https://example.com/guide",
			Domain:   "example.com",
			Path:     "/guide",
			Title:    "Guide",
			Language: "en",
		},
		Analysis: core.Analysis{
			Text:     "Guide Intro",
			Sections: []core.Section{{Heading: "Guide", Level: 1, Text: "Intro"}},
			Structure: core.PageStructure{
				Headings: []core.Heading{{Level: 1, Text: "Guide"}},
			},
		},
	}
}

func TestMarkdownRenderer(t *testing.T) {
	doc := sampleDoc()

	out, err := NewMarkdownRenderer(false).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc.Markdown, string(out))

	out, err = NewMarkdownRenderer(true).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "---\ntitle: \"Guide\"\nsource: \"https://example.com/guide\"\nlanguage: \"en\"\n---\n\n"))
	assert.True(t, strings.HasSuffix(string(out), doc.Markdown))
	assert.Equal(t, ".md", NewMarkdownRenderer(false).Extension())
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(context.Background(), sampleDoc())
	require.NoError(t, err)

	var page core.PageJSON
	require.NoError(t, json.Unmarshal(out, &page))
	assert.Equal(t, "example.com", page.Metadata.Domain)
	assert.Equal(t, "Guide Intro", page.Content.Text)
	assert.Equal(t, "# Guide\n\nIntro\n\n", page.Content.Markdown)
	assert.Len(t, page.Content.Sections, 1)
	assert.Equal(t, []core.Heading{{Level: 1, Text: "Guide"}}, page.Structure.Headings)
}

func TestJSONRendererEmptyListsNotNull(t *testing.T) {
	out, err := NewJSONRenderer().Render(context.Background(), &core.Document{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"headings": []`)
	assert.Contains(t, string(out), `"links": []`)
}

func TestPDFRenderer(t *testing.T) {
	out, err := NewPDFRenderer().Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, ".pdf", NewPDFRenderer().Extension())
}

func TestClassify(t *testing.T) {
	md := " # Guide\n\nIntro text\n\n# one\n\n# two\n\n* a\n    \n    more\n\n    code\\_line\n\n## Sub\n\n"
	headings := []core.Heading{{Level: 1, Text: "Guide"}, {Level: 2, Text: "Sub"}}

	blank := pdfLine{kind: lineBlank}
	expected := []pdfLine{
		{kind: lineHeading, level: 1, text: "Guide"},
		blank,
		{kind: lineText, text: "Intro text"},
		blank,
		{kind: lineNumbered, level: 1, text: "one"},
		blank,
		{kind: lineNumbered, level: 2, text: "two"},
		blank,
		{kind: lineBullet, text: "a"},
		blank,
		{kind: lineContinuation, text: "more"},
		blank,
		{kind: lineCode, text: "code_line"},
		blank,
		{kind: lineHeading, level: 2, text: "Sub"},
		blank,
	}
	assert.Equal(t, expected, classify(md, headings))
}

func TestClassifyResyncsHeadings(t *testing.T) {
	blank := pdfLine{kind: lineBlank}

	t.Run("heading split across lines", func(t *testing.T) {
		md := "# Intro\nText\n\na\n\n# Second\n\n"
		headings := []core.Heading{{Level: 1, Text: "Intro Text"}, {Level: 1, Text: "Second"}}

		assert.Equal(t, []pdfLine{
			{kind: lineHeading, level: 1, text: "Intro"},
			{kind: lineText, text: "Text"},
			blank,
			{kind: lineText, text: "a"},
			blank,
			{kind: lineHeading, level: 1, text: "Second"},
			blank,
		}, classify(md, headings))
	})

	t.Run("unmatched heading does not block later ones", func(t *testing.T) {
		md := "# Renamed\n\n# Found\n\n# Last\n\n"
		headings := []core.Heading{{Level: 1, Text: "Original"}, {Level: 1, Text: "Found"}, {Level: 1, Text: "Last"}}

		assert.Equal(t, []pdfLine{
			{kind: lineNumbered, level: 1, text: "Renamed"},
			blank,
			{kind: lineHeading, level: 1, text: "Found"},
			blank,
			{kind: lineHeading, level: 1, text: "Last"},
			blank,
		}, classify(md, headings))
	})

	t.Run("converted without whitespace collapsing", func(t *testing.T) {
		html := "<h1>Intro\nText</h1><p>a</p><h1>Second</h1>"
		md, err := h2m.ConvertString(html, h2m.WithNormalizeWhitespace(false))
		require.NoError(t, err)
		analysis, err := analyze.New().Analyze(html)
		require.NoError(t, err)

		var got []pdfLine
		for _, l := range classify(md, analysis.Structure.Headings) {
			if l.kind == lineHeading {
				got = append(got, l)
			}
		}
		assert.Equal(t, []pdfLine{
			{kind: lineHeading, level: 1, text: "Intro"},
			{kind: lineHeading, level: 1, text: "Second"},
		}, got)
	})
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "**bold** and *it*", expected: "bold and it"},
		{input: "***both***", expected: "both"},
		{input: "[text](http://x.com \"T\")", expected: "text"},
		{input: "`code`", expected: "code"},
		{input: `snake\_case \*literal\*`, expected: "snake_case *literal*"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, cleanInlineMarkdown(tt.input), "input %q", tt.input)
	}
}

type fakeEmbedder struct {
	calls []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text, _ string) ([]float64, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float64{0.5, -1}, nil
}

func TestEmbeddingsRenderer(t *testing.T) {
	emb := &fakeEmbedder{}
	r := NewEmbeddingsRenderer(emb, "nomic", 2)

	out, err := r.Render(context.Background(), &core.Document{
		Markdown: "a b\n\nc",
		Meta:     core.PageMetadata{URL: "https://example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "c"}, emb.calls)

	text := string(out)
	assert.Contains(t, text, "# source: https://example.com\n# model: nomic\n# chunk_size: 2\n\n")
	assert.Contains(t, text, "--- chunk 2 ---\nTEXT:\nc\n\nVECTOR:\n[0.5000, -1.0000]\n\n")
	assert.Equal(t, ".embeddings.txt", r.Extension())

	_, err = r.Render(context.Background(), &core.Document{Markdown: "  "})
	assert.ErrorIs(t, err, core.ErrNoContent)

	failing := NewEmbeddingsRenderer(&fakeEmbedder{err: errors.New("down")}, "m", 10)
	_, err = failing.Render(context.Background(), &core.Document{Markdown: "x"})
	assert.ErrorContains(t, err, "embedding chunk 1: down")
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Model == "broken" {
			http.Error(w, "model not found", http.StatusNotFound)
			return
		}
		assert.Equal(t, "hello", req.Prompt)
		_ = json.NewEncoder(w).Encode(ollamaResponse{Embedding: []float64{1, 2, 3}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL)
	vec, err := e.Embed(context.Background(), "hello", "nomic")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vec)

	_, err = e.Embed(context.Background(), "hello", "broken")
	assert.ErrorContains(t, err, "returned 404: model not found")

	assert.Equal(t, DefaultOllamaURL, NewOllamaEmbedder("").URL)
}
