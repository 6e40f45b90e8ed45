package cmd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/fetch"
	"github.com/gaurav-prasanna/mdpipe/logger"
)

// Pipeline stage names, as reported in errors and logs.
const (
	stageFetch     = "fetch"
	stageExtract   = "extract"
	stageNormalize = "normalize"
	stageAnalyze   = "analyze"
	stageRender    = "render"
	stageWrite     = "write"
)

// stageError records which stage a page failed in.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// pipeline wires the stages for one run.
type pipeline struct {
	fetcher    core.Fetcher
	extractor  core.Extractor
	normalizer core.Normalizer
	analyzer   core.Analyzer
	renderer   core.Renderer
	log        *logger.Logger
	now        func() time.Time
}

// process runs a single input through every stage up to rendering.
func (p *pipeline) process(ctx context.Context, input string) ([]byte, core.PageMetadata, error) {
	// 1. Fetch
	result, err := p.fetcher.Fetch(ctx, input)
	if err != nil {
		return nil, core.PageMetadata{}, &stageError{stageFetch, err}
	}

	// 2. Extract main content
	content, err := p.extractor.Extract(result.HTML)
	if err != nil {
		return nil, core.PageMetadata{}, &stageError{stageExtract, err}
	}

	// 3. Normalize to Markdown
	pageURL := input
	if result.Local {
		pageURL = ""
	}
	markdown, err := p.normalizer.Normalize(content.HTML, pageURL)
	if err != nil {
		return nil, core.PageMetadata{}, &stageError{stageNormalize, err}
	}

	// 4. Analyze structure
	analysis, err := p.analyzer.Analyze(content.HTML)
	if err != nil {
		return nil, core.PageMetadata{}, &stageError{stageAnalyze, err}
	}

	meta := buildMetadata(input, content, p.now())

	// 5. Render to output format
	data, err := p.renderer.Render(ctx, &core.Document{
		Markdown: markdown,
		Meta:     meta,
		Analysis: *analysis,
	})
	if err != nil {
		return nil, core.PageMetadata{}, &stageError{stageRender, err}
	}

	return data, meta, nil
}

// buildMetadata constructs PageMetadata from the input and extraction.
func buildMetadata(input string, content *core.Extraction, fetchedAt time.Time) core.PageMetadata {
	meta := core.PageMetadata{
		URL:       input,
		Title:     content.Title,
		Language:  content.Language,
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
	if meta.Language == "" {
		meta.Language = "en"
	}

	if fetch.IsLocal(input) {
		meta.Path = input
		return meta
	}
	if parsed, err := url.Parse(input); err == nil {
		meta.Domain = parsed.Host
		meta.Path = parsed.Path
	}
	return meta
}

// validateInput checks that input is a usable web URL or local path.
func validateInput(input string, all bool) error {
	if fetch.IsLocal(input) {
		if all {
			return fmt.Errorf("--all needs a web URL, got local input %q", input)
		}
		return nil
	}
	parsed, err := url.Parse(input)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", input)
	}
	return nil
}
