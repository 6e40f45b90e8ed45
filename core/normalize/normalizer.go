// Package normalize implements the Normalizer interface.
// It converts cleaned HTML into Markdown, which serves as the
// canonical intermediate format for all downstream renderers.
//
// Two engines are available: h2m, this module's converter, and
// html-to-markdown, a CommonMark-oriented library converter.
package normalize

import (
	"errors"
	"fmt"
	"net/url"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/gaurav-prasanna/mdpipe/core/h2m"
)

// Engine names.
const (
	EngineH2M            = "h2m"
	EngineHTMLToMarkdown = "html-to-markdown"
)

// ErrUnknownEngine is returned by New for an unrecognized engine name.
var ErrUnknownEngine = errors.New("unknown engine")

// Engines lists the accepted engine names.
func Engines() []string {
	return []string{EngineH2M, EngineHTMLToMarkdown}
}

// MarkdownNormalizer converts HTML to Markdown with the selected engine.
type MarkdownNormalizer struct {
	engine string
	opts   []h2m.Option
}

// New creates a MarkdownNormalizer. opts apply to the h2m engine only.
func New(engine string, opts ...h2m.Option) (*MarkdownNormalizer, error) {
	switch engine {
	case EngineH2M, EngineHTMLToMarkdown:
	default:
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownEngine, engine, Engines())
	}
	return &MarkdownNormalizer{engine: engine, opts: opts}, nil
}

// Engine returns the engine name this normalizer runs.
func (n *MarkdownNormalizer) Engine() string {
	return n.engine
}

// Normalize converts a cleaned HTML fragment into Markdown. Relative links
// are resolved against pageURL when it is an absolute web URL.
func (n *MarkdownNormalizer) Normalize(html string, pageURL string) (string, error) {
	base := webBase(pageURL)

	if n.engine == EngineHTMLToMarkdown {
		var opts []converter.ConvertOptionFunc
		if base != nil {
			opts = append(opts, converter.WithDomain(base.Scheme+"://"+base.Host))
		}
		markdown, err := htmltomarkdown.ConvertString(html, opts...)
		if err != nil {
			return "", fmt.Errorf("converting HTML to markdown: %w", err)
		}
		return markdown, nil
	}

	opts := n.opts
	if base != nil {
		opts = append(opts[:len(opts):len(opts)], h2m.WithBaseURL(base))
	}
	markdown, err := h2m.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

func webBase(pageURL string) *url.URL {
	if pageURL == "" {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return u
}
