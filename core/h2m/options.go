package h2m

import "net/url"

// Options control a single conversion.
type Options struct {
	// NormalizeWhitespace collapses whitespace runs in text to one space.
	// Escaping is applied either way.
	NormalizeWhitespace bool
	// HeaderOffset is added to the level of every heading.
	HeaderOffset int
	// BaseURL resolves relative link targets when set.
	BaseURL *url.URL
}

// DefaultOptions returns the options used when a caller overrides nothing.
func DefaultOptions() Options {
	return Options{
		NormalizeWhitespace: true,
		HeaderOffset:        0,
	}
}

// Option overrides one field of the default Options.
type Option func(*Options)

// WithNormalizeWhitespace toggles whitespace collapsing in text nodes.
func WithNormalizeWhitespace(enabled bool) Option {
	return func(o *Options) { o.NormalizeWhitespace = enabled }
}

// WithHeaderOffset shifts every heading down by offset levels, which lets
// a converted document be embedded below an existing heading.
func WithHeaderOffset(offset int) Option {
	return func(o *Options) { o.HeaderOffset = offset }
}

// WithBaseURL resolves relative href values against base.
func WithBaseURL(base *url.URL) Option {
	return func(o *Options) { o.BaseURL = base }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
