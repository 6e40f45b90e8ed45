// Package fetch implements the Fetcher interface.
// Remote pages are fetched over HTTP; file:// URLs, plain paths and "-"
// (stdin) are read locally so saved pages go through the same pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "mdpipe/1.0 (+https://github.com/gaurav-prasanna/mdpipe)"
)

// Stdin is the input name that reads HTML from standard input.
const Stdin = "-"

// HTTPFetcher fetches web pages via HTTP and local files from disk.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	stdin     io.Reader
	log       *logger.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithStdin replaces os.Stdin as the source for "-".
func WithStdin(r io.Reader) Option {
	return func(f *HTTPFetcher) { f.stdin = r }
}

// WithLogger sets the logger used for fetch events.
func WithLogger(l *logger.Logger) Option {
	return func(f *HTTPFetcher) { f.log = l }
}

// New creates an HTTPFetcher with a sensible timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		stdin:     os.Stdin,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsLocal reports whether input names a local file or stdin rather than a
// web page.
func IsLocal(input string) bool {
	if input == Stdin {
		return true
	}
	u, err := url.Parse(input)
	if err != nil {
		return true
	}
	return u.Scheme == "" || u.Scheme == "file"
}

// Fetch retrieves the HTML content of the given URL or path.
func (f *HTTPFetcher) Fetch(ctx context.Context, input string) (*core.FetchResult, error) {
	start := time.Now()

	var (
		result *core.FetchResult
		err    error
	)
	if IsLocal(input) {
		result, err = f.fetchLocal(input)
	} else {
		result, err = f.fetchRemote(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	f.log.PageFetched(input, result.StatusCode, len(result.HTML), time.Since(start))
	return result, nil
}

func (f *HTTPFetcher) fetchRemote(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

func (f *HTTPFetcher) fetchLocal(input string) (*core.FetchResult, error) {
	if input == Stdin {
		body, err := io.ReadAll(f.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &core.FetchResult{URL: input, HTML: string(body), Local: true}, nil
	}

	path := input
	if u, err := url.Parse(input); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	body, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &core.FetchResult{URL: input, HTML: string(body), Local: true}, nil
}
