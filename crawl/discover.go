// Package crawl provides URL discovery for --all mode.
// It discovers internal pages via sitemap.xml and link extraction,
// keeping crawling logic separate from the conversion pipeline.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/logger"
)

const (
	defaultMaxPages = 100
	sitemapTimeout  = 15 * time.Second
)

var anchors = cascadia.MustCompile("a[href]")

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// urlSet is the root element of a sitemap.xml.
type urlSet struct {
	URLs []sitemapURL `xml:"url"`
}

// Discoverer finds the internal pages of a site.
type Discoverer struct {
	Fetcher  core.Fetcher
	MaxPages int
	Client   *http.Client
	Log      *logger.Logger
}

// NewDiscoverer creates a Discoverer that crawls with fetcher.
func NewDiscoverer(fetcher core.Fetcher, maxPages int, log *logger.Logger) *Discoverer {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Discoverer{
		Fetcher:  fetcher,
		MaxPages: maxPages,
		Client:   &http.Client{Timeout: sitemapTimeout},
		Log:      log,
	}
}

// Discover finds all internal URLs to process starting from baseURL.
// It first tries sitemap.xml, then falls back to BFS link crawling.
// At most MaxPages URLs are returned.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("parsing base URL %q: invalid or relative", baseURL)
	}
	domain := parsed.Host

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, domain)
	urls, err := d.fromSitemap(ctx, sitemap, domain)
	if err == nil && len(urls) > 0 {
		d.Log.CrawlDiscovered(baseURL, "sitemap", len(urls))
		return urls, nil
	}
	if err != nil {
		d.Log.Skipped(sitemap, err.Error())
	}

	urls, err = d.fromLinks(ctx, baseURL, domain)
	if err != nil {
		return nil, err
	}
	d.Log.CrawlDiscovered(baseURL, "links", len(urls))
	return urls, nil
}

func (d *Discoverer) fromSitemap(ctx context.Context, sitemapURL, domain string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decoding sitemap: %w", err)
	}

	queue := NewQueue()
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if queue.Len() >= d.MaxPages {
			break
		}
		if IsSameDomain(loc, domain) && !IsStaticAsset(loc) {
			queue.Add(NormalizeURL(loc))
		}
	}
	return queue.All(), nil
}

// fromLinks performs BFS crawling to find internal links.
func (d *Discoverer) fromLinks(ctx context.Context, startURL, domain string) ([]string, error) {
	queue := NewQueue()
	queue.Add(NormalizeURL(startURL))

	for queue.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue.Next()

		result, err := d.Fetcher.Fetch(ctx, current)
		if err != nil {
			// A dead page should not end the crawl.
			d.Log.Skipped(current, err.Error())
			continue
		}

		links, err := ExtractLinks(result.HTML, current)
		if err != nil {
			d.Log.Skipped(current, err.Error())
			continue
		}

		for _, link := range links {
			if queue.Len() >= d.MaxPages {
				return queue.All(), nil
			}
			if IsSameDomain(link, domain) && !IsStaticAsset(link) {
				queue.Add(NormalizeURL(link))
			}
		}
	}

	return queue.All(), nil
}

// ExtractLinks returns the href of every anchor in html, resolved against
// baseURL. Non-navigational schemes and bare fragments are dropped.
func ExtractLinks(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	var links []string
	doc.FindMatcher(anchors).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(strings.TrimSpace(href), base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	for _, scheme := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return ""
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
