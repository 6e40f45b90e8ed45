package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mdpipe/core/fetch"
)

func siteServer(t *testing.T, withSitemap bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		if !withSitemap {
			http.NotFound(w, r)
			return
		}
		host := "http://" + r.Host
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%[1]s/</loc></url>
  <url><loc> %[1]s/docs/ </loc></url>
  <url><loc>%[1]s/logo.png</loc></url>
  <url><loc>https://elsewhere.org/page</loc></url>
</urlset>`, host)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<a href="/a">a</a> <a href="b#top">b</a> <a href="/style.css">css</a>
<a href="mailto:x@y.z">mail</a> <a href="https://elsewhere.org/">ext</a> <a href="#frag">self</a>`)
		case "/a":
			fmt.Fprint(w, `<a href="/">home</a> <a href="/c/">c</a>`)
		case "/c":
			fmt.Fprint(w, `<p>leaf</p>`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDiscoverFromLinks(t *testing.T) {
	srv := siteServer(t, false)

	d := NewDiscoverer(fetch.New(), 0, nil)
	urls, err := d.Discover(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, []string{
		srv.URL + "/",
		srv.URL + "/a",
		srv.URL + "/b",
		srv.URL + "/c",
	}, urls)
}

func TestDiscoverRespectsMaxPages(t *testing.T) {
	srv := siteServer(t, false)

	d := NewDiscoverer(fetch.New(), 2, nil)
	urls, err := d.Discover(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/", srv.URL + "/a"}, urls)
}

func TestDiscoverFromSitemap(t *testing.T) {
	srv := siteServer(t, true)

	d := NewDiscoverer(fetch.New(), 10, nil)
	urls, err := d.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/", srv.URL + "/docs"}, urls)
}

func TestDiscoverRejectsRelativeBase(t *testing.T) {
	d := NewDiscoverer(fetch.New(), 10, nil)
	_, err := d.Discover(context.Background(), "docs/index.html")
	assert.Error(t, err)
}

func TestIsSameDomain(t *testing.T) {
	tests := []struct {
		url    string
		domain string
		want   bool
	}{
		{"https://Example.com/x", "example.com", true},
		{"https://www.example.com/x", "example.com", true},
		{"https://example.com/x", "WWW.example.com", true},
		{"https://example.com:443/x", "example.com", true},
		{"http://127.0.0.1:8080/x", "127.0.0.1:8080", true},
		{"http://127.0.0.1:8081/x", "127.0.0.1:8080", false},
		{"https://other.com/x", "example.com", false},
		{"https://docs.example.com/x", "example.com", false},
		{"/relative", "example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSameDomain(tt.url, tt.domain))
		})
	}
}

func TestIsStaticAsset(t *testing.T) {
	assets := []string{
		"https://example.com/a/B.PNG",
		"https://example.com/style.css",
		"https://example.com/dist/app.tar.gz",
		"https://example.com/notes.md",
	}
	for _, u := range assets {
		assert.True(t, IsStaticAsset(u), u)
	}

	pages := []string{
		"https://example.com/",
		"https://example.com/docs/intro",
		"https://example.com/a/page.html",
		"https://example.com/index.php?id=2",
		"https://example.com/releases/v1.2",
		"https://example.com/releases/1.0-beta",
	}
	for _, u := range pages {
		assert.False(t, IsStaticAsset(u), u)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"https://EXAMPLE.com/docs/#intro": "https://example.com/docs",
		"https://example.com/":            "https://example.com/",
		"https://example.com":             "https://example.com/",
		"https://example.com:443/a?":      "https://example.com/a",
		"http://example.com:8080/a/":      "http://example.com:8080/a",
		"https://example.com/a?x=1#top":   "https://example.com/a?x=1",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeURL(in))
		})
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.Add("a"))
	assert.True(t, q.Add("b"))
	assert.False(t, q.Add("a"))
	assert.Equal(t, 2, q.Len())

	assert.True(t, q.HasNext())
	assert.Equal(t, "a", q.Next())
	assert.Equal(t, "b", q.Next())
	assert.False(t, q.HasNext())
	assert.Equal(t, []string{"a", "b"}, q.All())
}
