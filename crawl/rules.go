package crawl

import (
	"net"
	"net/url"
	"path"
	"strings"
)

// pageExtensions are the path extensions that serve HTML. Paths without an
// extension are pages too; anything else is an asset.
var pageExtensions = map[string]bool{
	"":       true,
	".html":  true,
	".htm":   true,
	".xhtml": true,
	".shtml": true,
	".php":   true,
	".asp":   true,
	".aspx":  true,
	".jsp":   true,
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// IsSameDomain reports whether rawURL belongs to the site at host domain.
// Case, a default port and a leading "www." are ignored on both sides.
func IsSameDomain(rawURL, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	return siteHost(parsed.Scheme, parsed.Host) == siteHost(parsed.Scheme, domain)
}

func siteHost(scheme, host string) string {
	return strings.TrimPrefix(canonicalHost(scheme, host), "www.")
}

// canonicalHost lowercases host and drops the scheme's default port.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	h, port, err := net.SplitHostPort(host)
	if err != nil || defaultPorts[scheme] != port {
		return host
	}
	if strings.Contains(h, ":") {
		return "[" + h + "]"
	}
	return h
}

// IsStaticAsset reports whether rawURL points at something other than an
// HTML page. Version-like suffixes such as "/release-1.0" are not extensions.
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return !pageExtensions[extension(parsed.Path)]
}

// extension returns the lowercased extension of p, or "" when the suffix
// has no letters or holds characters no file extension uses.
func extension(p string) string {
	ext := strings.ToLower(path.Ext(p))
	hasLetter := false
	for _, r := range strings.TrimPrefix(ext, ".") {
		switch {
		case r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return ""
		}
	}
	if !hasLetter {
		return ""
	}
	return ext
}

// NormalizeURL reduces equivalent spellings of a page URL to one form so the
// crawl queue deduplicates them: lowercase host, no default port, no
// fragment, no empty query, and no trailing slash except on the root.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Host = canonicalHost(parsed.Scheme, parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.ForceQuery = false
	switch {
	case parsed.Path == "" && parsed.Host != "":
		parsed.Path = "/"
	case parsed.Path != "/":
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		parsed.RawPath = strings.TrimSuffix(parsed.RawPath, "/")
	}

	return parsed.String()
}
