package h2m

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`[ \t\n\f\r]+`)

	// Replacer output is never rescanned, so inserted backslashes stay single.
	markdownEscaper = strings.NewReplacer(
		`\`, `\\`,
		`*`, `\*`,
		`_`, `\_`,
		`[`, `\[`,
		`]`, `\]`,
	)
)

// Normalize prepares raw text for Markdown output. With normalizeWhitespace
// set, whitespace runs are collapsed before escaping; otherwise the text is
// only escaped and keeps its line breaks.
func Normalize(text string, normalizeWhitespace bool) string {
	if normalizeWhitespace {
		return NormalizeText(text)
	}
	return Escape(text)
}

// NormalizeText collapses whitespace and escapes the result.
func NormalizeText(text string) string {
	return Escape(CollapseWhitespace(text))
}

// CollapseWhitespace replaces every run of spaces, tabs and line breaks
// with a single space.
func CollapseWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(text, " ")
}

// Escape prefixes each Markdown metacharacter (* _ [ ] \) with a backslash.
func Escape(text string) string {
	return markdownEscaper.Replace(text)
}
