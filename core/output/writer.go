// Package output handles file naming and writing for mdpipe outputs.
// In --only mode, filenames are derived from the domain (e.g., example_com.md)
// or, for local inputs, from the input file name.
// In --all mode, filenames mirror the URL path structure.
// An output directory of "-" sends everything to stdout instead.
package output

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Stdout is the output directory value that writes to standard output.
const Stdout = "-"

// Writer writes rendered output to disk or to a stream.
type Writer struct {
	OutputDir string

	mu     sync.Mutex
	stream io.Writer // set when OutputDir is Stdout
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == Stdout {
		return NewStream(os.Stdout), nil
	}
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// NewStream creates a Writer that sends every output to w.
func NewStream(w io.Writer) *Writer {
	return &Writer{OutputDir: Stdout, stream: w}
}

// WriteOnly writes output for --only mode and returns where it went.
func (w *Writer) WriteOnly(input string, data []byte, ext string) (string, error) {
	if w.stream != nil {
		return w.writeStream(data)
	}

	path := filepath.Join(w.OutputDir, FilenameFor(input)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteAll writes output for --all mode, mirroring the URL path structure.
// Example: https://site.com/docs/intro → ./docs/intro.md
// On a stream, each page is framed so consecutive pages can be told apart.
func (w *Writer) WriteAll(rawURL string, data []byte, ext string) (string, error) {
	if w.stream != nil {
		return w.writeStream(framePage(rawURL, data, ext))
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	urlPath := strings.Trim(parsed.Path, "/")
	if urlPath == "" {
		urlPath = "index"
	}
	segments := strings.Split(urlPath, "/")
	for i, seg := range segments {
		segments[i] = sanitize(seg)
	}

	fullPath := filepath.Join(append([]string{w.OutputDir}, segments...)...) + ext

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// framePage marks the start of a page in a multi-page stream. Markdown gets
// a source comment; JSON documents are newline-terminated so the stream
// decodes value by value. Embeddings output opens with its own source line.
func framePage(rawURL string, data []byte, ext string) []byte {
	var b bytes.Buffer
	if ext == ".md" {
		fmt.Fprintf(&b, "<!-- source: %s -->\n\n", rawURL)
	}
	b.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func (w *Writer) writeStream(data []byte) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stream.Write(data); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return Stdout, nil
}

// FilenameFor converts an input into a flat base filename.
// Example: https://example.com/docs/intro → example_com_docs_intro;
// ./saved/page.html → page; "-" → stdin.
func FilenameFor(input string) string {
	if input == "-" {
		return "stdin"
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return sanitize(input)
	}
	if parsed.Host == "" {
		base := filepath.Base(parsed.Path)
		return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	parts := []string{sanitize(parsed.Host)}
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	return strings.Map(func(ch rune) rune {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
			return ch
		}
		return '_'
	}, s)
}
