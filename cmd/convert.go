// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// fetch → extract → normalize → analyze → render → write.
//
// It handles flag validation, renderer selection, and the --only / --all modes.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/config"
	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/analyze"
	"github.com/gaurav-prasanna/mdpipe/core/extract"
	"github.com/gaurav-prasanna/mdpipe/core/fetch"
	"github.com/gaurav-prasanna/mdpipe/core/h2m"
	"github.com/gaurav-prasanna/mdpipe/core/normalize"
	"github.com/gaurav-prasanna/mdpipe/core/output"
	"github.com/gaurav-prasanna/mdpipe/core/render"
	"github.com/gaurav-prasanna/mdpipe/crawl"
	"github.com/gaurav-prasanna/mdpipe/logger"
)

// formatFlags are the output format switches; exactly one must be set.
type formatFlags struct {
	pdf, markdown, json, embeddings bool
}

var (
	flagOnly    bool
	flagAll     bool
	flagFormats formatFlags
	flagNoise   []string
)

var convertCmd = &cobra.Command{
	Use:   "convert <url|file|->",
	Short: "Convert a URL or HTML file to the specified output format",
	Long: `Convert fetches a webpage (or reads a local HTML file, or stdin for "-"),
extracts the main content, normalizes it to Markdown, and converts it to the
specified output format (PDF, Markdown, JSON, or Embeddings).

Examples:
  mdpipe convert https://example.com --markdown
  mdpipe convert https://example.com --markdown --header_offset 1
  mdpipe convert ./saved/page.html --json --output_dir ./out
  curl -s https://example.com | mdpipe convert - --markdown --output_dir -
  mdpipe convert https://example.com --all --pdf
  mdpipe convert https://example.com --embeddings --model nomic-embed-text`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	f := convertCmd.Flags()

	// Mode flags.
	f.BoolVar(&flagOnly, "only", false, "Convert only the given input (default)")
	f.BoolVar(&flagAll, "all", false, "Convert all discovered sub-pages")

	// Output format flags (mutually exclusive).
	f.BoolVar(&flagFormats.pdf, "pdf", false, "Output PDF")
	f.BoolVar(&flagFormats.markdown, "markdown", false, "Output Markdown")
	f.BoolVar(&flagFormats.json, "json", false, "Output structured JSON")
	f.BoolVar(&flagFormats.embeddings, "embeddings", false, "Output embeddings")

	// Conversion flags, bound to configuration keys.
	f.String("engine", "h2m", "HTML to Markdown engine: h2m or html-to-markdown")
	f.Int("header_offset", 0, "Add this many levels to every heading")
	f.Bool("normalize_whitespace", true, "Collapse whitespace runs in text")
	f.Bool("front_matter", false, "Prefix Markdown output with a metadata block")
	f.StringSliceVar(&flagNoise, "strip", nil, "Extra CSS selectors to remove before conversion")

	// Embedding-specific flags.
	f.String("model", "", "Embedding model (required with --embeddings)")
	f.Int("chunk_size", 512, "Word chunk size for embeddings")

	// Output directory.
	f.String("output_dir", "", "Output directory (default: current directory, - for stdout)")
}

var convertBindings = map[string]string{
	"engine":                "engine",
	"header_offset":         "header_offset",
	"normalize_whitespace":  "normalize_whitespace",
	"front_matter":          "front_matter",
	"embeddings.model":      "model",
	"embeddings.chunk_size": "chunk_size",
	"output_dir":            "output_dir",
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	if err := validateFlags(flagOnly, flagAll, flagFormats); err != nil {
		return err
	}
	if err := validateInput(input, flagAll); err != nil {
		return err
	}

	settings, log, err := loadSettings(cmd, convertBindings)
	if err != nil {
		return err
	}

	p, err := newPipeline(settings, flagFormats, flagNoise, log)
	if err != nil {
		return err
	}

	writer, err := output.New(settings.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		discoverer := crawl.NewDiscoverer(p.fetcher, settings.Crawl.MaxPages, log)
		return runAll(ctx, cmd, input, discoverer, p, writer)
	}
	return runOnly(ctx, cmd, input, p, writer)
}

// newPipeline builds every stage from settings.
func newPipeline(s config.Settings, formats formatFlags, noise []string, log *logger.Logger) (*pipeline, error) {
	renderer, err := selectRenderer(formats, s)
	if err != nil {
		return nil, err
	}

	extractor, err := extract.New(noise...)
	if err != nil {
		return nil, err
	}

	normalizer, err := normalize.New(s.Engine,
		h2m.WithHeaderOffset(s.HeaderOffset),
		h2m.WithNormalizeWhitespace(s.NormalizeWhitespace),
	)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(
		fetch.WithTimeout(s.Fetch.Timeout),
		fetch.WithUserAgent(s.Fetch.UserAgent),
		fetch.WithLogger(log),
	)

	return &pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		analyzer:   analyze.New(),
		renderer:   renderer,
		log:        log,
		now:        time.Now,
	}, nil
}

// runOnly processes a single input through the pipeline.
func runOnly(ctx context.Context, cmd *cobra.Command, input string, p *pipeline, writer *output.Writer) error {
	start := time.Now()
	data, _, err := p.process(ctx, input)
	if err != nil {
		return err
	}

	path, err := writer.WriteOnly(input, data, p.renderer.Extension())
	if err != nil {
		return &stageError{stageWrite, err}
	}
	p.log.PageConverted(input, path, time.Since(start))
	if path != output.Stdout {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}
	return nil
}

// runAll discovers all internal pages and processes each through the
// pipeline. Individual page failures are reported and counted; the run
// fails only if every page failed.
func runAll(ctx context.Context, cmd *cobra.Command, input string, d *crawl.Discoverer, p *pipeline, writer *output.Writer) error {
	out := cmd.OutOrStdout()
	if writer.OutputDir == output.Stdout {
		out = cmd.ErrOrStderr()
	}
	fmt.Fprintf(out, "Discovering pages from %s...\n", input)

	urls, err := d.Discover(ctx, input)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(out, "Found %d pages to process\n", len(urls))

	var errCount int
	for i, pageURL := range urls {
		fmt.Fprintf(out, "[%d/%d] Processing %s\n", i+1, len(urls), pageURL)
		start := time.Now()

		data, _, err := p.process(ctx, pageURL)
		if err == nil {
			var path string
			path, err = writer.WriteAll(pageURL, data, p.renderer.Extension())
			if err == nil {
				p.log.PageConverted(pageURL, path, time.Since(start))
				if path != output.Stdout {
					fmt.Fprintf(out, "  ✓ Written: %s\n", path)
				}
				continue
			}
			err = &stageError{stageWrite, err}
		}

		errCount++
		stage := "unknown"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		p.log.PageFailed(pageURL, stage, err)
		fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ Error: %v\n", err)
	}

	if errCount > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d/%d pages failed\n", errCount, len(urls))
	}
	if len(urls) > 0 && errCount == len(urls) {
		return fmt.Errorf("all %d pages failed", errCount)
	}
	return nil
}

// validateFlags checks that exactly one output format is chosen and
// that --only and --all are not both specified.
func validateFlags(only, all bool, formats formatFlags) error {
	if only && all {
		return fmt.Errorf("--only and --all are mutually exclusive")
	}

	formatCount := 0
	for _, set := range []bool{formats.pdf, formats.markdown, formats.json, formats.embeddings} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, --json, or --embeddings")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the Renderer for the chosen format.
func selectRenderer(formats formatFlags, s config.Settings) (core.Renderer, error) {
	switch {
	case formats.markdown:
		return render.NewMarkdownRenderer(s.FrontMatter), nil
	case formats.json:
		return render.NewJSONRenderer(), nil
	case formats.pdf:
		return render.NewPDFRenderer(), nil
	case formats.embeddings:
		if s.Embeddings.Model == "" {
			return nil, fmt.Errorf("--model (or embeddings.model) is required when using --embeddings")
		}
		embedder := render.NewOllamaEmbedder(s.Embeddings.URL)
		return render.NewEmbeddingsRenderer(embedder, s.Embeddings.Model, s.Embeddings.ChunkSize), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
