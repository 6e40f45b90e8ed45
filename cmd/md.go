package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/core/h2m"
)

func init() {
	rootCmd.AddCommand(newMDCmd())
}

// newMDCmd builds the md command, which runs the converter alone: no
// fetching, no noise removal, the whole <body> goes to Markdown.
func newMDCmd() *cobra.Command {
	var baseURL string

	c := &cobra.Command{
		Use:   "md [file|-]",
		Short: "Convert an HTML document straight to Markdown on stdout",
		Long: `Md reads an HTML document from a file or stdin and prints the Markdown
rendering of its body. Unlike convert, nothing is stripped first.

Examples:
  mdpipe md page.html
  curl -s https://example.com | mdpipe md --base_url https://example.com/
  mdpipe md page.html --header_offset 2 --normalize_whitespace=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := loadSettings(cmd, map[string]string{
				"header_offset":        "header_offset",
				"normalize_whitespace": "normalize_whitespace",
			})
			if err != nil {
				return err
			}

			opts := []h2m.Option{
				h2m.WithHeaderOffset(settings.HeaderOffset),
				h2m.WithNormalizeWhitespace(settings.NormalizeWhitespace),
			}
			if baseURL != "" {
				u, err := url.Parse(baseURL)
				if err != nil || u.Host == "" {
					return fmt.Errorf("invalid --base_url %q", baseURL)
				}
				opts = append(opts, h2m.WithBaseURL(u))
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				in = f
			}

			markdown, err := h2m.ConvertDocument(in, opts...)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), markdown)
			return err
		},
	}

	c.Flags().Int("header_offset", 0, "Add this many levels to every heading")
	c.Flags().Bool("normalize_whitespace", true, "Collapse whitespace runs in text")
	c.Flags().StringVar(&baseURL, "base_url", "", "Resolve relative links against this URL")
	return c
}
