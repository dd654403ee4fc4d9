package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdkit/mdreport/render"
)

type generateOpts struct {
	format    string
	output    string
	codeTheme string
	noEmbed   bool
	compress  bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Render a Markdown document to an output format",
		Long:  `Render a Markdown document to one of the supported output formats. Use "-" to read from standard input.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.format = formatFromExtension(opts.output, opts.format)
			}
			return c.runGenerate(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "pdf", "output format: "+strings.Join(render.Formats(), ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (default input name with new extension, "-" for stdout)`)
	cmd.Flags().StringVar(&opts.codeTheme, "code-theme", "", "syntax highlighting style (overrides front matter)")
	cmd.Flags().BoolVar(&opts.noEmbed, "no-embed-source", false, "do not attach the Markdown source to the output")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "compress page content streams")

	return cmd
}

func (c *CLI) runGenerate(input string, opts *generateOpts) error {
	src, err := readInput(input)
	if err != nil {
		return err
	}

	start := time.Now()
	var buf bytes.Buffer
	switch opts.format {
	case "pdf", "slides":
		err = render.ToPDF(src, &buf, render.PDFOptions{
			Slides:          opts.format == "slides",
			CodeTheme:       opts.codeTheme,
			EmbedSource:     !opts.noEmbed,
			CompressContent: opts.compress,
			Logger:          libLogger(c.Logger),
		})
	case "html":
		err = render.ToHTML(src, &buf, render.HTMLOptions{CodeTheme: opts.codeTheme})
	case "text":
		err = render.ToText(src, &buf)
	default:
		err = &render.UnknownFormatError{Format: opts.format}
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = defaultOutput(input, opts.format)
	}
	if output == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	c.Logger.Info("wrote output",
		"file", output,
		"bytes", buf.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// formatFromExtension infers the output format from an explicit output
// path. Unknown extensions keep the default.
func formatFromExtension(output, fallback string) string {
	switch strings.TrimPrefix(filepath.Ext(output), ".") {
	case "pdf":
		return "pdf"
	case "slides":
		return "slides"
	case "html":
		return "html"
	case "txt":
		return "text"
	}
	return fallback
}

// defaultOutput derives the output path from the input name. Stdin
// input defaults to stdout.
func defaultOutput(input, format string) string {
	if input == "-" {
		return "-"
	}
	ext := map[string]string{
		"pdf":    ".pdf",
		"slides": ".pdf",
		"html":   ".html",
		"text":   ".txt",
	}[format]
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ext
}
