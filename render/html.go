package render

import (
	"bytes"
	"fmt"
	"io"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/mdkit/mdreport/highlight"
	"github.com/mdkit/mdreport/markdown"
)

// HTMLOptions configures the HTML rendering.
type HTMLOptions struct {
	// CodeTheme overrides the front matter code_theme.
	CodeTheme string
}

// ToHTML renders src as a standalone HTML page with highlighted code
// and MathML for embedded math.
func ToHTML(src []byte, w io.Writer, opts HTMLOptions) error {
	doc, err := markdown.Parse(src)
	if err != nil {
		return err
	}
	style := resolveCodeStyle(doc.Meta, opts.CodeTheme)

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			treeblood.MathML(),
		),
		goldmark.WithRendererOptions(renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{meta: doc.Meta, style: style}, 100),
		)),
	)
	var body bytes.Buffer
	if err := md.Convert(doc.Source, &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	title := "Document"
	if doc.Meta != nil && doc.Meta.Title != "" {
		title = doc.Meta.Title
	}

	if _, err := fmt.Fprintf(w, htmlHeader, escapeHTML(title)); err != nil {
		return err
	}
	if doc.Meta != nil {
		if err := writeHTMLTitleBlock(w, doc.Meta); err != nil {
			return err
		}
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err = io.WriteString(w, htmlFooter)
	return err
}

// codeBlockRenderer replaces the default fenced code block output with
// a container carrying an optional linked filename header, line
// numbers, and inline highlighting.
type codeBlockRenderer struct {
	meta  *markdown.Metadata
	style string
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	infoStr := ""
	if n.Info != nil {
		infoStr = string(n.Info.Segment.Value(source))
	}
	info := markdown.ParseCodeBlockInfo(infoStr)

	w.WriteString("<div class=\"code-block-container\">")
	if info.Filename != "" {
		if url := BuildGitHubURL(info, ResolveRepo(info, r.meta)); url != "" {
			fmt.Fprintf(w, "<div class=\"code-filename\"><a href=%q target=\"_blank\">%s</a></div>",
				url, escapeHTML(info.Filename))
		} else {
			fmt.Fprintf(w, "<div class=\"code-filename\">%s</div>", escapeHTML(info.Filename))
		}
	}

	w.WriteString("<pre><code")
	if info.Language != "" {
		fmt.Fprintf(w, " class=\"language-%s\"", escapeHTML(info.Language))
	}
	w.WriteString(">")

	hl := highlight.New(info.Language, r.style)
	for i, line := range blockLines(n, source) {
		if info.StartLine > 0 {
			fmt.Fprintf(w, "<span class=\"line-number\">%4d</span> ", info.StartLine+i)
		}
		writeHighlightedLine(w, hl, line)
		w.WriteString("\n")
	}

	w.WriteString("</code></pre></div>\n")
	return ast.WalkContinue, nil
}

func writeHighlightedLine(w util.BufWriter, hl *highlight.Highlighter, line string) {
	for _, span := range hl.HighlightLine(line) {
		fmt.Fprintf(w, "<span style=\"color:#%02x%02x%02x\">%s</span>",
			span.Color.R, span.Color.G, span.Color.B, escapeHTML(span.Text))
	}
}

func writeHTMLTitleBlock(w io.Writer, meta *markdown.Metadata) error {
	if meta.Title != "" {
		if _, err := fmt.Fprintf(w, "<h1 class=\"doc-title\">%s</h1>\n", escapeHTML(meta.Title)); err != nil {
			return err
		}
	}
	if meta.Author != "" {
		if _, err := fmt.Fprintf(w, "<p class=\"doc-author\">By %s</p>\n", escapeHTML(meta.Author)); err != nil {
			return err
		}
	}
	if meta.Date != "" {
		if _, err := fmt.Fprintf(w, "<p class=\"doc-date\">Date: %s</p>\n", escapeHTML(meta.Date)); err != nil {
			return err
		}
	}
	return nil
}

func escapeHTML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; max-width: 50em; margin: 2em auto; padding: 0 1em; line-height: 1.5; }
pre { background: #f6f8fa; padding: 1em; overflow-x: auto; }
code { font-family: Courier, monospace; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3em 0.6em; }
.doc-author, .doc-date { color: #555; }
.code-filename { background: #e8eaed; padding: 0.3em 1em; font-family: Courier, monospace; font-size: 0.85em; }
.code-filename a { color: inherit; }
.line-number { color: #999; user-select: none; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`
