// Package render turns parsed documents into output formats: the
// paginated binary document, HTML, and plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/mdkit/mdreport/builder"
	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/highlight"
	"github.com/mdkit/mdreport/layout"
	"github.com/mdkit/mdreport/markdown"
	"github.com/mdkit/mdreport/observability"
	"github.com/mdkit/mdreport/writer"
)

const (
	bodyFontSize   = 12
	listIndent     = coords.Mm(5)
	listTextOffset = coords.Mm(6)
)

// SourceAttachmentName is the name the original input is embedded
// under.
const SourceAttachmentName = "source"

// PDFOptions configures document generation.
type PDFOptions struct {
	// Slides selects slide geometry and themed backgrounds.
	Slides bool
	// CodeTheme overrides the front matter code_theme.
	CodeTheme string
	// EmbedSource attaches the full original input to the output.
	EmbedSource bool
	// CompressContent flate-compresses page content streams.
	CompressContent bool
	Logger          observability.Logger
}

// ToPDF renders src into a paginated document written to w.
func ToPDF(src []byte, w io.Writer, opts PDFOptions) error {
	doc, err := markdown.Parse(src)
	if err != nil {
		return err
	}
	log := opts.Logger
	if log == nil {
		log = observability.NopLogger{}
	}

	r := &pdfRenderer{
		source:    doc.Source,
		meta:      doc.Meta,
		codeStyle: resolveCodeStyle(doc.Meta, opts.CodeTheme),
	}

	title := ""
	if doc.Meta != nil {
		title = doc.Meta.Title
	}
	if opts.Slides {
		r.b = builder.NewSlides(title, resolveSlideTheme(doc.Meta), builder.WithLogger(log))
	} else {
		b := builder.New(title, builder.WithLogger(log))
		if doc.Meta != nil && doc.Meta.Author != "" {
			builder.WithAuthor(doc.Meta.Author)(b)
		}
		r.b = b
	}

	r.renderTitleBlock()
	r.renderBlocks(doc.Root)

	if opts.EmbedSource {
		r.b.AttachFile(SourceAttachmentName, "text/markdown", src)
	}
	final, err := r.b.Finalize()
	if err != nil {
		return err
	}
	return writer.Write(final, w, writer.Config{
		CompressContent: opts.CompressContent,
		Logger:          log,
	})
}

func resolveCodeStyle(meta *markdown.Metadata, override string) string {
	if override != "" {
		return override
	}
	if meta != nil && meta.CodeTheme != "" {
		return meta.CodeTheme
	}
	return highlight.DefaultStyle
}

func resolveSlideTheme(meta *markdown.Metadata) builder.Theme {
	name := "light"
	if meta != nil && meta.SlideTheme != "" {
		name = meta.SlideTheme
	}
	theme := builder.ThemeByName(name)
	if meta != nil && meta.GradientDirection != "" {
		theme = theme.WithDirection(builder.ParseGradientDirection(meta.GradientDirection))
	}
	return theme
}

type pdfRenderer struct {
	b         *builder.DocBuilder
	source    []byte
	meta      *markdown.Metadata
	codeStyle string

	prevHeadingLevel int
}

// renderTitleBlock writes the front matter title, author and date
// above the body.
func (r *pdfRenderer) renderTitleBlock() {
	if r.meta == nil {
		return
	}
	b := r.b
	wrote := false
	if r.meta.Title != "" {
		b.CheckPageBreak(15)
		b.WriteTextAt(r.meta.Title, layout.FontHelveticaBold, 28, b.LeftMargin(), b.Cursor())
		b.MoveDown(b.LineHeight() * 2.5)
		wrote = true
	}
	if r.meta.Author != "" {
		b.CheckPageBreak(10)
		b.WriteTextAt("By "+r.meta.Author, layout.FontHelvetica, 14, b.LeftMargin(), b.Cursor())
		b.MoveDown(b.LineHeight() * 1.2)
		wrote = true
	}
	if r.meta.Date != "" {
		b.CheckPageBreak(10)
		b.WriteTextAt("Date: "+r.meta.Date, layout.FontHelvetica, 14, b.LeftMargin(), b.Cursor())
		b.MoveDown(b.LineHeight() * 1.5)
		wrote = true
	}
	if wrote {
		b.MoveDown(b.LineHeight())
	}
}

// renderBlocks walks a block container in document order.
func (r *pdfRenderer) renderBlocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			r.renderHeading(node)
		case *ast.Paragraph:
			r.renderParagraph(node)
		case *ast.FencedCodeBlock:
			info := ""
			if node.Info != nil {
				info = string(node.Info.Segment.Value(r.source))
			}
			renderCodeBlock(r.b, markdown.ParseCodeBlockInfo(info), blockLines(node, r.source), r.codeStyle)
		case *ast.CodeBlock:
			renderCodeBlock(r.b, markdown.CodeBlockInfo{}, blockLines(node, r.source), r.codeStyle)
		case *ast.List:
			r.renderList(node, 1)
		case *extast.Table:
			renderTable(r.b, r.collectTable(node))
		case *ast.Blockquote:
			r.renderBlocks(node)
		}
	}
}

func (r *pdfRenderer) renderHeading(n *ast.Heading) {
	text := flattenText(n, r.source)
	if text == "" {
		return
	}
	b := r.b

	if b.IsSlides() {
		// every second-level heading starts a new slide, and so does
		// stepping back up the heading hierarchy
		if n.Level == 2 {
			b.NewPage()
		} else if r.prevHeadingLevel != 0 && n.Level < r.prevHeadingLevel {
			b.NewPage()
		}
	}

	var size float64
	switch n.Level {
	case 1:
		size = 24
	case 2:
		size = 20
	case 3:
		size = 16
	default:
		size = 14
	}

	var before, after coords.Mm
	switch n.Level {
	case 1:
		before, after = b.LineHeight()*1.5, b.LineHeight()*1.5
	case 2:
		before, after = b.LineHeight()*1.25, b.LineHeight()*1.25
	case 3:
		before, after = b.LineHeight(), b.LineHeight()*1.5
	default:
		before, after = b.LineHeight(), b.LineHeight()
	}

	b.MoveDown(before)
	b.CheckPageBreak(coords.Mm(size * 0.5))

	var color *builder.Color
	if c, ok := b.HeadingColor(); ok {
		color = &c
	}
	b.WriteTextAtColor(text, layout.FontHelveticaBold, size, b.LeftMargin(), b.Cursor(), color)
	b.MoveDown(after)

	r.prevHeadingLevel = n.Level
}

func (r *pdfRenderer) renderParagraph(n *ast.Paragraph) {
	b := r.b
	b.MoveDown(b.LineHeight() * 0.5)
	runs := inlineRuns(n, r.source)
	if len(runs) == 0 {
		return
	}
	words := layout.WordsFromRuns(runs, bodyFontSize)
	b.WriteWrapped(words, b.LeftMargin(), bodyFontSize)
	b.MoveDown(b.LineHeight() * 0.5)
}

// renderList walks a list at the given nesting depth, drawing bullets
// or task checkboxes and recursing into nested lists.
func (r *pdfRenderer) renderList(list *ast.List, depth int) {
	b := r.b
	if depth == 1 {
		b.MoveDown(b.LineHeight() * 0.5)
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		r.renderListItem(item, depth)
	}
	if depth == 1 {
		b.MoveDown(b.LineHeight() * 0.5)
	}
}

func (r *pdfRenderer) renderListItem(item ast.Node, depth int) {
	b := r.b

	var runs []layout.Run
	var checkbox *bool
	var nested []*ast.List
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if sub, ok := child.(*ast.List); ok {
			nested = append(nested, sub)
			continue
		}
		if box := findTaskCheckBox(child); box != nil && depth == 1 {
			checked := box.IsChecked
			checkbox = &checked
		}
		runs = append(runs, inlineRuns(child, r.source)...)
	}

	if len(runs) > 0 {
		b.CheckPageBreak(b.LineHeight() * 1.5)

		indent := b.LeftMargin() + listIndent + listIndent*coords.Mm(depth-1)
		textIndent := indent + listTextOffset

		if checkbox != nil {
			b.DrawCheckbox(indent, b.Cursor()-coords.Mm(0.4), *checkbox)
		} else {
			b.WriteTextAt("- ", layout.FontHelvetica, bodyFontSize, indent, b.Cursor())
		}
		words := layout.WordsFromRuns(runs, bodyFontSize)
		b.WriteWrapped(words, textIndent, bodyFontSize)
	}

	for _, sub := range nested {
		r.renderList(sub, depth+1)
	}
}

func (r *pdfRenderer) collectTable(table *extast.Table) [][]tableCell {
	var rows [][]tableCell
	for rowNode := table.FirstChild(); rowNode != nil; rowNode = rowNode.NextSibling() {
		switch rowNode.(type) {
		case *extast.TableHeader, *extast.TableRow:
		default:
			continue
		}
		var row []tableCell
		for cellNode := rowNode.FirstChild(); cellNode != nil; cellNode = cellNode.NextSibling() {
			row = append(row, tableCell(inlineRuns(cellNode, r.source)))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// findTaskCheckBox looks for a task list marker at the front of an
// item's first inline container.
func findTaskCheckBox(n ast.Node) *extast.TaskCheckBox {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if box, ok := child.(*extast.TaskCheckBox); ok {
			return box
		}
	}
	return nil
}

// inlineRuns flattens an inline container into styled runs, tracking
// bold and italic nesting. Line breaks inside a paragraph become
// spaces.
func inlineRuns(parent ast.Node, source []byte) []layout.Run {
	var runs []layout.Run
	collectRuns(parent, source, false, false, &runs)
	return runs
}

func collectRuns(parent ast.Node, source []byte, strong, emphasis bool, runs *[]layout.Run) {
	style := func() layout.Style {
		switch {
		case strong && emphasis:
			return layout.StyleBoldItalic
		case strong:
			return layout.StyleBold
		case emphasis:
			return layout.StyleItalic
		}
		return layout.StyleNormal
	}

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			text := string(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				text += " "
			}
			*runs = append(*runs, layout.Run{Text: text, Style: style()})
		case *ast.String:
			*runs = append(*runs, layout.Run{Text: string(node.Value), Style: style()})
		case *ast.CodeSpan:
			*runs = append(*runs, layout.Run{Text: flattenText(node, source), Style: layout.StyleCode})
		case *ast.Emphasis:
			if node.Level >= 2 {
				collectRuns(node, source, true, emphasis, runs)
			} else {
				collectRuns(node, source, strong, true, runs)
			}
		case *ast.AutoLink:
			*runs = append(*runs, layout.Run{Text: string(node.URL(source)), Style: style()})
		case *extast.TaskCheckBox:
			// drawn separately by the list renderer
		default:
			collectRuns(n, source, strong, emphasis, runs)
		}
	}
}

// flattenText collapses a node's inline content to a plain string.
func flattenText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for _, run := range inlineRuns(n, source) {
		sb.WriteString(run.Text)
	}
	return strings.TrimSpace(sb.String())
}

// blockLines extracts a code block's source lines without trailing
// newlines.
func blockLines(n ast.Node, source []byte) []string {
	segments := n.Lines()
	lines := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return lines
}

// Formats lists the output formats the renderers support.
func Formats() []string { return []string{"pdf", "slides", "html", "text"} }

// UnknownFormatError reports an unsupported output format name.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q", e.Format)
}
