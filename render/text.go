package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	xhtml "golang.org/x/net/html"

	"github.com/mdkit/mdreport/markdown"
)

// ToText renders src as plain text: underlined headings, dashed list
// bullets and indented code blocks.
func ToText(src []byte, w io.Writer) error {
	doc, err := markdown.Parse(src)
	if err != nil {
		return err
	}
	t := &textRenderer{w: w, source: doc.Source}

	if doc.Meta != nil {
		if doc.Meta.Title != "" {
			t.line(doc.Meta.Title)
			t.line(strings.Repeat("=", len(doc.Meta.Title)))
		}
		if doc.Meta.Author != "" {
			t.line("By " + doc.Meta.Author)
		}
		if doc.Meta.Date != "" {
			t.line("Date: " + doc.Meta.Date)
		}
		t.line("")
	}

	t.blocks(doc.Root, 0)
	return t.err
}

type textRenderer struct {
	w      io.Writer
	source []byte
	err    error
}

func (t *textRenderer) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, s)
}

func (t *textRenderer) blocks(parent ast.Node, listDepth int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			t.heading(node)
		case *ast.Paragraph:
			t.line(t.inlineText(node))
			t.line("")
		case *ast.FencedCodeBlock:
			info := ""
			if node.Info != nil {
				info = string(node.Info.Segment.Value(t.source))
			}
			t.codeBlock(markdown.ParseCodeBlockInfo(info), blockLines(node, t.source))
		case *ast.CodeBlock:
			t.codeBlock(markdown.CodeBlockInfo{}, blockLines(node, t.source))
		case *ast.List:
			t.list(node, listDepth+1)
			if listDepth == 0 {
				t.line("")
			}
		case *extast.Table:
			t.table(node)
		case *ast.Blockquote:
			t.blocks(node, listDepth)
		case *ast.HTMLBlock:
			t.htmlBlock(node)
		case *ast.ThematicBreak:
			t.line("---")
			t.line("")
		}
	}
}

func (t *textRenderer) heading(n *ast.Heading) {
	text := flattenText(n, t.source)
	switch n.Level {
	case 1:
		t.line(text)
		t.line(strings.Repeat("=", len(text)))
	case 2:
		t.line(text)
		t.line(strings.Repeat("-", len(text)))
	default:
		t.line(strings.Repeat("#", n.Level) + " " + text)
	}
	t.line("")
}

func (t *textRenderer) codeBlock(info markdown.CodeBlockInfo, lines []string) {
	if info.Filename != "" {
		t.line("    " + info.Filename + ":")
	}
	for _, line := range lines {
		t.line("    " + line)
	}
	t.line("")
}

func (t *textRenderer) list(list *ast.List, depth int) {
	indent := strings.Repeat("  ", depth-1)
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var text string
		marker := "- "
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if _, ok := child.(*ast.List); ok {
				continue
			}
			if box := findTaskCheckBox(child); box != nil {
				if box.IsChecked {
					marker = "[x] "
				} else {
					marker = "[ ] "
				}
			}
			if s := t.inlineText(child); s != "" {
				if text != "" {
					text += " "
				}
				text += s
			}
		}
		if text != "" {
			t.line(indent + marker + text)
		}
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if sub, ok := child.(*ast.List); ok {
				t.list(sub, depth+1)
			}
		}
	}
}

func (t *textRenderer) table(table *extast.Table) {
	for rowNode := table.FirstChild(); rowNode != nil; rowNode = rowNode.NextSibling() {
		switch rowNode.(type) {
		case *extast.TableHeader, *extast.TableRow:
		default:
			continue
		}
		var cells []string
		for cell := rowNode.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, t.inlineText(cell))
		}
		t.line(strings.Join(cells, " | "))
	}
	t.line("")
}

func (t *textRenderer) htmlBlock(n *ast.HTMLBlock) {
	var raw strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		raw.Write(seg.Value(t.source))
	}
	if text := stripHTMLTags(raw.String()); text != "" {
		t.line(text)
		t.line("")
	}
}

func (t *textRenderer) inlineText(n ast.Node) string {
	var sb strings.Builder
	for _, run := range inlineRuns(n, t.source) {
		sb.WriteString(run.Text)
	}
	return strings.TrimSpace(stripRawInline(sb.String()))
}

// stripRawInline removes inline tags when the paragraph carried raw
// HTML spans.
func stripRawInline(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return stripHTMLTags(s)
}

// stripHTMLTags tokenizes markup and keeps only its text content.
func stripHTMLTags(s string) string {
	tok := xhtml.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		tt := tok.Next()
		if tt == xhtml.ErrorToken {
			return strings.TrimSpace(sb.String())
		}
		if tt == xhtml.TextToken {
			sb.Write(tok.Text())
		}
	}
}
