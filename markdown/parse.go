// Package markdown parses input documents: front matter, the body
// syntax tree, and code block info strings.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Document is a parsed input: optional metadata, the body source after
// front matter removal, and the body syntax tree.
type Document struct {
	Meta   *Metadata
	Source []byte
	Root   ast.Node
}

// Parse splits front matter and parses the body with GFM extensions
// (tables, task lists, strikethrough).
func Parse(src []byte) (*Document, error) {
	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, err
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(body))
	return &Document{Meta: meta, Source: body, Root: root}, nil
}
