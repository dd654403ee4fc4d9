package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mdkit/mdreport/builder"
	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/extractor"
	"github.com/mdkit/mdreport/ir/raw"
	"github.com/mdkit/mdreport/layout"
	"github.com/mdkit/mdreport/markdown"
	"github.com/mdkit/mdreport/parser"
)

const sampleDoc = `---
title: Release Notes
author: Dana
date: 2026-08-31
---

# Overview

A short paragraph with **bold** and *italic* text and ` + "`code`" + `.

## Changes

- first item
- second item
  - nested item
- [x] shipped
- [ ] pending

` + "```go main.go:3 @ acme/widget" + `
package main

func main() {}
` + "```" + `

| Name | Value |
|------|-------|
| a    | 1     |
| b    | 2     |
`

func renderSample(t *testing.T, opts PDFOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := ToPDF([]byte(sampleDoc), &buf, opts); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	return buf.Bytes()
}

func TestToPDFProducesReadableFile(t *testing.T) {
	data := renderSample(t, PDFOptions{EmbedSource: true})
	if !bytes.HasPrefix(data, []byte("%PDF-1.7\n")) {
		t.Fatalf("missing header, got %q", data[:16])
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Fatalf("missing %%%%EOF marker")
	}
	if _, err := parser.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestToPDFEmbedsSource(t *testing.T) {
	data := renderSample(t, PDFOptions{EmbedSource: true})
	got, err := extractor.ExtractNamed(data, SourceAttachmentName)
	if err != nil {
		t.Fatalf("ExtractNamed: %v", err)
	}
	if string(got) != sampleDoc {
		t.Errorf("embedded source differs from input\ngot:  %q\nwant: %q", got, sampleDoc)
	}
}

func TestToPDFWithoutEmbedding(t *testing.T) {
	data := renderSample(t, PDFOptions{})
	if _, err := extractor.Names(data); !errors.Is(err, extractor.ErrNoAttachments) {
		t.Fatalf("Names err = %v, want ErrNoAttachments", err)
	}
}

func TestToPDFCompressedContent(t *testing.T) {
	data := renderSample(t, PDFOptions{EmbedSource: true, CompressContent: true})
	doc, err := parser.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := doc.Catalog(); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	got, err := extractor.ExtractNamed(data, SourceAttachmentName)
	if err != nil {
		t.Fatalf("ExtractNamed: %v", err)
	}
	if string(got) != sampleDoc {
		t.Error("embedded source differs from input")
	}
}

func pageCount(t *testing.T, data []byte) int64 {
	t.Helper()
	doc, err := parser.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	catalog, err := doc.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	pagesObj, err := doc.ResolvedDictEntry(catalog, "Pages")
	if err != nil || pagesObj == nil {
		t.Fatalf("Pages entry: %v", err)
	}
	pages, ok := pagesObj.(*raw.DictObj)
	if !ok {
		t.Fatalf("Pages is %T, want dict", pagesObj)
	}
	countObj, err := doc.ResolvedDictEntry(pages, "Count")
	if err != nil || countObj == nil {
		t.Fatalf("Count entry: %v", err)
	}
	return countObj.(raw.NumberObj).Int()
}

func TestToPDFPaginatesLongInput(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Long\n\n")
	for i := 0; i < 80; i++ {
		sb.WriteString("A paragraph of filler text that takes up a line.\n\n")
	}
	var buf bytes.Buffer
	if err := ToPDF([]byte(sb.String()), &buf, PDFOptions{}); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if n := pageCount(t, buf.Bytes()); n < 2 {
		t.Errorf("page count = %d, want at least 2", n)
	}
}

func TestToPDFSlides(t *testing.T) {
	src := `---
title: Deck
slide_theme: gradient-blue
gradient_direction: diagonal
---

## First

Content.

## Second

More content.
`
	var buf bytes.Buffer
	if err := ToPDF([]byte(src), &buf, PDFOptions{Slides: true}); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	// Title page plus one page per h2.
	if n := pageCount(t, buf.Bytes()); n != 3 {
		t.Errorf("page count = %d, want 3", n)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Shading")) {
		t.Error("gradient deck has no shading resources")
	}
}

func TestToPDFUnknownCodeThemeFallsBack(t *testing.T) {
	src := "```go\npackage main\n```\n"
	var buf bytes.Buffer
	if err := ToPDF([]byte(src), &buf, PDFOptions{CodeTheme: "no-such-style"}); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
}

func TestRenderTableRowAlignment(t *testing.T) {
	short := tableCell{{Text: "a", Style: layout.StyleNormal}}
	long := tableCell{{
		Text:  strings.Repeat("several words that will wrap across lines ", 4),
		Style: layout.StyleNormal,
	}}

	// Measure the tall cell's wrapped height in isolation, at the
	// width the weighted split will give its column.
	probe := builder.New("probe")
	usable := probe.RightMargin() - probe.LeftMargin() - 2*tableIndent - columnSpacing
	total := cellWeight(short) + cellWeight(long)
	colWidth := usable * coords.Mm(float64(cellWeight(long))/float64(total))
	tallHeight := probe.WriteWrappedCell(layout.WordsFromRuns(long, tableFontSize), probe.LeftMargin(), tableFontSize, colWidth)
	if tallHeight <= probe.LineHeight() {
		t.Fatalf("tall cell did not wrap, height %v", tallHeight)
	}

	b := builder.New("table")
	rowStart := b.Cursor()
	renderTable(b, [][]tableCell{{short, long}})

	// The next write position sits under the tallest cell plus the
	// trailing table gap, not under the short cell.
	want := rowStart - tallHeight - b.LineHeight()*0.5
	if diff := b.Cursor() - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("cursor after table = %v, want %v", b.Cursor(), want)
	}
}

func TestResolveRepo(t *testing.T) {
	meta := &markdown.Metadata{Repo: "acme/docs"}
	info := markdown.CodeBlockInfo{Repo: "acme/widget"}
	if got := ResolveRepo(info, meta); got != "acme/widget" {
		t.Errorf("block repo: got %q", got)
	}
	if got := ResolveRepo(markdown.CodeBlockInfo{}, meta); got != "acme/docs" {
		t.Errorf("document repo: got %q", got)
	}
	if got := ResolveRepo(markdown.CodeBlockInfo{}, nil); got != "" {
		t.Errorf("no repo: got %q", got)
	}
}

func TestBuildGitHubURL(t *testing.T) {
	tests := []struct {
		name string
		info markdown.CodeBlockInfo
		repo string
		want string
	}{
		{
			name: "filename with line",
			info: markdown.CodeBlockInfo{Filename: "src/main.go", StartLine: 10},
			repo: "acme/widget",
			want: "https://github.com/acme/widget/blob/main/src/main.go#L10",
		},
		{
			name: "refspec override",
			info: markdown.CodeBlockInfo{Filename: "lib.rs", Refspec: "v1.2"},
			repo: "acme/widget",
			want: "https://github.com/acme/widget/blob/v1.2/lib.rs",
		},
		{
			name: "no repo",
			info: markdown.CodeBlockInfo{Filename: "lib.rs"},
			want: "",
		},
		{
			name: "no filename",
			info: markdown.CodeBlockInfo{Language: "go"},
			repo: "acme/widget",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildGitHubURL(tt.info, tt.repo); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := ToHTML([]byte(sampleDoc), &buf, HTMLOptions{}); err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Release Notes</title>",
		"Dana",
		"<h1",
		"<table>",
		`<div class="code-filename"><a href="https://github.com/acme/widget/blob/main/main.go#L3"`,
		`<span class="line-number">   3</span>`,
		"<pre",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestToText(t *testing.T) {
	var buf bytes.Buffer
	if err := ToText([]byte(sampleDoc), &buf); err != nil {
		t.Fatalf("ToText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Release Notes\n=============",
		"By Dana",
		"Date: 2026-08-31",
		"Overview\n========",
		"Changes\n-------",
		"- first item",
		"  - nested item",
		"[x] shipped",
		"[ ] pending",
		"    func main() {}",
		"Name | Value",
		"a | 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestToTextStripsRawHTML(t *testing.T) {
	src := "# Title\n\n<div class=\"x\"><b>kept text</b></div>\n"
	var buf bytes.Buffer
	if err := ToText([]byte(src), &buf); err != nil {
		t.Fatalf("ToText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "kept text") {
		t.Error("text content of HTML block dropped")
	}
	if strings.Contains(out, "<div") {
		t.Error("tags leaked into plain text output")
	}
}

func TestFormats(t *testing.T) {
	got := Formats()
	want := []string{"pdf", "slides", "html", "text"}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Formats() = %v, want %v", got, want)
		}
	}
}

func TestUnknownFormatError(t *testing.T) {
	err := &UnknownFormatError{Format: "docx"}
	if !strings.Contains(err.Error(), "docx") {
		t.Errorf("Error() = %q", err.Error())
	}
}
