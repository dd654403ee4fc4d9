package markdown

import (
	"testing"

	"github.com/yuin/goldmark/ast"
)

func TestParseCodeBlockInfo(t *testing.T) {
	cases := []struct {
		in   string
		want CodeBlockInfo
	}{
		{"rust", CodeBlockInfo{Language: "rust"}},
		{"src/main.rs:42", CodeBlockInfo{Language: "rs", Filename: "src/main.rs", StartLine: 42}},
		{"src/main.rs:42 @ user/repo", CodeBlockInfo{
			Language: "rs", Filename: "src/main.rs", StartLine: 42, Repo: "user/repo",
		}},
		{"src/main.rs:42 @ user/repo#develop", CodeBlockInfo{
			Language: "rs", Filename: "src/main.rs", StartLine: 42,
			Repo: "user/repo", Refspec: "develop",
		}},
		{"src/main.rs @ user/repo#develop", CodeBlockInfo{
			Language: "rs", Filename: "src/main.rs",
			Repo: "user/repo", Refspec: "develop",
		}},
		{"Makefile.am", CodeBlockInfo{Language: "am", Filename: "Makefile.am"}},
		{"path/to/script", CodeBlockInfo{Language: "", Filename: "path/to/script"}},
		{"main.rs:notanumber", CodeBlockInfo{Language: "rs:notanumber", Filename: "main.rs:notanumber"}},
		{"", CodeBlockInfo{}},
	}
	for _, c := range cases {
		if got := ParseCodeBlockInfo(c.in); got != c.want {
			t.Errorf("ParseCodeBlockInfo(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestSplitFrontMatter(t *testing.T) {
	src := []byte("---\ntitle: My Doc\nauthor: someone\nslide_theme: dark\n---\n# Body\n")
	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if meta == nil || meta.Title != "My Doc" || meta.Author != "someone" || meta.SlideTheme != "dark" {
		t.Fatalf("meta = %+v", meta)
	}
	if string(body) != "# Body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	src := []byte("# Just a document\n")
	meta, body, err := SplitFrontMatter(src)
	if err != nil || meta != nil || string(body) != string(src) {
		t.Fatalf("meta=%v body=%q err=%v", meta, body, err)
	}
}

func TestSplitFrontMatterUnclosed(t *testing.T) {
	src := []byte("---\ntitle: x\nno closing fence\n")
	meta, body, err := SplitFrontMatter(src)
	if err != nil || meta != nil || string(body) != string(src) {
		t.Fatalf("unclosed front matter should pass through, got meta=%v err=%v", meta, err)
	}
}

func TestSplitFrontMatterInvalidYAML(t *testing.T) {
	src := []byte("---\ntitle: [unclosed\n---\nbody\n")
	if _, _, err := SplitFrontMatter(src); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestParseBuildsTree(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: T\n---\n# Heading\n\npara with **bold**\n\n- [x] done\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Meta == nil || doc.Meta.Title != "T" {
		t.Fatalf("meta = %+v", doc.Meta)
	}
	var sawHeading, sawList bool
	ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			sawHeading = true
		case *ast.List:
			sawList = true
		}
		return ast.WalkContinue, nil
	})
	if !sawHeading || !sawList {
		t.Errorf("tree missing nodes: heading=%v list=%v", sawHeading, sawList)
	}
}
