package builder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/layout"
)

func words(t *testing.T, text string, size float64) []layout.Word {
	t.Helper()
	return layout.WordsFromRuns([]layout.Run{{Text: text}}, size)
}

func finalize(t *testing.T, b *DocBuilder) [][]byte {
	t.Helper()
	doc, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	pages := make([][]byte, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = p.Contents.RawBytes
	}
	return pages
}

func TestSinglePage(t *testing.T) {
	b := New("doc")
	b.WriteTextAt("hello", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	doc, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d", len(doc.Pages))
	}
	if doc.Info.Title != "doc" || doc.Info.Creator != "mdreport" {
		t.Errorf("info = %+v", doc.Info)
	}
	content := doc.Pages[0].Contents.RawBytes
	if !bytes.Contains(content, []byte("(hello) Tj")) {
		t.Errorf("content %q", content)
	}
}

func TestFinalizeTwice(t *testing.T) {
	b := New("doc")
	b.WriteTextAt("x", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	if _, err := b.Finalize(); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if _, err := b.Finalize(); err != ErrFinalized {
		t.Fatalf("second Finalize err = %v", err)
	}
}

func TestPageBreakOnCursorExhaustion(t *testing.T) {
	b := New("doc")
	// (270 - 30) / 6 = 40 lines fit; write enough to spill over
	for i := 0; i < 50; i++ {
		b.CheckPageBreak(b.LineHeight())
		b.WriteTextAt("line", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
		b.MoveDown(b.LineHeight())
	}
	doc, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
}

func TestNoPageBreakWhenContentFits(t *testing.T) {
	b := New("doc")
	for i := 0; i < 10; i++ {
		b.CheckPageBreak(b.LineHeight())
		b.WriteTextAt("line", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
		b.MoveDown(b.LineHeight())
	}
	if pages := finalize(t, b); len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
}

func TestTextSectionsBalanced(t *testing.T) {
	b := New("doc")
	b.WriteWrapped(words(t, strings.Repeat("some words in a long paragraph ", 30), 12), b.LeftMargin(), 12)
	b.DrawCheckbox(b.LeftMargin(), b.Cursor(), true)
	b.WriteTextAt("after", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	for i, page := range finalize(t, b) {
		bt := bytes.Count(page, []byte("BT\n"))
		et := bytes.Count(page, []byte("ET\n"))
		if bt != et {
			t.Errorf("page %d: %d BT vs %d ET", i, bt, et)
		}
	}
}

func TestPerPageFontResources(t *testing.T) {
	b := New("doc")
	b.WriteTextAt("bold here", layout.FontHelveticaBold, 12, b.LeftMargin(), b.Cursor())
	b.NewPage()
	b.WriteTextAt("plain here", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	doc, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d", len(doc.Pages))
	}
	first := doc.Pages[0].Resources.Fonts
	if _, ok := first["F1"]; !ok {
		t.Error("first page missing bold font")
	}
	second := doc.Pages[1].Resources.Fonts
	if _, ok := second["F1"]; ok {
		t.Error("second page lists a font it never uses")
	}
	if _, ok := second["F0"]; !ok {
		t.Error("second page missing regular font")
	}
}

func TestSharedFontIdentity(t *testing.T) {
	b := New("doc")
	b.WriteTextAt("a", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	b.NewPage()
	b.WriteTextAt("b", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	doc, _ := b.Finalize()
	if doc.Pages[0].Resources.Fonts["F0"] != doc.Pages[1].Resources.Fonts["F0"] {
		t.Error("same font produced two objects")
	}
}

func TestWhiteSolidBackgroundSkipped(t *testing.T) {
	b := NewSlides("deck", ThemeByName("light"))
	b.WriteTextAt("x", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	pages := finalize(t, b)
	if bytes.Contains(pages[0], []byte(" re\n")) {
		t.Error("white background should draw nothing")
	}
}

func TestSolidBackgroundDrawn(t *testing.T) {
	b := NewSlides("deck", ThemeByName("dark"))
	b.WriteTextAt("x", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	pages := finalize(t, b)
	content := string(pages[0])
	for _, want := range []string{"q\n", "0.1 0.1 0.1 rg\n", " re\n", "f\n", "Q\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("background missing %q in %q", want, content)
		}
	}
}

func TestGradientShadingDeduplicated(t *testing.T) {
	b := NewSlides("deck", ThemeByName("gradient-blue"))
	b.WriteTextAt("one", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	b.NewPage()
	b.WriteTextAt("two", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	doc, _ := b.Finalize()
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d", len(doc.Pages))
	}
	sh0 := doc.Pages[0].Resources.Shadings["Sh1"]
	sh1 := doc.Pages[1].Resources.Shadings["Sh1"]
	if sh0 == nil || sh0 != sh1 {
		t.Error("gradient shading not shared between pages")
	}
	if !bytes.Contains(doc.Pages[1].Contents.RawBytes, []byte("/Sh1 sh")) {
		t.Error("second page missing shading paint operator")
	}
}

func TestRadialShadingGeometry(t *testing.T) {
	b := NewSlides("deck", ThemeByName("radial-corner"))
	b.WriteTextAt("x", layout.FontHelvetica, 12, b.LeftMargin(), b.Cursor())
	doc, _ := b.Finalize()
	sh := doc.Pages[0].Resources.Shadings["Sh1"]
	if sh == nil {
		t.Fatal("radial shading missing")
	}
	if sh.Kind != 3 || len(sh.Coords) != 6 {
		t.Fatalf("shading = %+v", sh)
	}
	// corner theme centers at (0, 1): x = 0, y = page height
	if sh.Coords[0] != 0 || sh.Coords[1] != coords.Mm(142.875).Points() {
		t.Errorf("center = (%v, %v)", sh.Coords[0], sh.Coords[1])
	}
	if sh.Coords[2] != 0 {
		t.Error("inner radius should be zero")
	}
}

func TestCheckboxOps(t *testing.T) {
	b := New("doc")
	b.DrawCheckbox(coords.Mm(20), coords.Mm(100), true)
	pages := finalize(t, b)
	content := string(pages[0])
	if strings.Count(content, "S\n") != 3 {
		t.Errorf("checked box should stroke box plus two mark lines: %q", content)
	}
	b2 := New("doc")
	b2.DrawCheckbox(coords.Mm(20), coords.Mm(100), false)
	if strings.Count(string(finalize(t, b2)[0]), "S\n") != 1 {
		t.Error("unchecked box should stroke only the outline")
	}
}

func TestWriteWrappedCellHeightAndNoPageBreak(t *testing.T) {
	b := New("doc")
	b.SetCursor(coords.Mm(35)) // just above the bottom margin
	w := words(t, "several words that will certainly wrap into multiple short lines", 10)
	height := b.WriteWrappedCell(w, b.LeftMargin(), 10, coords.Mm(30))
	if height <= b.LineHeight()*0.8 {
		t.Errorf("height = %v, expected multiple cell lines", height)
	}
	doc, _ := b.Finalize()
	if len(doc.Pages) != 1 {
		t.Error("cell writing must not trigger page breaks")
	}
}

func TestWriteColoredRuns(t *testing.T) {
	b := New("doc")
	b.WriteColoredRuns([]ColoredRun{
		{Color: Color{0.8, 0.1, 0.1}, Text: "func"},
		{Color: Color{0, 0, 0}, Text: " main()"},
	}, b.LeftMargin(), 10)
	content := string(finalize(t, b)[0])
	if !strings.Contains(content, "0.8 0.1 0.1 rg") {
		t.Error("run color not set")
	}
	if !strings.Contains(content, "(func) Tj") || !strings.Contains(content, "( main\\(\\)) Tj") {
		t.Errorf("run text missing: %q", content)
	}
	if !strings.Contains(content, "/F4 10 Tf") {
		t.Error("code runs should use the monospace font")
	}
}
