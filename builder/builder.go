// Package builder owns page geometry, the write cursor, content stream
// accumulation and the per-document resource tables. Renderers drive it
// through a small set of primitives and finalize it once into a
// semantic document.
package builder

import (
	"errors"
	"fmt"

	"github.com/mdkit/mdreport/contentstream"
	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/ir/semantic"
	"github.com/mdkit/mdreport/layout"
	"github.com/mdkit/mdreport/observability"
)

// Report mode geometry, A4 portrait.
const (
	reportWidth  = coords.Mm(210)
	reportHeight = coords.Mm(297)
	reportLeft   = coords.Mm(20)
	reportRight  = coords.Mm(190)
	reportTop    = coords.Mm(270)
)

// Slide mode geometry, 10 inch 16:9.
const (
	slideWidth  = coords.Mm(254)
	slideHeight = coords.Mm(142.875)
	slideLeft   = coords.Mm(15)
	slideRight  = coords.Mm(239)
	slideTop    = coords.Mm(122.875)
)

const (
	defaultLineHeight = coords.Mm(6)
	bottomMargin      = coords.Mm(30)
)

// ErrFinalized is returned when a builder is finalized twice.
var ErrFinalized = errors.New("builder: document already finalized")

// shadingEntry pairs a deduplicated shading with the resource name it
// was assigned at registration.
type shadingEntry struct {
	name string
	obj  *semantic.Shading
}

// DocBuilder accumulates pages for one document. A builder is a single
// use object: construct, write, finalize.
type DocBuilder struct {
	pages []*semantic.Page
	ops   []contentstream.Operation

	cursor      coords.Mm
	pageWidth   coords.Mm
	pageHeight  coords.Mm
	leftMargin  coords.Mm
	rightMargin coords.Mm
	lineHeight  coords.Mm

	inText bool
	slide  bool
	theme  Theme
	info   semantic.DocumentInfo

	fonts    map[layout.Font]*semantic.Font
	shadings map[string]*shadingEntry

	// resources referenced by the page being built
	pageFonts    map[string]*semantic.Font
	pageShadings map[string]*semantic.Shading

	attachments []*semantic.EmbeddedFile
	finalized   bool
	log         observability.Logger
}

// Option configures a builder at construction.
type Option func(*DocBuilder)

// WithLogger sets the logger. The default is silent.
func WithLogger(log observability.Logger) Option {
	return func(b *DocBuilder) { b.log = log }
}

// WithAuthor records the author in the document info.
func WithAuthor(author string) Option {
	return func(b *DocBuilder) { b.info.Author = author }
}

// New starts a report document on A4 pages with a white background.
func New(title string, opts ...Option) *DocBuilder {
	b := newBuilder(title, ThemeByName("light"), false)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewSlides starts a slide document with the given theme. The first
// page's background is painted immediately.
func NewSlides(title string, theme Theme, opts ...Option) *DocBuilder {
	b := newBuilder(title, theme, true)
	for _, opt := range opts {
		opt(b)
	}
	b.drawBackground()
	return b
}

func newBuilder(title string, theme Theme, slide bool) *DocBuilder {
	b := &DocBuilder{
		theme:        theme,
		slide:        slide,
		lineHeight:   defaultLineHeight,
		fonts:        make(map[layout.Font]*semantic.Font),
		shadings:     make(map[string]*shadingEntry),
		pageFonts:    make(map[string]*semantic.Font),
		pageShadings: make(map[string]*semantic.Shading),
		info:         semantic.DocumentInfo{Title: title, Creator: "mdreport"},
		log:          observability.NopLogger{},
	}
	if slide {
		b.pageWidth, b.pageHeight = slideWidth, slideHeight
		b.leftMargin, b.rightMargin = slideLeft, slideRight
		b.cursor = slideTop
	} else {
		b.pageWidth, b.pageHeight = reportWidth, reportHeight
		b.leftMargin, b.rightMargin = reportLeft, reportRight
		b.cursor = reportTop
	}
	return b
}

// Geometry accessors.

func (b *DocBuilder) Cursor() coords.Mm      { return b.cursor }
func (b *DocBuilder) SetCursor(y coords.Mm)  { b.cursor = y }
func (b *DocBuilder) LineHeight() coords.Mm  { return b.lineHeight }
func (b *DocBuilder) LeftMargin() coords.Mm  { return b.leftMargin }
func (b *DocBuilder) RightMargin() coords.Mm { return b.rightMargin }
func (b *DocBuilder) IsSlides() bool         { return b.slide }
func (b *DocBuilder) TextColor() Color       { return b.textColor() }
func (b *DocBuilder) HeadingColor() (Color, bool) {
	if b.slide {
		return b.theme.Heading, true
	}
	return Color{}, false
}

// MoveDown lowers the write cursor.
func (b *DocBuilder) MoveDown(amount coords.Mm) { b.cursor -= amount }

func (b *DocBuilder) textColor() Color {
	if b.slide {
		return b.theme.Text
	}
	return Color{0, 0, 0}
}

// ensureFont registers the font document-wide and marks it used on the
// current page, returning its resource key.
func (b *DocBuilder) ensureFont(f layout.Font) string {
	key := fmt.Sprintf("F%d", int(f))
	font, ok := b.fonts[f]
	if !ok {
		font = &semantic.Font{BaseFont: f.PostScriptName()}
		b.fonts[f] = font
	}
	b.pageFonts[key] = font
	return key
}

func (b *DocBuilder) startText() {
	if !b.inText {
		b.push(contentstream.Op("BT"))
		b.inText = true
	}
}

func (b *DocBuilder) endText() {
	if b.inText {
		b.push(contentstream.Op("ET"))
		b.inText = false
	}
}

func (b *DocBuilder) push(op contentstream.Operation) {
	b.ops = append(b.ops, op)
}

// CheckPageBreak starts a new page when needed more vertical space than
// remains above the bottom margin. All renderers call this before
// placing content.
func (b *DocBuilder) CheckPageBreak(needed coords.Mm) {
	if b.cursor-needed < bottomMargin {
		b.NewPage()
	}
}

// NewPage closes the current page and resets the cursor. Slide pages
// get their background painted immediately.
func (b *DocBuilder) NewPage() {
	b.endText()
	if len(b.ops) > 0 {
		b.flushPage()
	}
	if b.slide {
		b.cursor = slideTop
	} else {
		b.cursor = reportTop
	}
	if b.slide {
		b.drawBackground()
	}
}

// flushPage turns the accumulated operations into a finished page
// carrying only the resources its content references.
func (b *DocBuilder) flushPage() {
	page := &semantic.Page{
		Index:    len(b.pages),
		MediaBox: semantic.Rectangle{URX: b.pageWidth.Points(), URY: b.pageHeight.Points()},
		Contents: &semantic.ContentStream{RawBytes: contentstream.Encode(b.ops)},
		Resources: &semantic.Resources{
			Fonts:    b.pageFonts,
			Shadings: b.pageShadings,
		},
	}
	b.pages = append(b.pages, page)
	b.ops = nil
	b.pageFonts = make(map[string]*semantic.Font)
	b.pageShadings = make(map[string]*semantic.Shading)
	b.log.Debug("page finished", observability.Int("page", page.Index))
}

// AttachFile registers an embedded file written into the output
// container at finalize time.
func (b *DocBuilder) AttachFile(name, subtype string, data []byte) {
	b.attachments = append(b.attachments, &semantic.EmbeddedFile{
		Name:    name,
		Subtype: subtype,
		Data:    data,
	})
}

// Finalize closes the last page and produces the document. The builder
// must not be used afterwards.
func (b *DocBuilder) Finalize() (*semantic.Document, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true
	if len(b.ops) > 0 {
		b.endText()
		b.flushPage()
	}
	doc := &semantic.Document{
		Pages:         b.pages,
		Info:          b.info,
		EmbeddedFiles: b.attachments,
	}
	b.log.Debug("document finalized",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("attachments", len(doc.EmbeddedFiles)))
	return doc, nil
}

// WriteTextAt places a single line at an absolute position in the
// current page's text space.
func (b *DocBuilder) WriteTextAt(text string, font layout.Font, size float64, x, y coords.Mm) {
	b.WriteTextAtColor(text, font, size, x, y, nil)
}

// WriteTextAtColor is WriteTextAt with an optional color override. A
// nil override uses the theme text color.
func (b *DocBuilder) WriteTextAtColor(text string, font layout.Font, size float64, x, y coords.Mm, override *Color) {
	b.endText()
	b.startText()

	key := b.ensureFont(font)
	b.push(contentstream.Op("Td",
		contentstream.Number(x.Points()), contentstream.Number(y.Points())))

	color := b.textColor()
	if override != nil {
		color = *override
	}
	b.pushFillColor(color)
	b.push(contentstream.Op("Tf",
		contentstream.Name(key), contentstream.Number(size)))
	b.push(contentstream.Op("Tj", contentstream.String(text)))

	b.endText()
}

func (b *DocBuilder) pushFillColor(c Color) {
	b.push(contentstream.Op("rg",
		contentstream.Number(c.R), contentstream.Number(c.G), contentstream.Number(c.B)))
}

// DrawCheckbox strokes a task list box at (x, y), with an X mark when
// checked.
func (b *DocBuilder) DrawCheckbox(x, y coords.Mm, checked bool) {
	b.endText()

	boxSize := coords.Mm(3.5)
	b.push(contentstream.Op("q"))
	b.push(contentstream.Op("w", contentstream.Number(0.5)))

	c := b.textColor()
	b.push(contentstream.Op("RG",
		contentstream.Number(c.R), contentstream.Number(c.G), contentstream.Number(c.B)))
	b.push(contentstream.Op("re",
		contentstream.Number(x.Points()), contentstream.Number(y.Points()),
		contentstream.Number(boxSize.Points()), contentstream.Number(boxSize.Points())))
	b.push(contentstream.Op("S"))

	if checked {
		padding := coords.Mm(0.7)
		x1, y1 := x+padding, y+padding
		x2, y2 := x+boxSize-padding, y+boxSize-padding

		b.push(contentstream.Op("m",
			contentstream.Number(x1.Points()), contentstream.Number(y1.Points())))
		b.push(contentstream.Op("l",
			contentstream.Number(x2.Points()), contentstream.Number(y2.Points())))
		b.push(contentstream.Op("S"))

		b.push(contentstream.Op("m",
			contentstream.Number(x2.Points()), contentstream.Number(y1.Points())))
		b.push(contentstream.Op("l",
			contentstream.Number(x1.Points()), contentstream.Number(y2.Points())))
		b.push(contentstream.Op("S"))
	}
	b.push(contentstream.Op("Q"))
}

// WriteWrapped lays words out between x and the right margin, breaking
// lines and pages as needed.
func (b *DocBuilder) WriteWrapped(words []layout.Word, x coords.Mm, size float64) {
	if len(words) == 0 {
		return
	}
	maxWidth := b.rightMargin - x
	breaks := layout.BreakLines(words, maxWidth*0.95, maxWidth)

	start := 0
	for _, end := range append(breaks, len(words)) {
		line := words[start:end]
		start = end
		if len(line) == 0 {
			continue
		}
		b.CheckPageBreak(b.lineHeight)
		b.writeLine(line, x, size)
		b.MoveDown(b.lineHeight)
	}
}

// WriteWrappedCell lays words out inside a fixed column and returns the
// height consumed. It never breaks pages; callers align and break at
// row granularity.
func (b *DocBuilder) WriteWrappedCell(words []layout.Word, x coords.Mm, size float64, columnWidth coords.Mm) coords.Mm {
	if len(words) == 0 {
		return 0
	}
	breaks := layout.BreakLines(words, columnWidth*0.95, columnWidth)
	startY := b.cursor

	start := 0
	for _, end := range append(breaks, len(words)) {
		line := words[start:end]
		start = end
		if len(line) == 0 {
			continue
		}
		b.writeLine(line, x, size)
		b.MoveDown(b.lineHeight * 0.8)
	}
	return startY - b.cursor
}

// writeLine emits one line of words at the cursor with single-space
// separators.
func (b *DocBuilder) writeLine(line []layout.Word, x coords.Mm, size float64) {
	b.endText()
	b.startText()
	b.push(contentstream.Op("Td",
		contentstream.Number(x.Points()), contentstream.Number(b.cursor.Points())))
	b.pushFillColor(b.textColor())

	for i, word := range line {
		key := b.ensureFont(word.Style.Font())
		b.push(contentstream.Op("Tf",
			contentstream.Name(key), contentstream.Number(size)))
		b.push(contentstream.Op("Tj", contentstream.String(word.Text)))
		if i < len(line)-1 {
			b.push(contentstream.Op("Tj", contentstream.String(" ")))
		}
	}
	b.endText()
}

// ColoredRun is a piece of a source line sharing one fill color.
type ColoredRun struct {
	Color Color
	Text  string
}

// WriteColoredRuns emits one monospaced line of colored runs at the
// cursor, as produced by the syntax highlighter.
func (b *DocBuilder) WriteColoredRuns(runs []ColoredRun, x coords.Mm, size float64) {
	b.endText()
	b.startText()
	b.push(contentstream.Op("Td",
		contentstream.Number(x.Points()), contentstream.Number(b.cursor.Points())))

	key := b.ensureFont(layout.FontCourier)
	for _, run := range runs {
		b.pushFillColor(run.Color)
		b.push(contentstream.Op("Tf",
			contentstream.Name(key), contentstream.Number(size)))
		b.push(contentstream.Op("Tj", contentstream.String(run.Text)))
	}
	b.endText()
}
