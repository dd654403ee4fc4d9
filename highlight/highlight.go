// Package highlight adapts a syntax highlighter to the per-line colored
// span model the code block renderer consumes.
package highlight

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// RGB is a color in the 0..255 range per channel.
type RGB struct {
	R, G, B uint8
}

// Span is a run of characters sharing one color.
type Span struct {
	Color RGB
	Text  string
}

// DefaultStyle is used when no code theme is configured.
const DefaultStyle = "github"

// Highlighter tokenizes source lines for one language and style.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
	plain bool
	base  RGB
}

// New builds a highlighter for the given language name and style name.
// Unknown languages fall back to an uncolored pass; unknown styles fall
// back to the default style.
func New(language, styleName string) *Highlighter {
	h := &Highlighter{base: RGB{0, 0, 0}}

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	h.style = style
	if c := style.Get(chroma.Text).Colour; c.IsSet() {
		h.base = RGB{c.Red(), c.Green(), c.Blue()}
	}

	if language == "" {
		h.plain = true
		return h
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		h.plain = true
		return h
	}
	h.lexer = chroma.Coalesce(lexer)
	return h
}

// Plain reports whether the language was unknown and lines pass through
// uncolored.
func (h *Highlighter) Plain() bool { return h.plain }

// HighlightLine tokenizes one source line into colored spans. The
// concatenated span texts equal the input line.
func (h *Highlighter) HighlightLine(line string) []Span {
	if h.plain {
		if line == "" {
			return nil
		}
		return []Span{{Color: h.base, Text: line}}
	}
	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return []Span{{Color: h.base, Text: line}}
	}
	var spans []Span
	for token := iterator(); token != chroma.EOF; token = iterator() {
		text := strings.TrimRight(token.Value, "\n")
		if text == "" {
			continue
		}
		color := h.base
		if c := h.style.Get(token.Type).Colour; c.IsSet() {
			color = RGB{c.Red(), c.Green(), c.Blue()}
		}
		spans = append(spans, Span{Color: color, Text: text})
	}
	return spans
}

// StyleNames lists the available style names sorted.
func StyleNames() []string {
	names := append([]string(nil), styles.Names()...)
	sort.Strings(names)
	return names
}
