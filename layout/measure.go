// Package layout measures text and computes line breaks. Measurement is
// approximate: the standard fonts ship no metrics here, so widths come
// from per-character width classes scaled by a base factor per font.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/mdkit/mdreport/coords"
)

// Font is one of the built-in base fonts.
type Font int

const (
	FontHelvetica Font = iota
	FontHelveticaBold
	FontHelveticaOblique
	FontHelveticaBoldOblique
	FontCourier
)

// PostScriptName returns the base font name used in font resources.
func (f Font) PostScriptName() string {
	switch f {
	case FontHelveticaBold:
		return "Helvetica-Bold"
	case FontHelveticaOblique:
		return "Helvetica-Oblique"
	case FontHelveticaBoldOblique:
		return "Helvetica-BoldOblique"
	case FontCourier:
		return "Courier"
	}
	return "Helvetica"
}

// Style tags an inline run. It maps onto a font.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
	StyleCode
)

func (s Style) Font() Font {
	switch s {
	case StyleBold:
		return FontHelveticaBold
	case StyleItalic:
		return FontHelveticaOblique
	case StyleBoldItalic:
		return FontHelveticaBoldOblique
	case StyleCode:
		return FontCourier
	}
	return FontHelvetica
}

// CharRelativeWidth returns the width class of a character relative to
// an average glyph.
func CharRelativeWidth(r rune) float64 {
	switch r {
	case 'i', 'l', 'I', '!', '|', '.', ',', ';', ':', '\'', '`':
		return 0.5
	case 'j', 'f', 't', 'r', 'J', '(', ')', '[', ']', '{', '}', '"':
		return 0.7
	case 'm', 'w':
		return 1.3
	case 'M', 'W':
		return 1.4
	case 'A', 'C', 'D', 'G', 'H', 'N', 'O', 'Q', 'U', 'V', 'X', 'Y', 'Z', '0':
		return 1.1
	}
	return 1.0
}

// MeasureText approximates the rendered width of text at the given font
// size in points. Courier is fixed-pitch so every character counts the
// same.
func MeasureText(text string, font Font, size float64) coords.Mm {
	if font == FontCourier {
		return coords.FromPoints(float64(utf8.RuneCountInString(text)) * size * 0.6)
	}
	factor := 0.52
	if font == FontHelveticaBold || font == FontHelveticaBoldOblique {
		factor = 0.55
	}
	var total float64
	for _, r := range text {
		total += CharRelativeWidth(r)
	}
	return coords.FromPoints(total * size * factor)
}

// Word is a whitespace-delimited token with its style and precomputed
// width. Widths are never recomputed after construction.
type Word struct {
	Text  string
	Style Style
	Width coords.Mm
	// Space is the width of one separator following this word.
	Space coords.Mm
}

// NewWord measures text once at construction.
func NewWord(text string, style Style, size float64) Word {
	font := style.Font()
	return Word{
		Text:  text,
		Style: style,
		Width: MeasureText(text, font, size),
		Space: MeasureText(" ", font, size),
	}
}

// Run is a styled inline text segment before word splitting.
type Run struct {
	Text  string
	Style Style
}

// WordsFromRuns splits runs on whitespace and measures each word.
func WordsFromRuns(runs []Run, size float64) []Word {
	var words []Word
	for _, run := range runs {
		for _, token := range strings.Fields(run.Text) {
			words = append(words, NewWord(token, run.Style, size))
		}
	}
	return words
}
