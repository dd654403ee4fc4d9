package render

import (
	"github.com/mdkit/mdreport/builder"
	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/highlight"
	"github.com/mdkit/mdreport/layout"
	"github.com/mdkit/mdreport/markdown"
)

const (
	codeIndent   = coords.Mm(5)
	codeFontSize = 10
)

// renderCodeBlock paginates one code block line by line, coloring each
// line through the highlighter. An info string carrying a filename gets
// a monospace header line above the block.
func renderCodeBlock(b *builder.DocBuilder, info markdown.CodeBlockInfo, lines []string, style string) {
	if len(lines) == 0 {
		return
	}
	b.MoveDown(b.LineHeight() * 0.5)

	x := b.LeftMargin() + codeIndent
	if info.Filename != "" {
		b.CheckPageBreak(b.LineHeight() * 2)
		b.WriteTextAt(info.Filename, layout.FontCourier, codeFontSize, x, b.Cursor())
		b.MoveDown(b.LineHeight() * 1.5)
	}

	hl := highlight.New(info.Language, style)
	for _, line := range lines {
		b.CheckPageBreak(b.LineHeight())
		b.WriteColoredRuns(coloredRuns(hl.HighlightLine(line)), x, codeFontSize)
		b.MoveDown(b.LineHeight() * 0.8)
	}
	b.MoveDown(b.LineHeight() * 0.75)
}

func coloredRuns(spans []highlight.Span) []builder.ColoredRun {
	runs := make([]builder.ColoredRun, 0, len(spans))
	for _, s := range spans {
		runs = append(runs, builder.ColoredRun{
			Color: builder.Color{
				R: float64(s.Color.R) / 255,
				G: float64(s.Color.G) / 255,
				B: float64(s.Color.B) / 255,
			},
			Text: s.Text,
		})
	}
	return runs
}
