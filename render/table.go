package render

import (
	"github.com/mdkit/mdreport/builder"
	"github.com/mdkit/mdreport/coords"
	"github.com/mdkit/mdreport/layout"
)

const (
	tableIndent    = coords.Mm(5)
	columnSpacing  = coords.Mm(5)
	tableFontSize  = 10
	codeCellWeight = 1.5
)

// tableCell is one cell's inline runs before layout.
type tableCell []layout.Run

// cellWeight counts a cell's characters for column sizing. Code runs
// weigh more because the monospace font is wider.
func cellWeight(cell tableCell) int {
	total := 0
	for _, run := range cell {
		if run.Style == layout.StyleCode {
			total += int(float64(len(run.Text)) * codeCellWeight)
		} else {
			total += len(run.Text)
		}
	}
	return total
}

// renderTable sizes columns by weighted character counts and lays rows
// out cell by cell, aligning each row to its tallest cell.
func renderTable(b *builder.DocBuilder, rows [][]tableCell) {
	if len(rows) == 0 {
		return
	}
	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return
	}

	colWeights := make([]int, numCols)
	for _, row := range rows {
		for i, cell := range row {
			if w := cellWeight(cell); w > colWeights[i] {
				colWeights[i] = w
			}
		}
	}

	available := b.RightMargin() - b.LeftMargin() - 2*tableIndent
	usable := available - columnSpacing*coords.Mm(numCols-1)

	totalWeight := 0
	for _, w := range colWeights {
		totalWeight += w
	}
	colWidths := make([]coords.Mm, numCols)
	for i, w := range colWeights {
		if totalWeight > 0 {
			colWidths[i] = usable * coords.Mm(float64(w)/float64(totalWeight))
		} else {
			colWidths[i] = usable / coords.Mm(numCols)
		}
	}

	for _, row := range rows {
		b.CheckPageBreak(b.LineHeight() * 1.5)

		rowStart := b.Cursor()
		var maxHeight coords.Mm

		x := b.LeftMargin() + tableIndent
		for i, cell := range row {
			b.SetCursor(rowStart)
			words := layout.WordsFromRuns(cell, tableFontSize)
			height := b.WriteWrappedCell(words, x, tableFontSize, colWidths[i])
			if height > maxHeight {
				maxHeight = height
			}
			x += colWidths[i] + columnSpacing
		}
		// next row starts under the tallest cell
		b.SetCursor(rowStart - maxHeight)
	}
	b.MoveDown(b.LineHeight() * 0.5)
}
