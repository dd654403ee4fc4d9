package layout

import "github.com/mdkit/mdreport/coords"

// BreakLines partitions words into lines. Each returned index is an
// exclusive end-of-line boundary; the final boundary at len(words) is
// implied and not returned. Lines never exceed max except for a single
// word that is itself wider than max, which stands alone unhyphenated.
// The breaker is greedy: it fills toward ideal and breaks once a line
// reaches it, or earlier when the next word would no longer fit under
// max.
func BreakLines(words []Word, ideal, max coords.Mm) []int {
	var breaks []int
	var lineWidth coords.Mm
	onLine := 0
	for i, w := range words {
		added := w.Width
		if onLine > 0 {
			added += words[i-1].Space
		}
		if onLine > 0 && lineWidth+added > max {
			breaks = append(breaks, i)
			lineWidth = w.Width
			onLine = 1
			continue
		}
		lineWidth += added
		onLine++
		if lineWidth >= ideal && i+1 < len(words) {
			breaks = append(breaks, i+1)
			lineWidth = 0
			onLine = 0
		}
	}
	return breaks
}

// LineWidth sums word widths plus single-space separators.
func LineWidth(words []Word) coords.Mm {
	var total coords.Mm
	for i, w := range words {
		if i > 0 {
			total += words[i-1].Space
		}
		total += w.Width
	}
	return total
}
