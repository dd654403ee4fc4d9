package builder

import (
	"fmt"
	"math"

	"github.com/mdkit/mdreport/contentstream"
	"github.com/mdkit/mdreport/ir/semantic"
)

// drawBackground paints the theme background onto the current page.
// A white solid background draws nothing.
func (b *DocBuilder) drawBackground() {
	bg := b.theme.Background
	switch bg.Kind {
	case BackgroundSolid:
		if bg.Color == White {
			return
		}
		b.push(contentstream.Op("q"))
		b.pushFillColor(bg.Color)
		b.push(contentstream.Op("re",
			contentstream.Number(0), contentstream.Number(0),
			contentstream.Number(b.pageWidth.Points()),
			contentstream.Number(b.pageHeight.Points())))
		b.push(contentstream.Op("f"))
		b.push(contentstream.Op("Q"))
	case BackgroundGradient:
		b.drawGradient(bg.From, bg.To, bg.Direction)
	case BackgroundRadial:
		b.drawRadial(bg.Center, bg.Edge, bg.CenterX, bg.CenterY, bg.Radius)
	}
}

// drawGradient paints an axial gradient across the whole page. Shadings
// are deduplicated by signature: the same gradient on many pages shares
// one shading object and one resource name.
func (b *DocBuilder) drawGradient(from, to Color, dir GradientDirection) {
	sig := fmt.Sprintf("axial/%v/%v/%d", from, to, dir)
	name := b.ensureShading(sig, func() *semantic.Shading {
		x0, y0, x1, y1 := b.gradientAxis(dir)
		return &semantic.Shading{
			Kind:   semantic.ShadingAxial,
			Coords: []float64{x0, y0, x1, y1},
			C0:     [3]float64{from.R, from.G, from.B},
			C1:     [3]float64{to.R, to.G, to.B},
			Extend: [2]bool{true, true},
		}
	})
	b.push(contentstream.Op("sh", contentstream.Name(name)))
}

// gradientAxis maps a direction to the axial start and end points in
// page space.
func (b *DocBuilder) gradientAxis(dir GradientDirection) (x0, y0, x1, y1 float64) {
	w := b.pageWidth.Points()
	h := b.pageHeight.Points()
	switch dir {
	case TopToBottom:
		return 0, h, 0, 0
	case BottomToTop:
		return 0, 0, 0, h
	case LeftToRight:
		return 0, 0, w, 0
	case RightToLeft:
		return w, 0, 0, 0
	case TopLeftToBottomRight:
		return 0, h, w, 0
	case TopRightToBottomLeft:
		return w, h, 0, 0
	case BottomLeftToTopRight:
		return 0, 0, w, h
	case BottomRightToTopLeft:
		return w, 0, 0, h
	}
	return 0, h, 0, 0
}

// drawRadial paints a radial gradient centered at a fractional page
// position, with the radius scaled by the page diagonal.
func (b *DocBuilder) drawRadial(center, edge Color, cx, cy, radius float64) {
	sig := fmt.Sprintf("radial/%v/%v/%g/%g/%g", center, edge, cx, cy, radius)
	name := b.ensureShading(sig, func() *semantic.Shading {
		w := b.pageWidth.Points()
		h := b.pageHeight.Points()
		px := w * cx
		py := h * cy
		r := math.Hypot(w, h) * radius
		return &semantic.Shading{
			Kind:   semantic.ShadingRadial,
			Coords: []float64{px, py, 0, px, py, r},
			C0:     [3]float64{center.R, center.G, center.B},
			C1:     [3]float64{edge.R, edge.G, edge.B},
			Extend: [2]bool{true, true},
		}
	})
	b.push(contentstream.Op("sh", contentstream.Name(name)))
}

// ensureShading returns the stable resource name for a shading
// signature, building the shading object on first use. The name is
// assigned once at registration and marks the shading used on the
// current page.
func (b *DocBuilder) ensureShading(sig string, build func() *semantic.Shading) string {
	entry, ok := b.shadings[sig]
	if !ok {
		entry = &shadingEntry{
			name: fmt.Sprintf("Sh%d", len(b.shadings)+1),
			obj:  build(),
		}
		b.shadings[sig] = entry
	}
	b.pageShadings[entry.name] = entry.obj
	return entry.name
}
