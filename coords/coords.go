// Package coords provides the physical length unit used throughout the
// layout engine and its conversion to PDF user-space points.
package coords

// PointsPerMm is the fixed scale between millimeters and PDF points
// (1 inch = 25.4 mm = 72 points).
const PointsPerMm = 2.83465

// Mm is a distance in millimeters. Being a defined float type it supports
// the usual arithmetic operators directly; values are never mutated in
// place by the engine.
type Mm float64

// Points converts the length to PDF user-space points.
func (m Mm) Points() float64 { return float64(m) * PointsPerMm }

// FromPoints converts a length in PDF points back to millimeters.
func FromPoints(pt float64) Mm { return Mm(pt / PointsPerMm) }

// Point is a position on a page, in millimeters from the lower-left corner.
type Point struct {
	X, Y Mm
}
