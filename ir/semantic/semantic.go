// Package semantic holds the document model the builder produces and the
// writer serializes. It is deliberately small: pages, resources, content
// streams, embedded files and the info dictionary.
package semantic

// Rectangle is a PDF rectangle in points, [llx lly urx ury].
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Document is a complete in-memory document ready for serialization.
type Document struct {
	Pages         []*Page
	Info          DocumentInfo
	EmbeddedFiles []*EmbeddedFile
}

// DocumentInfo populates the Info dictionary. Empty fields are omitted.
type DocumentInfo struct {
	Title   string
	Author  string
	Creator string
}

// Page is a single page with its own resource set.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  *ContentStream
}

// ContentStream carries already-encoded content operators.
type ContentStream struct {
	RawBytes []byte
}

// Resources lists only what the page's content stream actually uses.
type Resources struct {
	// Fonts maps resource names ("F0", "F1") to fonts.
	Fonts map[string]*Font
	// Shadings maps resource names ("Sh0", "Sh1") to shading patterns.
	Shadings map[string]*Shading
}

// Font is a standard Type1 base-14 font.
type Font struct {
	// BaseFont is the PostScript name, e.g. "Helvetica-Bold".
	BaseFont string
}

// ShadingKind selects the shading geometry.
type ShadingKind int

const (
	// ShadingAxial is ShadingType 2, a linear gradient along an axis.
	ShadingAxial ShadingKind = 2
	// ShadingRadial is ShadingType 3, concentric circles.
	ShadingRadial ShadingKind = 3
)

// Shading describes an axial or radial gradient with a two-color
// exponential interpolation function.
type Shading struct {
	Kind ShadingKind
	// Coords is [x0 y0 x1 y1] for axial, [x0 y0 r0 x1 y1 r1] for radial.
	Coords []float64
	// C0 and C1 are RGB endpoints in the 0..1 range.
	C0, C1 [3]float64
	Extend [2]bool
}

// EmbeddedFile is an attachment registered in the EmbeddedFiles name tree.
type EmbeddedFile struct {
	// Name is the key in the name tree and the filespec F entry.
	Name string
	// Subtype is a MIME type written as a name, e.g. "text/markdown".
	Subtype string
	// Data is the uncompressed payload; the writer compresses it.
	Data []byte
}
