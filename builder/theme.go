package builder

import "sort"

// Color is an RGB triple in the 0..1 range.
type Color struct {
	R, G, B float64
}

// White is the default page background.
var White = Color{1, 1, 1}

// GradientDirection selects the axis of a linear gradient.
type GradientDirection int

const (
	TopToBottom GradientDirection = iota
	BottomToTop
	LeftToRight
	RightToLeft
	TopLeftToBottomRight
	TopRightToBottomLeft
	BottomLeftToTopRight
	BottomRightToTopLeft
)

// ParseGradientDirection maps a configuration string to a direction.
// Unrecognized values fall back to top-to-bottom.
func ParseGradientDirection(s string) GradientDirection {
	switch s {
	case "bottom-to-top":
		return BottomToTop
	case "left-to-right":
		return LeftToRight
	case "right-to-left":
		return RightToLeft
	case "top-left-to-bottom-right", "diagonal":
		return TopLeftToBottomRight
	case "top-right-to-bottom-left":
		return TopRightToBottomLeft
	case "bottom-left-to-top-right":
		return BottomLeftToTopRight
	case "bottom-right-to-top-left":
		return BottomRightToTopLeft
	}
	return TopToBottom
}

// BackgroundKind selects how a page background is painted.
type BackgroundKind int

const (
	BackgroundSolid BackgroundKind = iota
	BackgroundGradient
	BackgroundRadial
)

// Background describes a page background. Only the fields for the
// active kind are meaningful.
type Background struct {
	Kind  BackgroundKind
	Color Color // solid fill

	From, To  Color // gradient endpoints
	Direction GradientDirection

	Center, Edge     Color   // radial endpoints
	CenterX, CenterY float64 // 0..1 fraction of page width/height
	Radius           float64 // 0..1 fraction of the page diagonal
}

func Solid(c Color) Background {
	return Background{Kind: BackgroundSolid, Color: c}
}

func Gradient(from, to Color, dir GradientDirection) Background {
	return Background{Kind: BackgroundGradient, From: from, To: to, Direction: dir}
}

func Radial(center, edge Color, cx, cy, radius float64) Background {
	return Background{
		Kind: BackgroundRadial, Center: center, Edge: edge,
		CenterX: cx, CenterY: cy, Radius: radius,
	}
}

// Theme bundles a background with text and heading colors.
type Theme struct {
	Background Background
	Text       Color
	Heading    Color
}

// WithDirection overrides the gradient direction. Solid and radial
// backgrounds are returned unchanged.
func (t Theme) WithDirection(dir GradientDirection) Theme {
	if t.Background.Kind == BackgroundGradient {
		t.Background.Direction = dir
	}
	return t
}

var themes = map[string]Theme{
	"light": {
		Background: Solid(White),
		Text:       Color{0, 0, 0},
		Heading:    Color{0, 0, 0},
	},
	"dark": {
		Background: Solid(Color{0.1, 0.1, 0.1}),
		Text:       Color{0.9, 0.9, 0.9},
		Heading:    Color{1, 1, 1},
	},
	"blue": {
		Background: Solid(Color{0.1, 0.2, 0.3}),
		Text:       Color{0.9, 0.95, 1},
		Heading:    Color{0.4, 0.7, 1},
	},
	"gradient-blue": {
		Background: Gradient(Color{0.1, 0.2, 0.4}, Color{0.05, 0.1, 0.2}, TopToBottom),
		Text:       Color{0.9, 0.95, 1},
		Heading:    Color{0.5, 0.8, 1},
	},
	"gradient-purple": {
		Background: Gradient(Color{0.3, 0.1, 0.4}, Color{0.15, 0.05, 0.25}, TopToBottom),
		Text:       Color{0.95, 0.9, 1},
		Heading:    Color{0.8, 0.5, 1},
	},
	"gradient-sunset": {
		Background: Gradient(Color{0.4, 0.2, 0.3}, Color{0.2, 0.1, 0.2}, TopToBottom),
		Text:       Color{1, 0.95, 0.9},
		Heading:    Color{1, 0.8, 0.6},
	},
	"radial-spotlight": {
		Background: Radial(Color{0.2, 0.25, 0.3}, Color{0.05, 0.05, 0.1}, 0.5, 0.5, 0.8),
		Text:       Color{0.9, 0.95, 1},
		Heading:    Color{0.5, 0.8, 1},
	},
	"radial-vignette": {
		Background: Radial(Color{0.15, 0.15, 0.15}, Color{0, 0, 0}, 0.5, 0.5, 1),
		Text:       Color{0.95, 0.95, 0.95},
		Heading:    Color{1, 1, 1},
	},
	"radial-corner": {
		Background: Radial(Color{0.3, 0.2, 0.4}, Color{0.1, 0.05, 0.15}, 0, 1, 1.2),
		Text:       Color{0.95, 0.9, 1},
		Heading:    Color{0.8, 0.6, 1},
	},
}

// ThemeByName looks up a built-in theme. Unknown names return the
// light theme.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["light"]
}

// ThemeNames lists the built-in theme names sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
