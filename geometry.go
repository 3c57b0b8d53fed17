package mergepdf

import (
	"math"
	"strings"
)

// PointsPerInch converts margins to PDF user space units.
const PointsPerInch = 72.0

// Size is a width/height pair in points.
type Size struct {
	Width  float64
	Height float64
}

// baseSizes holds portrait dimensions in points.
var baseSizes = map[string]Size{
	PageSizeLetter: {Width: 612, Height: 792},
	PageSizeLegal:  {Width: 612, Height: 1008},
	PageSizeA4:     {Width: 595, Height: 842},
}

// BaseSize returns the nominal page dimensions for a size class and orientation.
// Unknown size classes fall back to letter; landscape swaps the dimensions.
func BaseSize(pageSize, orientation string) Size {
	s, ok := baseSizes[strings.ToLower(pageSize)]
	if !ok {
		s = baseSizes[PageSizeLetter]
	}
	if strings.EqualFold(orientation, OrientationLandscape) {
		s.Width, s.Height = s.Height, s.Width
	}
	return s
}

// Rect is an axis-aligned rectangle in PDF user space (origin bottom-left).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Geometry is the resolved page layout of one run.
// Margin fields are in points.
type Geometry struct {
	Base         Size
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Content      Rect
}

// ResolveGeometry computes base size and content rectangle from cfg.
// Content dimensions may be negative when margins exceed the page.
func ResolveGeometry(cfg LayoutConfig) Geometry {
	base := BaseSize(cfg.PageSize, cfg.Orientation)
	g := Geometry{
		Base:         base,
		MarginTop:    cfg.Margins.Top * PointsPerInch,
		MarginRight:  cfg.Margins.Right * PointsPerInch,
		MarginBottom: cfg.Margins.Bottom * PointsPerInch,
		MarginLeft:   cfg.Margins.Left * PointsPerInch,
	}
	g.Content = Rect{
		X:      g.MarginLeft,
		Y:      g.MarginBottom,
		Width:  base.Width - g.MarginLeft - g.MarginRight,
		Height: base.Height - g.MarginTop - g.MarginBottom,
	}
	return g
}

// Placement is where an image lands on its page.
type Placement struct {
	Rect
	Scale float64
}

// FitImage scales an image of native size w x h into the content rectangle,
// never enlarging it, and centers it.
func (g Geometry) FitImage(w, h float64) Placement {
	scale := math.Min(math.Min(g.Content.Width/w, g.Content.Height/h), 1)
	sw, sh := w*scale, h*scale
	return Placement{
		Rect: Rect{
			X:      g.Content.X + (g.Content.Width-sw)/2,
			Y:      g.Content.Y + (g.Content.Height-sh)/2,
			Width:  sw,
			Height: sh,
		},
		Scale: scale,
	}
}
