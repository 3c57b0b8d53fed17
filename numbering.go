package mergepdf

import "strconv"

// Page stamp constants.
const (
	stampFontSize   = 12.0
	stampLeftInset  = 10.0
	stampRightInset = 20.0
	stampBaseInset  = 10.0
)

// stampBlack is the fill color of page stamps.
var stampBlack = Color{R: 0, G: 0, B: 0}

// StampPoint returns the text origin of a page stamp on a page of the given
// width. Margins come from g, so copied pages of any size share the same insets.
func StampPoint(position string, pageWidth float64, g Geometry) (x, y float64) {
	y = g.MarginBottom + stampBaseInset
	if position == PositionBottomRight {
		return pageWidth - g.MarginRight - stampRightInset, y
	}
	return g.MarginLeft + stampLeftInset, y
}

// pageNumberer stamps a run-wide counter on every emitted page.
// A nil *pageNumberer only counts.
type pageNumberer struct {
	position string
	geometry Geometry
}

// newPageNumberer returns nil when numbering is disabled.
func newPageNumberer(cfg *PageNumbers, g Geometry) *pageNumberer {
	if cfg == nil {
		return nil
	}
	return &pageNumberer{position: cfg.position(), geometry: g}
}

// stamp draws number on p. Safe to call on a nil receiver.
func (n *pageNumberer) stamp(p Page, number int) error {
	if n == nil {
		return nil
	}
	size := p.Size()
	x, y := StampPoint(n.position, size.Width, n.geometry)
	return p.DrawText(strconv.Itoa(number), x, y, stampFontSize, stampBlack)
}
