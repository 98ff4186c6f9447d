// Package layout paginates report sections onto fixed-size pages.
//
// It does not draw anything. Compute turns sections into an ordered list
// of draw instructions that a document backend replays.
package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned by Geometry.Validate.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// Geometry is the fixed set of page measurements for one layout run.
// Units are whatever the backend uses; the defaults are millimetres.
type Geometry struct {
	Width  float64
	Height float64
	Margin float64 // left/right; text width is Width - 2*Margin

	HeaderHeight  float64 // band drawn at the top of every page
	TopMargin     float64 // gap between header band and first content
	FooterHeight  float64 // band drawn at the bottom of every page
	FooterReserve float64 // no line is placed below Height - FooterReserve

	LineHeight  float64
	TitleHeight float64 // advance after a section title
	BodyTail    float64 // advance after the last body line
	SectionGap  float64 // advance between sections

	PanelHeight  float64
	PanelAdvance float64
	KeepReserve  float64 // BreakIfLow starts a new page below Height - KeepReserve
}

// A4 returns the portrait A4 geometry of the analysis report.
func A4() Geometry {
	return Geometry{
		Width:         210,
		Height:        297,
		Margin:        20,
		HeaderHeight:  40,
		TopMargin:     15,
		FooterHeight:  20,
		FooterReserve: 40,
		LineHeight:    7,
		TitleHeight:   15,
		BodyTail:      5,
		SectionGap:    10,
		PanelHeight:   45,
		PanelAdvance:  55,
		KeepReserve:   80,
	}
}

// ContentTop is the cursor offset of a fresh page.
func (g Geometry) ContentTop() float64 { return g.HeaderHeight + g.TopMargin }

// TextWidth is the wrap width for body lines.
func (g Geometry) TextWidth() float64 { return g.Width - 2*g.Margin }

// Bottom is the lowest Y at which a line may still be placed.
func (g Geometry) Bottom() float64 { return g.Height - g.FooterReserve }

// Validate rejects geometries on which no line could be placed.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.LineHeight <= 0 {
		return fmt.Errorf("%w: width, height and line height must be positive", ErrInvalidGeometry)
	}
	if g.Margin < 0 || g.HeaderHeight < 0 || g.TopMargin < 0 || g.FooterHeight < 0 || g.FooterReserve < 0 {
		return fmt.Errorf("%w: negative band or margin", ErrInvalidGeometry)
	}
	if g.TextWidth() <= 0 {
		return fmt.Errorf("%w: margins leave no text width", ErrInvalidGeometry)
	}
	if g.FooterReserve < g.FooterHeight {
		return fmt.Errorf("%w: footer reserve %.1f smaller than footer band %.1f", ErrInvalidGeometry, g.FooterReserve, g.FooterHeight)
	}
	if g.ContentTop() > g.Bottom() {
		return fmt.Errorf("%w: header and footer leave no content area", ErrInvalidGeometry)
	}
	return nil
}
