package fonts

import (
	"golang.org/x/image/font"
)

// Metrics describes the tight visual extents of a rendered string.
//
// Width and Height come from the rasterizer's tight bounding box, not the
// advance width: centering math depends on what is visibly inked. Left and
// Top are the bbox origin offsets relative to a draw-at-origin rendering
// (Top measured down from the ascender line), because some glyphs ink
// outside the notional origin and that shifts true visual centering.
type Metrics struct {
	Width  int
	Height int
	Left   int
	Top    int

	// Ascent is the face ascent in pixels. The renderer uses it to convert
	// a top-left draw origin into a baseline dot.
	Ascent int
}

// Measure computes tight metrics for text rendered with h.
func Measure(h *Handle, text string) Metrics {
	ascent := h.Ascent()
	if text == "" {
		return Metrics{Ascent: ascent}
	}

	bounds, _ := font.BoundString(h.Face, text)
	return Metrics{
		Width:  (bounds.Max.X - bounds.Min.X).Ceil(),
		Height: (bounds.Max.Y - bounds.Min.Y).Ceil(),
		Left:   bounds.Min.X.Floor(),
		Top:    ascent + bounds.Min.Y.Floor(),
		Ascent: ascent,
	}
}
