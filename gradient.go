package underlay

import (
	"image"
	"image/color"
	"sort"
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  color.NRGBA
}

// linearGradient is a linear color transition between two points, sampled
// per pixel. Offsets beyond the segment are padded with the edge colors.
type linearGradient struct {
	x0, y0 float64
	x1, y1 float64
	stops  []ColorStop
}

// newLinearGradient builds a gradient across rect along the given
// direction, with the colors spaced evenly.
func newLinearGradient(rect image.Rectangle, colors []color.NRGBA, dir GradientDirection) *linearGradient {
	g := &linearGradient{
		x0: float64(rect.Min.X), y0: float64(rect.Min.Y),
		stops: evenStops(colors),
	}
	switch dir {
	case GradientVertical:
		g.x1, g.y1 = float64(rect.Min.X), float64(rect.Max.Y)
	case GradientDiagonal:
		g.x1, g.y1 = float64(rect.Max.X), float64(rect.Max.Y)
	default: // horizontal
		g.x1, g.y1 = float64(rect.Max.X), float64(rect.Min.Y)
	}
	return g
}

// evenStops spreads colors evenly over [0, 1].
func evenStops(colors []color.NRGBA) []ColorStop {
	stops := make([]ColorStop, len(colors))
	for i, c := range colors {
		offset := 0.0
		if len(colors) > 1 {
			offset = float64(i) / float64(len(colors)-1)
		}
		stops[i] = ColorStop{Offset: offset, Color: c}
	}
	return stops
}

// colorAt returns the gradient color at the given point by projecting it
// onto the gradient line.
func (g *linearGradient) colorAt(x, y float64) color.NRGBA {
	dx := g.x1 - g.x0
	dy := g.y1 - g.y0
	lengthSq := dx*dx + dy*dy

	if lengthSq == 0 {
		return firstStopColor(g.stops)
	}

	// t = dot(P - Start, End - Start) / |End - Start|^2
	px := x - g.x0
	py := y - g.y0
	t := (px*dx + py*dy) / lengthSq

	return colorAtOffset(g.stops, t)
}

// firstStopColor returns the lowest-offset stop's color, or transparent if
// there are no stops.
func firstStopColor(stops []ColorStop) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	return sortStops(stops)[0].Color
}

// colorAtOffset interpolates the stop list at offset t, padding with the
// edge colors outside [0, 1].
func colorAtOffset(stops []ColorStop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	sorted := sortStops(stops)

	if t <= sorted[0].Offset {
		return sorted[0].Color
	}
	if t >= sorted[len(sorted)-1].Offset {
		return sorted[len(sorted)-1].Color
	}

	for i := 1; i < len(sorted); i++ {
		if t <= sorted[i].Offset {
			prev, next := sorted[i-1], sorted[i]
			span := next.Offset - prev.Offset
			if span == 0 {
				return next.Color
			}
			return lerpColor(prev.Color, next.Color, (t-prev.Offset)/span)
		}
	}
	return sorted[len(sorted)-1].Color
}

// sortStops returns the stops ordered by offset, without mutating the input.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// lerpColor linearly interpolates between two colors component-wise.
func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// gradientImage adapts a linearGradient to image.Image so it can serve as
// a draw source (the text mask or a background box picks pixels from it).
// A non-zero opacity scales sampled alpha; zero means fully opaque
// sampling (the zero value stays useful).
type gradientImage struct {
	g       *linearGradient
	bounds  image.Rectangle
	opacity float64
}

func (gi *gradientImage) ColorModel() color.Model { return color.NRGBAModel }
func (gi *gradientImage) Bounds() image.Rectangle { return gi.bounds }
func (gi *gradientImage) At(x, y int) color.Color {
	c := gi.g.colorAt(float64(x), float64(y))
	if gi.opacity > 0 && gi.opacity < 1 {
		c.A = uint8(float64(c.A) * gi.opacity)
	}
	return c
}
