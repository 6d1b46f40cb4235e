package underlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/textforge/underlay/fonts"
)

// Painter draws one filled copy of a string at a top-left origin. The
// default implementation rasterizes glyphs; tests inject counting painters
// to assert how many copies an effect issues.
type Painter interface {
	Paint(dst draw.Image, text string, x, y int, h *fonts.Handle, col color.NRGBA)
}

// glyphPainter is the production Painter. The draw origin is the top-left
// of the text box; the rasterizer wants a baseline dot, so the face ascent
// shifts the dot down.
type glyphPainter struct{}

func (glyphPainter) Paint(dst draw.Image, text string, x, y int, h *fonts.Handle, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: h.Face,
		Dot:  fixed.P(x, y+h.Ascent()),
	}
	d.DrawString(text)
}

// RendererOption configures a Renderer during creation.
type RendererOption func(*Renderer)

// WithPainter injects a custom glyph painter. Used by tests to count
// issued draws without rasterizing.
func WithPainter(p Painter) RendererOption {
	return func(r *Renderer) { r.painter = p }
}

// Renderer applies layered text effects to a draw surface. It is stateless
// across calls and safe for concurrent use as long as each call owns its
// destination surface and font handle.
type Renderer struct {
	painter Painter
}

// NewRenderer creates a Renderer with the default glyph painter.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{painter: glyphPainter{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws text at the anchor-corrected origin with the given base
// color and effect. A nil effect draws plain text. Effect layers always
// render before the base text so the base stays crisp on top.
func (r *Renderer) Render(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e Effect) {
	switch e := e.(type) {
	case nil:
		r.paint(dst, text, origin.X, origin.Y, h, base)
	case Shadow:
		r.renderShadow(dst, text, origin, h, base, e)
	case Outline:
		r.renderOutline(dst, text, origin, h, base, e)
	case Glow:
		r.renderGlow(dst, text, origin, h, base, e)
	case Depth3D:
		r.renderDepth3D(dst, text, origin, h, base, e)
	case TextGradient:
		r.renderTextGradient(dst, text, origin, h, e)
	case BackgroundGradient:
		r.renderBackgroundGradient(dst, text, origin, h, base, e)
	default:
		// Unknown concrete types cannot occur through DecodeEffect, but a
		// caller-constructed oddity still gets a usable render.
		r.paint(dst, text, origin.X, origin.Y, h, base)
	}
}

func (r *Renderer) paint(dst draw.Image, text string, x, y int, h *fonts.Handle, col color.NRGBA) {
	r.painter.Paint(dst, text, x, y, h, col)
}

func (r *Renderer) renderShadow(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e Shadow) {
	col := effectColor(e.Color, e.Opacity)
	sx, sy := origin.X+e.Offset.X, origin.Y+e.Offset.Y

	if e.Blur > 0 {
		// The shadow renders into its own layer so the blur touches only
		// it; the base text goes on after compositing.
		scratch := image.NewNRGBA(dst.Bounds())
		r.paint(scratch, text, sx, sy, h, col)
		blurred := blur.Gaussian(scratch, float64(e.Blur))
		draw.Draw(dst, dst.Bounds(), blurred, dst.Bounds().Min, draw.Over)
	} else {
		r.paint(dst, text, sx, sy, h, col)
	}

	r.paint(dst, text, origin.X, origin.Y, h, base)
}

func (r *Renderer) renderOutline(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e Outline) {
	col := effectColor(e.Color, e.Opacity)
	for dx := -e.Width; dx <= e.Width; dx++ {
		for dy := -e.Width; dy <= e.Width; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			r.paint(dst, text, origin.X+dx, origin.Y+dy, h, col)
		}
	}
	r.paint(dst, text, origin.X, origin.Y, h, base)
}

func (r *Renderer) renderGlow(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e Glow) {
	// Concentric rings of fading copies, 12 points per ring. Capped at 20
	// rings; past that the extra draws stop being visible.
	steps := min(e.Radius, 20)
	for i := 1; i <= steps; i++ {
		currentRadius := float64(i) / float64(steps) * float64(e.Radius)
		currentOpacity := e.Opacity * (1 - float64(i)/float64(steps))
		col := effectColor(e.Color, currentOpacity)

		for angle := 0; angle < 360; angle += 30 {
			rad := float64(angle) * math.Pi / 180
			dx := int(currentRadius * math.Cos(rad))
			dy := int(currentRadius * math.Sin(rad))
			r.paint(dst, text, origin.X+dx, origin.Y+dy, h, col)
		}
	}
	r.paint(dst, text, origin.X, origin.Y, h, base)
}

func (r *Renderer) renderDepth3D(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e Depth3D) {
	if e.Layers > 0 && len(e.Gradient) > 0 {
		rad := e.Angle * math.Pi / 180
		dx := math.Cos(rad) * e.Distance
		dy := math.Sin(rad) * e.Distance

		// Back to front: the largest layer index is farthest away, so
		// nearer layers occlude it.
		for layer := e.Layers; layer >= 1; layer-- {
			idx := min(int(float64(layer)/float64(e.Layers)*float64(len(e.Gradient)-1)), len(e.Gradient)-1)
			x := origin.X - int(float64(layer)*dx)
			y := origin.Y - int(float64(layer)*dy)
			r.paint(dst, text, x, y, h, e.Gradient[idx])
		}
	}
	r.paint(dst, text, origin.X, origin.Y, h, base)
}

func (r *Renderer) renderTextGradient(dst draw.Image, text string, origin image.Point, h *fonts.Handle, e TextGradient) {
	m := fonts.Measure(h, text)
	rect := textRect(origin, m)

	// The text is its own mask: render it opaque into a scratch layer,
	// then pull pixels from the gradient through that alpha.
	scratch := image.NewNRGBA(dst.Bounds())
	r.paint(scratch, text, origin.X, origin.Y, h, White)

	grad := &gradientImage{g: newLinearGradient(rect, e.Colors, e.Direction), bounds: dst.Bounds()}
	draw.DrawMask(dst, dst.Bounds(), grad, dst.Bounds().Min, scratch, scratch.Bounds().Min, draw.Over)
}

func (r *Renderer) renderBackgroundGradient(dst draw.Image, text string, origin image.Point, h *fonts.Handle, base color.NRGBA, e BackgroundGradient) {
	m := fonts.Measure(h, text)
	box := textRect(origin, m).Inset(-e.Padding)

	grad := &gradientImage{
		g:       newLinearGradient(box, e.Colors, e.Direction),
		bounds:  box,
		opacity: e.Opacity,
	}
	draw.Draw(dst, box.Intersect(dst.Bounds()), grad, box.Min, draw.Over)

	r.paint(dst, text, origin.X, origin.Y, h, base)
}

// textRect is the visually inked box for text drawn at origin.
func textRect(origin image.Point, m fonts.Metrics) image.Rectangle {
	return image.Rect(
		origin.X+m.Left,
		origin.Y+m.Top,
		origin.X+m.Left+m.Width,
		origin.Y+m.Top+m.Height,
	)
}

// effectColor applies an effect opacity to its color. Effect opacities
// replace the alpha channel outright (alpha = 255*opacity), matching the
// calibrated front-end rendering.
func effectColor(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(255 * clamp01(opacity))
	return c
}
