package underlay

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/textforge/underlay/fonts"
)

// Style describes how one text layer is filled and decorated.
type Style struct {
	Font   string
	Size   int
	Color  color.NRGBA
	Effect Effect
}

// DefaultStyle returns the stock style: Anton at 120pt, opaque white,
// no effect.
func DefaultStyle() Style {
	return Style{Font: "anton", Size: 120, Color: White}
}

// UnmarshalJSON decodes the wire style shape. Missing or malformed fields
// fall back to defaults; style input never fails a render.
func (s *Style) UnmarshalJSON(data []byte) error {
	*s = DefaultStyle()

	w := struct {
		Font    string          `json:"font_name"`
		Size    *int            `json:"font_size"`
		Color   *string         `json:"color"`
		Effects json.RawMessage `json:"effects"`
	}{}
	if err := json.Unmarshal(data, &w); err != nil {
		Logger().Warn("malformed style, using defaults", "error", err)
		return nil
	}

	if w.Font != "" {
		s.Font = w.Font
	}
	if w.Size != nil && *w.Size > 0 {
		s.Size = *w.Size
	}
	if w.Color != nil {
		s.Color = ParseHex(*w.Color)
	}
	s.Effect = DecodeEffect(w.Effects)
	return nil
}

// TextLayer is one piece of text to composite. Layers are immutable once
// constructed; a render pass consumes a slice of them in order, later
// layers drawing on top of earlier ones.
type TextLayer struct {
	Text   string `json:"text"`
	Anchor Anchor `json:"position"`
	Style  Style  `json:"style"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RenderInfo reports where and how large a single text layer rendered.
// Position echoes the caller's anchor unchanged so the front end can keep
// its own coordinates.
type RenderInfo struct {
	TextSize  Size   `json:"text_size"`
	Position  Anchor `json:"position"`
	ImageSize Size   `json:"image_size"`
}

// CompositorOption configures a Compositor during creation.
type CompositorOption func(*Compositor)

// WithRenderer injects a custom effect renderer.
func WithRenderer(r *Renderer) CompositorOption {
	return func(c *Compositor) { c.renderer = r }
}

// Compositor renders text layers onto backgrounds and composites subject
// cutouts back on top. Each render call owns its canvas exclusively;
// a single Compositor may serve concurrent calls because the resolver
// cache is read-safe and canvases are never shared.
type Compositor struct {
	fonts    *fonts.Resolver
	renderer *Renderer
}

// NewCompositor creates a Compositor using the given font resolver.
func NewCompositor(resolver *fonts.Resolver, opts ...CompositorOption) *Compositor {
	c := &Compositor{
		fonts:    resolver,
		renderer: NewRenderer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newCanvas copies src into a fresh zero-origin NRGBA buffer, converting
// alpha-less sources along the way.
func newCanvas(src image.Image) *image.NRGBA {
	b := src.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
	return canvas
}

// RenderLayers renders the layers onto a copy of background, in slice
// order. Layers share the one canvas and may occlude each other; an empty
// slice returns a pixel-identical copy of the background.
func (c *Compositor) RenderLayers(background image.Image, layers []TextLayer) *image.NRGBA {
	canvas := newCanvas(background)
	for i := range layers {
		c.renderLayer(canvas, &layers[i])
	}
	return canvas
}

// AddText renders a single layer onto a copy of background and reports the
// measured text box and canvas size.
func (c *Compositor) AddText(background image.Image, layer TextLayer) (*image.NRGBA, RenderInfo) {
	canvas := newCanvas(background)
	m := c.renderLayer(canvas, &layer)
	return canvas, RenderInfo{
		TextSize:  Size{Width: m.Width, Height: m.Height},
		Position:  layer.Anchor,
		ImageSize: Size{Width: canvas.Bounds().Dx(), Height: canvas.Bounds().Dy()},
	}
}

func (c *Compositor) renderLayer(canvas *image.NRGBA, layer *TextLayer) fonts.Metrics {
	// Fill unset style fields so hand-constructed layers behave like
	// decoded ones. A zero color means "unset", not transparent text.
	style := layer.Style
	if style.Font == "" {
		style.Font = DefaultStyle().Font
	}
	if style.Size <= 0 {
		style.Size = DefaultStyle().Size
	}
	if style.Color == (color.NRGBA{}) {
		style.Color = White
	}

	h := c.fonts.Resolve(style.Font, float64(style.Size))
	m := fonts.Measure(h, layer.Text)
	origin := ResolveOrigin(layer.Anchor, m)

	Logger().Debug("rendering text layer",
		"text", layer.Text, "font", h.Name, "size", style.Size,
		"anchor_x", layer.Anchor.X, "anchor_y", layer.Anchor.Y,
		"origin_x", origin.X, "origin_y", origin.Y,
		"width", m.Width, "height", m.Height)

	c.renderer.Render(canvas, layer.Text, origin, h, style.Color, style.Effect)
	return m
}

// ComposeFinal overlays the foreground cutout on the background-with-text.
// The foreground is resampled (Catmull-Rom) to the background dimensions
// when they differ, then composited with the standard "over" operator.
// Results do not depend on whether the inputs came from files, URLs, or
// bytes.
func (c *Compositor) ComposeFinal(background, foreground image.Image) *image.NRGBA {
	canvas := newCanvas(background)

	fb := foreground.Bounds()
	if fb.Dx() != canvas.Bounds().Dx() || fb.Dy() != canvas.Bounds().Dy() {
		resized := image.NewNRGBA(canvas.Bounds())
		xdraw.CatmullRom.Scale(resized, resized.Bounds(), foreground, fb, xdraw.Src, nil)
		foreground = resized
	}

	draw.Draw(canvas, canvas.Bounds(), foreground, foreground.Bounds().Min, draw.Over)
	return canvas
}
