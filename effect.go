package underlay

import (
	"encoding/json"
	"image"
	"image/color"
)

// Effect is a visual treatment applied to rendered text beyond a flat fill.
// It is a sealed union: the concrete types are Shadow, Outline, Glow,
// Depth3D, TextGradient, and BackgroundGradient. A nil Effect renders plain
// text.
//
// Wire payloads are resolved into this union exactly once, by DecodeEffect;
// the renderer never re-inspects dynamic shapes.
type Effect interface {
	effect()
}

// Shadow draws the text once more behind itself, offset and translucent.
// Blur > 0 applies a Gaussian blur to the shadow layer only; the base text
// is never blurred.
type Shadow struct {
	Offset  image.Point
	Color   color.NRGBA
	Opacity float64
	Blur    int
}

// Outline draws the text at every integer offset in [-Width,+Width]^2
// except the center, then the base text on top. Cost grows as O(Width^2)
// glyph draws; typical UI widths (<= 5) keep this cheap.
type Outline struct {
	Width   int
	Color   color.NRGBA
	Opacity float64
}

// Glow surrounds the text with concentric rings of fading copies.
type Glow struct {
	Color   color.NRGBA
	Radius  int
	Opacity float64
}

// Depth3D extrudes the text along an angle, drawing back-to-front layers
// colored from a gradient list so nearer layers occlude farther ones.
type Depth3D struct {
	Layers   int
	Angle    float64 // degrees
	Distance float64
	Gradient []color.NRGBA
}

// GradientDirection selects the axis of a gradient fill.
type GradientDirection int

const (
	GradientHorizontal GradientDirection = iota
	GradientVertical
	GradientDiagonal
)

// TextGradient fills the glyphs themselves with a color ramp, the text
// acting as its own mask.
type TextGradient struct {
	Colors    []color.NRGBA
	Direction GradientDirection
}

// BackgroundGradient draws a padded gradient box behind the text before
// the base text is rendered on top of it.
type BackgroundGradient struct {
	Colors    []color.NRGBA
	Direction GradientDirection
	Padding   int
	Opacity   float64
}

func (Shadow) effect()             {}
func (Outline) effect()            {}
func (Glow) effect()               {}
func (Depth3D) effect()            {}
func (TextGradient) effect()       {}
func (BackgroundGradient) effect() {}

// DefaultShadow is the stock drop shadow applied to dramatic text when the
// caller supplies no effect.
func DefaultShadow() Shadow {
	return Shadow{Offset: image.Pt(5, 5), Color: Black, Opacity: 0.5, Blur: 3}
}

// wireEffect is the tagged wire shape: {"type": "...", "settings": {...}}.
type wireEffect struct {
	Type     string          `json:"type"`
	Settings json.RawMessage `json:"settings"`
}

// legacyEffect is the back-compat shape without a type tag; only a shadow
// block was ever supported there.
type legacyEffect struct {
	Shadow *struct {
		Offset []int  `json:"offset"`
		Color  string `json:"color"`
	} `json:"shadow"`
}

// DecodeEffect resolves a wire effect payload into the Effect union.
//
// It accepts the tagged format, the legacy untagged shadow format, and
// returns nil (plain rendering) for empty, malformed, or unknown payloads.
// One bad effect spec must never fail a whole render. Out-of-range
// parameters are clamped: opacity into [0,1], negative sizes to zero.
func DecodeEffect(raw json.RawMessage) Effect {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var w wireEffect
	if err := json.Unmarshal(raw, &w); err != nil {
		Logger().Warn("malformed effect payload, rendering plain", "error", err)
		return nil
	}
	if w.Type == "" {
		return decodeLegacy(raw)
	}

	switch w.Type {
	case "shadow":
		return decodeShadow(w.Settings)
	case "outline":
		return decodeOutline(w.Settings)
	case "glow":
		return decodeGlow(w.Settings)
	case "3d_depth":
		return decodeDepth3D(w.Settings)
	case "text_gradient":
		return decodeTextGradient(w.Settings)
	case "background_gradient":
		return decodeBackgroundGradient(w.Settings)
	default:
		Logger().Warn("unknown effect type, rendering plain", "type", w.Type)
		return nil
	}
}

func decodeLegacy(raw json.RawMessage) Effect {
	var l legacyEffect
	if err := json.Unmarshal(raw, &l); err != nil || l.Shadow == nil {
		return nil
	}
	s := Shadow{Offset: image.Pt(5, 5), Color: Black, Opacity: 1}
	if len(l.Shadow.Offset) >= 2 {
		s.Offset = image.Pt(l.Shadow.Offset[0], l.Shadow.Offset[1])
	}
	if l.Shadow.Color != "" {
		s.Color = ParseHex(l.Shadow.Color)
	}
	return s
}

func decodeShadow(settings json.RawMessage) Effect {
	w := struct {
		Offset  []int    `json:"offset"`
		Color   *string  `json:"color"`
		Opacity *float64 `json:"opacity"`
		Blur    *int     `json:"blur"`
	}{}
	unmarshalSettings(settings, &w)

	s := DefaultShadow()
	if len(w.Offset) >= 2 {
		s.Offset = image.Pt(w.Offset[0], w.Offset[1])
	}
	if w.Color != nil {
		s.Color = ParseHex(*w.Color)
	}
	if w.Opacity != nil {
		s.Opacity = clamp01(*w.Opacity)
	}
	if w.Blur != nil {
		s.Blur = max(*w.Blur, 0)
	}
	return s
}

func decodeOutline(settings json.RawMessage) Effect {
	w := struct {
		Width   *int     `json:"width"`
		Color   *string  `json:"color"`
		Opacity *float64 `json:"opacity"`
	}{}
	unmarshalSettings(settings, &w)

	o := Outline{Width: 2, Color: Black, Opacity: 1}
	if w.Width != nil {
		o.Width = max(*w.Width, 0)
	}
	if w.Color != nil {
		o.Color = ParseHex(*w.Color)
	}
	if w.Opacity != nil {
		o.Opacity = clamp01(*w.Opacity)
	}
	return o
}

func decodeGlow(settings json.RawMessage) Effect {
	w := struct {
		Color   *string  `json:"color"`
		Radius  *int     `json:"radius"`
		Opacity *float64 `json:"opacity"`
	}{}
	unmarshalSettings(settings, &w)

	g := Glow{Color: White, Radius: 10, Opacity: 0.7}
	if w.Color != nil {
		g.Color = ParseHex(*w.Color)
	}
	if w.Radius != nil {
		g.Radius = max(*w.Radius, 0)
	}
	if w.Opacity != nil {
		g.Opacity = clamp01(*w.Opacity)
	}
	return g
}

func decodeDepth3D(settings json.RawMessage) Effect {
	w := struct {
		Layers   *int     `json:"layers"`
		Angle    *float64 `json:"angle"`
		Distance *float64 `json:"distance"`
		Gradient []string `json:"color_gradient"`
	}{}
	unmarshalSettings(settings, &w)

	d := Depth3D{
		Layers:   10,
		Angle:    45,
		Distance: 2,
		Gradient: []color.NRGBA{ParseHex("#333333"), ParseHex("#666666"), ParseHex("#999999")},
	}
	if w.Layers != nil {
		d.Layers = max(*w.Layers, 0)
	}
	if w.Angle != nil {
		d.Angle = *w.Angle
	}
	if w.Distance != nil {
		d.Distance = *w.Distance
	}
	if len(w.Gradient) > 0 {
		d.Gradient = parseHexList(w.Gradient)
	}
	return d
}

func decodeTextGradient(settings json.RawMessage) Effect {
	w := struct {
		Colors    []string `json:"colors"`
		Direction *string  `json:"direction"`
	}{}
	unmarshalSettings(settings, &w)

	t := TextGradient{
		Colors: []color.NRGBA{
			ParseHex("#FF0000"), ParseHex("#FFFF00"), ParseHex("#00FF00"),
			ParseHex("#00FFFF"), ParseHex("#0000FF"), ParseHex("#FF00FF"),
		},
		Direction: GradientHorizontal,
	}
	if len(w.Colors) > 0 {
		t.Colors = parseHexList(w.Colors)
	}
	if w.Direction != nil {
		t.Direction = parseDirection(*w.Direction)
	}
	return t
}

func decodeBackgroundGradient(settings json.RawMessage) Effect {
	w := struct {
		Colors    []string `json:"colors"`
		Direction *string  `json:"direction"`
		Padding   *int     `json:"padding"`
		Opacity   *float64 `json:"opacity"`
	}{}
	unmarshalSettings(settings, &w)

	b := BackgroundGradient{
		Colors:    []color.NRGBA{ParseHex("#FF000088"), ParseHex("#0000FF88")},
		Direction: GradientVertical,
		Padding:   10,
		Opacity:   0.7,
	}
	if len(w.Colors) > 0 {
		b.Colors = parseHexList(w.Colors)
	}
	if w.Direction != nil {
		b.Direction = parseDirection(*w.Direction)
	}
	if w.Padding != nil {
		b.Padding = max(*w.Padding, 0)
	}
	if w.Opacity != nil {
		b.Opacity = clamp01(*w.Opacity)
	}
	return b
}

// unmarshalSettings tolerates missing or malformed settings blocks; the
// caller's defaults then stand.
func unmarshalSettings(settings json.RawMessage, v any) {
	if len(settings) == 0 {
		return
	}
	if err := json.Unmarshal(settings, v); err != nil {
		Logger().Warn("malformed effect settings, using defaults", "error", err)
	}
}

func parseHexList(hexes []string) []color.NRGBA {
	colors := make([]color.NRGBA, len(hexes))
	for i, h := range hexes {
		colors[i] = ParseHex(h)
	}
	return colors
}

func parseDirection(s string) GradientDirection {
	switch s {
	case "vertical":
		return GradientVertical
	case "diagonal":
		return GradientDiagonal
	default:
		return GradientHorizontal
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
