package underlay

import (
	"encoding/json"
	"image"
	"math"

	"github.com/textforge/underlay/fonts"
)

// Anchor is the point a caller intends as the visual center of a rendered
// text block, in the CSS box-model convention of the front end. It is not
// the top-left glyph origin the rasterizer uses; ResolveOrigin converts
// between the two.
type Anchor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnmarshalJSON accepts both anchor shapes used on the wire: a keyed object
// {"x": 100, "y": 100} and a two-element array [100, 100]. Unrecognized
// shapes decode to (0, 0) rather than failing, matching the behavior the
// front end depends on; the condition is logged so it stays observable.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	type keyed struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	var k keyed
	if err := json.Unmarshal(data, &k); err == nil && k.X != nil && k.Y != nil {
		a.X, a.Y = *k.X, *k.Y
		return nil
	}

	var pair [2]int
	if err := json.Unmarshal(data, &pair); err == nil {
		a.X, a.Y = pair[0], pair[1]
		return nil
	}

	Logger().Warn("unrecognized anchor shape, using (0,0)", "input", string(data))
	a.X, a.Y = 0, 0
	return nil
}

// verticalAdjustmentFactor is a protocol constant calibrated against the
// front end's CSS text rendering. Changing it breaks visual parity with
// previews rendered in the browser.
const verticalAdjustmentFactor = 0.375

// ResolveOrigin converts an anchor into the top-left draw origin for text
// with the given metrics:
//
//	centeredX = anchor.X - width/2
//	centeredY = anchor.Y - height/2 - floor(height * 0.375)
func ResolveOrigin(a Anchor, m fonts.Metrics) image.Point {
	x := a.X - m.Width/2
	adjust := int(math.Floor(float64(m.Height) * verticalAdjustmentFactor))
	y := a.Y - m.Height/2 - adjust
	return image.Pt(x, y)
}
