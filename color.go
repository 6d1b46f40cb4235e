package underlay

import (
	"image/color"
)

// Common colors.
var (
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// ParseHex parses a hex color string into an 8-bit NRGBA color.
// Supported formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", each with an
// optional leading '#'. Short-form nibbles expand by duplication
// (0xF -> 0xFF). A missing alpha component defaults to fully opaque.
//
// Malformed input (wrong length, non-hex digit) is not an error: ParseHex
// falls back to opaque white. Style input is caller-supplied and often
// sloppy; a bad color must never fail a render.
func ParseHex(s string) color.NRGBA {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint8
	a := uint8(255)
	ok := true

	switch len(hex) {
	case 3: // RGB
		r, g, b = nibble(hex[0], &ok), nibble(hex[1], &ok), nibble(hex[2], &ok)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		r, g, b, a = nibble(hex[0], &ok), nibble(hex[1], &ok), nibble(hex[2], &ok), nibble(hex[3], &ok)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		r = nibble(hex[0], &ok)<<4 | nibble(hex[1], &ok)
		g = nibble(hex[2], &ok)<<4 | nibble(hex[3], &ok)
		b = nibble(hex[4], &ok)<<4 | nibble(hex[5], &ok)
	case 8: // RRGGBBAA
		r = nibble(hex[0], &ok)<<4 | nibble(hex[1], &ok)
		g = nibble(hex[2], &ok)<<4 | nibble(hex[3], &ok)
		b = nibble(hex[4], &ok)<<4 | nibble(hex[5], &ok)
		a = nibble(hex[6], &ok)<<4 | nibble(hex[7], &ok)
	default:
		ok = false
	}

	if !ok {
		Logger().Warn("malformed hex color, using white", "input", s)
		return White
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// nibble parses a single hex digit. On a non-hex byte it clears *ok and
// returns 0 so the caller can fall back in one place.
func nibble(c byte, ok *bool) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	*ok = false
	return 0
}

// WithOpacity returns c with its alpha channel scaled by opacity.
// Opacity is clamped to [0, 1]; the multiply truncates toward zero.
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}
