package underlay

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  color.NRGBA
	}{
		{"long form red", "#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"short form red", "#F00", color.NRGBA{255, 0, 0, 255}},
		{"short equals long", "#ABC", color.NRGBA{0xAA, 0xBB, 0xCC, 255}},
		{"lowercase", "#ff8000", color.NRGBA{255, 128, 0, 255}},
		{"no hash", "00FF00", color.NRGBA{0, 255, 0, 255}},
		{"long with alpha", "#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{"short with alpha", "#123F", color.NRGBA{0x11, 0x22, 0x33, 0xFF}},
		{"white", "#FFFFFF", color.NRGBA{255, 255, 255, 255}},
		{"black", "#000000", color.NRGBA{0, 0, 0, 255}},
		{"not a color", "not-a-color", color.NRGBA{255, 255, 255, 255}},
		{"wrong length", "#FFFFF", color.NRGBA{255, 255, 255, 255}},
		{"bad digit", "#GG0000", color.NRGBA{255, 255, 255, 255}},
		{"empty", "", color.NRGBA{255, 255, 255, 255}},
		{"bare hash", "#", color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHex(tt.input); got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexShortFormsMatchLongForms(t *testing.T) {
	if ParseHex("#F00") != ParseHex("#FF0000") {
		t.Errorf("#F00 = %v, #FF0000 = %v", ParseHex("#F00"), ParseHex("#FF0000"))
	}
	if ParseHex("#F00F") != ParseHex("#FF0000FF") {
		t.Errorf("#F00F = %v, #FF0000FF = %v", ParseHex("#F00F"), ParseHex("#FF0000FF"))
	}
}

func TestWithOpacity(t *testing.T) {
	tests := []struct {
		name    string
		c       color.NRGBA
		opacity float64
		wantA   uint8
	}{
		{"full opacity is identity", color.NRGBA{10, 20, 30, 255}, 1.0, 255},
		{"half opacity truncates", color.NRGBA{10, 20, 30, 255}, 0.5, 127},
		{"zero opacity", color.NRGBA{10, 20, 30, 255}, 0, 0},
		{"scales existing alpha", color.NRGBA{10, 20, 30, 100}, 0.5, 50},
		{"clamps above one", color.NRGBA{10, 20, 30, 200}, 1.5, 200},
		{"clamps below zero", color.NRGBA{10, 20, 30, 200}, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithOpacity(tt.c, tt.opacity)
			if got.A != tt.wantA {
				t.Errorf("WithOpacity(%v, %v).A = %d, want %d", tt.c, tt.opacity, got.A, tt.wantA)
			}
			if got.R != tt.c.R || got.G != tt.c.G || got.B != tt.c.B {
				t.Errorf("WithOpacity changed RGB channels: %v -> %v", tt.c, got)
			}
		})
	}
}

// For every valid 6-digit hex color, parse then full-opacity application
// must be the identity on RGB and leave alpha at 255.
func TestParseThenFullOpacityIsIdentity(t *testing.T) {
	for _, hex := range []string{"#000000", "#123456", "#ABCDEF", "#FFFFFF", "#7F7F7F"} {
		c := WithOpacity(ParseHex(hex), 1.0)
		want := ParseHex(hex)
		if c != want || c.A != 255 {
			t.Errorf("identity violated for %s: got %v", hex, c)
		}
	}
}
