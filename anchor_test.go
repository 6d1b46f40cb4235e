package underlay

import (
	"encoding/json"
	"image"
	"math"
	"testing"

	"github.com/textforge/underlay/fonts"
)

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		name   string
		anchor Anchor
		m      fonts.Metrics
	}{
		{"spec example", Anchor{X: 100, Y: 100}, fonts.Metrics{Width: 40, Height: 20}},
		{"zero metrics", Anchor{X: 50, Y: 50}, fonts.Metrics{}},
		{"odd dimensions", Anchor{X: 33, Y: 77}, fonts.Metrics{Width: 15, Height: 9}},
		{"origin anchor", Anchor{}, fonts.Metrics{Width: 100, Height: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Pin against the formula, not remembered constants.
			wantX := tt.anchor.X - tt.m.Width/2
			adjust := int(math.Floor(float64(tt.m.Height) * 0.375))
			wantY := tt.anchor.Y - tt.m.Height/2 - adjust

			got := ResolveOrigin(tt.anchor, tt.m)
			if got != image.Pt(wantX, wantY) {
				t.Errorf("ResolveOrigin(%+v, %+v) = %v, want (%d, %d)",
					tt.anchor, tt.m, got, wantX, wantY)
			}
		})
	}
}

func TestResolveOriginSpecValues(t *testing.T) {
	got := ResolveOrigin(Anchor{X: 100, Y: 100}, fonts.Metrics{Width: 40, Height: 20})
	// centeredX = 100 - 40/2 = 80
	// verticalAdjustment = floor(20 * 0.375) = 7
	// centeredY = 100 - 20/2 - 7 = 83
	if got.X != 80 || got.Y != 83 {
		t.Errorf("ResolveOrigin = %v, want (80, 83)", got)
	}
}

func TestAnchorUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Anchor
	}{
		{"keyed object", `{"x": 120, "y": 45}`, Anchor{X: 120, Y: 45}},
		{"array pair", `[120, 45]`, Anchor{X: 120, Y: 45}},
		{"negative values", `{"x": -10, "y": -20}`, Anchor{X: -10, Y: -20}},
		{"missing y defaults", `{"x": 5}`, Anchor{}},
		{"string defaults", `"center"`, Anchor{}},
		{"empty object defaults", `{}`, Anchor{}},
		{"extra elements discarded", `[1, 2, 3]`, Anchor{X: 1, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Anchor
			if err := json.Unmarshal([]byte(tt.input), &a); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if a != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, a, tt.want)
			}
		})
	}
}
