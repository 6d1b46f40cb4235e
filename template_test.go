package underlay

import (
	"image"
	"image/color"
	"testing"
)

func TestTemplateSize(t *testing.T) {
	tests := []struct {
		template string
		want     Size
	}{
		{"instagram_post", Size{1080, 1080}},
		{"instagram_story", Size{1080, 1920}},
		{"facebook_post", Size{1200, 630}},
		{"twitter_post", Size{1600, 900}},
		{"linkedin_post", Size{1200, 627}},
		{"youtube_thumbnail", Size{1280, 720}},
		{"tiktok_video", Size{1080, 1920}},
		{"unknown", Size{1080, 1080}},
		{"", Size{1080, 1080}},
	}
	for _, tt := range tests {
		if got := TemplateSize(tt.template); got != tt.want {
			t.Errorf("TemplateSize(%q) = %+v, want %+v", tt.template, got, tt.want)
		}
	}
}

func TestRenderTemplateCentersAndFits(t *testing.T) {
	c := testCompositor(t)
	bg := color.NRGBA{240, 240, 240, 255}
	fg := solidImage(200, 100, color.NRGBA{200, 30, 30, 255})

	canvas := c.RenderTemplate(fg, bg, "youtube_thumbnail", 10)
	if canvas.Bounds().Dx() != 1280 || canvas.Bounds().Dy() != 720 {
		t.Fatalf("canvas = %v", canvas.Bounds())
	}

	// Padding is 10% of the short edge (72px). The 2:1 cutout fills the
	// available width first, so the corners stay background-colored and
	// the center holds the cutout.
	if got := canvas.NRGBAAt(5, 5); got != bg {
		t.Errorf("corner = %v, want background fill", got)
	}
	if got := canvas.NRGBAAt(640, 360); got.R < 150 || got.G > 80 {
		t.Errorf("center = %v, want the cutout", got)
	}
}

func TestRenderTemplateKeepsAspectRatio(t *testing.T) {
	c := testCompositor(t)
	fg := solidImage(100, 100, color.NRGBA{0, 0, 255, 255})

	// Square cutout on a square canvas with 20% padding: the scaled box is
	// 1080-2*216 = 648 wide, centered at 216..864.
	canvas := c.RenderTemplate(fg, White, "instagram_post", 20)

	if got := canvas.NRGBAAt(540, 540); got.B < 200 {
		t.Errorf("center = %v, want the cutout", got)
	}
	if got := canvas.NRGBAAt(100, 540); got != White {
		t.Errorf("left gutter = %v, want white", got)
	}
	if got := canvas.NRGBAAt(540, 100); got != White {
		t.Errorf("top gutter = %v, want white", got)
	}
}

func TestRenderTemplateDegenerateInputs(t *testing.T) {
	c := testCompositor(t)
	bg := color.NRGBA{9, 9, 9, 255}

	// Empty cutout: solid canvas only.
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	canvas := c.RenderTemplate(empty, bg, "facebook_post", 10)
	if got := canvas.NRGBAAt(600, 315); got != bg {
		t.Errorf("canvas with empty cutout = %v, want solid fill", got)
	}

	// Padding so large nothing fits: solid canvas only.
	fg := solidImage(50, 50, White)
	canvas = c.RenderTemplate(fg, bg, "instagram_post", 60)
	if got := canvas.NRGBAAt(540, 540); got != bg {
		t.Errorf("over-padded canvas = %v, want solid fill", got)
	}
}
