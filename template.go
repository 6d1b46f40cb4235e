package underlay

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// templateSizes are the canvas dimensions for the supported social media
// formats.
var templateSizes = map[string]Size{
	"instagram_post":    {Width: 1080, Height: 1080},
	"instagram_story":   {Width: 1080, Height: 1920},
	"facebook_post":     {Width: 1200, Height: 630},
	"twitter_post":      {Width: 1600, Height: 900},
	"linkedin_post":     {Width: 1200, Height: 627},
	"youtube_thumbnail": {Width: 1280, Height: 720},
	"tiktok_video":      {Width: 1080, Height: 1920},
}

// TemplateSize returns the canvas dimensions for a named social media
// template, defaulting to a 1080 square for unknown names.
func TemplateSize(template string) Size {
	if s, ok := templateSizes[template]; ok {
		return s
	}
	return Size{Width: 1080, Height: 1080}
}

// RenderTemplate places a subject cutout on a solid-color social media
// canvas. The cutout is scaled to fit inside the canvas minus padding
// (padPercent of the short edge on each side), keeping its aspect ratio,
// and centered.
func (c *Compositor) RenderTemplate(foreground image.Image, bg color.NRGBA, template string, padPercent int) *image.NRGBA {
	size := TemplateSize(template)
	canvas := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	fb := foreground.Bounds()
	if fb.Dx() == 0 || fb.Dy() == 0 {
		return canvas
	}

	pad := min(size.Width, size.Height) * padPercent / 100
	availW := size.Width - 2*pad
	availH := size.Height - 2*pad
	if availW <= 0 || availH <= 0 {
		return canvas
	}

	// Fit the cutout into the available box, constrained by whichever
	// axis runs out first.
	aspect := float64(fb.Dx()) / float64(fb.Dy())
	var newW, newH int
	if float64(availW)/float64(availH) > aspect {
		newH = availH
		newW = int(float64(newH) * aspect)
	} else {
		newW = availW
		newH = int(float64(newW) / aspect)
	}

	x := (size.Width - newW) / 2
	y := (size.Height - newH) / 2
	target := image.Rect(x, y, x+newW, y+newH)
	xdraw.CatmullRom.Scale(canvas, target, foreground, fb, xdraw.Over, nil)

	return canvas
}
